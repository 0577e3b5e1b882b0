package chat

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotConfigured is returned when chat credentials are missing.
var ErrNotConfigured = errors.New("chat service not configured")

// TokenIssuer signs client tokens for the chat service.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// UserToken returns a token the chat client uses to connect as userID.
func (i *TokenIssuer) UserToken(userID uint) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNotConfigured
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": strconv.FormatUint(uint64(userID), 10),
	}).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign chat user token: %w", err)
	}
	return token, nil
}
