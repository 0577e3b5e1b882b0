// Package chat mirrors identities into the external chat service.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"talknest/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// User is the identity shape the chat service stores.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// FromModel maps an identity to its chat user.
func FromModel(u *models.User) User {
	return User{
		ID:    strconv.FormatUint(uint64(u.ID), 10),
		Name:  u.FullName,
		Image: u.ProfilePic,
	}
}

// Bridge creates or updates a remote chat identity.
type Bridge interface {
	UpsertUser(ctx context.Context, user User) error
}

// NoopBridge is used when no chat credentials are configured.
type NoopBridge struct{}

func (NoopBridge) UpsertUser(context.Context, User) error { return nil }

// StreamBridge talks to a Stream-compatible chat REST API.
type StreamBridge struct {
	baseURL string
	apiKey  string
	secret  []byte
	timeout time.Duration
}

// NewStreamBridge returns a bridge posting to baseURL.
func NewStreamBridge(baseURL, apiKey, secret string, timeout time.Duration) *StreamBridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StreamBridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		secret:  []byte(secret),
		timeout: timeout,
	}
}

// NewBridge returns a StreamBridge when credentials are set, NoopBridge otherwise.
func NewBridge(baseURL, apiKey, secret string, timeout time.Duration) Bridge {
	if apiKey == "" || secret == "" {
		return NoopBridge{}
	}
	return NewStreamBridge(baseURL, apiKey, secret, timeout)
}

type upsertRequest struct {
	Users map[string]User `json:"users"`
}

// UpsertUser posts the user to /users. Any non-2xx answer is an error.
func (b *StreamBridge) UpsertUser(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.ID == "" {
		return errors.New("chat user id is required")
	}

	token, err := b.serverToken()
	if err != nil {
		return err
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(b.baseURL + "/users")
	agent.QueryString("api_key=" + b.apiKey)
	agent.Set(fiber.HeaderAuthorization, token)
	agent.Set("Stream-Auth-Type", "jwt")
	agent.JSON(upsertRequest{Users: map[string]User{user.ID: user}})
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("chat upsert request: %w", errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("chat upsert failed: status %d: %s", status, truncate(body, 200))
	}

	var ack map[string]json.RawMessage
	if len(body) > 0 && json.Unmarshal(body, &ack) != nil {
		return fmt.Errorf("chat upsert: unexpected response body")
	}
	return nil
}

func (b *StreamBridge) serverToken() (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true}).SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("sign chat server token: %w", err)
	}
	return token, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
