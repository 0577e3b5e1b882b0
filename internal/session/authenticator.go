package session

import (
	"context"
	"log/slog"
	"time"

	"talknest/internal/models"
)

// UserLookup resolves a token subject to an identity.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Revocations stores revoked token ids.
type Revocations interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator turns a presented token into the acting user.
type Authenticator struct {
	tokens      *Manager
	users       UserLookup
	revocations Revocations
	logger      *slog.Logger
}

// NewAuthenticator wires a Manager to the identity store. revocations may be nil.
func NewAuthenticator(tokens *Manager, users UserLookup, revocations Revocations) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revocations: revocations, logger: slog.Default()}
}

// WithLogger sets the logger used for revocation store failures.
func (a *Authenticator) WithLogger(l *slog.Logger) *Authenticator {
	if l != nil {
		a.logger = l
	}
	return a
}

// Tokens exposes the underlying Manager for issuing sessions.
func (a *Authenticator) Tokens() *Manager {
	return a.tokens
}

// Authenticate verifies token, rejects revoked ids and loads the subject.
// The returned user never carries a credential hash.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.User, *Claims, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, nil, err
	}

	if a.revocations != nil && claims.ID != "" {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail open
			a.logger.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
		} else if revoked {
			return nil, nil, models.NewUnauthenticatedError(models.ReasonTokenRevoked, "Unauthorized - Token revoked", nil)
		}
	}

	userID, _ := claims.UserID()
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil, models.NewUnauthenticatedError(models.ReasonSubjectNotFound, "Unauthorized - User not found", err)
		}
		return nil, nil, err
	}

	user.Password = ""
	return user, claims, nil
}

// Revoke records the token id until the token would have expired anyway.
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	if a.revocations == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.Remaining(a.tokens.Now())
	if ttl <= 0 {
		return nil
	}
	return a.revocations.Revoke(ctx, claims.ID, ttl)
}
