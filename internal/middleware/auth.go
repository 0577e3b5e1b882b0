// Package middleware provides authentication, logging and request
// plumbing for the Fiber app.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"talknest/internal/models"
	"talknest/internal/observability"
	"talknest/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionAuthenticator resolves a session token to the acting user.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *session.Claims, error)
}

// SessionToken returns the token from the jwt cookie, falling back to an
// Authorization: Bearer header.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(session.CookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionRequired rejects requests without a valid session and stores the
// actor in c.Locals("userID"), c.Locals("user") and c.Locals("claims").
func SessionRequired(auth SessionAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := auth.Authenticate(c.UserContext(), SessionToken(c))
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeUnauthenticated {
				observability.AuthFailures.WithLabelValues(appErr.Reason).Inc()
			} else {
				Logger.ErrorContext(c.UserContext(), "session authentication failed", slog.String("error", err.Error()))
			}
			return models.RespondWithAppError(c, err)
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.Locals("claims", claims)
		c.SetUserContext(WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}
