package server

import (
	"log/slog"
	"time"

	"talknest/internal/middleware"
	"talknest/internal/models"
	"talknest/internal/service"
	"talknest/internal/session"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.authService.CookieTTL().Seconds()),
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

// Signup handles POST /auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, sess, err := s.authService.Signup(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Login handles POST /auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, sess, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.setSessionCookie(c, sess.Token, sess.ExpiresAt)
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Logout handles POST /auth/logout. It always clears the cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), middleware.SessionToken(c)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revocation failed", slog.String("error", err.Error()))
	}

	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Onboard handles POST /auth/onboarding
func (s *Server) Onboard(c *fiber.Ctx) error {
	var req service.OnboardInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.Onboard(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Me handles GET /auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    currentUser(c),
	})
}
