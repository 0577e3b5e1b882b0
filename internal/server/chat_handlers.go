package server

import (
	"errors"

	"talknest/internal/chat"
	"talknest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetChatToken handles GET /chat/token
func (s *Server) GetChatToken(c *fiber.Ctx) error {
	token, err := s.chatTokens.UserToken(currentUserID(c))
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
				Error: "Chat is not configured",
			})
		}
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"token": token})
}
