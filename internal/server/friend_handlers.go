package server

import (
	"talknest/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sendRequestBody struct {
	Recipient   flexID `json:"recipient"`
	RecipientID flexID `json:"recipientId"`
}

type requestIDBody struct {
	RequestID flexID `json:"requestId"`
}

type friendIDBody struct {
	FriendID flexID `json:"friendId"`
}

// SendFriendRequest handles POST /friends/send-request
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var body sendRequestBody
	if err := parseBody(c, &body); err != nil {
		return models.RespondWithAppError(c, err)
	}
	recipientID := uint(body.Recipient)
	if recipientID == 0 {
		recipientID = uint(body.RecipientID)
	}

	req, err := s.friendService.SendRequest(c.UserContext(), currentUserID(c), recipientID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Friend request sent",
		"request": req,
	})
}

// AcceptFriendRequest handles POST /friends/accept
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	var body requestIDBody
	if err := parseBody(c, &body); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if _, err := s.friendService.AcceptRequest(c.UserContext(), currentUserID(c), uint(body.RequestID)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// RejectFriendRequest handles POST /friends/reject. The sender uses it to
// cancel, the recipient to decline.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	var body requestIDBody
	if err := parseBody(c, &body); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.friendService.RejectOrCancel(c.UserContext(), currentUserID(c), uint(body.RequestID)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// RemoveFriend handles POST /friends/remove
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	var body friendIDBody
	if err := parseBody(c, &body); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.friendService.RemoveFriend(c.UserContext(), currentUserID(c), uint(body.FriendID)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetIncomingRequests handles GET /friends/incoming
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	views, err := s.friendService.ListIncoming(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(views)
}

// GetOutgoingRequests handles GET /friends/outgoing
func (s *Server) GetOutgoingRequests(c *fiber.Ctx) error {
	views, err := s.friendService.ListOutgoing(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(views)
}

// GetFriends handles GET /friends?search=
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.ListFriends(c.UserContext(), currentUserID(c), c.Query("search"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(friends)
}

// GetFriendshipStatus handles GET /friends/status/:userId
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	otherID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	state, requestID, err := s.friendService.FriendshipStatus(c.UserContext(), currentUserID(c), otherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	resp := fiber.Map{"status": state}
	if requestID != 0 {
		resp["request_id"] = requestID
	}
	return c.JSON(resp)
}
