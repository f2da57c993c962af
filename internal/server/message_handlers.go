package server

import (
	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage delivers a direct message and pushes it to the recipient's
// live connection when they are subscribed.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	recipientID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.UserContext(), service.SendMessageInput{
		SenderID:    currentUserID(c),
		RecipientID: recipientID,
		Body:        req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishEvent(c.UserContext(), notifications.NewMessageEvent(recipientID, message))

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetConversations lists the authenticated user's inbox.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.messageService.GetConversations(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetConversation returns the exchange with one peer and marks it read.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	peerID, err := parseID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	limit, offset := parsePagination(c)
	messages, err := s.messageService.GetConversation(c.UserContext(), currentUserID(c), peerID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}
