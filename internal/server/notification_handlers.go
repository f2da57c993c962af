package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the user's unread messages and unread comments on
// their posts, newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	result, err := s.notificationService.GetNotifications(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": result})
}

// MarkNotificationsRead marks comment notifications on the user's posts read.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	if err := s.commentService.MarkRead(c.UserContext(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifications read"})
}
