package server

import (
	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reactionRequest struct {
	Type string `json:"type"`
}

// ReactToPost toggles the viewer's reaction on a post and returns the fresh
// aggregate.
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.reactionService.ReactToPost(c.UserContext(), service.ReactInput{
		UserID:   currentUserID(c),
		TargetID: postID,
		Type:     req.Type,
	})
	if err != nil {
		return respondError(c, err)
	}

	if result.AuthorID != 0 {
		s.publishEvent(c.UserContext(), notifications.NewNotificationEvent(
			result.AuthorID, notifications.KindReaction, fiber.Map{
				"post_id":   postID,
				"type":      req.Type,
				"reactions": result.Summary,
			}))
	}

	return c.JSON(result.Summary)
}

// ReactToComment toggles the viewer's reaction on a comment.
func (s *Server) ReactToComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	result, err := s.reactionService.ReactToComment(c.UserContext(), service.ReactInput{
		UserID:   currentUserID(c),
		TargetID: commentID,
		Type:     req.Type,
	})
	if err != nil {
		return respondError(c, err)
	}

	if result.AuthorID != 0 {
		s.publishEvent(c.UserContext(), notifications.NewNotificationEvent(
			result.AuthorID, notifications.KindReaction, fiber.Map{
				"comment_id": commentID,
				"type":       req.Type,
				"reactions":  result.Summary,
			}))
	}

	return c.JSON(result.Summary)
}
