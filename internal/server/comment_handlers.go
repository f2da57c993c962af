package server

import (
	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	ParentID *uint  `json:"parent_comment_id"`
	Message  string `json:"message"`
}

// CreateComment adds a comment (or reply) to a post and pushes a
// notification to the post's author.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   userID,
		PostID:   postID,
		ParentID: req.ParentID,
		Message:  req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	if post, err := s.postRepo.GetByID(c.UserContext(), postID); err == nil && post.UserID != userID {
		s.publishEvent(c.UserContext(), notifications.NewNotificationEvent(
			post.UserID, notifications.KindComment, comment))
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns the nested comment tree for a post.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	thread, err := s.commentService.GetThread(c.UserContext(), postID, s.optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": thread})
}

// DeleteComment removes a comment; allowed for its author or the post author.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
