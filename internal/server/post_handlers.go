package server

import (
	"cirqls/internal/models"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	CommunityID uint   `json:"community_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaSrc    string `json:"media_src"`
}

// CreatePost handles post creation in a community.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      currentUserID(c),
		CommunityID: req.CommunityID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		MediaSrc:    req.MediaSrc,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns one post as a composed summary.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	summary, err := s.postService.GetPost(c.UserContext(), postID, s.optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// DeletePost removes a post; allowed for the author or a community moderator.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// SavePost bookmarks a post for the authenticated user.
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.postService.SavePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post saved"})
}

// UnsavePost removes a bookmark.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.postService.UnsavePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unsaved"})
}

// GetSavedPosts lists the authenticated user's bookmarks.
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.postService.GetSavedPosts(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
