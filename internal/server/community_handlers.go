package server

import (
	"cirqls/internal/models"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommunityRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// CreateCommunity creates a community; the creator becomes its first member
// and moderator.
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	var req createCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.CreateCommunity(c.UserContext(), service.CreateCommunityInput{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

// GetCommunities lists communities.
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	communities, err := s.communityService.ListCommunities(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// GetCommunity returns one community by name.
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	community, err := s.communityService.GetCommunity(c.UserContext(), c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(community)
}

type updateCommunityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LogoSrc     string `json:"logo_src"`
}

// UpdateCommunity edits a community's presentation fields. Moderators only.
func (s *Server) UpdateCommunity(c *fiber.Ctx) error {
	communityID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req updateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.UpdateCommunity(c.UserContext(), service.UpdateCommunityInput{
		UserID:      currentUserID(c),
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		LogoSrc:     req.LogoSrc,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(community)
}

// JoinCommunity adds the authenticated user as a member.
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	communityID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.communityService.Join(c.UserContext(), communityID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Joined community"})
}

// LeaveCommunity removes the authenticated user's membership.
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	communityID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.communityService.Leave(c.UserContext(), communityID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left community"})
}
