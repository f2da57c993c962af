package server

import (
	"cirqls/internal/models"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	ProfilePicSrc string `json:"profile_pic_src"`
}

// GetMyProfile returns the authenticated user's account.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, models.NewUpstreamError("users", err))
	}
	return c.JSON(user)
}

// GetMyFlags returns the feature flags evaluated for the authenticated
// user, so client rollouts match what the backend will actually serve.
func (s *Server) GetMyFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.flags.Snapshot(currentUserID(c))})
}

// UpdateMyProfile updates the authenticated user's profile.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:        currentUserID(c),
		ProfilePicSrc: req.ProfilePicSrc,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile returns a public user profile by username.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts lists a user's posts by username.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	posts, err := s.userService.GetUserPosts(c.UserContext(), c.Params("username"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// FollowUser subscribes the viewer to another user's activity.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followedID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.userService.Follow(c.UserContext(), currentUserID(c), followedID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Following"})
}

// UnfollowUser removes a follow.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followedID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.userService.Unfollow(c.UserContext(), currentUserID(c), followedID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetMyFollowers lists the users following the viewer.
func (s *Server) GetMyFollowers(c *fiber.Ctx) error {
	followers, err := s.userService.GetFollowers(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"followers": followers})
}

// RemoveMyFollower drops a user from the viewer's follower list.
func (s *Server) RemoveMyFollower(c *fiber.Ctx) error {
	followerID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.userService.RemoveFollower(c.UserContext(), currentUserID(c), followerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Follower removed"})
}
