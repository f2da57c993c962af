package server

import (
	"cirqls/internal/content"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
)

func feedInput(c *fiber.Ctx, viewerID uint) service.FeedInput {
	limit, _ := parsePagination(c)
	return service.FeedInput{
		ViewerID: viewerID,
		Mode:     content.ParseFeedMode(c.Query("sort")),
		Limit:    limit,
	}
}

// GetHomeFeed returns the ranked feed of posts from the viewer's communities.
func (s *Server) GetHomeFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.HomeFeed(c.UserContext(), feedInput(c, currentUserID(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": feed})
}

// GetExploreFeed returns the global ranked feed. Anonymous viewers get
// neutral reaction summaries.
func (s *Server) GetExploreFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.ExploreFeed(c.UserContext(), feedInput(c, s.optionalUserID(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": feed})
}

// GetCommunityFeed returns the ranked feed for one community.
func (s *Server) GetCommunityFeed(c *fiber.Ctx) error {
	community, err := s.communityService.GetCommunity(c.UserContext(), c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}

	feed, err := s.feedService.CommunityFeed(c.UserContext(), community.ID, feedInput(c, s.optionalUserID(c)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"community": community, "posts": feed})
}
