package server

import (
	"github.com/gofiber/fiber/v2"
)

// Search returns users, communities and posts matching the query.
func (s *Server) Search(c *fiber.Ctx) error {
	results, err := s.searchService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
