package server

import (
	"strings"

	"skillswap/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET / and GET /api/feed
// @Summary Service request feed
// @Description Requests newest first, each with the provider's average rating. q matches skill name, description, provider username, provider location or requester username, ignoring case.
// @Tags feed
// @Produce json
// @Param q query string false "Search term"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} object{services=[]models.ServiceRequest,q=string}
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))

	fq := repository.FeedQuery{Q: q}
	// Paging is opt-in; without a limit the whole feed is returned.
	if c.Query("limit") != "" {
		page := parsePagination(c, maxPaginationLimit)
		fq.Limit, fq.Offset = page.Limit, page.Offset
	}

	services, err := s.requestService.Feed(c.UserContext(), fq)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"services": services,
		"q":        q,
	})
}
