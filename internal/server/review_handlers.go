package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/requests/:id/review
// @Summary Review the provider of a completed request
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request id"
// @Param request body service.ReviewInput true "Rating 1..5 and comment"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /requests/{id}/review [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	review, err := s.reviewService.Create(c.UserContext(), userID, id, in)
	if err != nil {
		return respondError(c, err)
	}

	s.publishUserEvent(c.UserContext(), review.ReviewedUserID, EventReviewReceived, map[string]interface{}{
		"request_id": review.ServiceRequestID,
		"review_id":  review.ID,
		"rating":     review.Rating,
	})

	return c.Status(fiber.StatusCreated).JSON(review)
}
