package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPublicProfile handles GET /api/users/profile/:username
// @Summary Public profile
// @Description User, profile, offered skills, average rating and the latest requests the user provides
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/profile/{username} [get]
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	view, err := s.profileService.GetPublicProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// UpdateMyProfile handles PUT /api/users/me/profile
// @Summary Edit own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me/profile [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var in service.ProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.UpdateOwnProfile(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserRating handles GET /api/users/:username/rating
// @Summary Average rating
// @Description Recomputed on every call; 0 when the user has no reviews
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.RatingSummary
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/rating [get]
func (s *Server) GetUserRating(c *fiber.Ctx) error {
	summary, err := s.reviewService.RatingFor(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// ListProfiles handles GET /api/profiles
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	profiles, err := s.profileService.ListProfiles(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.profileService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// CreateProfile handles POST /api/profiles. The profile always belongs to
// the caller; a second one is a conflict.
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var in service.ProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.CreateProfile(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// UpdateProfile handles PUT and PATCH /api/profiles/:id
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	current, err := s.profileService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	// PATCH keeps fields the body leaves out.
	in := service.ProfileInput{Bio: current.Bio, Location: current.Location}
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), userID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
