package server

import (
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListMySkills handles GET /api/skills/mine
// @Summary Own skills
// @Tags skills
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Skill
// @Router /skills/mine [get]
func (s *Server) ListMySkills(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	skills, err := s.skillService.ListMine(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}

// ListSkills handles GET /api/skills
func (s *Server) ListSkills(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	skills, err := s.skillService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skills)
}

// GetSkill handles GET /api/skills/:id
func (s *Server) GetSkill(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.skillService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skill)
}

// CreateSkill handles POST /api/skills
// @Summary Offer a skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SkillInput true "Skill"
// @Success 201 {object} models.Skill
// @Failure 400 {object} models.ErrorResponse
// @Router /skills [post]
func (s *Server) CreateSkill(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var in service.SkillInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	skill, err := s.skillService.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// UpdateSkill handles PUT and PATCH /api/skills/:id
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	current, err := s.skillService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	in := service.SkillInput{Name: current.Name, Description: current.Description}
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	skill, err := s.skillService.Update(c.UserContext(), userID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(skill)
}

// DeleteSkill handles DELETE /api/skills/:id
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.skillService.Delete(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
