package service

import "skillswap/internal/models"

// ProfileInput carries editable profile fields.
type ProfileInput struct {
	Bio      string `json:"bio"`
	Location string `json:"location" validate:"max=150"`
}

// SkillInput carries editable skill fields.
type SkillInput struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

// CreateRequestInput is the body of a new service request. OfferedSkillID
// may be filled from the skill query parameter by the handler.
type CreateRequestInput struct {
	OfferedSkillID uint   `json:"offered_skill" validate:"required"`
	Description    string `json:"description" validate:"required"`
}

// ReviewInput is the body of a new review.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment"`
}

// SkillCatalog lists the skills a user may request, with an optional
// pre-selected entry.
type SkillCatalog struct {
	Skills   []models.Skill `json:"skills"`
	Selected *uint          `json:"selected_skill,omitempty"`
}
