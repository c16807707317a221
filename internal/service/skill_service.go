package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// SkillService manages the skills users offer.
type SkillService struct {
	skillRepo repository.SkillRepository
}

// NewSkillService returns a new SkillService.
func NewSkillService(skillRepo repository.SkillRepository) *SkillService {
	return &SkillService{skillRepo: skillRepo}
}

func (s *SkillService) ListMine(ctx context.Context, userID uint) ([]models.Skill, error) {
	return s.skillRepo.ListByOwner(ctx, userID)
}

func (s *SkillService) List(ctx context.Context, limit, offset int) ([]models.Skill, error) {
	return s.skillRepo.List(ctx, limit, offset)
}

func (s *SkillService) Get(ctx context.Context, id uint) (*models.Skill, error) {
	return s.skillRepo.GetByID(ctx, id)
}

// Create publishes a new skill owned by userID.
func (s *SkillService) Create(ctx context.Context, userID uint, in SkillInput) (*models.Skill, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	skill := &models.Skill{UserID: userID, Name: in.Name, Description: in.Description}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Update edits skill id; only its owner may do so.
func (s *SkillService) Update(ctx context.Context, actorID, id uint, in SkillInput) (*models.Skill, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	skill, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	skill.Name = in.Name
	skill.Description = in.Description
	if err := s.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete removes skill id; only its owner may do so. Requests for the skill
// go with it.
func (s *SkillService) Delete(ctx context.Context, actorID, id uint) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	return s.skillRepo.Delete(ctx, id)
}

// Catalog lists the skills userID may request: everything offered by
// other users. preselect is echoed back only when it names one of them.
func (s *SkillService) Catalog(ctx context.Context, userID uint, preselect uint) (*SkillCatalog, error) {
	skills, err := s.skillRepo.ListExcludingOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog := &SkillCatalog{Skills: skills}
	for i := range skills {
		if preselect != 0 && skills[i].ID == preselect {
			id := preselect
			catalog.Selected = &id
			break
		}
	}
	return catalog, nil
}

func (s *SkillService) owned(ctx context.Context, actorID, id uint) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.UserID != actorID {
		return nil, models.NewForbiddenError("You can only modify your own skills")
	}
	return skill, nil
}
