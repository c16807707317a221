package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SkillRepository defines the interface for skill data operations
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uint) (*models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Skill, error)
	ListByOwner(ctx context.Context, userID uint) ([]models.Skill, error)
	ListExcludingOwner(ctx context.Context, userID uint) ([]models.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Preload("User").First(&skill, id).Error; err != nil {
		return nil, wrapFind(err, "Skill", id)
	}
	return &skill, nil
}

func (r *skillRepository) Update(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Where("id = ?", skill.ID).
		Updates(map[string]interface{}{"name": skill.Name, "description": skill.Description}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Skill{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) List(ctx context.Context, limit, offset int) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Preload("User").
		Order("id ASC").Limit(limit).Offset(offset).
		Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) ListByOwner(ctx context.Context, userID uint) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("name ASC, id ASC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

// ListExcludingOwner returns every skill offered by someone other than userID.
func (r *skillRepository) ListExcludingOwner(ctx context.Context, userID uint) ([]models.Skill, error) {
	var skills []models.Skill
	if err := r.db.WithContext(ctx).Preload("User").
		Where("user_id <> ?", userID).
		Order("name ASC, id ASC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}
