package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetOrCreateForUser(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return nil, wrapFind(err, "Profile", id)
	}
	return &profile, nil
}

// GetOrCreateForUser returns the user's profile, inserting an empty one on
// first access. Concurrent first accesses converge on the same row.
func (r *profileRepository) GetOrCreateForUser(ctx context.Context, userID uint) (*models.Profile, error) {
	db := r.db.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Profile{UserID: userID}).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, wrapFind(err, "Profile", userID)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("profile already exists for this user")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Model(profile).
		Select("bio", "location").
		Updates(map[string]interface{}{"bio": profile.Bio, "location": profile.Location}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Preload("User").
		Order("id ASC").Limit(limit).Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
