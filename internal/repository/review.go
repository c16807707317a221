package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Summary(ctx context.Context, userID uint) (*models.RatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ErrReviewExists is wrapped in the conflict returned for a second review of a request.
var ErrReviewExists = errors.New("review already exists for this request")

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("ServiceRequest", "Reviewer", "ReviewedUser").Create(review).Error; err != nil {
		if isUniqueConstraintError(err) {
			return &models.AppError{Code: models.CodeConflict, Message: ErrReviewExists.Error(), Err: ErrReviewExists}
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Summary aggregates every review userID has received. The average is
// rounded to two decimals and is 0 when there are none.
func (r *reviewRepository) Summary(ctx context.Context, userID uint) (*models.RatingSummary, error) {
	var (
		avg   sql.NullFloat64
		count int64
	)
	row := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating), COUNT(*)").
		Where("reviewed_user_id = ?", userID).
		Row()
	if err := row.Scan(&avg, &count); err != nil {
		return nil, models.NewInternalError(err)
	}

	summary := &models.RatingSummary{UserID: userID, ReviewCount: count}
	if avg.Valid {
		summary.AverageRating = models.RoundRating(avg.Float64)
	}
	return summary, nil
}
