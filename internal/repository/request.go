package repository

import (
	"context"
	"strings"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// FeedQuery filters and pages the public feed. An empty Q matches everything.
type FeedQuery struct {
	Q      string
	Limit  int
	Offset int
}

// RequestRepository defines the interface for service request data operations
type RequestRepository interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error)
	ListByRequester(ctx context.Context, userID uint) ([]models.ServiceRequest, error)
	ListByProvider(ctx context.Context, userID uint, limit int) ([]models.ServiceRequest, error)
	Feed(ctx context.Context, q FeedQuery) ([]models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.RequestStatus) (bool, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new service request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

const providerRatingColumn = "COALESCE((SELECT AVG(reviews.rating) FROM reviews " +
	"WHERE reviews.reviewed_user_id = service_requests.provider_id), 0) AS provider_rating"

const feedSearchClause = `LOWER(skills.name) LIKE ? ESCAPE '\'` +
	` OR LOWER(service_requests.description) LIKE ? ESCAPE '\'` +
	` OR LOWER(provider.username) LIKE ? ESCAPE '\'` +
	` OR LOWER(COALESCE(provider_profile.location, '')) LIKE ? ESCAPE '\'` +
	` OR LOWER(requester.username) LIKE ? ESCAPE '\'`

func (r *requestRepository) withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("OfferedSkill").Preload("Provider.Profile").Preload("Requester")
}

func (r *requestRepository) Create(ctx context.Context, req *models.ServiceRequest) error {
	if err := r.db.WithContext(ctx).Omit("Requester", "Provider", "OfferedSkill").Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.withParties(r.db.WithContext(ctx)).First(&req, id).Error; err != nil {
		return nil, wrapFind(err, "ServiceRequest", id)
	}
	return &req, nil
}

func (r *requestRepository) ListByRequester(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	if err := r.withParties(r.db.WithContext(ctx)).
		Where("requester_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// ListByProvider returns the requests addressed to userID, newest first.
// A non-positive limit returns all of them.
func (r *requestRepository) ListByProvider(ctx context.Context, userID uint, limit int) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	q := r.withParties(r.db.WithContext(ctx)).
		Where("provider_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// Feed returns requests newest first, each annotated with the provider's
// average rating. A non-empty Q keeps requests where any of skill name,
// description, provider username, provider location or requester username
// contains Q, ignoring case.
func (r *requestRepository) Feed(ctx context.Context, fq FeedQuery) ([]models.ServiceRequest, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Select("service_requests.*, " + providerRatingColumn)

	if term := strings.TrimSpace(fq.Q); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.
			Joins("JOIN skills ON skills.id = service_requests.offered_skill_id").
			Joins("JOIN users AS provider ON provider.id = service_requests.provider_id").
			Joins("JOIN users AS requester ON requester.id = service_requests.requester_id").
			Joins("LEFT JOIN profiles AS provider_profile ON provider_profile.user_id = service_requests.provider_id").
			Where(feedSearchClause, pattern, pattern, pattern, pattern, pattern)
	}

	q = r.withParties(q).Order("service_requests.created_at DESC, service_requests.id DESC")
	if fq.Limit > 0 {
		q = q.Limit(fq.Limit).Offset(fq.Offset)
	}

	var reqs []models.ServiceRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range reqs {
		reqs[i].ProviderRating = models.RoundRating(reqs[i].ProviderRating)
	}
	return reqs, nil
}

// UpdateStatus moves request id from one status to another, writing only the
// status column. It reports false when the row was no longer in from.
func (r *requestRepository) UpdateStatus(ctx context.Context, id uint, from, to models.RequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
