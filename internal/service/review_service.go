package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// ReviewService records reviews and aggregates ratings.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

// NewReviewService returns a new ReviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// Create stores reviewerID's review of the provider of request requestID.
// Only the requester may review, only once, and only after completion.
func (s *ReviewService) Create(ctx context.Context, reviewerID, requestID uint, in ReviewInput) (*models.Review, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != reviewerID {
		return nil, models.NewForbiddenError("Only the requester can review this request")
	}
	if req.Status != models.RequestStatusCompleted {
		return nil, models.NewValidationError("Only completed requests can be reviewed")
	}

	review := &models.Review{
		ServiceRequestID: req.ID,
		ReviewerID:       reviewerID,
		ReviewedUserID:   req.ProviderID,
		Rating:           in.Rating,
		Comment:          strings.TrimSpace(in.Comment),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	observability.ReviewsCreated.Inc()
	return review, nil
}

// AverageRating returns userID's mean received rating rounded to two
// decimals, or 0 without reviews. It is recomputed on every call.
func (s *ReviewService) AverageRating(ctx context.Context, userID uint) (float64, error) {
	summary, err := s.reviewRepo.Summary(ctx, userID)
	if err != nil {
		return 0, err
	}
	return summary.AverageRating, nil
}

// RatingFor summarizes the reviews username has received.
func (s *ReviewService) RatingFor(ctx context.Context, username string) (*models.RatingSummary, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.Summary(ctx, user.ID)
}
