package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

// recentRequestLimit caps the provider history shown on a public profile.
const recentRequestLimit = 10

// ProfileService serves public profiles and profile edits.
type ProfileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	skillRepo   repository.SkillRepository
	requestRepo repository.RequestRepository
	reviewRepo  repository.ReviewRepository
}

// NewProfileService returns a new ProfileService.
func NewProfileService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	skillRepo repository.SkillRepository,
	requestRepo repository.RequestRepository,
	reviewRepo repository.ReviewRepository,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		requestRepo: requestRepo,
		reviewRepo:  reviewRepo,
	}
}

// GetPublicProfile assembles the public page of username. The profile row
// is created on first access.
func (s *ProfileService) GetPublicProfile(ctx context.Context, username string) (*models.ProfileView, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreateForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	skills, err := s.skillRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.Summary(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.requestRepo.ListByProvider(ctx, user.ID, recentRequestLimit)
	if err != nil {
		return nil, err
	}

	return &models.ProfileView{
		User:           user,
		Profile:        profile,
		Skills:         skills,
		AverageRating:  summary.AverageRating,
		RecentRequests: recent,
	}, nil
}

// UpdateOwnProfile edits the caller's profile, creating it if needed.
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, profile, in)
}

// ListProfiles returns a page of profiles.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// GetProfile returns a profile by id.
func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// CreateProfile attaches a new profile to userID. A user holds at most one.
func (s *ProfileService) CreateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile := &models.Profile{
		UserID:   userID,
		Bio:      in.Bio,
		Location: strings.TrimSpace(in.Location),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profile.ID)
}

// UpdateProfile edits profile id on behalf of actorID, who must own it.
func (s *ProfileService) UpdateProfile(ctx context.Context, actorID, id uint, in ProfileInput) (*models.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.UserID != actorID {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}
	return s.apply(ctx, profile, in)
}

func (s *ProfileService) apply(ctx context.Context, profile *models.Profile, in ProfileInput) (*models.Profile, error) {
	profile.Bio = in.Bio
	profile.Location = strings.TrimSpace(in.Location)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
