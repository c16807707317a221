package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"skillswap/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes the random factory.
type SeedOptions struct {
	// SkipBcrypt stores the plain password; only for fast local runs.
	SkipBcrypt bool
	// MaxDays spreads request creation times over the last MaxDays days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	fake *gofakeit.Faker
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, opts: opts, fake: gofakeit.New(time.Now().UnixNano())}
}

// CreateUser persists a user with a random username and a profile.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: f.fake.Username() + fmt.Sprintf("%d", f.fake.Number(100, 999)),
		Email:    f.fake.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = DemoPassword
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:   user.ID,
		Bio:      f.fake.Sentence(10),
		Location: f.fake.City(),
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	user.Profile = profile
	return user, nil
}

var skillNames = []string{
	"Python", "Go", "Guitar", "Gardening", "Cooking", "Photography",
	"Spanish", "Yoga", "Carpentry", "Design", "Plumbing", "Chess",
}

// CreateSkill persists a random skill owned by user.
func (f *Factory) CreateSkill(user *models.User, overrides ...func(*models.Skill)) (*models.Skill, error) {
	skill := &models.Skill{
		UserID:      user.ID,
		Name:        f.fake.RandomString(skillNames),
		Description: f.fake.Sentence(8),
	}
	for _, override := range overrides {
		override(skill)
	}
	if err := f.db.Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// CreateRequest persists a request from requester for skill, with a
// creation time spread over the last MaxDays days.
func (f *Factory) CreateRequest(requester *models.User, skill *models.Skill, status models.RequestStatus) (*models.ServiceRequest, error) {
	back := time.Duration(rand.IntN(f.opts.MaxDays*24*60)) * time.Minute
	req := &models.ServiceRequest{
		RequesterID:    requester.ID,
		ProviderID:     skill.UserID,
		OfferedSkillID: skill.ID,
		Description:    f.fake.Sentence(12),
		Status:         status,
		CreatedAt:      time.Now().Add(-back),
	}
	if err := f.db.Omit("Requester", "Provider", "OfferedSkill").Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// CreateReview persists the requester's review of req's provider.
func (f *Factory) CreateReview(req *models.ServiceRequest) (*models.Review, error) {
	review := &models.Review{
		ServiceRequestID: req.ID,
		ReviewerID:       req.RequesterID,
		ReviewedUserID:   req.ProviderID,
		Rating:           f.fake.Number(models.MinRating, models.MaxRating),
		Comment:          f.fake.Sentence(6),
	}
	if err := f.db.Omit("ServiceRequest", "Reviewer", "ReviewedUser").Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

var randomStatuses = []models.RequestStatus{
	models.RequestStatusPending,
	models.RequestStatusAccepted,
	models.RequestStatusCompleted,
	models.RequestStatusCanceled,
}

// Marketplace creates numUsers users with one or two skills each and
// numRequests requests between them. Completed requests get a review.
func (f *Factory) Marketplace(numUsers, numRequests int) ([]*models.User, error) {
	if numUsers < 2 {
		return nil, fmt.Errorf("need at least 2 users, got %d", numUsers)
	}

	users := make([]*models.User, 0, numUsers)
	var skills []*models.Skill
	for i := 0; i < numUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
		for range 1 + rand.IntN(2) {
			s, err := f.CreateSkill(u)
			if err != nil {
				return nil, fmt.Errorf("create skill: %w", err)
			}
			skills = append(skills, s)
		}
	}

	for i := 0; i < numRequests; i++ {
		skill := skills[rand.IntN(len(skills))]
		requester := users[rand.IntN(len(users))]
		// nobody requests their own skill
		for requester.ID == skill.UserID {
			requester = users[rand.IntN(len(users))]
		}

		status := randomStatuses[rand.IntN(len(randomStatuses))]
		req, err := f.CreateRequest(requester, skill, status)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if status == models.RequestStatusCompleted {
			if _, err := f.CreateReview(req); err != nil {
				return nil, fmt.Errorf("create review: %w", err)
			}
		}
	}
	return users, nil
}
