package service

import (
	"context"
	"strings"
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillServiceOwnership(t *testing.T) {
	var updated, deleted bool
	repo := skillsOwnedBy(providerID)
	repo.updateFn = func(context.Context, *models.Skill) error { updated = true; return nil }
	repo.deleteFn = func(context.Context, uint) error { deleted = true; return nil }
	svc := NewSkillService(repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, outsiderID, 1, SkillInput{Name: "Go"})
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	assert.True(t, models.HasCode(svc.Delete(ctx, outsiderID, 1), models.CodeForbidden))
	assert.False(t, updated)
	assert.False(t, deleted)

	_, err = svc.Update(ctx, providerID, 404, SkillInput{Name: "Go"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	skill, err := svc.Update(ctx, providerID, 1, SkillInput{Name: " Go ", Description: "chan"})
	require.NoError(t, err)
	assert.Equal(t, "Go", skill.Name)
	assert.True(t, updated)

	require.NoError(t, svc.Delete(ctx, providerID, 1))
	assert.True(t, deleted)
}

func TestSkillServiceCreateValidation(t *testing.T) {
	repo := &skillRepoStub{createFn: func(_ context.Context, s *models.Skill) error { s.ID = 9; return nil }}
	svc := NewSkillService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, providerID, SkillInput{Name: "  "})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = svc.Create(ctx, providerID, SkillInput{Name: strings.Repeat("x", models.MaxSkillNameLength+1)})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	skill, err := svc.Create(ctx, providerID, SkillInput{Name: "Baking"})
	require.NoError(t, err)
	assert.Equal(t, providerID, skill.UserID)
	assert.Equal(t, uint(9), skill.ID)
}

func TestSkillServiceCatalog(t *testing.T) {
	repo := &skillRepoStub{listExcludingOwnerFn: func(_ context.Context, userID uint) ([]models.Skill, error) {
		assert.Equal(t, requesterID, userID)
		return []models.Skill{{ID: 1, UserID: providerID}, {ID: 2, UserID: outsiderID}}, nil
	}}
	svc := NewSkillService(repo)

	catalog, err := svc.Catalog(context.Background(), requesterID, 2)
	require.NoError(t, err)
	assert.Len(t, catalog.Skills, 2)
	require.NotNil(t, catalog.Selected)
	assert.Equal(t, uint(2), *catalog.Selected)

	// the caller's own skill is never in the list, so it cannot be preselected
	catalog, err = svc.Catalog(context.Background(), requesterID, 77)
	require.NoError(t, err)
	assert.Nil(t, catalog.Selected)
}

func TestProfileServiceGetPublicProfile(t *testing.T) {
	users := &userRepoStub{getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
		return &models.User{ID: providerID, Username: name}, nil
	}}
	profiles := &profileRepoStub{getOrCreateForUserFn: func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: 3, UserID: id}, nil
	}}
	skills := &skillRepoStub{listByOwnerFn: func(context.Context, uint) ([]models.Skill, error) {
		return []models.Skill{{ID: 1, Name: "Python"}}, nil
	}}
	requests := newMemRequestRepo()
	requests.listByProviderFn = func(_ context.Context, id uint, limit int) ([]models.ServiceRequest, error) {
		assert.Equal(t, recentRequestLimit, limit)
		return []models.ServiceRequest{{ID: 8}}, nil
	}
	reviews := &reviewRepoStub{summaryFn: func(_ context.Context, id uint) (*models.RatingSummary, error) {
		return &models.RatingSummary{UserID: id, AverageRating: 3.67, ReviewCount: 3}, nil
	}}
	svc := NewProfileService(users, profiles, skills, requests, reviews)

	view, err := svc.GetPublicProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.User.Username)
	assert.Equal(t, uint(3), view.Profile.ID)
	assert.Len(t, view.Skills, 1)
	assert.Equal(t, 3.67, view.AverageRating)
	assert.Len(t, view.RecentRequests, 1)
}

func TestProfileServiceUpdateProfileOwnerOnly(t *testing.T) {
	var saved *models.Profile
	profiles := &profileRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, UserID: providerID}, nil
		},
		updateFn: func(_ context.Context, p *models.Profile) error { saved = p; return nil },
	}
	svc := NewProfileService(&userRepoStub{}, profiles, &skillRepoStub{}, newMemRequestRepo(), &reviewRepoStub{})
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, outsiderID, 3, ProfileInput{Bio: "hijack"})
	assert.True(t, models.HasCode(err, models.CodeForbidden))
	assert.Nil(t, saved)

	_, err = svc.UpdateProfile(ctx, providerID, 3, ProfileInput{Location: strings.Repeat("x", 151)})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	p, err := svc.UpdateProfile(ctx, providerID, 3, ProfileInput{Bio: "Dev", Location: " Recife "})
	require.NoError(t, err)
	assert.Equal(t, "Recife", p.Location)
	assert.Same(t, p, saved)
}

func TestProfileServiceUpdateOwnCreatesLazily(t *testing.T) {
	var created bool
	profiles := &profileRepoStub{
		getOrCreateForUserFn: func(_ context.Context, id uint) (*models.Profile, error) {
			created = true
			return &models.Profile{ID: 1, UserID: id}, nil
		},
		updateFn: func(context.Context, *models.Profile) error { return nil },
	}
	svc := NewProfileService(&userRepoStub{}, profiles, &skillRepoStub{}, newMemRequestRepo(), &reviewRepoStub{})

	p, err := svc.UpdateOwnProfile(context.Background(), requesterID, ProfileInput{Bio: "hello"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, requesterID, p.UserID)
}

func TestChatServiceListMessagesParticipantsOnly(t *testing.T) {
	repo := &chatRepoStub{
		getRoomFn: func(_ context.Context, id uint) (*models.ChatRoom, error) {
			return &models.ChatRoom{ID: id, Participants: []models.User{{ID: providerID}, {ID: requesterID}}}, nil
		},
		listMessagesFn: func(context.Context, uint, int, int) ([]models.ChatMessage, error) {
			return []models.ChatMessage{{ID: 1, Content: "hi"}}, nil
		},
	}
	svc := NewChatService(repo)

	_, err := svc.ListMessages(context.Background(), outsiderID, 1, 50, 0)
	assert.True(t, models.HasCode(err, models.CodeForbidden))

	msgs, err := svc.ListMessages(context.Background(), requesterID, 1, 50, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
