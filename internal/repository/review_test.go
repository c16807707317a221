package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_OnePerRequest(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	python := testutil.CreateSkill(t, db, alice, "Python")
	req := testutil.CreateRequest(t, db, bob, python, models.RequestStatusCompleted, time.Now())
	repo := NewReviewRepository(db)
	ctx := context.Background()

	first := &models.Review{ServiceRequestID: req.ID, ReviewerID: bob.ID, ReviewedUserID: alice.ID, Rating: 5}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.Review{ServiceRequestID: req.ID, ReviewerID: bob.ID, ReviewedUserID: alice.ID, Rating: 1})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
	assert.True(t, errors.Is(err, ErrReviewExists))

	var stored []models.Review
	require.NoError(t, db.Where("service_request_id = ?", req.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Rating)
}

func TestReviewRepository_Summary(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	python := testutil.CreateSkill(t, db, alice, "Python")
	repo := NewReviewRepository(db)
	ctx := context.Background()

	empty, err := repo.Summary(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.Equal(t, int64(0), empty.ReviewCount)

	for _, rating := range []int{4, 4, 3} {
		req := testutil.CreateRequest(t, db, bob, python, models.RequestStatusCompleted, time.Now())
		testutil.CreateReview(t, db, req, rating)
	}

	summary, err := repo.Summary(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, summary.UserID)
	assert.Equal(t, int64(3), summary.ReviewCount)
	assert.Equal(t, 3.67, summary.AverageRating)

	// reviews received, not written
	bobs, err := repo.Summary(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bobs.ReviewCount)
}
