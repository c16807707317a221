// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory database private to t.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to ":memory:" would get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateProfile inserts a profile for user.
func CreateProfile(t *testing.T, db *gorm.DB, user *models.User, bio, location string) *models.Profile {
	t.Helper()
	p := &models.Profile{UserID: user.ID, Bio: bio, Location: location}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateSkill inserts a skill owned by owner.
func CreateSkill(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Skill {
	t.Helper()
	s := &models.Skill{UserID: owner.ID, Name: name, Description: name + " lessons"}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreateRequest inserts a request from requester for skill at the given
// status and creation time.
func CreateRequest(t *testing.T, db *gorm.DB, requester *models.User, skill *models.Skill, status models.RequestStatus, createdAt time.Time) *models.ServiceRequest {
	t.Helper()
	r := &models.ServiceRequest{
		RequesterID:    requester.ID,
		ProviderID:     skill.UserID,
		OfferedSkillID: skill.ID,
		Description:    "Please help with " + skill.Name,
		Status:         status,
		CreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateReview inserts a review of req's provider by req's requester.
func CreateReview(t *testing.T, db *gorm.DB, req *models.ServiceRequest, rating int) *models.Review {
	t.Helper()
	rv := &models.Review{
		ServiceRequestID: req.ID,
		ReviewerID:       req.RequesterID,
		ReviewedUserID:   req.ProviderID,
		Rating:           rating,
	}
	require.NoError(t, db.Create(rv).Error)
	return rv
}
