package models

import (
	"math"
	"time"
)

// Review is the requester's rating of a provider for one request.
// The unique index on ServiceRequestID allows at most one per request.
type Review struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ServiceRequestID uint      `gorm:"uniqueIndex;not null" json:"service_request_id"`
	ReviewerID       uint      `gorm:"not null;index" json:"reviewer_id"`
	ReviewedUserID   uint      `gorm:"not null;index" json:"reviewed_user_id"`
	Rating           int       `gorm:"not null" json:"rating"`
	Comment          string    `gorm:"type:text" json:"comment"`
	CreatedAt        time.Time `json:"created_at"`

	ServiceRequest *ServiceRequest `gorm:"foreignKey:ServiceRequestID;constraint:OnDelete:CASCADE" json:"-"`
	Reviewer       *User           `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"reviewer,omitempty"`
	ReviewedUser   *User           `gorm:"foreignKey:ReviewedUserID;constraint:OnDelete:CASCADE" json:"reviewed_user,omitempty"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

const (
	MinRating = 1
	MaxRating = 5
)

// RatingSummary is the aggregate of every review a user has received.
type RatingSummary struct {
	UserID        uint    `json:"user_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// RoundRating rounds an average to two decimals. Ties go to the even
// neighbour, so 4.125 becomes 4.12 and 4.375 becomes 4.38.
func RoundRating(avg float64) float64 {
	return math.RoundToEven(avg*100) / 100
}
