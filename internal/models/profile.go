package models

import "time"

// Profile holds the public presentation of a user. Exactly one per user,
// created lazily the first time it is read.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Location  string    `gorm:"size:150" json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// ProfileView is the public profile page: the owner, their offered skills,
// their average rating and the latest requests they provide.
type ProfileView struct {
	User           *User            `json:"user"`
	Profile        *Profile         `json:"profile"`
	Skills         []Skill          `json:"skills"`
	AverageRating  float64          `json:"average_rating"`
	RecentRequests []ServiceRequest `json:"recent_requests"`
}
