// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a row of the identity store. Accounts are provisioned outside this
// service; everything else hangs off the user id.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Skills  []Skill  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
