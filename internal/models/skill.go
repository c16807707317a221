package models

import "time"

// MaxSkillNameLength bounds Skill.Name.
const MaxSkillNameLength = 150

// Skill is a named capability offered by its owner.
type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}
