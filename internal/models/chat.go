package models

import (
	"fmt"
	"time"
)

// ChatRoom is a persisted room record. The live relay does not read or
// write it. Names are free text: they may be blank and need not be unique.
type ChatRoom struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	Participants []User    `gorm:"many2many:chat_room_participants;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

// TableName specifies the table name for GORM
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// Label is the room's display name, falling back to its id when unnamed.
func (r *ChatRoom) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("room-%d", r.ID)
}

// HasParticipant reports whether userID is listed on the room.
func (r *ChatRoom) HasParticipant(userID uint) bool {
	for _, p := range r.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// ChatMessage is a persisted message record inside a ChatRoom.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	Room   *ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	Sender *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
}

// TableName specifies the table name for GORM
func (ChatMessage) TableName() string {
	return "chat_messages"
}
