package repository

import (
	"context"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ChatRepository reads and writes persisted chat bookkeeping.
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
	GetRoom(ctx context.Context, id uint) (*models.ChatRoom, error)
	ListRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error)
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, roomID uint, limit, offset int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) GetRoom(ctx context.Context, id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).Preload("Participants").First(&room, id).Error; err != nil {
		return nil, wrapFind(err, "ChatRoom", id)
	}
	return &room, nil
}

func (r *chatRepository) ListRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := r.db.WithContext(ctx).
		Joins("JOIN chat_room_participants crp ON crp.chat_room_id = chat_rooms.id").
		Where("crp.user_id = ?", userID).
		Preload("Participants").
		Order("chat_rooms.name ASC").
		Find(&rooms).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rooms, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Omit("Room", "Sender").Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListMessages returns a room's messages oldest first.
func (r *chatRepository) ListMessages(ctx context.Context, roomID uint, limit, offset int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Preload("Sender").
		Order("chat_messages.timestamp ASC, chat_messages.id ASC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}
