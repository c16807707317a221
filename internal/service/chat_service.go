package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

// ChatService exposes persisted chat rooms to their participants. The live
// websocket relay does not go through it.
type ChatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

func (s *ChatService) ListRooms(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	return s.chatRepo.ListRoomsForUser(ctx, userID)
}

// ListMessages returns a page of room roomID's history, oldest first.
// Only participants may read it.
func (s *ChatService) ListMessages(ctx context.Context, userID, roomID uint, limit, offset int) ([]models.ChatMessage, error) {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, models.NewForbiddenError("You are not a participant in this chat room")
	}
	return s.chatRepo.ListMessages(ctx, roomID, limit, offset)
}
