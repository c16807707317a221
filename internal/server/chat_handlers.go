package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListChatRooms handles GET /api/chatrooms
func (s *Server) ListChatRooms(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	rooms, err := s.chatService.ListRooms(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rooms)
}

// ListChatMessages handles GET /api/chatrooms/:id/messages, oldest first.
// Only participants may read a room's history.
func (s *Server) ListChatMessages(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	roomID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	msgs, err := s.chatService.ListMessages(c.UserContext(), userID, roomID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}
