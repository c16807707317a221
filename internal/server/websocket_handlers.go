package server

import (
	"skillswap/internal/middleware"
	"skillswap/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// chatUpgrade resolves the room and sender of a chat connection while the
// HTTP request is still available, then lets the upgrade through.
func (s *Server) chatUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	room := notifications.ResolveRoom(c.Params("room"), c.Path())
	c.Locals("chatGroup", notifications.GroupName(room))

	if userID, ok := currentUserID(c); ok {
		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "chat sender lookup failed, connecting anonymously",
				"user_id", userID, "error", err)
		} else {
			c.Locals("username", user.Username)
		}
	}
	return c.Next()
}

// WebSocketChatHandler relays chat frames between every connection joined
// to the same room. Connections may be anonymous.
func (s *Server) WebSocketChatHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		group, _ := conn.Locals("chatGroup").(string)
		if group == "" {
			group = notifications.GroupName(notifications.DefaultRoom)
		}
		userID, _ := conn.Locals("userID").(uint)
		username, _ := conn.Locals("username").(string)

		client := s.chatHub.Join(conn, group, userID, username)
		if s.config.ChatMaxMessageBytes > 0 {
			client.ReadLimit = s.config.ChatMaxMessageBytes
		}

		middleware.Logger.Info("chat connection opened", "group", group, "client_id", client.ID, "user_id", userID)

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the handler goroutine and leaves the group on return
		client.ReadPump()

		middleware.Logger.Info("chat connection closed", "group", group, "client_id", client.ID)
	})
}

// WebsocketHandler streams the caller's lifecycle events.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("event websocket rejected", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		go client.WritePump()
		client.ReadPump()
	})
}
