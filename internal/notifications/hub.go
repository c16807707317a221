package notifications

import (
	"context"
	"errors"
	"sync"

	"skillswap/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000
)

// Hub maps userID to that user's event connections. It carries lifecycle
// events (new requests, status changes, reviews) and is separate from chat
// groups.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int

	notifier *Notifier
}

// NewHub creates a new Hub instance for user events.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "event hub" }

// Register a connection for a given userID. Returns the Client or error if limits exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	return client, nil
}

// UnregisterClient removes client; it is safe to call more than once.
func (h *Hub) UnregisterClient(client *Client) {
	client.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
}

// Broadcast sends message to all connections for userID
func (h *Hub) Broadcast(userID uint, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[userID]; ok {
		data := []byte(message)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// IsOnline reports whether a user has at least one local event connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// Deliver sends message to userID's connections on every instance, falling
// back to local delivery when Redis is not wired or publishing fails.
func (h *Hub) Deliver(ctx context.Context, userID uint, message string) {
	h.mu.RLock()
	n := h.notifier
	h.mu.RUnlock()

	if n.Enabled() {
		err := n.PublishUser(ctx, userID, message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "event publish failed, delivering locally", "user_id", userID, "error", err)
	}
	h.Broadcast(userID, message)
}

// StartWiring forwards events published for a user on any instance to that
// user's local connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	if !n.Enabled() {
		return nil
	}
	err := n.StartUserSubscriber(ctx, func(channel, payload string) {
		userID, ok := parseUserChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid notification channel", "channel", channel)
			return
		}
		h.Broadcast(userID, payload)
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.notifier = n
	h.mu.Unlock()
	return nil
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Warn("failed to write close message", "user_id", userID, "error", err)
			}
			if err := client.Conn.Close(); err != nil {
				middleware.Logger.Warn("failed to close websocket", "user_id", userID, "error", err)
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0
	return nil
}
