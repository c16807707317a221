// Package notifications provides websocket hubs and their Redis fan-out.
package notifications

import (
	"context"
	"strings"
	"sync"

	"skillswap/internal/middleware"
	"skillswap/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ChatHub keeps the local members of each chat group and relays frames
// between them. Membership is ephemeral: it exists only while connections
// are open and is never reconciled with persisted chat rooms.
//
// Without Redis a relayed frame goes straight to the local members. Once
// wired to a Notifier, frames are published to Redis and every instance,
// this one included, delivers them from its room subscription, so each
// member receives a frame exactly once.
type ChatHub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}

	notifier *Notifier
}

// NewChatHub creates a new ChatHub instance
func NewChatHub() *ChatHub {
	return &ChatHub{groups: make(map[string]map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *ChatHub) Name() string { return "chat hub" }

// Join creates a client for conn and adds it to group. Frames the client
// sends are relayed to the group as authored by username.
func (h *ChatHub) Join(conn *websocket.Conn, group string, userID uint, username string) *Client {
	client := NewClient(h, conn, userID)
	client.Username = username
	client.IncomingHandler = h.handleFrame
	h.add(client, group)
	return client
}

func (h *ChatHub) add(client *Client, group string) {
	client.Group = group

	h.mu.Lock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		h.groups[group] = members
	}
	members[client] = struct{}{}
	size := len(members)
	h.mu.Unlock()

	observability.ChatGroupMembers.WithLabelValues(group).Set(float64(size))
	middleware.Logger.Debug("chat client joined", "group", group, "client_id", client.ID, "members", size)
}

// UnregisterClient removes client from its group. It is safe to call more
// than once.
func (h *ChatHub) UnregisterClient(client *Client) {
	client.Stop()

	h.mu.Lock()
	members, ok := h.groups[client.Group]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, present := members[client]; !present {
		h.mu.Unlock()
		return
	}
	delete(members, client)
	size := len(members)
	if size == 0 {
		delete(h.groups, client.Group)
	}
	h.mu.Unlock()

	if size == 0 {
		observability.ChatGroupMembers.DeleteLabelValues(client.Group)
	} else {
		observability.ChatGroupMembers.WithLabelValues(client.Group).Set(float64(size))
	}
	middleware.Logger.Debug("chat client left", "group", client.Group, "client_id", client.ID, "members", size)
}

// GroupSize returns the number of local members of group.
func (h *ChatHub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// Broadcast delivers payload to every local member of group, sender
// included.
func (h *ChatHub) Broadcast(group string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.groups[group] {
		client.TrySend(payload)
	}
}

// Relay fans payload out to group across all instances. If publishing to
// Redis fails the frame is still delivered locally.
func (h *ChatHub) Relay(ctx context.Context, group string, payload []byte) {
	h.mu.RLock()
	n := h.notifier
	h.mu.RUnlock()

	if n.Enabled() {
		err := n.PublishRoom(ctx, group, payload)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "chat publish failed, delivering locally", "group", group, "error", err)
	}
	h.Broadcast(group, payload)
}

func (h *ChatHub) handleFrame(c *Client, raw []byte) {
	out, ok := BuildOutbound(raw, c.Username)
	if !ok {
		observability.ChatFramesIgnored.Inc()
		return
	}
	observability.ChatFramesRelayed.Inc()
	h.Relay(context.Background(), c.Group, out)
}

// StartWiring subscribes the hub to room channels on n. Relayed frames go
// through Redis only after the subscription is live.
func (h *ChatHub) StartWiring(ctx context.Context, n *Notifier) error {
	if !n.Enabled() {
		return nil
	}
	err := n.StartRoomSubscriber(ctx, func(channel, payload string) {
		group, ok := strings.CutPrefix(channel, roomChannelPrefix)
		if !ok || group == "" {
			middleware.Logger.Warn("invalid chat room channel", "channel", channel)
			return
		}
		h.Broadcast(group, []byte(payload))
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.notifier = n
	h.mu.Unlock()
	return nil
}

// Shutdown closes every chat connection.
func (h *ChatHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for group, members := range h.groups {
		for client := range members {
			if client.Conn == nil {
				continue
			}
			_ = client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down"))
			if err := client.Conn.Close(); err != nil {
				middleware.Logger.Warn("failed to close chat websocket", "group", group, "client_id", client.ID, "error", err)
			}
		}
		observability.ChatGroupMembers.DeleteLabelValues(group)
	}
	h.groups = make(map[string]map[*Client]struct{})
	return nil
}
