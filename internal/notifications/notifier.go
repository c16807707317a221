package notifications

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"skillswap/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "notifications:user:"
	roomChannelPrefix = "chatroom:"
)

// Notifier publishes realtime payloads into Redis channels so every API
// instance can deliver them to its local connections. A Notifier without a
// Redis client is a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether payloads actually travel through Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishUser sends an event payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishRoom sends a chat frame to a room group's channel.
func (n *Notifier) PublishRoom(ctx context.Context, group string, payload []byte) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, RoomChannel(group), payload).Err()
}

// StartUserSubscriber delivers every payload published with PublishUser to
// onMessage until ctx is done.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	return n.subscribe(ctx, "user", userChannelPrefix+"*", onMessage)
}

// StartRoomSubscriber delivers every payload published with PublishRoom to
// onMessage until ctx is done.
func (n *Notifier) StartRoomSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	return n.subscribe(ctx, "room", roomChannelPrefix+"*", onMessage)
}

// subscribe returns once Redis has confirmed the subscription, so nothing
// published afterwards is missed.
func (n *Notifier) subscribe(ctx context.Context, name, pattern string, onMessage func(channel, payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, pattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", pattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in subscriber",
								"subscriber", name, "panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// RoomChannel derives the Redis channel name for a chat group.
func RoomChannel(group string) string {
	return roomChannelPrefix + group
}

func parseUserChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
