package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishUser(context.Background(), 1, "x"))
	assert.NoError(t, n.PublishRoom(context.Background(), "chat_r1", []byte("x")))
	assert.NoError(t, n.StartRoomSubscriber(context.Background(), func(string, string) {}))

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}

func TestChannels(t *testing.T) {
	assert.Equal(t, "notifications:user:42", UserChannel(42))
	assert.Equal(t, "chatroom:chat_r1", RoomChannel("chat_r1"))

	id, ok := parseUserChannel("notifications:user:42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"notifications:user:", "notifications:user:x", "notifications:user:0", "chatroom:1"} {
		_, ok := parseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestNotifier_RoomSubscriberStopsOnCancel(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payloads := make(chan string, 4)
	require.NoError(t, n.StartRoomSubscriber(ctx, func(channel, payload string) {
		assert.Equal(t, "chatroom:chat_r1", channel)
		payloads <- payload
	}))

	require.NoError(t, n.PublishRoom(context.Background(), "chat_r1", []byte("before")))
	select {
	case p := <-payloads:
		assert.Equal(t, "before", p)
	case <-time.After(time.Second):
		t.Fatal("no payload received")
	}

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, n.PublishRoom(context.Background(), "chat_r1", []byte("after")))
	assert.Never(t, func() bool {
		select {
		case p := <-payloads:
			return p == "after"
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestNotifier_SubscriberRecoversFromPanic(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 2)
	require.NoError(t, n.StartUserSubscriber(ctx, func(_ string, payload string) {
		if payload == "boom" {
			panic("handler failure")
		}
		got <- payload
	}))

	require.NoError(t, n.PublishUser(ctx, 1, "boom"))
	require.NoError(t, n.PublishUser(ctx, 1, "ok"))

	select {
	case p := <-got:
		assert.Equal(t, "ok", p)
	case <-time.After(time.Second):
		t.Fatal("subscriber stopped after panic")
	}
}
