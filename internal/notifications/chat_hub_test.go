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

func joinTestClient(h *ChatHub, group, username string) *Client {
	c := NewClient(h, nil, 0)
	c.ID = username
	c.Username = username
	c.IncomingHandler = h.handleFrame
	h.add(c, group)
	return c
}

func assertStopped(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatalf("client %s was not stopped", c.ID)
	}
}

func recv(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.Send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return ""
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("client %s unexpectedly received %s", c.ID, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChatHub_RelayIncludesSenderAndIsolatesRooms(t *testing.T) {
	hub := NewChatHub()
	a := joinTestClient(hub, GroupName("r1"), "alice")
	b := joinTestClient(hub, GroupName("r1"), "")
	other := joinTestClient(hub, GroupName("r2"), "carol")

	a.IncomingHandler(a, []byte(`{"message":"hi","sender":"ignored"}`))

	assert.JSONEq(t, `{"message":"hi","sender":"alice"}`, recv(t, a))
	assert.JSONEq(t, `{"message":"hi","sender":"alice"}`, recv(t, b))
	assertSilent(t, other)

	b.IncomingHandler(b, []byte("hello"))
	assert.JSONEq(t, `{"message":"hello","sender":"anonymous"}`, recv(t, a))
	assert.JSONEq(t, `{"message":"hello","sender":"anonymous"}`, recv(t, b))
	assertSilent(t, other)
}

func TestChatHub_IgnoresFramesWithoutMessage(t *testing.T) {
	hub := NewChatHub()
	a := joinTestClient(hub, GroupName("r1"), "alice")

	a.IncomingHandler(a, []byte(`{"sender":"x"}`))
	a.IncomingHandler(a, []byte(`{"message":null}`))
	assertSilent(t, a)
}

func TestChatHub_UnregisterClient(t *testing.T) {
	hub := NewChatHub()
	group := GroupName("r1")
	a := joinTestClient(hub, group, "alice")
	b := joinTestClient(hub, group, "bob")
	assert.Equal(t, 2, hub.GroupSize(group))

	hub.UnregisterClient(a)
	hub.UnregisterClient(a)
	assert.Equal(t, 1, hub.GroupSize(group))
	assertStopped(t, a)

	hub.Broadcast(group, []byte("x"))
	assertSilent(t, a)
	assert.Equal(t, "x", recv(t, b))

	hub.UnregisterClient(b)
	assert.Equal(t, 0, hub.GroupSize(group))
	hub.mu.RLock()
	assert.Empty(t, hub.groups)
	hub.mu.RUnlock()
}

func TestChatHub_RedisFanOutAcrossInstances(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newInstance := func() *ChatHub {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		hub := NewChatHub()
		require.NoError(t, hub.StartWiring(ctx, NewNotifier(rdb)))
		return hub
	}
	hubA, hubB := newInstance(), newInstance()

	group := GroupName("r1")
	a := joinTestClient(hubA, group, "alice")
	b := joinTestClient(hubB, group, "bob")
	elsewhere := joinTestClient(hubB, GroupName("r2"), "carol")

	a.IncomingHandler(a, []byte(`{"message":"across"}`))

	want := `{"message":"across","sender":"alice"}`
	assert.JSONEq(t, want, recv(t, a))
	assert.JSONEq(t, want, recv(t, b))
	// exactly once per member
	assertSilent(t, a)
	assertSilent(t, b)
	assertSilent(t, elsewhere)
}

func TestChatHub_RelayFallsBackWhenPublishFails(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewChatHub()
	require.NoError(t, hub.StartWiring(ctx, NewNotifier(rdb)))
	a := joinTestClient(hub, GroupName("r1"), "alice")

	mr.Close()
	hub.Relay(context.Background(), GroupName("r1"), []byte("still here"))
	assert.Equal(t, "still here", recv(t, a))
}

func TestChatHub_Shutdown(t *testing.T) {
	hub := NewChatHub()
	joinTestClient(hub, GroupName("r1"), "alice")
	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.GroupSize(GroupName("r1")))
}
