package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	prev := GetClient()
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(prev)
		_ = rdb.Close()
		mr.Close()
	})
	return mr
}

func TestAside_NoClientAlwaysLoads(t *testing.T) {
	prev := GetClient()
	SetClient(nil)
	defer SetClient(prev)

	calls := 0
	for i := 0; i < 2; i++ {
		var u cachedUser
		err := Aside(context.Background(), UserKey(1), &u, UserTTL, func() error {
			calls++
			u = cachedUser{ID: 1, Username: "alice"}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	}
	assert.Equal(t, 2, calls)
}

func TestAside_HitSkipsLoad(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 2, Username: "bob"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UsernameKey("bob"), &first, UserTTL, load(&first)))
	assert.True(t, mr.Exists("user:name:bob"))

	var second cachedUser
	require.NoError(t, Aside(ctx, UsernameKey("bob"), &second, UserTTL, load(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	mr.FastForward(UserTTL + time.Second)
	var third cachedUser
	require.NoError(t, Aside(ctx, UsernameKey("bob"), &third, UserTTL, load(&third)))
	assert.Equal(t, 2, calls)
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)
	boom := errors.New("not found")

	var u cachedUser
	err := Aside(context.Background(), UserKey(9), &u, UserTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(UserKey(9)))
}

func TestInvalidateUser(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set(UserKey(3), "{}"))
	require.NoError(t, mr.Set(UsernameKey("carol"), "{}"))

	InvalidateUser(context.Background(), 3, "carol")
	assert.False(t, mr.Exists(UserKey(3)))
	assert.False(t, mr.Exists(UsernameKey("carol")))
}
