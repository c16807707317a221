package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	UsernameKeyPrefix = "user:name:%s"
)

const UserTTL = 5 * time.Minute

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UsernameKey(username string) string {
	return fmt.Sprintf(UsernameKeyPrefix, username)
}

// Invalidate deletes keys, ignoring a missing client.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUser drops both cached lookups of a user.
func InvalidateUser(ctx context.Context, userID uint, username string) {
	Invalidate(ctx, UserKey(userID), UsernameKey(username))
}
