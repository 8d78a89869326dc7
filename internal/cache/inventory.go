package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache key formats and TTLs. Keep all key construction here so
// invalidation stays in one place.
const (
	userKeyPrefix = "user:%d"
	postKeyPrefix = "post:%d"

	UserTTL = 5 * time.Minute
	PostTTL = 1 * time.Minute
)

// UserKey returns the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// PostKey returns the cache key for a post record.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// Aside implements cache-aside: fill dest from the cache if possible,
// otherwise call load and populate the cache with the result. Without a
// Redis client it degrades to calling load directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client == nil {
		return load()
	}

	if b, err := client.Get(ctx, key).Bytes(); err == nil {
		if json.Unmarshal(b, dest) == nil {
			return nil
		}
	}

	if err := load(); err != nil {
		return err
	}

	if b, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, b, ttl)
	}
	return nil
}

// Invalidate drops a key. Errors are ignored; a stale miss self-heals.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Del(ctx, key)
}

// InvalidateUser drops a user's cached record.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops a post's cached record.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
