package cache

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// UserListKey caches the full users listing.
	UserListKey = "list:users"
	// ThoughtListKey caches the full thoughts listing.
	ThoughtListKey = "list:thoughts"
)

const listTTL = 30 * time.Second

// GetList loads a cached listing into dest. It returns false when the
// cache is disabled, the key is absent, or the payload fails to decode.
func GetList(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetList stores a listing under the given key with a short TTL. Failures
// are ignored: the cache is an optimization, never a source of truth.
func SetList(ctx context.Context, key string, v any) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, listTTL)
}

// Invalidate removes the given keys from the cache.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateUsers drops the cached users listing after a user write.
func InvalidateUsers(ctx context.Context) {
	Invalidate(ctx, UserListKey)
}

// InvalidateThoughts drops the cached thoughts listing after a thought write.
func InvalidateThoughts(ctx context.Context) {
	Invalidate(ctx, ThoughtListKey)
}
