package casestudies

import (
	"context"
	"strconv"
	"strings"
	"time"

	"capella-backend/internal/cache"
)

const generationKey = "case-studies:generation"

// responseCache stores encoded public responses under keys scoped by a
// generation counter; bumping the generation invalidates every entry.
type responseCache struct {
	store cache.Cache
	ttl   time.Duration
}

func (c responseCache) enabled() bool {
	return c.store != nil && c.ttl > 0
}

func (c responseCache) key(ctx context.Context, parts ...string) (string, bool) {
	gen := "0"
	val, ok, err := c.store.Get(ctx, generationKey)
	if err != nil {
		return "", false
	}
	if ok {
		gen = string(val)
	}
	return "case-studies:" + gen + ":" + strings.Join(parts, ":"), true
}

// get resolves the key for parts under the current generation and looks it
// up. The returned key is empty when caching is off; pass it to set so the
// payload lands under the generation read before the store was queried.
func (c responseCache) get(ctx context.Context, parts ...string) (string, []byte, bool) {
	if !c.enabled() {
		return "", nil, false
	}
	key, ok := c.key(ctx, parts...)
	if !ok {
		return "", nil, false
	}
	val, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return key, nil, false
	}
	return key, val, true
}

func (c responseCache) set(ctx context.Context, key string, payload []byte) error {
	if !c.enabled() || key == "" {
		return nil
	}
	return c.store.Set(ctx, key, payload, c.ttl)
}

func (c responseCache) invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return InvalidateResponses(ctx, c.store)
}

// InvalidateResponses starts a new cache generation so every cached public
// response is ignored. Processes that write records without going through
// the admin API call it after their writes.
func InvalidateResponses(ctx context.Context, store cache.Cache) error {
	if store == nil {
		return nil
	}
	gen := strconv.FormatInt(time.Now().UnixNano(), 10)
	return store.Set(ctx, generationKey, []byte(gen), 0)
}
