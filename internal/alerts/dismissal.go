package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// KV is the narrow client-local storage surface the dismissal cache
// sits on. Get returns (nil, nil) when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DismissalCache records which alerts a viewer has already dismissed.
// Entries older than the TTL are pruned on every read and write, and a
// corrupted or unreadable backing store degrades to an empty mapping
// instead of failing the caller.
type DismissalCache struct {
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewDismissalCache builds the cache around an injected store.
func NewDismissalCache(kv KV, ttl time.Duration, logger *zap.Logger) *DismissalCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &DismissalCache{kv: kv, ttl: ttl, logger: logger, now: time.Now}
}

// WithClock overrides the time source. Tests use it to move past the TTL.
func (c *DismissalCache) WithClock(now func() time.Time) *DismissalCache {
	c.now = now
	return c
}

// Dismiss records the alert as handled by the viewer.
func (c *DismissalCache) Dismiss(ctx context.Context, viewerID, alertID string) error {
	entries := c.load(ctx, viewerID)
	entries[alertID] = c.now()
	return c.store(ctx, viewerID, entries)
}

// IsDismissed reports whether the alert is suppressed for the viewer.
func (c *DismissalCache) IsDismissed(ctx context.Context, viewerID, alertID string) bool {
	_, ok := c.Dismissed(ctx, viewerID)[alertID]
	return ok
}

// Dismissed returns the live (non-expired) dismissal set for a viewer.
func (c *DismissalCache) Dismissed(ctx context.Context, viewerID string) map[string]time.Time {
	entries := c.load(ctx, viewerID)
	return entries
}

// load reads, decodes and prunes in one step. Expired entries removed
// by the prune are persisted back so the store shrinks over time.
func (c *DismissalCache) load(ctx context.Context, viewerID string) map[string]time.Time {
	entries := make(map[string]time.Time)

	raw, err := c.kv.Get(ctx, c.key(viewerID))
	if err != nil {
		c.logger.Warn("dismissal store unreadable, treating as empty", zap.Error(err))
		return entries
	}
	if raw == nil {
		return entries
	}
	if err := msgpack.Unmarshal(raw, &entries); err != nil {
		c.logger.Warn("dismissal store corrupted, treating as empty", zap.Error(err))
		return make(map[string]time.Time)
	}

	if pruned := c.prune(entries); pruned > 0 {
		if err := c.store(ctx, viewerID, entries); err != nil {
			c.logger.Warn("failed to persist pruned dismissals", zap.Error(err))
		}
	}
	return entries
}

func (c *DismissalCache) store(ctx context.Context, viewerID string, entries map[string]time.Time) error {
	c.prune(entries)
	encoded, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, c.key(viewerID), encoded, c.ttl)
}

// prune drops expired entries in place and returns how many it removed.
func (c *DismissalCache) prune(entries map[string]time.Time) int {
	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for id, dismissedAt := range entries {
		if dismissedAt.Before(cutoff) {
			delete(entries, id)
			removed++
		}
	}
	return removed
}

func (c *DismissalCache) key(viewerID string) string {
	return fmt.Sprintf("dismissals:%s", viewerID)
}

// redisKV adapts go-redis to the KV surface.
type redisKV struct {
	client *redis.Client
}

// NewRedisKV wraps a redis client as the dismissal backing store.
func NewRedisKV(client *redis.Client) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
