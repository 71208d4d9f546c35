package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memKV is an in-memory KV fake. TTLs are ignored; expiry is exercised
// through the cache's own pruning with a simulated clock.
type memKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setHits int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setHits++
	m.data[key] = value
	return nil
}

func TestDismissAndIsDismissed(t *testing.T) {
	kv := newMemKV()
	cache := NewDismissalCache(kv, 7*24*time.Hour, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, cache.Dismiss(ctx, "viewer-1", "deadline:case:c1:overdue"))

	assert.True(t, cache.IsDismissed(ctx, "viewer-1", "deadline:case:c1:overdue"))
	assert.False(t, cache.IsDismissed(ctx, "viewer-1", "deadline:case:c2:overdue"))
	assert.False(t, cache.IsDismissed(ctx, "viewer-2", "deadline:case:c1:overdue"), "dismissals are per viewer")
}

func TestDismissalExpiresAfterTTL(t *testing.T) {
	kv := newMemKV()
	current := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	cache := NewDismissalCache(kv, 7*24*time.Hour, zap.NewNop()).WithClock(func() time.Time { return current })

	ctx := context.Background()
	require.NoError(t, cache.Dismiss(ctx, "viewer-1", "follow:customer:c1:48h"))
	assert.True(t, cache.IsDismissed(ctx, "viewer-1", "follow:customer:c1:48h"))

	current = current.Add(6 * 24 * time.Hour)
	assert.True(t, cache.IsDismissed(ctx, "viewer-1", "follow:customer:c1:48h"), "still inside the window")

	current = current.Add(2 * 24 * time.Hour)
	assert.False(t, cache.IsDismissed(ctx, "viewer-1", "follow:customer:c1:48h"), "suppression lapsed, alert may reappear")
}

func TestExpiredEntriesArePersistedAway(t *testing.T) {
	kv := newMemKV()
	current := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	cache := NewDismissalCache(kv, 24*time.Hour, zap.NewNop()).WithClock(func() time.Time { return current })

	ctx := context.Background()
	require.NoError(t, cache.Dismiss(ctx, "viewer-1", "a"))
	writes := kv.setHits

	current = current.Add(48 * time.Hour)
	assert.Empty(t, cache.Dismissed(ctx, "viewer-1"))
	assert.Greater(t, kv.setHits, writes, "prune rewrites the shrunken set")
}

func TestCorruptStoreDegradesToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.data["dismissals:viewer-1"] = []byte("not msgpack at all")
	cache := NewDismissalCache(kv, 7*24*time.Hour, zap.NewNop())

	ctx := context.Background()
	assert.Empty(t, cache.Dismissed(ctx, "viewer-1"))

	// Dismissing afterwards starts from a clean slate rather than failing.
	require.NoError(t, cache.Dismiss(ctx, "viewer-1", "x"))
	assert.True(t, cache.IsDismissed(ctx, "viewer-1", "x"))
}

func TestUnreadableStoreDegradesToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("connection refused")
	cache := NewDismissalCache(kv, 7*24*time.Hour, zap.NewNop())

	assert.Empty(t, cache.Dismissed(context.Background(), "viewer-1"))
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	cache := NewDismissalCache(newMemKV(), 0, zap.NewNop())
	assert.Equal(t, 7*24*time.Hour, cache.ttl)
}
