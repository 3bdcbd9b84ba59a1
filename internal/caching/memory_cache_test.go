package caching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockzero/internal/models"
)

func sampleRows() *models.RowSet {
	return &models.RowSet{
		Columns: []string{"brand", "stock"},
		Rows:    [][]any{{"ACME", int64(12)}},
	}
}

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k1", sampleRows(), time.Minute))
	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, sampleRows(), got)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k1", sampleRows(), time.Minute))

	current = base.Add(59 * time.Second)
	_, ok := c.Get(ctx, "k1")
	assert.True(t, ok)

	current = base.Add(61 * time.Second)
	_, ok = c.Get(ctx, "k1")
	assert.False(t, ok, "entry past its TTL must not be served")

	// The expired entry is also gone from the map, not just hidden.
	c.mu.RLock()
	_, present := c.entries["k1"]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestMemoryCachePruneOnSet(t *testing.T) {
	c := NewMemoryCache()
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "old", sampleRows(), time.Second))

	current = base.Add(time.Hour)
	require.NoError(t, c.Set(ctx, "new", sampleRows(), time.Minute))

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.NotContains(t, c.entries, "old")
	assert.Contains(t, c.entries, "new")
}
