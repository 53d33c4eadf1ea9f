package aggregator

import (
	"context"
	"testing"
	"time"

	"aable-presence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBatchCache_PutGetDiscard(t *testing.T) {
	kv := NewMemoryKVStore()
	cache := NewBatchCache("batch-1", kv, time.Hour, zap.NewNop())
	ctx := context.Background()

	tl := &models.IdentityTimeline{
		IdentityCode: "001",
		DisplayName:  "Иванов И.И.",
		TotalMinutes: 3,
		Zones:        []models.ZoneStatistic{{ZoneID: models.ZoneWork, Minutes: 3, Percent: 100}},
	}
	require.NoError(t, cache.PutTimeline(ctx, tl))
	require.NoError(t, cache.PutTimeline(ctx, &models.IdentityTimeline{IdentityCode: "002"}))
	require.NoError(t, cache.PutTimeline(ctx, tl))

	got, err := cache.GetTimeline(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, "Иванов И.И.", got.DisplayName)
	assert.Equal(t, 3, got.Zones[0].Minutes)

	ids, err := cache.Identities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, ids)

	raw, err := kv.Get(ctx, "presence:batch:batch-1:timeline:001")
	require.NoError(t, err)
	assert.Contains(t, raw, `"identity_code":"001"`)

	require.NoError(t, cache.Discard(ctx))
	assert.Empty(t, kv.data)

	_, err = cache.GetTimeline(ctx, "001")
	assert.ErrorIs(t, err, ErrCacheMiss)
	ids, err = cache.Identities(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBatchCache_IsolatedPerBatch(t *testing.T) {
	_, kv := setupTestRedis(t)
	ctx := context.Background()

	a := NewBatchCache("a", kv, time.Hour, zap.NewNop())
	b := NewBatchCache("b", kv, time.Hour, zap.NewNop())
	require.NoError(t, a.PutTimeline(ctx, &models.IdentityTimeline{IdentityCode: "001"}))

	_, err := b.GetTimeline(ctx, "001")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, b.Discard(ctx))
	_, err = a.GetTimeline(ctx, "001")
	assert.NoError(t, err)
	assert.Equal(t, "a", a.BatchID())
}

func TestBatchCache_NilTimeline(t *testing.T) {
	cache := NewBatchCache("x", NewMemoryKVStore(), 0, zap.NewNop())
	assert.Error(t, cache.PutTimeline(context.Background(), nil))
}
