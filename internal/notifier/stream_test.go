package notifier

import (
	"context"
	"encoding/json"
	"testing"

	"aable-presence/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = redisClient.Close() })
	return mr, redisClient
}

func TestStreamNotifier_Notify(t *testing.T) {
	_, client := setupTestRedis(t)
	n := NewStreamNotifier(client, "presence:anomalies", 0, zap.NewNop())

	require.NoError(t, n.Notify(context.Background(), sampleEvents()))

	msgs, err := client.XRange(context.Background(), "presence:anomalies", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	var ev models.AnomalyEvent
	require.NoError(t, json.Unmarshal([]byte(msgs[1].Values["data"].(string)), &ev))
	assert.Equal(t, "ev-2", ev.EventID)
	assert.Equal(t, models.AnomalyTimeGap, ev.EventType)
	require.Len(t, ev.TriggerData.Gaps, 1)
	assert.Equal(t, 2, ev.TriggerData.Gaps[0].GapMinutes)
}

func TestStreamNotifier_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()
	n := NewStreamNotifier(client, "presence:anomalies", 0, zap.NewNop())

	assert.Error(t, n.Notify(context.Background(), sampleEvents()))
}
