package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aable-presence/internal/consumer"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, ReferenceSourceExcel, cfg.Presence.ReferenceSource)
	assert.Equal(t, 100, cfg.Presence.ZeroSignalThreshold)
	assert.Equal(t, time.Minute, cfg.Presence.GapThreshold)
	assert.Equal(t, 5, cfg.Presence.MaxGapsReported)
	assert.Equal(t, time.Hour, cfg.Presence.CacheTTL)
	assert.Equal(t, "presence:anomalies", cfg.Presence.AnomalyStream)
	assert.Equal(t, "presence/anomalies", cfg.Presence.AnomalyTopic)
	assert.Equal(t, []string{"log"}, cfg.Presence.Notifiers)
	assert.Empty(t, cfg.Presence.Facilities)
	assert.Empty(t, cfg.Presence.TimeWindow)
	assert.Equal(t, cfg.Presence.DateFrom, cfg.Presence.DateTo)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("PRESENCE_FACILITIES", "Север=/data/north; Юг = /data/south ;")
	t.Setenv("PRESENCE_DATE_FROM", "2024-01-01")
	t.Setenv("PRESENCE_DATE_TO", "2024-01-03")
	t.Setenv("PRESENCE_REFERENCE_SOURCE", "Postgres")
	t.Setenv("PRESENCE_ZERO_SIGNAL_THRESHOLD", "50")
	t.Setenv("PRESENCE_GAP_THRESHOLD_MINUTES", "3")
	t.Setenv("PRESENCE_TIME_WINDOW", "08:00-17:00")
	t.Setenv("PRESENCE_CACHE_TTL", "60")
	t.Setenv("PRESENCE_NOTIFIERS", "log, Stream,telegram")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, []consumer.Facility{
		{Name: "Север", Dir: "/data/north"},
		{Name: "Юг", Dir: "/data/south"},
	}, cfg.Presence.Facilities)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Presence.DateFrom)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), cfg.Presence.DateTo)
	assert.Equal(t, ReferenceSourcePostgres, cfg.Presence.ReferenceSource)
	assert.Equal(t, 50, cfg.Presence.ZeroSignalThreshold)
	assert.Equal(t, 3*time.Minute, cfg.Presence.GapThreshold)
	assert.Equal(t, "08:00-17:00", cfg.Presence.TimeWindow)
	assert.Equal(t, time.Minute, cfg.Presence.CacheTTL)
	assert.Equal(t, []string{"log", "stream", "telegram"}, cfg.Presence.Notifiers)
	assert.True(t, cfg.NotifierEnabled("stream"))
	assert.False(t, cfg.NotifierEnabled("mqtt"))
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("PRESENCE_ZERO_SIGNAL_THRESHOLD", "many")
	t.Setenv("PRESENCE_MAX_GAPS_REPORTED", "-1")
	t.Setenv("DB_PORT", "port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Presence.ZeroSignalThreshold)
	assert.Equal(t, 5, cfg.Presence.MaxGapsReported)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad facility", "PRESENCE_FACILITIES", "north"},
		{"bad date", "PRESENCE_DATE_FROM", "01.01.2024"},
		{"bad reference source", "PRESENCE_REFERENCE_SOURCE", "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DateRangeReversed(t *testing.T) {
	t.Setenv("PRESENCE_DATE_FROM", "2024-01-05")
	t.Setenv("PRESENCE_DATE_TO", "2024-01-01")

	_, err := Load()
	assert.Error(t, err)
}
