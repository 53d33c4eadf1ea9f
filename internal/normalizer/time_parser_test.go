package normalizer

import (
	"testing"
	"time"

	"aable-presence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(h, m, s int) *models.TimeOfDay {
	return &models.TimeOfDay{Hour: h, Minute: m, Second: s}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *models.TimeOfDay
	}{
		{"hh:mm:ss", "08:05:30", tod(8, 5, 30)},
		{"hh:mm", "23:59", tod(23, 59, 0)},
		{"padded string", "  07:00 ", tod(7, 0, 0)},
		{"single digit hour rejected", "8:05", nil},
		{"out of range", "25:00", nil},
		{"noon fraction", 0.5, tod(12, 0, 0)},
		{"integer part discarded", 1.5, tod(12, 0, 0)},
		{"third of a day", 1.0 / 3.0, tod(8, 0, 0)},
		{"seconds honoured", 0.34375 + 1.0/86400, tod(8, 15, 1)},
		{"numeric string", "0.25", tod(6, 0, 0)},
		{"whole day is midnight", 2, tod(0, 0, 0)},
		{"negative", -0.1, nil},
		{"garbage", "abc", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
		{"unsupported type", []int{1}, nil},
		{"native time", time.Date(2024, 1, 1, 9, 30, 15, 0, time.UTC), tod(9, 30, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimeOfDay(tt.input))
		})
	}
}

func TestParseTimeOfDay_Idempotent(t *testing.T) {
	for _, input := range []any{"08:05:30", 0.75, "00:00"} {
		first := ParseTimeOfDay(input)
		require.NotNil(t, first)

		assert.Equal(t, first, ParseTimeOfDay(*first))
		assert.Equal(t, first, ParseTimeOfDay(first))
	}

	var nilTime *models.TimeOfDay
	assert.Nil(t, ParseTimeOfDay(nilTime))
}

func TestParseTimeOfDay_DayFractionBoundaries(t *testing.T) {
	// 分钟序号换算的小数在二进制下可能略低于整秒
	for m := 0; m < 1440; m++ {
		got := ParseTimeOfDay(float64(m) / 1440)
		require.NotNil(t, got)
		assert.Equal(t, tod(m/60, m%60, 0), got, "minute %d", m)
	}
	// 距整秒超过容差的值仍向下取整
	assert.Equal(t, tod(11, 59, 59), ParseTimeOfDay(0.4999999999))
	assert.Equal(t, tod(12, 0, 0), ParseTimeOfDay(0.5))
}
