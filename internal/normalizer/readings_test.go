package normalizer

import (
	"testing"

	"aable-presence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "1234", IdentityString(1234.0))
	assert.Equal(t, "1234", IdentityString("1234.0"))
	assert.Equal(t, "001", IdentityString(" 001 "))
	assert.Equal(t, "A.0", IdentityString("A.0"))
	assert.Equal(t, "12.5", IdentityString(12.5))
	assert.Equal(t, "7", IdentityString(7))
	assert.Equal(t, "", IdentityString(nil))
}

func TestCodeInt(t *testing.T) {
	n, ok := CodeInt("5.0")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = CodeInt(13.9)
	assert.True(t, ok)
	assert.Equal(t, 13, n)

	_, ok = CodeInt("x")
	assert.False(t, ok)
	assert.Equal(t, 0, CodeOrZero(nil))
	assert.Equal(t, 0, CodeOrZero("zone"))
}

func TestIsNoSignalTag(t *testing.T) {
	for _, v := range []any{nil, "", " 0 ", "0.0", 0.0, 0} {
		assert.True(t, IsNoSignalTag(v), "%v", v)
	}
	for _, v := range []any{"5", 5.0, "00x"} {
		assert.False(t, IsNoSignalTag(v), "%v", v)
	}
}

func TestParseReadings(t *testing.T) {
	fileDate := day(2024, 1, 1)
	table := &models.NormalizedTable{
		Columns:    models.CanonicalColumns,
		SourceFile: "AA_BLE_2024-01-01.xlsx",
		FileDate:   fileDate,
		Rows: []models.NormalizedRow{
			{IdentityCode: 1.0, ShiftDay: "2024-01-01", TagID: 5.0, ZoneID: 1.0, TimeOfDay: "08:00"},
			{IdentityCode: "1", ShiftDay: "garbage", TagID: nil, ZoneID: nil, TimeOfDay: "bad"},
		},
	}

	out := ParseReadings(table)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].IdentityCode)
	assert.Equal(t, day(2024, 1, 1), out[0].ShiftDay)
	assert.Equal(t, tod(8, 0, 0), out[0].TimeOfDay)
	assert.Equal(t, "AA_BLE_2024-01-01.xlsx", out[0].SourceFile)
	assert.Equal(t, fileDate, out[0].FileDate)

	assert.Nil(t, out[1].ShiftDay)
	assert.Nil(t, out[1].TimeOfDay)
}
