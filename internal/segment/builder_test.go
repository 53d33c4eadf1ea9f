package segment

import (
	"testing"
	"time"

	"aable-presence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func reading(id string, d *time.Time, h, m int, zone any) models.NormalizedReading {
	return models.NormalizedReading{
		IdentityCode: id,
		ShiftDay:     d,
		TagID:        5.0,
		ZoneID:       zone,
		TimeOfDay:    &models.TimeOfDay{Hour: h, Minute: m},
	}
}

func TestBuilder_OneSegmentPerReading(t *testing.T) {
	d := date(2024, 1, 1)
	readings := []models.NormalizedReading{
		reading("001", d, 8, 0, 1.0),
		reading("001", d, 8, 1, 1.0),
		reading("001", d, 8, 5, 1.0),
	}

	segs := NewBuilder(nil).Build(readings)

	require.Len(t, segs, 3)
	for _, s := range segs {
		assert.Equal(t, time.Minute, s.End.Sub(s.Start))
		assert.Equal(t, 1.0, s.DurationMinutes())
		assert.Equal(t, "001", s.DisplayName)
		assert.Equal(t, "", s.WorkArea)
		assert.Equal(t, 5, s.TagID)
		assert.Equal(t, models.ZoneWork, s.ZoneID)
		assert.Equal(t, "Зоны проведения работ", s.ZoneName)
	}
	assert.Equal(t, time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC), segs[2].Start)
}

func TestBuilder_MidnightRollover(t *testing.T) {
	d := date(2024, 1, 1)
	readings := []models.NormalizedReading{
		reading("001", d, 23, 58, 1.0),
		reading("001", d, 23, 59, 1.0),
		reading("001", d, 0, 0, 1.0),
		reading("001", d, 0, 1, 1.0),
	}

	segs := NewBuilder(nil).Build(readings)

	require.Len(t, segs, 4)
	assert.Equal(t, 1, segs[1].Start.Day())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), segs[2].Start)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), segs[3].Start)
	for _, s := range segs {
		assert.Equal(t, *d, s.ShiftDay)
	}
}

func TestBuilder_ReferenceLookup(t *testing.T) {
	refs := &models.ReferenceData{
		DisplayNames: map[string]string{"001": "Иванов И.И."},
		WorkAreas:    map[string]string{"001": "Цех 1"},
	}
	d := date(2024, 1, 1)

	segs := NewBuilder(refs).Build([]models.NormalizedReading{
		reading("001", d, 8, 0, 1.0),
		reading("002", d, 8, 0, 1.0),
	})

	require.Len(t, segs, 2)
	assert.Equal(t, "Иванов И.И.", segs[0].DisplayName)
	assert.Equal(t, "Цех 1", segs[0].WorkArea)
	assert.Equal(t, "002", segs[1].DisplayName)
	assert.Equal(t, "", segs[1].WorkArea)
}

func TestBuilder_SkipsUnparseableAndGroupsInFirstAppearanceOrder(t *testing.T) {
	d1 := date(2024, 1, 1)
	d2 := date(2024, 1, 2)
	noTime := reading("001", d1, 0, 0, 1.0)
	noTime.TimeOfDay = nil

	readings := []models.NormalizedReading{
		reading("002", d1, 9, 0, 2.0),
		reading("001", d2, 7, 0, 1.0),
		noTime,
		reading("001", nil, 8, 0, 1.0),
		reading("", d1, 8, 0, 1.0),
		reading("002", d1, 9, 1, "17"),
		reading("001", d1, 6, 0, nil),
	}

	segs := NewBuilder(nil).Build(readings)

	require.Len(t, segs, 4)
	assert.Equal(t, "002", segs[0].IdentityCode)
	assert.Equal(t, "002", segs[1].IdentityCode)
	assert.Equal(t, models.Zone(17), segs[1].ZoneID)
	assert.Equal(t, "Zone 17", segs[1].ZoneName)
	assert.Equal(t, *d2, segs[2].ShiftDay)
	assert.Equal(t, *d1, segs[3].ShiftDay)
	assert.Equal(t, models.ZoneOutsideBeacons, segs[3].ZoneID)
}

func TestBuilder_DuplicateTimesKept(t *testing.T) {
	d := date(2024, 1, 1)
	segs := NewBuilder(nil).Build([]models.NormalizedReading{
		reading("001", d, 8, 0, 1.0),
		reading("001", d, 8, 0, 1.0),
	})

	require.Len(t, segs, 2)
	assert.Equal(t, segs[0].Start, segs[1].Start)
}

func TestGroupByIdentity(t *testing.T) {
	d := date(2024, 1, 1)
	segs := NewBuilder(nil).Build([]models.NormalizedReading{
		reading("b", d, 8, 0, 1.0),
		reading("a", d, 8, 0, 1.0),
		reading("b", d, 8, 1, 1.0),
	})

	order, groups := GroupByIdentity(segs)

	assert.Equal(t, []string{"b", "a"}, order)
	assert.Len(t, groups["b"], 2)
	assert.Len(t, groups["a"], 1)
}
