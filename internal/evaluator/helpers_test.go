package evaluator

import (
	"time"

	"aable-presence/internal/models"
)

type names map[string]string

func (n names) DisplayName(id string) string {
	if v, ok := n[id]; ok {
		return v
	}
	return id
}

func seg(id string, h, m int, zone models.Zone, tag int) models.MinuteSegment {
	start := time.Date(2024, 1, 1, h, m, 0, 0, time.UTC)
	return models.MinuteSegment{
		IdentityCode: id,
		ShiftDay:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Start:        start,
		End:          start.Add(time.Minute),
		ZoneID:       zone,
		TagID:        tag,
	}
}

func zeroReadings(id string, n int) []models.NormalizedReading {
	out := make([]models.NormalizedReading, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.NormalizedReading{IdentityCode: id, TagID: 5.0, ZoneID: 0.0})
	}
	return out
}
