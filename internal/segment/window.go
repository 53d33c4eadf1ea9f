package segment

import (
	"fmt"
	"strings"

	"aable-presence/internal/models"
	"aable-presence/internal/normalizer"
)

// TimeWindow 一天内的时间窗口 [Start, End)
// Start 晚于 End 时窗口跨越午夜（如 20:00-08:00 夜班）
type TimeWindow struct {
	Start models.TimeOfDay
	End   models.TimeOfDay
}

// ParseTimeWindow 解析 "HH:MM-HH:MM"
func ParseTimeWindow(s string) (*TimeWindow, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid time window %q: expected HH:MM-HH:MM", s)
	}
	start := normalizer.ParseTimeOfDay(strings.TrimSpace(parts[0]))
	end := normalizer.ParseTimeOfDay(strings.TrimSpace(parts[1]))
	if start == nil || end == nil {
		return nil, fmt.Errorf("invalid time window %q: unparseable bound", s)
	}
	return &TimeWindow{Start: *start, End: *end}, nil
}

// Contains 时刻是否落在窗口内
func (w TimeWindow) Contains(t models.TimeOfDay) bool {
	s, e, v := w.Start.Seconds(), w.End.Seconds(), t.Seconds()
	if s <= e {
		return s <= v && v < e
	}
	return v >= s || v < e
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start.Hour, w.Start.Minute, w.End.Hour, w.End.Minute)
}

// FilterByTimeWindow 只保留起始时刻落在窗口内的片段；window 为 nil 时原样返回
func FilterByTimeWindow(segments []models.MinuteSegment, window *TimeWindow) []models.MinuteSegment {
	if window == nil {
		return segments
	}
	out := make([]models.MinuteSegment, 0, len(segments))
	for _, s := range segments {
		t := models.TimeOfDay{Hour: s.Start.Hour(), Minute: s.Start.Minute(), Second: s.Start.Second()}
		if window.Contains(t) {
			out = append(out, s)
		}
	}
	return out
}
