package viewport

import (
	"time"

	"aable-presence/internal/models"
)

// Prepare 计算单个人员片段的时间视窗
// base_midnight 取最早片段所在日期的零点；各片段 Start 换算为距其的整分钟数（跨日可超过 1440），
// 渲染窗口按整点向外扩展为 [floor(first/60)*60, (floor(last/60)+1)*60)
// 无片段时 ok=false
func Prepare(segments []models.MinuteSegment) (vp models.Viewport, ok bool) {
	if len(segments) == 0 {
		return models.Viewport{}, false
	}

	earliest := segments[0].Start
	for _, s := range segments[1:] {
		if s.Start.Before(earliest) {
			earliest = s.Start
		}
	}
	base := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, earliest.Location())

	first, last := -1, -1
	for _, s := range segments {
		m := MinuteOffset(base, s.Start)
		if first < 0 || m < first {
			first = m
		}
		if m > last {
			last = m
		}
	}

	return FromMinutes(base, first, last), true
}

// FromMinutes 由首末分钟构造视窗
func FromMinutes(base time.Time, first, last int) models.Viewport {
	return models.Viewport{
		BaseMidnight:  base,
		FirstMinute:   first,
		LastMinute:    last,
		ViewportStart: (first / 60) * 60,
		ViewportEnd:   (last/60 + 1) * 60,
	}
}

// MinuteOffset t 距 base 的整分钟数（向下取整）
func MinuteOffset(base, t time.Time) int {
	return int(t.Sub(base) / time.Minute)
}
