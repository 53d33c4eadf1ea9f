package models

import "time"

// SegmentDuration 每个读数对应的固定时长
const SegmentDuration = time.Minute

// MinuteSegment 一分钟在场片段
type MinuteSegment struct {
	IdentityCode string    `json:"identity_code"`
	DisplayName  string    `json:"display_name"`
	WorkArea     string    `json:"work_area"`
	ShiftDay     time.Time `json:"shift_day"` // 原始班次日期（跨午夜也不变）
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TagID        int       `json:"tag_id"`
	ZoneID       Zone      `json:"zone_id"`
	ZoneName     string    `json:"zone_name"`
	SourceFile   string    `json:"source_file,omitempty"`
}

// DurationMinutes 片段时长（分钟）
func (s MinuteSegment) DurationMinutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}
