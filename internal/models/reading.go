package models

import (
	"fmt"
	"time"
)

// TimeOfDay 一天中的时刻（秒级精度）
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Seconds 距午夜的秒数
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before 是否严格早于 o
func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Seconds() < o.Seconds()
}

// On 与日期组合为墙上时间（UTC）
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, time.UTC)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// NormalizedReading 归一化并解析后的读数
// ShiftDay / TimeOfDay 为 nil 表示解析失败
type NormalizedReading struct {
	IdentityCode string
	ShiftDay     *time.Time
	TagID        any
	ZoneID       any
	TimeOfDay    *TimeOfDay
	SourceFile   string
	FileDate     *time.Time
}
