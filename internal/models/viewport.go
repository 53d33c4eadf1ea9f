package models

import "time"

// Viewport 单个人员的时间视窗（相对 base_midnight 的分钟数）
// 渲染窗口为 [ViewportStart, ViewportEnd)，按整点向外取整
type Viewport struct {
	BaseMidnight  time.Time `json:"base_midnight"`
	FirstMinute   int       `json:"first_minute"`
	LastMinute    int       `json:"last_minute"`
	ViewportStart int       `json:"viewport_start"`
	ViewportEnd   int       `json:"viewport_end"`
}
