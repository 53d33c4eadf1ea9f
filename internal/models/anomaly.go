package models

import (
	"time"
)

// 异常类型
const (
	AnomalyZeroSignal = "zero_signal"
	AnomalyTimeGap    = "time_gap"
)

// GapRecord 时间缺口
// GapMinutes = (To - From) - 1，即超出一分钟节奏的缺失分钟数
type GapRecord struct {
	IdentityCode string    `json:"identity_code"`
	From         time.Time `json:"from"` // 前一片段的 End
	To           time.Time `json:"to"`   // 下一片段的 Start
	GapMinutes   int       `json:"gap_minutes"`
}

// Elapsed From 与 To 之间的原始间隔
func (g GapRecord) Elapsed() time.Duration {
	return g.To.Sub(g.From)
}

// ZeroSignalFlag 无信号读数过多的人员
type ZeroSignalFlag struct {
	IdentityCode string `json:"identity_code"`
	Count        int    `json:"count"`
}

// AnomalyEvent 异常事件（仅作提示，不影响片段结果）
type AnomalyEvent struct {
	EventID      string      `json:"event_id"`
	BatchID      string      `json:"batch_id"`
	EventType    string      `json:"event_type"`
	IdentityCode string      `json:"identity_code"`
	DisplayName  string      `json:"display_name"`
	TriggeredAt  time.Time   `json:"triggered_at"`
	TriggerData  TriggerData `json:"trigger_data"`
}

// TriggerData 触发数据快照
type TriggerData struct {
	Count     *int        `json:"count,omitempty"`
	Threshold int         `json:"threshold"`
	Gaps      []GapRecord `json:"gaps,omitempty"`
}
