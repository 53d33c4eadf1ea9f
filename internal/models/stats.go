package models

import "time"

// TagStatistic 区域内单个标签的累计分钟
type TagStatistic struct {
	TagID       int     `json:"tag_id"`
	Description string  `json:"description,omitempty"`
	Minutes     int     `json:"minutes"`
	Percent     float64 `json:"percent"`
}

// ZoneStatistic 单个区域的累计分钟及标签明细
type ZoneStatistic struct {
	ZoneID   Zone           `json:"zone_id"`
	ZoneName string         `json:"zone_name"`
	Color    string         `json:"color"`
	Minutes  int            `json:"minutes"`
	Percent  float64        `json:"percent"`
	Tags     []TagStatistic `json:"tags"`
}

// KPIValue 单个 KPI 分组的分钟与占比
type KPIValue struct {
	Minutes int     `json:"minutes"`
	Percent float64 `json:"percent"`
}

// KPISummary 四个 KPI 分组汇总
type KPISummary struct {
	Work         KPIValue `json:"work"`
	Breaks       KPIValue `json:"breaks"`
	NoSignal     KPIValue `json:"no_signal"`
	Other        KPIValue `json:"other"`
	TotalMinutes int      `json:"total_minutes"`
}

// Get 按分组取值
func (k KPISummary) Get(bucket KPIBucket) KPIValue {
	switch bucket {
	case BucketWork:
		return k.Work
	case BucketBreaks:
		return k.Breaks
	case BucketNoSignal:
		return k.NoSignal
	default:
		return k.Other
	}
}

// IdentityTimeline 单个人员的渲染数据（提供给外部渲染方）
type IdentityTimeline struct {
	IdentityCode string          `json:"identity_code"`
	DisplayName  string          `json:"display_name"`
	WorkArea     string          `json:"work_area"`
	BaseDate     time.Time       `json:"base_date"`
	Viewport     Viewport        `json:"viewport"`
	Zones        []ZoneStatistic `json:"zones"`
	KPI          KPISummary      `json:"kpi"`
	TotalMinutes int             `json:"total_minutes"`
	Segments     []MinuteSegment `json:"segments"`
}
