package models

import "fmt"

// Zone 区域编码
type Zone int

// 已知区域（共 14 个）
const (
	ZoneOutsideBeacons Zone = 0
	ZoneWork           Zone = 1
	ZoneCanteen        Zone = 2
	ZoneHazard         Zone = 3
	ZoneSmoking        Zone = 4
	ZoneRest           Zone = 5
	ZoneVZhG           Zone = 6
	ZoneRestroom       Zone = 7
	ZoneBusStop        Zone = 8
	ZoneAdministrative Zone = 9
	ZoneDistribution   Zone = 10
	ZoneWarehouse      Zone = 11
	ZoneWorkshop       Zone = 12
	ZoneCheckpoint     Zone = 13
)

// DefaultZoneColor 未知区域颜色
const DefaultZoneColor = "#95A5A6"

type zoneInfo struct {
	name   string
	color  string
	bucket KPIBucket
}

var zoneCatalog = map[Zone]zoneInfo{
	ZoneOutsideBeacons: {"Вне зоны BLE-маячков", "#95A5A6", BucketNoSignal},
	ZoneWork:           {"Зоны проведения работ", "#27AE60", BucketWork},
	ZoneCanteen:        {"Столовые", "#E67E22", BucketBreaks},
	ZoneHazard:         {"Опасные зоны", "#E74C3C", BucketOther},
	ZoneSmoking:        {"Курилки", "#E74C3C", BucketBreaks},
	ZoneRest:           {"Зоны отдыха", "#8E44AD", BucketBreaks},
	ZoneVZhG:           {"ВЖГ", "#3498DB", BucketOther},
	ZoneRestroom:       {"Туалеты", "#F1C40F", BucketBreaks},
	ZoneBusStop:        {"Остановки автобусов", "#1ABC9C", BucketOther},
	ZoneAdministrative: {"Административные помещения", "#9B59B6", BucketOther},
	ZoneDistribution:   {"Зона выдачи WW", "#1F77B4", BucketOther},
	ZoneWarehouse:      {"Склад", "#E67E22", BucketOther},
	ZoneWorkshop:       {"Мастерские", "#2ECC71", BucketOther},
	ZoneCheckpoint:     {"КПП", "#E67E22", BucketOther},
}

// Known 是否为目录中的区域
func (z Zone) Known() bool {
	_, ok := zoneCatalog[z]
	return ok
}

// Name 区域显示名称，未知区域返回 "Zone <id>"
func (z Zone) Name() string {
	if info, ok := zoneCatalog[z]; ok {
		return info.name
	}
	return fmt.Sprintf("Zone %d", int(z))
}

// Color 区域颜色
func (z Zone) Color() string {
	if info, ok := zoneCatalog[z]; ok {
		return info.color
	}
	return DefaultZoneColor
}

// Bucket 区域所属 KPI 分组，未知区域归入 other
func (z Zone) Bucket() KPIBucket {
	if info, ok := zoneCatalog[z]; ok {
		return info.bucket
	}
	return BucketOther
}

// KPIBucket KPI 分组
type KPIBucket string

const (
	BucketWork     KPIBucket = "work"
	BucketBreaks   KPIBucket = "breaks"
	BucketNoSignal KPIBucket = "no_signal"
	BucketOther    KPIBucket = "other"
)

// KPIBuckets 全部分组（展示顺序）
var KPIBuckets = []KPIBucket{BucketWork, BucketBreaks, BucketNoSignal, BucketOther}
