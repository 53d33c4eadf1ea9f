package aggregator

import (
	"sort"
	"strconv"

	"aable-presence/internal/models"
)

// preferredZoneOrder 统计展示时优先排在前面的区域
var preferredZoneOrder = []models.Zone{
	models.ZoneWork,
	models.ZoneSmoking,
	models.ZoneDistribution,
	models.ZoneCheckpoint,
	models.ZoneCanteen,
	models.ZoneRestroom,
	models.ZoneOutsideBeacons,
}

// TagDescriber 标签描述查询
type TagDescriber interface {
	TagDescription(tag string) string
}

// SortZones 按展示顺序排序：优先列表在前，其余按区域编号升序
func SortZones(zones []models.Zone) []models.Zone {
	rank := func(z models.Zone) int {
		for i, p := range preferredZoneOrder {
			if p == z {
				return i
			}
		}
		return len(preferredZoneOrder)
	}
	out := append([]models.Zone(nil), zones...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// TotalMinutes 片段总分钟数
func TotalMinutes(segments []models.MinuteSegment) int {
	var sum float64
	for _, s := range segments {
		sum += s.DurationMinutes()
	}
	return Round051(sum)
}

type zoneAccumulator struct {
	minutes float64
	tags    map[int]float64
}

// ComputeZoneStatistics 按区域汇总分钟数，区域内按标签细分（分钟降序）
// 百分比以该人员的总观测分钟为分母；tags 可为 nil
func ComputeZoneStatistics(segments []models.MinuteSegment, tags TagDescriber) []models.ZoneStatistic {
	acc := make(map[models.Zone]*zoneAccumulator)
	var zones []models.Zone
	for _, s := range segments {
		a, ok := acc[s.ZoneID]
		if !ok {
			a = &zoneAccumulator{tags: make(map[int]float64)}
			acc[s.ZoneID] = a
			zones = append(zones, s.ZoneID)
		}
		d := s.DurationMinutes()
		a.minutes += d
		a.tags[s.TagID] += d
	}

	total := TotalMinutes(segments)
	stats := make([]models.ZoneStatistic, 0, len(zones))
	for _, z := range SortZones(zones) {
		a := acc[z]
		minutes := Round051(a.minutes)
		stats = append(stats, models.ZoneStatistic{
			ZoneID:   z,
			ZoneName: z.Name(),
			Color:    z.Color(),
			Minutes:  minutes,
			Percent:  Percent(minutes, total),
			Tags:     tagBreakdown(a.tags, total, tags),
		})
	}
	return stats
}

func tagBreakdown(acc map[int]float64, total int, tags TagDescriber) []models.TagStatistic {
	out := make([]models.TagStatistic, 0, len(acc))
	for tag, mins := range acc {
		minutes := Round051(mins)
		desc := ""
		if tags != nil {
			desc = tags.TagDescription(strconv.Itoa(tag))
		}
		out = append(out, models.TagStatistic{
			TagID:       tag,
			Description: desc,
			Minutes:     minutes,
			Percent:     Percent(minutes, total),
		})
	}
	// 分钟相同时按标签号排序，保证输出稳定
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].TagID < out[j].TagID
	})
	return out
}

// ComputeKPI 按区域所属分组汇总四个 KPI
func ComputeKPI(segments []models.MinuteSegment) models.KPISummary {
	sums := make(map[models.KPIBucket]float64, len(models.KPIBuckets))
	for _, s := range segments {
		sums[s.ZoneID.Bucket()] += s.DurationMinutes()
	}

	total := TotalMinutes(segments)
	value := func(b models.KPIBucket) models.KPIValue {
		m := Round051(sums[b])
		return models.KPIValue{Minutes: m, Percent: Percent(m, total)}
	}
	return models.KPISummary{
		Work:         value(models.BucketWork),
		Breaks:       value(models.BucketBreaks),
		NoSignal:     value(models.BucketNoSignal),
		Other:        value(models.BucketOther),
		TotalMinutes: total,
	}
}
