package evaluator

import (
	"sort"
	"time"

	"aable-presence/internal/models"
)

// TimeGapEvaluator 时间缺口检查
// 同一人员的全部片段（跨班次日期）按开始时间排序，
// elapsed = 本片段 Start - 上一片段 End，elapsed 超过阈值且
// GapMinutes（elapsed 整分钟数 - 1）大于 0 时才记为缺口
type TimeGapEvaluator struct {
	threshold time.Duration
}

// NewTimeGapEvaluator 创建缺口检查器
func NewTimeGapEvaluator(threshold time.Duration) *TimeGapEvaluator {
	return &TimeGapEvaluator{threshold: threshold}
}

// Evaluate 返回有缺口的人员（首次出现顺序）及其缺口列表
func (e *TimeGapEvaluator) Evaluate(segments []models.MinuteSegment) ([]string, map[string][]models.GapRecord) {
	var order []string
	byIdentity := make(map[string][]models.MinuteSegment)
	for _, s := range segments {
		if _, ok := byIdentity[s.IdentityCode]; !ok {
			order = append(order, s.IdentityCode)
		}
		byIdentity[s.IdentityCode] = append(byIdentity[s.IdentityCode], s)
	}

	var withGaps []string
	gaps := make(map[string][]models.GapRecord)
	for _, id := range order {
		if found := e.detect(id, byIdentity[id]); len(found) > 0 {
			withGaps = append(withGaps, id)
			gaps[id] = found
		}
	}
	return withGaps, gaps
}

func (e *TimeGapEvaluator) detect(identity string, segments []models.MinuteSegment) []models.GapRecord {
	sorted := append([]models.MinuteSegment(nil), segments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var out []models.GapRecord
	for i := 1; i < len(sorted); i++ {
		rec := models.GapRecord{
			IdentityCode: identity,
			From:         sorted[i-1].End,
			To:           sorted[i].Start,
		}
		elapsed := rec.Elapsed()
		if elapsed <= e.threshold {
			continue
		}
		// 秒级时间下 1~2 分钟的间隔不足一个完整缺失分钟
		rec.GapMinutes = int(elapsed/time.Minute) - 1
		if rec.GapMinutes <= 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}
