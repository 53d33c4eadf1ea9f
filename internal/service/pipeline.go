package service

import (
	"path/filepath"
	"time"

	"aable-presence/internal/aggregator"
	"aable-presence/internal/evaluator"
	"aable-presence/internal/models"
	"aable-presence/internal/normalizer"
	"aable-presence/internal/segment"
	"aable-presence/internal/viewport"

	"go.uber.org/zap"
)

// BatchResult 一次批处理的计算结果
type BatchResult struct {
	BatchID   string
	BatchDate *time.Time // 批次日期，无法推断时为 nil

	Readings []models.NormalizedReading
	Segments []models.MinuteSegment // 全部片段（未经时间窗口过滤）
	Filtered []models.MinuteSegment // 时间窗口过滤后的片段，用于统计与导出

	Anomalies *evaluator.Result
	Timelines []*models.IdentityTimeline // 按人员首次出现顺序
	KPI       models.KPISummary          // 全体汇总
}

// Pipeline 在场数据处理流水线：列归一化 -> 值解析 -> 片段构建 -> 统计/异常/视窗
// 只做内存计算，读写由 PresenceService 负责
type Pipeline struct {
	refs      *models.ReferenceData
	window    *segment.TimeWindow
	evaluator *evaluator.Evaluator
	logger    *zap.Logger
}

// NewPipeline 创建流水线，refs 与 window 均可为 nil
func NewPipeline(refs *models.ReferenceData, thresholds evaluator.Thresholds, window *segment.TimeWindow, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		refs:      refs,
		window:    window,
		evaluator: evaluator.NewEvaluator(thresholds, logger),
		logger:    logger,
	}
}

// Process 处理一批原始表格
// 多个表格按传入顺序拼接，表内行序保持不变
func (p *Pipeline) Process(batchID string, tables []*models.RawTable) *BatchResult {
	res := &BatchResult{BatchID: batchID}

	for _, table := range tables {
		if table == nil {
			continue
		}
		if res.BatchDate == nil {
			res.BatchDate = batchDate(table)
		}
		normalized := normalizer.NormalizeColumns(table)
		p.logColumns(table)
		res.Readings = append(res.Readings, normalizer.ParseReadings(normalized)...)
	}

	res.Segments = segment.NewBuilder(p.refs).Build(res.Readings)
	res.Filtered = segment.FilterByTimeWindow(res.Segments, p.window)
	res.Anomalies = p.evaluator.Evaluate(batchID, res.Readings, res.Segments, p.refs)

	_, full := segment.GroupByIdentity(res.Segments)
	order, byIdentity := segment.GroupByIdentity(res.Filtered)
	for _, id := range order {
		if tl := p.BuildTimeline(id, full[id], byIdentity[id]); tl != nil {
			res.Timelines = append(res.Timelines, tl)
		}
	}
	res.KPI = aggregator.ComputeKPI(res.Filtered)

	fields := []zap.Field{
		zap.String("batch_id", batchID),
		zap.Int("tables", len(tables)),
		zap.Int("readings", len(res.Readings)),
		zap.Int("segments", len(res.Segments)),
		zap.Int("skipped_readings", len(res.Readings)-len(res.Segments)),
		zap.Int("identities", len(res.Timelines)),
		zap.Int("anomalies", len(res.Anomalies.Events)),
	}
	if n := countUnknownZones(res.Segments); n > 0 {
		fields = append(fields, zap.Int("unknown_zone_segments", n))
	}
	if res.BatchDate != nil {
		fields = append(fields, zap.String("batch_date", res.BatchDate.Format("2006-01-02")))
	}
	if p.window != nil {
		fields = append(fields, zap.String("time_window", p.window.String()), zap.Int("filtered_segments", len(res.Filtered)))
	}
	p.logger.Info("Presence batch processed", fields...)
	return res
}

// BuildTimeline 组装单个人员的渲染数据，无片段时返回 nil
// full 为该人员未经时间窗口过滤的全部片段，视窗按 full 计算（为空时用 segments）；
// 区域统计与 KPI 只按 segments 计算
func (p *Pipeline) BuildTimeline(identity string, full, segments []models.MinuteSegment) *models.IdentityTimeline {
	if len(segments) == 0 {
		return nil
	}
	if len(full) == 0 {
		full = segments
	}
	vp, ok := viewport.Prepare(full)
	if !ok {
		return nil
	}
	return &models.IdentityTimeline{
		IdentityCode: identity,
		DisplayName:  p.refs.DisplayName(identity),
		WorkArea:     p.refs.WorkArea(identity),
		BaseDate:     vp.BaseMidnight,
		Viewport:     vp,
		Zones:        aggregator.ComputeZoneStatistics(segments, p.refs),
		KPI:          aggregator.ComputeKPI(segments),
		TotalMinutes: aggregator.TotalMinutes(segments),
		Segments:     segments,
	}
}

func (p *Pipeline) logColumns(table *models.RawTable) {
	for _, col := range normalizer.ResolveColumns(table) {
		if col.Strategy == normalizer.StrategyName {
			continue
		}
		p.logger.Debug("Column resolved without header match",
			zap.String("source_file", table.SourceFile),
			zap.String("column", col.Column),
			zap.String("strategy", col.Strategy),
			zap.Int("index", col.Index),
		)
	}
}

func countUnknownZones(segments []models.MinuteSegment) int {
	n := 0
	for _, s := range segments {
		if !s.ZoneID.Known() {
			n++
		}
	}
	return n
}

// batchDate 表格内日期列优先，其次是文件名日期
func batchDate(table *models.RawTable) *time.Time {
	if d := normalizer.InferBatchDate(table); d != nil {
		return d
	}
	if table.FileDate != nil {
		return table.FileDate
	}
	if table.SourceFile != "" {
		return normalizer.ParseDateFromFilename(filepath.Base(table.SourceFile))
	}
	return nil
}
