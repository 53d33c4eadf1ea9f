package evaluator

import (
	"time"

	"aable-presence/internal/models"

	"go.uber.org/zap"
)

// 默认阈值
const (
	DefaultZeroSignalThreshold = 100
	DefaultGapThreshold        = time.Minute
	DefaultMaxGapsReported     = 5
)

// Thresholds 异常检测阈值
type Thresholds struct {
	ZeroSignal      int           // 无信号读数超过该值才标记（严格大于）
	Gap             time.Duration // 间隔超过该值才算缺口（严格大于）
	MaxGapsReported int           // 报告中每人最多列出的缺口数
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		ZeroSignal:      DefaultZeroSignalThreshold,
		Gap:             DefaultGapThreshold,
		MaxGapsReported: DefaultMaxGapsReported,
	}
}

// Directory 姓名查询
type Directory interface {
	DisplayName(identity string) string
}

// Result 一次评估的结果
type Result struct {
	ZeroSignal []models.ZeroSignalFlag
	Gaps       map[string][]models.GapRecord
	GapOrder   []string // 有缺口的人员（首次出现顺序）
	Events     []models.AnomalyEvent
}

// Evaluator 数据质量异常评估器
// 两项检查相互独立，只产生提示，不修改片段
type Evaluator struct {
	thresholds Thresholds
	logger     *zap.Logger

	zeroSignal *ZeroSignalEvaluator // 无信号读数过多
	timeGap    *TimeGapEvaluator    // 时间缺口
}

// NewEvaluator 创建评估器
func NewEvaluator(thresholds Thresholds, logger *zap.Logger) *Evaluator {
	e := &Evaluator{
		thresholds: thresholds,
		logger:     logger,
	}
	e.zeroSignal = NewZeroSignalEvaluator(thresholds.ZeroSignal)
	e.timeGap = NewTimeGapEvaluator(thresholds.Gap)
	return e
}

// Evaluate 对一批读数与片段做异常检测，并构建异常事件
// readings 为空时无信号检查改用片段
func (e *Evaluator) Evaluate(
	batchID string,
	readings []models.NormalizedReading,
	segments []models.MinuteSegment,
	directory Directory,
) *Result {
	res := &Result{}

	if len(readings) > 0 {
		res.ZeroSignal = e.zeroSignal.EvaluateReadings(readings)
	} else {
		res.ZeroSignal = e.zeroSignal.EvaluateSegments(segments)
	}
	res.GapOrder, res.Gaps = e.timeGap.Evaluate(segments)

	name := func(id string) string {
		if directory == nil {
			return id
		}
		return directory.DisplayName(id)
	}

	builder := NewAnomalyEventBuilder(batchID)
	for _, flag := range res.ZeroSignal {
		res.Events = append(res.Events, *builder.BuildZeroSignalEvent(flag, name(flag.IdentityCode), e.thresholds.ZeroSignal))
	}
	for _, id := range res.GapOrder {
		res.Events = append(res.Events, *builder.BuildTimeGapEvent(id, name(id), res.Gaps[id], e.thresholds.Gap))
	}

	if len(res.ZeroSignal) > 0 {
		e.logger.Warn(FormatZeroSignalReport(res.ZeroSignal, e.thresholds.ZeroSignal),
			zap.String("batch_id", batchID),
			zap.Int("identities", len(res.ZeroSignal)),
		)
	}
	if len(res.GapOrder) > 0 {
		e.logger.Warn(FormatGapReport(res.GapOrder, res.Gaps, directory, e.thresholds.MaxGapsReported),
			zap.String("batch_id", batchID),
			zap.Int("identities", len(res.GapOrder)),
		)
	}
	e.logger.Debug("Anomaly evaluation finished",
		zap.String("batch_id", batchID),
		zap.Int("events", len(res.Events)),
	)
	return res
}
