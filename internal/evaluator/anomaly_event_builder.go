package evaluator

import (
	"time"

	"aable-presence/internal/models"

	"github.com/google/uuid"
)

// AnomalyEventBuilder 异常事件构建器
type AnomalyEventBuilder struct {
	batchID string
	now     func() time.Time
}

// NewAnomalyEventBuilder 创建异常事件构建器
func NewAnomalyEventBuilder(batchID string) *AnomalyEventBuilder {
	return &AnomalyEventBuilder{
		batchID: batchID,
		now:     time.Now,
	}
}

func (b *AnomalyEventBuilder) build(eventType, identity, displayName string, data models.TriggerData) *models.AnomalyEvent {
	return &models.AnomalyEvent{
		EventID:      uuid.New().String(),
		BatchID:      b.batchID,
		EventType:    eventType,
		IdentityCode: identity,
		DisplayName:  displayName,
		TriggeredAt:  b.now().UTC(),
		TriggerData:  data,
	}
}

// BuildZeroSignalEvent 构建无信号过多事件
func (b *AnomalyEventBuilder) BuildZeroSignalEvent(flag models.ZeroSignalFlag, displayName string, threshold int) *models.AnomalyEvent {
	count := flag.Count
	return b.build(models.AnomalyZeroSignal, flag.IdentityCode, displayName, models.TriggerData{
		Count:     &count,
		Threshold: threshold,
	})
}

// BuildTimeGapEvent 构建时间缺口事件（阈值以分钟计）
func (b *AnomalyEventBuilder) BuildTimeGapEvent(identity, displayName string, gaps []models.GapRecord, threshold time.Duration) *models.AnomalyEvent {
	count := len(gaps)
	return b.build(models.AnomalyTimeGap, identity, displayName, models.TriggerData{
		Count:     &count,
		Threshold: int(threshold / time.Minute),
		Gaps:      append([]models.GapRecord(nil), gaps...),
	})
}
