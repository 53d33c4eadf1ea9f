package notifier

import (
	"context"
	"errors"
	"fmt"

	"aable-presence/internal/models"

	"go.uber.org/zap"
)

// Notifier 异常事件投递
type Notifier interface {
	Name() string
	Notify(ctx context.Context, events []models.AnomalyEvent) error
}

// Multi 依次调用多个 Notifier，单个失败不影响其余
type Multi struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewMulti 创建组合通知器
func NewMulti(logger *zap.Logger, notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers, logger: logger}
}

func (m *Multi) Name() string {
	return "multi"
}

// Notify 返回所有失败的合并错误
func (m *Multi) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, events); err != nil {
			m.logger.Error("Notifier failed",
				zap.String("notifier", n.Name()),
				zap.Int("events", len(events)),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// LogNotifier 将异常事件写入日志
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string {
	return "log"
}

func (n *LogNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	for _, ev := range events {
		fields := []zap.Field{
			zap.String("event_id", ev.EventID),
			zap.String("batch_id", ev.BatchID),
			zap.String("event_type", ev.EventType),
			zap.String("identity_code", ev.IdentityCode),
			zap.String("display_name", ev.DisplayName),
		}
		if ev.TriggerData.Count != nil {
			fields = append(fields, zap.Int("count", *ev.TriggerData.Count))
		}
		n.logger.Warn("Presence anomaly", fields...)
	}
	return nil
}
