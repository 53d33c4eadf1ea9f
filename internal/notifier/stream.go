package notifier

import (
	"context"
	"fmt"

	rediscommon "aable-presence/common/redis"
	"aable-presence/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultStreamMaxLen 异常事件流保留的最大条数
const DefaultStreamMaxLen = 10000

// StreamNotifier 将异常事件写入 Redis Stream（XADD，字段 data/timestamp）
type StreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewStreamNotifier maxLen <= 0 时使用 DefaultStreamMaxLen
func NewStreamNotifier(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *StreamNotifier {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return &StreamNotifier{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

func (n *StreamNotifier) Name() string {
	return "stream"
}

func (n *StreamNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	for _, ev := range events {
		id, err := rediscommon.PublishJSONToStream(ctx, n.client, n.stream, n.maxLen, ev)
		if err != nil {
			return fmt.Errorf("failed to publish event %s: %w", ev.EventID, err)
		}
		n.logger.Debug("Published anomaly to stream",
			zap.String("stream", n.stream),
			zap.String("message_id", id),
			zap.String("event_id", ev.EventID),
		)
	}
	return nil
}
