package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"aable-presence/internal/models"

	"go.uber.org/zap"
)

// Publisher MQTT 发布接口（common/mqtt.Client 实现）
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
}

// MQTTNotifier 按事件类型发布到 <topic>/<event_type>
type MQTTNotifier struct {
	publisher Publisher
	topic     string
	logger    *zap.Logger
}

func NewMQTTNotifier(publisher Publisher, topic string, logger *zap.Logger) *MQTTNotifier {
	return &MQTTNotifier{publisher: publisher, topic: topic, logger: logger}
}

func (n *MQTTNotifier) Name() string {
	return "mqtt"
}

func (n *MQTTNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		topic := fmt.Sprintf("%s/%s", n.topic, ev.EventType)
		if err := n.publisher.Publish(topic, n.publisher.QoS(), false, payload); err != nil {
			return err
		}
		n.logger.Debug("Published anomaly to MQTT",
			zap.String("topic", topic),
			zap.String("event_id", ev.EventID),
		)
	}
	return nil
}
