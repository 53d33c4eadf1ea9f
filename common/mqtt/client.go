package mqtt

import (
	"errors"
	"fmt"
	"time"

	"aable-presence/common/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	quiesceMillis  = 250
)

// Client 异常事件发布端（一次批处理一个连接，不自动重连）
type Client struct {
	client mqtt.Client
	qos    byte
}

// NewClient 连接 broker，超时或认证失败返回错误
func NewClient(cfg *config.MQTTConfig) (*Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker not configured")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(connectTimeout).
		SetWriteTimeout(publishTimeout).
		SetCleanSession(true).
		SetAutoReconnect(false)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	return &Client{client: client, qos: cfg.QoS}, nil
}

// Publish 发布并等待确认
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to topic %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

// QoS 配置的服务质量等级
func (c *Client) QoS() byte {
	return c.qos
}

// Disconnect 断开连接
func (c *Client) Disconnect() {
	c.client.Disconnect(quiesceMillis)
}
