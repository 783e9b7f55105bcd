package mqtt

import (
	"fmt"
	"signal-observer/common/config"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageHandler 消息处理函数类型
type MessageHandler func(topic string, payload []byte) error

type subscription struct {
	filters map[string]byte
	handler MessageHandler
}

// Client MQTT客户端封装
type Client struct {
	client mqtt.Client
	config *config.MQTTConfig
	logger *zap.Logger

	mu   sync.Mutex
	subs []subscription
}

// ClientID 生成唯一的客户端ID：同一个 broker 上重复的 client id 会互相踢下线
func ClientID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// NewClient 创建MQTT客户端
func NewClient(cfg *config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	c := &Client{
		config: cfg,
		logger: logger,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(ClientID(cfg.ClientID))

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetConnectTimeout(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost",
			zap.String("broker", cfg.Broker),
			zap.Error(err),
		)
	})

	c.client = mqtt.NewClient(opts)

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return c, nil
}

// onConnect 连接（重连）成功后恢复订阅；clean session 下 broker 不会保留订阅
func (c *Client) onConnect(client mqtt.Client) {
	c.logger.Info("Connected to MQTT broker", zap.String("broker", c.config.Broker))

	c.mu.Lock()
	subs := make([]subscription, 0, len(c.subs))
	for _, s := range c.subs {
		filters := make(map[string]byte, len(s.filters))
		for topic, qos := range s.filters {
			filters[topic] = qos
		}
		subs = append(subs, subscription{filters: filters, handler: s.handler})
	}
	c.mu.Unlock()

	for _, s := range subs {
		if token := client.SubscribeMultiple(s.filters, c.wrap(s.handler)); token.Wait() && token.Error() != nil {
			c.logger.Error("Failed to restore MQTT subscription", zap.Error(token.Error()))
		}
	}
}

func (c *Client) wrap(handler MessageHandler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			// 记录错误，但不中断处理
			c.logger.Warn("Error handling MQTT message",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
		}
	}
}

// SubscribeMultiple 用同一个处理函数订阅多个主题
func (c *Client) SubscribeMultiple(topics []string, qos byte, handler MessageHandler) error {
	filters := make(map[string]byte, len(topics))
	for _, topic := range topics {
		filters[topic] = qos
	}

	if token := c.client.SubscribeMultiple(filters, c.wrap(handler)); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topics %v: %w", topics, token.Error())
	}

	c.mu.Lock()
	c.subs = append(c.subs, subscription{filters: filters, handler: handler})
	c.mu.Unlock()

	return nil
}

// Unsubscribe 取消订阅
func (c *Client) Unsubscribe(topics ...string) error {
	c.mu.Lock()
	kept := c.subs[:0]
	for _, s := range c.subs {
		for _, topic := range topics {
			delete(s.filters, topic)
		}
		if len(s.filters) > 0 {
			kept = append(kept, s)
		}
	}
	c.subs = kept
	c.mu.Unlock()

	token := c.client.Unsubscribe(topics...)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to unsubscribe: %w", token.Error())
	}

	return nil
}

// Broker 返回连接的 broker 地址
func (c *Client) Broker() string {
	return c.config.Broker
}

// Disconnect 断开连接
func (c *Client) Disconnect() {
	c.client.Disconnect(250) // 250ms等待时间
}
