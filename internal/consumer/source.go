package consumer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"signal-observer/internal/models"

	"go.uber.org/zap"
	mqttcommon "signal-observer/common/mqtt"
)

// Source 原始事件流：无界、可能永不结束、可能有间断，且不可重启。
// 有限的流在结束时关闭返回的 channel；无限的流（MQTT）从不关闭，消费者通过 ctx 退出。
type Source interface {
	Events(ctx context.Context) (<-chan models.Event, error)
	Close() error
}

// Subscriber MQTT 订阅能力（便于在单元测试中替换真实客户端）
type Subscriber interface {
	SubscribeMultiple(topics []string, qos byte, handler mqttcommon.MessageHandler) error
	Unsubscribe(topics ...string) error
	Broker() string
}

// MQTTSource 基于 MQTT 订阅的事件流
type MQTTSource struct {
	subscriber Subscriber
	topics     []string
	qos        byte
	buffer     int
	logger     *zap.Logger
}

// NewMQTTSource 创建 MQTT 事件流
func NewMQTTSource(subscriber Subscriber, topics []string, qos byte, logger *zap.Logger) *MQTTSource {
	return &MQTTSource{
		subscriber: subscriber,
		topics:     topics,
		qos:        qos,
		buffer:     64,
		logger:     logger,
	}
}

// Events 订阅所有主题，把收到的消息转发到 channel。
// ctx 取消后回调直接丢弃消息；channel 不会被关闭。
func (s *MQTTSource) Events(ctx context.Context) (<-chan models.Event, error) {
	if len(s.topics) == 0 {
		return nil, fmt.Errorf("no topics to subscribe")
	}

	events := make(chan models.Event, s.buffer)
	done := make(chan struct{})

	handler := func(topic string, payload []byte) error {
		ev := models.Event{Topic: topic, Payload: append([]byte(nil), payload...)}
		select {
		case events <- ev:
			return nil
		case <-done:
			return nil
		}
	}

	if err := s.subscriber.SubscribeMultiple(s.topics, s.qos, handler); err != nil {
		return nil, err
	}

	s.logger.Info("MQTT source subscribed",
		zap.String("broker", s.subscriber.Broker()),
		zap.Strings("topics", s.topics),
	)

	// events 不关闭：回调可能仍在执行，消费者通过 ctx 退出
	go func() {
		<-ctx.Done()
		close(done)
	}()

	return events, nil
}

// Close 取消订阅
func (s *MQTTSource) Close() error {
	return s.subscriber.Unsubscribe(s.topics...)
}

// LineSource 按行读取 "topic payload" 的事件流（mosquitto_sub -v 的输出格式）
type LineSource struct {
	reader io.Reader
	logger *zap.Logger
}

// NewLineSource 创建按行读取的事件流
func NewLineSource(reader io.Reader, logger *zap.Logger) *LineSource {
	return &LineSource{reader: reader, logger: logger}
}

// Events 逐行解析；无法解析的行记录警告后丢弃。读到 EOF 时关闭 channel。
func (s *LineSource) Events(ctx context.Context) (<-chan models.Event, error) {
	events := make(chan models.Event)

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(s.reader)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			ev, err := models.ParseLine(scanner.Bytes())
			if err != nil {
				s.logger.Warn("Dropping unparsable line", zap.Error(err))
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Warn("Line source stopped", zap.Error(err))
		}
	}()

	return events, nil
}

// Close 关闭底层 reader（如果支持）
func (s *LineSource) Close() error {
	if closer, ok := s.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
