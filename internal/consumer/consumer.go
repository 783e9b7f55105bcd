package consumer

import (
	"context"
	"signal-observer/internal/models"
	"signal-observer/internal/prediction"
	"signal-observer/internal/sensorthings"
	"signal-observer/internal/store"
	"sync/atomic"

	"go.uber.org/zap"
)

// Stats 消费计数
type Stats struct {
	Received uint64
	Applied  uint64
	Ignored  uint64
	Dropped  uint64
}

// Consumer 单条事件流的消费任务：分类 -> 解码 -> 写入存储
type Consumer struct {
	name       string
	classifier *sensorthings.Classifier
	store      *store.Store
	logger     *zap.Logger

	received uint64
	applied  uint64
	ignored  uint64
	dropped  uint64
}

// NewConsumer 创建消费者；name 仅用于日志
func NewConsumer(name string, classifier *sensorthings.Classifier, st *store.Store, logger *zap.Logger) *Consumer {
	return &Consumer{
		name:       name,
		classifier: classifier,
		store:      st,
		logger:     logger.With(zap.String("stream", name)),
	}
}

// Run 消费事件直到流结束或 ctx 取消。流结束（包括订阅失败）不是错误：
// 其他任务继续使用最后已知的值。
func (c *Consumer) Run(ctx context.Context, source Source) error {
	events, err := source.Events(ctx)
	if err != nil {
		c.logger.Warn("Event stream unavailable, keeping last known values", zap.Error(err))
		return nil
	}

	c.logger.Info("Consumer started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Consumer stopped", zap.Uint64("applied", atomic.LoadUint64(&c.applied)))
			return nil
		case ev, ok := <-events:
			if !ok {
				c.logger.Warn("Event stream ended, keeping last known values",
					zap.Uint64("applied", atomic.LoadUint64(&c.applied)),
				)
				return nil
			}
			c.Handle(ev)
		}
	}
}

// Handle 处理一条事件。未知主题静默忽略；无法解析的负载记录警告后丢弃。
func (c *Consumer) Handle(ev models.Event) {
	atomic.AddUint64(&c.received, 1)

	ch, ok := c.classifier.Classify(ev.Topic)
	if !ok {
		atomic.AddUint64(&c.ignored, 1)
		c.logger.Debug("Ignoring unknown topic", zap.String("topic", ev.Topic))
		return
	}

	if ch == models.ChannelPrediction {
		p, err := prediction.Decode(ev.Payload)
		if err != nil {
			atomic.AddUint64(&c.dropped, 1)
			c.logger.Warn("Dropping malformed prediction",
				zap.String("topic", ev.Topic),
				zap.Error(err),
			)
			return
		}
		c.store.UpdatePrediction(p)
		atomic.AddUint64(&c.applied, 1)
		return
	}

	obs, err := models.ParseObservation(ev.Payload)
	if err != nil {
		atomic.AddUint64(&c.dropped, 1)
		c.logger.Warn("Dropping malformed observation",
			zap.String("topic", ev.Topic),
			zap.String("channel", string(ch)),
			zap.Error(err),
		)
		return
	}
	c.store.Update(ch, obs.Result, obs.Timestamp)
	atomic.AddUint64(&c.applied, 1)
}

// Stats 返回当前计数
func (c *Consumer) Stats() Stats {
	return Stats{
		Received: atomic.LoadUint64(&c.received),
		Applied:  atomic.LoadUint64(&c.applied),
		Ignored:  atomic.LoadUint64(&c.ignored),
		Dropped:  atomic.LoadUint64(&c.dropped),
	}
}
