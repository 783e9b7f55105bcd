package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"signal-observer/internal/config"
	"signal-observer/internal/consumer"
	"signal-observer/internal/mirror"
	"signal-observer/internal/models"
	"signal-observer/internal/render"
	"signal-observer/internal/sensorthings"
	"signal-observer/internal/store"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	mqttcommon "signal-observer/common/mqtt"
	rediscommon "signal-observer/common/redis"
)

// stream 一条事件流及其消费任务
type stream struct {
	source   consumer.Source
	consumer *consumer.Consumer
}

// ObserverService 信号灯观测服务：两条事件流（遥测、预测）+ 一个渲染循环，
// 三者只通过 Store 通信。
type ObserverService struct {
	config *config.Config
	name   string
	logger *zap.Logger
	in     io.Reader
	out    io.Writer

	classifier *sensorthings.Classifier
	store      *store.Store
	loop       *render.Loop
	streams    []stream

	mqttClients []*mqttcommon.Client
	redis       *redis.Client
}

// NewObserverService 创建服务：查询元数据、建立连接并组装各组件。
// 元数据查询失败或没有数据流时返回错误，调用方应以非零状态退出。
func NewObserverService(ctx context.Context, cfg *config.Config, name string, logger *zap.Logger) (*ObserverService, error) {
	return newObserverService(ctx, cfg, name, logger, os.Stdin, os.Stdout)
}

func newObserverService(ctx context.Context, cfg *config.Config, name string, logger *zap.Logger, in io.Reader, out io.Writer) (*ObserverService, error) {
	client := sensorthings.NewClient(&cfg.SensorThings, logger)
	datastreams, err := client.FetchDatastreams(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signal group %q: %w", name, err)
	}

	s := &ObserverService{
		config:     cfg,
		name:       name,
		logger:     logger,
		in:         in,
		out:        out,
		classifier: sensorthings.NewClassifier(datastreams, cfg.PredictionTopic(name)),
		store:      store.New(),
	}

	// 初始化Redis（可选）
	var publisher render.Publisher
	if cfg.Redis.Enabled() {
		s.redis = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(ctx, s.redis); err != nil {
			s.Stop(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = mirror.NewMirror(mirror.NewRedisStatusWriter(s.redis), cfg.Mirror.KeyPrefix, cfg.Mirror.TTL)
	}

	if err := s.setupStreams(); err != nil {
		s.Stop(ctx)
		return nil, err
	}

	renderer := render.NewRenderer(name, s.classifier)
	s.loop = render.NewLoop(renderer, s.store, s.out, publisher, logger)

	return s, nil
}

// setupStreams 根据事件来源创建事件流
func (s *ObserverService) setupStreams() error {
	switch s.config.Observer.EventSource {
	case config.SourceStdin:
		// 一条流同时承载遥测与预测，由分类器区分
		s.echo("stdin", s.classifier.Topics())
		s.addStream("stdin", consumer.NewLineSource(s.in, s.logger))
		return nil

	case config.SourceMQTT:
		telemetry, err := mqttcommon.NewClient(&s.config.MQTT, s.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to telemetry MQTT: %w", err)
		}
		s.mqttClients = append(s.mqttClients, telemetry)

		predictions, err := mqttcommon.NewClient(&s.config.Prediction, s.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to prediction MQTT: %w", err)
		}
		s.mqttClients = append(s.mqttClients, predictions)

		telemetryTopics := s.classifier.TelemetryTopics()
		predictionTopics := s.classifier.Topics(models.ChannelPrediction)
		s.echo(telemetry.Broker(), telemetryTopics)
		s.echo(predictions.Broker(), predictionTopics)

		s.addStream("telemetry", consumer.NewMQTTSource(telemetry, telemetryTopics, s.config.MQTT.QoS, s.logger))
		s.addStream("prediction", consumer.NewMQTTSource(predictions, predictionTopics, s.config.Prediction.QoS, s.logger))
		return nil

	default:
		return fmt.Errorf("unsupported event source: %s", s.config.Observer.EventSource)
	}
}

func (s *ObserverService) addStream(name string, source consumer.Source) {
	s.streams = append(s.streams, stream{
		source:   source,
		consumer: consumer.NewConsumer(name, s.classifier, s.store, s.logger),
	})
}

// echo 启动时输出一次订阅信息（仅用于诊断）
func (s *ObserverService) echo(broker string, topics []string) {
	fmt.Fprintf(s.out, "subscribe %s %s\n", broker, strings.Join(topics, " "))
}

// Start 启动所有任务并阻塞到 ctx 取消。
// 某条事件流结束或订阅失败不会停止其他任务。
func (s *ObserverService) Start(ctx context.Context) error {
	s.logger.Info("Starting signal observer",
		zap.String("name", s.name),
		zap.Int("stream_count", len(s.streams)),
		zap.Bool("mirror_enabled", s.redis != nil),
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, st := range s.streams {
		st := st
		g.Go(func() error {
			return st.consumer.Run(ctx, st.source)
		})
	}
	g.Go(func() error {
		return s.loop.Run(ctx)
	})

	return g.Wait()
}

// Stop 释放订阅与连接
func (s *ObserverService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping signal observer")

	for _, st := range s.streams {
		if err := st.source.Close(); err != nil {
			s.logger.Error("Error closing event source", zap.Error(err))
		}
		stats := st.consumer.Stats()
		s.logger.Info("Stream statistics",
			zap.Uint64("received", stats.Received),
			zap.Uint64("applied", stats.Applied),
			zap.Uint64("ignored", stats.Ignored),
			zap.Uint64("dropped", stats.Dropped),
		)
	}

	// 断开MQTT
	for _, c := range s.mqttClients {
		c.Disconnect()
	}

	// 关闭Redis
	if s.redis != nil {
		rediscommon.Close(s.redis)
	}

	s.logger.Info("Signal observer stopped")
	return nil
}
