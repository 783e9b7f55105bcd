package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"signal-observer/common/logger"
	"signal-observer/internal/config"
	"signal-observer/internal/service"
)

func main() {
	name := flag.String("name", "", "name of the signal group")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "name is required")
		flag.Usage()
		os.Exit(1)
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化Logger
	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "signal-observer")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting signal-observer",
		zap.String("name", *name),
		zap.String("event_source", cfg.Observer.EventSource),
		zap.String("mqtt_broker", cfg.MQTT.Broker),
		zap.String("prediction_broker", cfg.Prediction.Broker),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 创建服务（元数据查询失败属于启动错误）
	observer, err := service.NewObserverService(ctx, cfg, *name, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create observer service", zap.Error(err))
	}

	startErr := observer.Start(ctx)
	if startErr != nil {
		zapLogger.Error("Observer stopped with error", zap.Error(startErr))
	}

	zapLogger.Info("Shutting down")
	if err := observer.Stop(context.Background()); err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}

	zapLogger.Info("Service stopped")
	if startErr != nil {
		_ = zapLogger.Sync()
		os.Exit(1)
	}
}
