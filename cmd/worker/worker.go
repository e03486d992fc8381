package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/internal/queue"
	"HabitPulse/internal/service"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/metrics"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", "habitpulse-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 注入关怀扫描回调，打破 queue→service 的循环引用
	queue.RegisterCompassionScanHandler(service.Recovery().ScanHabitCompassion)

	// 启动所有的消费者部分
	queue.StartAllConsumers(ctx)

	logger.Logger.Info("Worker service shutting down gracefully")
}
