package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/internal/cache"
	"HabitPulse/internal/model"
	"HabitPulse/internal/queue"
	"HabitPulse/internal/repository"
	"HabitPulse/internal/service"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/metrics"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/storage"
	"HabitPulse/utils"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize business metrics", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "habitpulse-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	go runReminderPlanLoop(ctx)
	go runDailyCompassionLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runReminderPlanLoop 周期性规划并投放全部习惯的提醒
func runReminderPlanLoop(ctx context.Context) {
	interval := time.Duration(config.Cfg.PlannerIntervalMin) * time.Minute
	if config.Cfg.Environment == "development" {
		interval = 1 * time.Minute
		logger.Logger.Info("Reminder plan loop running in development mode with 1m interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := service.Reminder().ScheduleAllReminders(runCtx); err != nil {
				logger.Logger.Error("Reminder plan run failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// runDailyCompassionLoop 每天固定时间为每个活跃用户投递一条关怀扫描消息
// 当前实现：每天本地时间 09:00 触发一次
func runDailyCompassionLoop(ctx context.Context) {
	if config.Cfg.Environment == "development" {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Compassion scan loop running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
				if err := publishCompassionScans(runCtx); err != nil {
					logger.Logger.Error("Compassion scan run failed (development interval)", zap.Error(err))
				}
				cancel()
			}
		}
	}

	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		delay := time.Until(next)
		logger.Logger.Info("Scheduled next compassion scan run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := publishCompassionScans(runCtx); err != nil {
				logger.Logger.Error("Compassion scan run failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// publishCompassionScans 遍历活跃用户并投递关怀扫描消息，投放标记保证每用户每天一条
func publishCompassionScans(ctx context.Context) error {
	userIDs, err := repository.ListActiveHabitUserIDs(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	today := utils.DateKey(now)
	published := 0

	for _, userID := range userIDs {
		scanned, err := cache.IsCompassionScanned(ctx, today, userID)
		if err != nil {
			logger.Logger.Warn("Failed to check compassion scanned mark",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		} else if scanned {
			continue
		}

		msg := model.CompassionScanMessage{
			UserID:      userID,
			ScanDate:    today,
			ScheduledAt: now.Format(time.RFC3339),
		}
		if err := queue.PublishCompassionScan(msg); err != nil {
			logger.Logger.Error("Failed to publish compassion scan",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			continue
		}

		if err := cache.MarkCompassionScanned(ctx, today, userID); err != nil {
			logger.Logger.Warn("Failed to mark compassion scanned",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		published++
	}

	logger.Logger.Info("Compassion scan batch published",
		zap.Int("user_count", len(userIDs)),
		zap.Int("published", published),
	)

	return nil
}
