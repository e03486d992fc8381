package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/internal/cache"
	"HabitPulse/internal/model"
	"HabitPulse/internal/repository"
	"HabitPulse/pkg/errors"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/storage/mq"
	"HabitPulse/utils"
)

// StartReminderDueConsumer 启动提醒到点消费者。
// 到点后把提醒落为通知任务，交由分发层处理。
func StartReminderDueConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.ReminderDueMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal reminder due message: %w", err)
		}

		// 【幂等性检查】SETNX 原子性地检查并标记消息正在处理
		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("habit_id", msg.HabitID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing reminder due message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("habit_id", msg.HabitID),
			zap.String("type", msg.Type),
		)

		if err := processReminderDue(ctx, msg); err != nil {
			// 处理失败，取消标记，允许重试
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to process reminder due: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.ReminderDueQueue,
		ConsumerTag:   "reminder_due_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

func processReminderDue(ctx context.Context, msg model.ReminderDueMessage) error {
	habit, err := repository.GetHabitByPublicID(ctx, msg.HabitID)
	if err != nil {
		if repository.IsNotFound(err) {
			// 习惯已删除，消息直接丢弃
			return nil
		}
		return err
	}
	if habit.Archived {
		return nil
	}

	// 到点前已完成的不再打扰
	progress, err := repository.GetProgressByHabit(ctx, habit.PublicID)
	if err == nil && progress.CompletedOn(utils.DateKey(time.Now())) {
		logger.Logger.Info("Habit already completed today, dropping reminder",
			zap.Int64("habit_id", habit.PublicID),
		)
		return nil
	}

	taskCode, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		return err
	}

	task := &model.NotificationTask{
		TaskCode: taskCode,
		UserID:   msg.UserID,
		HabitID:  msg.HabitID,
		Category: model.NotificationCategoryHabitReminder,
		Payload: model.JSONB{
			"message_id": msg.MessageID,
			"type":       msg.Type,
			"priority":   msg.Priority,
			"message":    msg.Message,
			"reason":     msg.Reason,
			"timing":     msg.Timing,
		},
		Status:      model.NotificationTaskStatusPending,
		ScheduledAt: time.Now(),
	}

	return repository.CreateNotificationTask(ctx, task)
}

// compassionScanHandler 由同时引用 service 与 queue 的入口（cmd/worker）注入，
// 避免 queue→service 的循环引用
var compassionScanHandler func(ctx context.Context, habit *model.Habit) error

// RegisterCompassionScanHandler 注册关怀扫描回调，须在启动消费者前调用
func RegisterCompassionScanHandler(h func(ctx context.Context, habit *model.Habit) error) {
	compassionScanHandler = h
}

// StartCompassionScanConsumer 启动关怀扫描消费者
func StartCompassionScanConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.CompassionScanMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal compassion scan message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing compassion scan message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Int("habit_count", len(msg.HabitIDs)),
		)

		if err := processCompassionScan(ctx, msg); err != nil {
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to process compassion scan: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.CompassionScanQueue,
		ConsumerTag:   "compassion_scan_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers 启动全部消费者并阻塞，直到消费循环结束
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"reminder_due", StartReminderDueConsumer},
		{"compassion_scan", StartCompassionScanConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()
}

func processCompassionScan(ctx context.Context, msg model.CompassionScanMessage) error {
	if compassionScanHandler == nil {
		return fmt.Errorf("compassion scan handler not registered")
	}

	habits, err := repository.ListHabitsByUser(ctx, msg.UserID, false)
	if err != nil {
		return err
	}

	// 指定了习惯列表时只扫这些
	scanSet := make(map[int64]bool, len(msg.HabitIDs))
	for _, id := range msg.HabitIDs {
		scanSet[id] = true
	}

	for i := range habits {
		habit := &habits[i]
		if len(scanSet) > 0 && !scanSet[habit.PublicID] {
			continue
		}
		if err := compassionScanHandler(ctx, habit); err != nil {
			logger.Logger.Error("Compassion scan failed for habit",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}
	}

	return nil
}
