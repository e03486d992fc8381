package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"HabitPulse/internal/model"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/storage/mq"
)

// PublishReminderDue 发布提醒到点消息（延迟消息）
func PublishReminderDue(msg model.ReminderDueMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("habit_id", msg.HabitID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("reminder_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(
		mq.DelayedExchange,
		mq.ReminderDueRoutingKey,
		delay,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish reminder due message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("habit_id", msg.HabitID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published reminder due message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("habit_id", msg.HabitID),
		zap.String("type", msg.Type),
		zap.String("priority", msg.Priority),
		zap.Duration("delay", delay),
	)

	return nil
}

// PublishCompassionScan 发布关怀扫描消息（延迟消息）
func PublishCompassionScan(msg model.CompassionScanMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("compassion_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(
		mq.DelayedExchange,
		mq.CompassionScanRoutingKey,
		delay,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish compassion scan message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published compassion scan message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Int("habit_count", len(msg.HabitIDs)),
		zap.String("scan_date", msg.ScanDate),
		zap.Duration("delay", delay),
	)

	return nil
}
