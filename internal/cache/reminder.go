package cache

import (
	"context"
	"fmt"
	"time"

	"HabitPulse/storage/redis"
)

const (
	// 提醒投放标记，避免调度循环对同一习惯同一天重复投放
	reminderScheduledPrefix = "reminder:scheduled"
	// 关怀扫描标记，每用户每天只扫一次
	compassionScannedPrefix = "compassion:scanned"
	messageProcessedPrefix  = "message:processed"

	scheduledTTL = 24 * time.Hour
	processedTTL = 48 * time.Hour
)

// IsReminderScheduled 检查指定日期某习惯的提醒是否已投放
func IsReminderScheduled(ctx context.Context, date string, habitID int64) (bool, error) {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", habitID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check reminder scheduled status: %w", err)
	}
	return result > 0, nil
}

// MarkReminderScheduled 标记指定日期某习惯的提醒已投放
func MarkReminderScheduled(ctx context.Context, date string, habitID int64) error {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", habitID))
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// UnmarkReminderScheduled 清除投放标记（习惯配置变更后触发重排）
func UnmarkReminderScheduled(ctx context.Context, date string, habitID int64) error {
	key := redis.Key(reminderScheduledPrefix, date, fmt.Sprintf("%d", habitID))
	if err := redis.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to unmark reminder scheduled: %w", err)
	}
	return nil
}

// IsCompassionScanned 检查用户当天是否已做过关怀扫描
func IsCompassionScanned(ctx context.Context, date string, userID int64) (bool, error) {
	key := redis.Key(compassionScannedPrefix, date, fmt.Sprintf("%d", userID))
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check compassion scanned status: %w", err)
	}
	return result > 0, nil
}

// MarkCompassionScanned 标记用户当天的关怀扫描已投放
func MarkCompassionScanned(ctx context.Context, date string, userID int64) error {
	key := redis.Key(compassionScannedPrefix, date, fmt.Sprintf("%d", userID))
	return redis.Client().Set(ctx, key, "1", scheduledTTL).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（SETNX）。
// 返回 true 表示首次处理，false 表示重复消息。
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理完成
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}
