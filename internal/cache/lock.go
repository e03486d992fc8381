package cache

import (
	"context"
	"fmt"
	"time"

	"HabitPulse/storage/redis"
)

// SetNX 实现的分布式锁，用于串行化单个习惯上的有状态操作
// （恢复会话启动/迁移、提醒重排）
const (
	lockPrefix = "lock"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, err
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}

// HabitLockKey 习惯粒度的锁键
func HabitLockKey(habitID int64) string {
	return fmt.Sprintf("habit:%d", habitID)
}

// UserBadgeLockKey 用户粒度的徽章授予锁键
func UserBadgeLockKey(userID int64) string {
	return fmt.Sprintf("badge:%d", userID)
}
