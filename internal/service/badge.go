package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/internal/cache"
	"HabitPulse/internal/engine/badge"
	"HabitPulse/internal/model"
	"HabitPulse/internal/repository"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/metrics"
	"HabitPulse/pkg/snowflake"
)

type BadgeService struct{}

var (
	badgeService *BadgeService
	badgeOnce    sync.Once
)

func BadgeSvc() *BadgeService {
	badgeOnce.Do(func() {
		badgeService = &BadgeService{}
	})

	return badgeService
}

// buildSnapshot 汇总徽章评估所需的用户/习惯状态
func (s *BadgeService) buildSnapshot(ctx context.Context, userID, habitID int64) (badge.Snapshot, error) {
	snap := badge.Snapshot{Now: time.Now()}

	if habitID > 0 {
		progress, err := repository.GetProgressByHabit(ctx, habitID)
		if err != nil && !repository.IsNotFound(err) {
			return snap, err
		}
		if progress != nil {
			snap.CurrentStreak = progress.CurrentStreak
			snap.CompletionDates = progress.CompletionDates
		}
	} else {
		// 不限习惯时取用户最佳连续与全量完成集合
		list, err := repository.ListProgressByUser(ctx, userID)
		if err != nil {
			return snap, err
		}
		for i := range list {
			if list[i].CurrentStreak > snap.CurrentStreak {
				snap.CurrentStreak = list[i].CurrentStreak
			}
			snap.CompletionDates = append(snap.CompletionDates, list[i].CompletionDates...)
		}
	}

	recoveries, err := repository.CountSuccessfulRecoveries(ctx, userID, habitID)
	if err != nil {
		return snap, err
	}
	snap.SuccessfulRecoveries = int(recoveries)

	research, err := repository.CountResearchHabits(ctx, userID)
	if err != nil {
		return snap, err
	}
	snap.ResearchHabitCount = int(research)

	return snap, nil
}

// CheckForNewBadges 幂等扫描：只授予本次新达成的徽章。
// 用户锁串行化授予，数据库唯一索引兜底，重复扫描不会重复产出。
func (s *BadgeService) CheckForNewBadges(ctx context.Context, userID, habitID int64) ([]model.UserBadge, error) {
	locked, err := cache.TryLock(ctx, cache.UserBadgeLockKey(userID), 10*time.Second)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, nil
	}
	defer func() {
		if err := cache.Unlock(ctx, cache.UserBadgeLockKey(userID)); err != nil {
			logger.Logger.Warn("Failed to release badge lock",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}()

	badges, err := repository.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	if len(badges) == 0 {
		return nil, nil
	}

	earned, err := repository.EarnedBadgeIDSet(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	snap, err := s.buildSnapshot(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	var awarded []model.UserBadge
	for _, b := range badge.NewlyEarned(badges, earned, snap) {
		awardCode, err := snowflake.NextID(snowflake.GeneratorTypeBadge)
		if err != nil {
			return awarded, err
		}

		scopedHabitID := int64(0)
		if b.HabitScoped {
			scopedHabitID = habitID
		}

		award := &model.UserBadge{
			AwardCode: awardCode,
			BadgeID:   b.ID,
			UserID:    userID,
			HabitID:   scopedHabitID,
			EarnedAt:  time.Now(),
			IsNew:     true,
		}

		created, err := repository.CreateUserBadge(ctx, award)
		if err != nil {
			return awarded, err
		}
		if !created {
			// 并发扫描已授予，幂等跳过
			continue
		}

		awarded = append(awarded, *award)
		if m := metrics.GetMetrics(); m != nil {
			m.RecordBadgeAwarded(ctx, string(b.RequirementType))
		}

		logger.Logger.Info("Badge awarded",
			zap.Int64("user_id", userID),
			zap.String("badge_code", b.Code),
			zap.Int64("habit_id", scopedHabitID),
		)
	}

	return awarded, nil
}

// ListBadgeProgress 全部徽章的进度快照
func (s *BadgeService) ListBadgeProgress(ctx context.Context, userID, habitID int64) ([]model.BadgeProgress, error) {
	badges, err := repository.ListBadges(ctx)
	if err != nil {
		return nil, err
	}

	earned, err := repository.EarnedBadgeIDSet(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	snap, err := s.buildSnapshot(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	return badge.EvaluateAll(badges, earned, snap), nil
}

func (s *BadgeService) ListEarnedBadges(ctx context.Context, userID int64) ([]model.UserBadge, error) {
	return repository.ListUserBadges(ctx, userID)
}

// DrainNewBadges 取出未读徽章，恰好消费一次
func (s *BadgeService) DrainNewBadges(ctx context.Context, userID int64) ([]model.UserBadge, error) {
	return repository.DrainNewBadges(ctx, userID)
}
