package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/internal/cache"
	"HabitPulse/internal/model"
	"HabitPulse/internal/repository"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/utils"
)

type HabitService struct{}

var (
	habitService *HabitService
	habitOnce    sync.Once
)

func Habit() *HabitService {
	habitOnce.Do(func() {
		habitService = &HabitService{}
	})

	return habitService
}

// CreateHabitParams 创建习惯的入参
type CreateHabitParams struct {
	Name           string
	Category       string
	Frequency      model.FrequencyType
	TimeTags       []string
	WeeklyTarget   *model.WeeklyTarget
	PeriodicTarget *model.PeriodicTarget
	ResearchRefs   []string
}

// CreateHabit 创建习惯并初始化进度记录
func (s *HabitService) CreateHabit(ctx context.Context, userID int64, params CreateHabitParams) (*model.Habit, error) {
	switch params.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyPeriodic:
	default:
		return nil, apperrors.HabitFrequencyInvalid
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeHabit)
	if err != nil {
		return nil, err
	}

	habit := &model.Habit{
		PublicID:       publicID,
		UserID:         userID,
		Name:           params.Name,
		Category:       params.Category,
		Frequency:      params.Frequency,
		TimeTags:       model.StringList(params.TimeTags),
		WeeklyTarget:   params.WeeklyTarget,
		PeriodicTarget: params.PeriodicTarget,
		ResearchRefs:   model.StringList(params.ResearchRefs),
	}

	if err := repository.CreateHabit(ctx, habit); err != nil {
		logger.Logger.Error("Failed to create habit",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	if _, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID); err != nil {
		logger.Logger.Error("Failed to initialize habit progress",
			zap.Int64("habit_id", habit.PublicID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Logger.Info("Habit created",
		zap.Int64("habit_id", habit.PublicID),
		zap.Int64("user_id", userID),
		zap.String("frequency", string(habit.Frequency)),
	)

	return habit, nil
}

func (s *HabitService) GetHabit(ctx context.Context, userID, habitID int64) (*model.Habit, error) {
	habit, err := repository.GetUserHabitByPublicID(ctx, userID, habitID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.HabitNotFound
		}
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) ListHabits(ctx context.Context, userID int64, includeArchived bool) ([]model.Habit, error) {
	return repository.ListHabitsByUser(ctx, userID, includeArchived)
}

// ArchiveHabit 归档习惯并清除当天的提醒投放标记
func (s *HabitService) ArchiveHabit(ctx context.Context, userID, habitID int64) error {
	if err := repository.ArchiveHabit(ctx, userID, habitID); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.HabitNotFound
		}
		return err
	}

	Reminder().CancelHabitTimers(habitID)

	today := utils.DateKey(time.Now())
	if err := cache.UnmarkReminderScheduled(ctx, today, habitID); err != nil {
		logger.Logger.Warn("Failed to unmark reminder schedule on archive",
			zap.Int64("habit_id", habitID),
			zap.Error(err),
		)
	}

	return nil
}

// RecordCompletion 记录一次完成。
// date 为空表示今天；未来日期拒绝。重复记录为幂等空操作。
func (s *HabitService) RecordCompletion(ctx context.Context, userID, habitID int64, date string, hour int) (*model.HabitProgress, error) {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	day := utils.StartOfDay(now)
	if date != "" {
		day, err = utils.ParseDate(date, now.Location())
		if err != nil {
			return nil, apperrors.CompletionDateInvalid
		}
	}
	if day.After(utils.StartOfDay(now)) {
		return nil, apperrors.CompletionInFuture
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
	if err != nil {
		return nil, err
	}

	dateKey := utils.DateKey(day)
	added := progress.AddCompletion(dateKey)
	if added {
		if hour < 0 || hour > 23 {
			hour = now.Hour()
		}
		if progress.CompletionHours == nil {
			progress.CompletionHours = model.JSONB{}
		}
		// JSONB 数值统一按 float64 存取
		progress.CompletionHours[dateKey] = float64(hour)

		progress.RecomputeStreaks(now)
		if err := repository.SaveProgress(ctx, progress); err != nil {
			return nil, err
		}

		logger.Logger.Info("Completion recorded",
			zap.Int64("habit_id", habit.PublicID),
			zap.String("date", dateKey),
			zap.Int("current_streak", progress.CurrentStreak),
		)

		// 完成当天的提醒不再需要
		if dateKey == utils.DateKey(now) {
			if err := cache.UnmarkReminderScheduled(ctx, dateKey, habit.PublicID); err != nil {
				logger.Logger.Warn("Failed to unmark reminder schedule",
					zap.Int64("habit_id", habit.PublicID),
					zap.Error(err),
				)
			}
		}

		// 新完成可能解锁徽章
		if _, err := BadgeSvc().CheckForNewBadges(ctx, userID, habit.PublicID); err != nil {
			logger.Logger.Warn("Badge scan after completion failed",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}

		// 完成改变了本周/周期的剩余分布，强制重排一次
		if err := Reminder().ScheduleHabitReminders(ctx, habit, true); err != nil {
			logger.Logger.Warn("Reminder re-plan after completion failed",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}
	}

	return progress, nil
}

// GetProgress 返回习惯进度快照
func (s *HabitService) GetProgress(ctx context.Context, userID, habitID int64) (*model.HabitProgress, error) {
	habit, err := s.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	return repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
}
