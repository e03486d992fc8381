package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/internal/cache"
	"HabitPulse/internal/engine/reminderplan"
	"HabitPulse/internal/model"
	"HabitPulse/internal/queue"
	"HabitPulse/internal/repository"
	"HabitPulse/internal/schedule"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/metrics"
	"HabitPulse/pkg/snowflake"
	"HabitPulse/utils"
)

type ReminderService struct {
	planner *reminderplan.Planner
	// MQ 不可用时的进程内降级定时器
	timers *schedule.TimerScheduler
}

var (
	reminderService *ReminderService
	reminderOnce    sync.Once
)

func Reminder() *ReminderService {
	reminderOnce.Do(func() {
		reminderService = &ReminderService{
			planner: reminderplan.NewPlanner(reminderplan.Config{
				EveningUrgentHour: config.Cfg.EveningUrgentHour,
				NudgeMinutes:      config.Cfg.InconsistentNudgeMin,
			}),
			timers: schedule.NewTimerScheduler(),
		}
	})

	return reminderService
}

// PlanHabitReminders 为单个习惯计算提醒建议（只读，不投放）
func (s *ReminderService) PlanHabitReminders(ctx context.Context, userID, habitID int64) ([]model.ReminderRecommendation, error) {
	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
	if err != nil {
		return nil, err
	}

	return s.planner.Plan(habit, progress, time.Now()), nil
}

// AllPendingReminders 汇总用户全部习惯的提醒建议。
// 排序契约：优先级降序，同级按触达时刻升序。
func (s *ReminderService) AllPendingReminders(ctx context.Context, userID int64) ([]model.ReminderRecommendation, error) {
	habits, err := repository.ListHabitsByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	lists := make([][]model.ReminderRecommendation, 0, len(habits))
	for i := range habits {
		habit := &habits[i]
		progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, s.planner.Plan(habit, progress, now))
	}

	return reminderplan.Prioritize(lists...), nil
}

// ScheduleHabitReminders 规划并投放单个习惯的提醒消息。
// 通过习惯锁串行化重排，投放标记保证同一天只投一次；
// force=true 时清除旧标记重排（习惯配置变更后调用）。
func (s *ReminderService) ScheduleHabitReminders(ctx context.Context, habit *model.Habit, force bool) error {
	now := time.Now()
	today := utils.DateKey(now)

	locked, err := cache.TryLock(ctx, cache.HabitLockKey(habit.PublicID), 30*time.Second)
	if err != nil {
		return err
	}
	if !locked {
		logger.Logger.Debug("Habit reminder scheduling already in progress",
			zap.Int64("habit_id", habit.PublicID),
		)
		return nil
	}
	defer func() {
		if err := cache.Unlock(ctx, cache.HabitLockKey(habit.PublicID)); err != nil {
			logger.Logger.Warn("Failed to release habit lock",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}
	}()

	if force {
		// 重排前先取消旧的本地定时器，避免同一提醒双发
		s.timers.CancelHabit(habit.PublicID)
		if err := cache.UnmarkReminderScheduled(ctx, today, habit.PublicID); err != nil {
			return err
		}
	} else {
		scheduled, err := cache.IsReminderScheduled(ctx, today, habit.PublicID)
		if err != nil {
			return err
		}
		if scheduled {
			return nil
		}
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, habit.UserID)
	if err != nil {
		return err
	}

	planStart := time.Now()
	recs := s.planner.Plan(habit, progress, now)
	planSeconds := time.Since(planStart).Seconds()

	m := metrics.GetMetrics()
	published := 0
	for _, rec := range recs {
		if m != nil {
			m.RecordReminderPlanned(ctx, string(habit.Frequency), string(rec.Priority), planSeconds)
		}

		delay := rec.Timing.Sub(now)
		if delay < 0 {
			// 引擎只在 urgent/逾期场景产出不晚于 now 的时刻，按立即投放处理
			delay = 0
		}

		msg := model.ReminderDueMessage{
			HabitID:      habit.PublicID,
			UserID:       habit.UserID,
			Type:         string(rec.Type),
			Priority:     string(rec.Priority),
			Message:      rec.Message,
			Reason:       rec.Reason,
			Timing:       rec.Timing.Format(time.RFC3339),
			ScheduledAt:  now.Format(time.RFC3339),
			DelaySeconds: int(delay.Seconds()),
		}

		if err := queue.PublishReminderDue(msg); err != nil {
			// MQ 故障时降级为进程内定时器，尽量保证提醒仍能触达
			if s.scheduleLocal(habit, rec, delay) {
				logger.Logger.Warn("Reminder published via local timer fallback",
					zap.Int64("habit_id", habit.PublicID),
					zap.Error(err),
				)
				published++
				continue
			}
			if m != nil {
				m.RecordReminderDropped(ctx, "publish_failed")
			}
			return err
		}
		if m != nil {
			m.RecordReminderPublished(ctx, string(rec.Type))
		}
		published++
	}

	if published > 0 {
		if err := cache.MarkReminderScheduled(ctx, today, habit.PublicID); err != nil {
			return err
		}
	}

	logger.Logger.Info("Habit reminders scheduled",
		zap.Int64("habit_id", habit.PublicID),
		zap.Int("published", published),
	)

	return nil
}

// scheduleLocal 进程内降级投放：到点直接落通知任务。
// 立即触达的提醒同步落库，延迟的交给定时器。
func (s *ReminderService) scheduleLocal(habit *model.Habit, rec model.ReminderRecommendation, delay time.Duration) bool {
	deliver := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		taskCode, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate task code for local reminder",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
			return
		}

		task := &model.NotificationTask{
			TaskCode: taskCode,
			UserID:   habit.UserID,
			HabitID:  habit.PublicID,
			Category: model.NotificationCategoryHabitReminder,
			Payload: model.JSONB{
				"type":     string(rec.Type),
				"priority": string(rec.Priority),
				"message":  rec.Message,
				"reason":   rec.Reason,
				"timing":   rec.Timing.Format(time.RFC3339),
			},
			Status:      model.NotificationTaskStatusPending,
			ScheduledAt: time.Now(),
		}
		if err := repository.CreateNotificationTask(ctx, task); err != nil {
			logger.Logger.Error("Failed to create local reminder task",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}
	}

	if delay <= 0 {
		deliver()
		return true
	}

	_, ok := s.timers.Schedule(habit.PublicID, delay, deliver)
	return ok
}

// CancelHabitTimers 取消习惯名下的本地降级定时器（归档时调用）
func (s *ReminderService) CancelHabitTimers(habitID int64) {
	s.timers.CancelHabit(habitID)
}

// ScheduleAllReminders 调度循环入口：分页遍历全部未归档习惯并逐个投放
func (s *ReminderService) ScheduleAllReminders(ctx context.Context) error {
	const pageSize = 200

	var afterID int64
	for {
		habits, err := repository.ListActiveHabits(ctx, afterID, pageSize)
		if err != nil {
			return err
		}
		if len(habits) == 0 {
			return nil
		}

		for i := range habits {
			habit := &habits[i]
			if err := s.ScheduleHabitReminders(ctx, habit, false); err != nil {
				logger.Logger.Error("Failed to schedule habit reminders",
					zap.Int64("habit_id", habit.PublicID),
					zap.Error(err),
				)
			}
		}

		afterID = habits[len(habits)-1].ID
	}
}

// ValidateTrendPeriod 提醒/趋势共用的周期校验
func ValidateTrendPeriod(period string) (model.TrendPeriod, error) {
	p := model.TrendPeriod(period)
	if p.Days() == 0 {
		return "", apperrors.TrendPeriodInvalid
	}
	return p, nil
}
