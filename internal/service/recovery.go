package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/internal/cache"
	"HabitPulse/internal/engine/compassion"
	"HabitPulse/internal/engine/recovery"
	"HabitPulse/internal/model"
	"HabitPulse/internal/repository"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/metrics"
	"HabitPulse/pkg/snowflake"
)

type RecoveryService struct {
	cfg recovery.Config
}

var (
	recoveryService *RecoveryService
	recoveryOnce    sync.Once
)

func Recovery() *RecoveryService {
	recoveryOnce.Do(func() {
		recoveryService = &RecoveryService{
			cfg: recovery.Config{
				TargetReturnDays: config.Cfg.RecoveryTargetDays,
				TotalSteps:       config.Cfg.RecoveryTotalSteps,
			},
		}
	})

	return recoveryService
}

// CheckCompassion 对单个习惯做关怀分类，不落库
func (s *RecoveryService) CheckCompassion(ctx context.Context, userID, habitID int64) (*model.CompassionTriggerResult, error) {
	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, userID)
	if err != nil {
		return nil, err
	}

	result := compassion.Check(habit, progress, time.Now(), config.Cfg.CompassionEnabled)
	return &result, nil
}

// ScanHabitCompassion 关怀扫描：分类、记录事件、创建通知任务。
// 同一习惯 24 小时内已触发过则跳过，避免重复打扰。
func (s *RecoveryService) ScanHabitCompassion(ctx context.Context, habit *model.Habit) error {
	progress, err := repository.GetOrCreateProgress(ctx, habit.PublicID, habit.UserID)
	if err != nil {
		return err
	}

	result := compassion.Check(habit, progress, time.Now(), config.Cfg.CompassionEnabled)
	if !result.ShouldTrigger {
		return nil
	}

	recent, err := repository.HasRecentCompassionEvent(ctx, habit.PublicID, time.Now().Add(-24*time.Hour))
	if err != nil {
		return err
	}
	if recent {
		return nil
	}

	eventCode, err := snowflake.NextID(snowflake.GeneratorTypeEvent)
	if err != nil {
		return err
	}

	event := &model.CompassionEvent{
		EventCode:        eventCode,
		HabitID:          habit.PublicID,
		UserID:           habit.UserID,
		TriggerCondition: result.MessageID,
		MessageShown:     compassionMessageText(result.MessageID, habit.Name),
		FollowUpNeeded:   result.FollowUpNeeded,
	}
	if err := repository.CreateCompassionEvent(ctx, event); err != nil {
		return err
	}

	taskCode, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		return err
	}
	task := &model.NotificationTask{
		TaskCode: taskCode,
		UserID:   habit.UserID,
		HabitID:  habit.PublicID,
		Category: model.NotificationCategoryCompassionNote,
		Payload: model.JSONB{
			"event_code": fmt.Sprintf("%d", eventCode),
			"message_id": result.MessageID,
			"severity":   string(result.Severity),
			"urgency":    string(result.Urgency),
			"message":    event.MessageShown,
		},
		Status:      model.NotificationTaskStatusPending,
		ScheduledAt: time.Now(),
	}
	if err := repository.CreateNotificationTask(ctx, task); err != nil {
		return err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordCompassionTrigger(ctx, string(result.Severity))
	}

	logger.Logger.Info("Compassion triggered",
		zap.Int64("habit_id", habit.PublicID),
		zap.String("message_id", result.MessageID),
		zap.String("severity", string(result.Severity)),
		zap.Bool("follow_up", result.FollowUpNeeded),
	)

	return nil
}

// compassionMessageText 关怀消息文案，语气随缺勤档位加重关切而非责备
func compassionMessageText(messageID, habitName string) string {
	switch messageID {
	case model.CompassionMessageFirstMiss:
		return fmt.Sprintf("You missed %s yesterday, and that's okay. Today is a fresh start.", habitName)
	case model.CompassionMessageSecondMiss:
		return fmt.Sprintf("Two days away from %s. No guilt, just a gentle nudge to come back.", habitName)
	case model.CompassionMessageThirdMiss:
		return fmt.Sprintf("It's been a few days since %s. Want to try a smaller version to ease back in?", habitName)
	default:
		return fmt.Sprintf("Checking in on %s.", habitName)
	}
}

// StartRecovery 启动恢复会话。
// 习惯锁下检查活跃会话：已存在时返回现有会话而不是新建，
// 保证每个习惯至多一个活跃会话。
func (s *RecoveryService) StartRecovery(ctx context.Context, userID, habitID int64, rType model.RecoveryType) (*model.RecoverySession, error) {
	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	locked, err := cache.TryLock(ctx, cache.HabitLockKey(habit.PublicID), 10*time.Second)
	if err != nil {
		return nil, err
	}
	if !locked {
		// 并发启动时退化为读取现有会话
		existing, err := repository.GetActiveSessionByHabit(ctx, habit.PublicID)
		if err == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("habit %d is busy, retry later", habit.PublicID)
	}
	defer func() {
		if err := cache.Unlock(ctx, cache.HabitLockKey(habit.PublicID)); err != nil {
			logger.Logger.Warn("Failed to release habit lock",
				zap.Int64("habit_id", habit.PublicID),
				zap.Error(err),
			)
		}
	}()

	existing, err := repository.GetActiveSessionByHabit(ctx, habit.PublicID)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	sessionCode, err := snowflake.NextID(snowflake.GeneratorTypeSession)
	if err != nil {
		return nil, err
	}

	session := recovery.NewSession(sessionCode, habit.PublicID, userID, rType, time.Now(), s.cfg)
	if err := repository.CreateRecoverySession(ctx, session); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordRecoveryStarted(ctx, string(rType))
	}

	logger.Logger.Info("Recovery session started",
		zap.Int64("session_code", session.SessionCode),
		zap.Int64("habit_id", habit.PublicID),
		zap.String("recovery_type", string(rType)),
	)

	return session, nil
}

// UpdateRecovery 字段级合并更新会话进度。
// 未知会话为空操作，返回 nil 会话。
func (s *RecoveryService) UpdateRecovery(ctx context.Context, userID, sessionCode int64, upd recovery.ProgressUpdate) (*model.RecoverySession, error) {
	session, err := repository.GetRecoverySessionByCode(ctx, sessionCode)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, nil
	}

	if recovery.ApplyProgress(session, upd) {
		if err := repository.UpdateRecoverySession(ctx, session); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// CompleteRecovery 结束会话。未知会话为空操作。
// 成功结束时更新指标并重扫恢复类徽章。
func (s *RecoveryService) CompleteRecovery(ctx context.Context, userID, sessionCode int64, outcome model.RecoveryOutcome) (*model.RecoverySession, error) {
	switch outcome {
	case model.RecoveryOutcomeSuccessful, model.RecoveryOutcomeAbandoned:
	default:
		return nil, apperrors.RecoveryOutcomeInvalid
	}

	session, err := repository.GetRecoverySessionByCode(ctx, sessionCode)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, nil
	}

	if !recovery.Complete(session, outcome, time.Now()) {
		return session, nil
	}

	if err := repository.UpdateRecoverySession(ctx, session); err != nil {
		return nil, err
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordRecoveryCompleted(ctx, string(outcome))
	}

	logger.Logger.Info("Recovery session completed",
		zap.Int64("session_code", session.SessionCode),
		zap.String("outcome", string(outcome)),
	)

	if outcome == model.RecoveryOutcomeSuccessful {
		if _, err := BadgeSvc().CheckForNewBadges(ctx, userID, session.HabitID); err != nil {
			logger.Logger.Warn("Badge scan after recovery failed",
				zap.Int64("session_code", session.SessionCode),
				zap.Error(err),
			)
		}
	}

	return session, nil
}

func (s *RecoveryService) ListSessions(ctx context.Context, userID int64) ([]model.RecoverySession, error) {
	return repository.ListRecoverySessionsByUser(ctx, userID)
}

func (s *RecoveryService) GetStats(ctx context.Context, userID int64) (*model.RecoveryStats, error) {
	return repository.GetRecoveryStats(ctx, userID)
}

// GenerateMicroHabit 为习惯生成缩减版微习惯。
// habitID 为 0 时退化为按类目生成。
func (s *RecoveryService) GenerateMicroHabit(ctx context.Context, userID, habitID int64, category string) (*model.MicroHabit, error) {
	if habitID == 0 {
		micro := recovery.GenerateMicroHabitForCategory(category)
		return &micro, nil
	}

	habit, err := Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	micro := recovery.GenerateMicroHabit(habit)
	return &micro, nil
}
