package recovery

import (
	"time"

	"HabitPulse/internal/model"
)

// 恢复会话状态机：active -> completed，终态后所有操作均为空操作。
// 这里只做纯状态迁移，持久化与并发控制由上层服务负责。

// Config 会话初始参数
type Config struct {
	// TargetReturnDays 目标回归天数
	TargetReturnDays int
	// TotalSteps 恢复步骤总数
	TotalSteps int
}

// DefaultConfig 缺省会话参数
var DefaultConfig = Config{
	TargetReturnDays: 7,
	TotalSteps:       5,
}

const initialMilestone = "Complete 3 consecutive days"

// NewSession 创建一个活跃的恢复会话
func NewSession(sessionCode, habitID, userID int64, rType model.RecoveryType, now time.Time, cfg Config) *model.RecoverySession {
	if cfg.TargetReturnDays <= 0 {
		cfg.TargetReturnDays = DefaultConfig.TargetReturnDays
	}
	if cfg.TotalSteps <= 0 {
		cfg.TotalSteps = DefaultConfig.TotalSteps
	}

	return &model.RecoverySession{
		SessionCode:      sessionCode,
		HabitID:          habitID,
		UserID:           userID,
		StartDate:        now,
		TargetReturnDate: now.AddDate(0, 0, cfg.TargetReturnDays),
		RecoveryType:     rType,
		CurrentStep:      0,
		TotalSteps:       cfg.TotalSteps,
		NextMilestone:    initialMilestone,
		CoachingTips:     coachingTips(rType),
	}
}

// coachingTips 按恢复类型给出固定的建议集
func coachingTips(rType model.RecoveryType) model.StringList {
	switch rType {
	case model.RecoveryTypeMicroHabit:
		return model.StringList{
			"Shrink the habit until it feels trivially easy",
			"Keep the same time and place as before",
			"Count showing up, not performance",
		}
	case model.RecoveryTypeFullReset:
		return model.StringList{
			"Treat this as day one, the old streak does not define you",
			"Pick the smallest version you can commit to",
			"Review what made the habit hard last time",
		}
	default:
		return model.StringList{
			"Missing days is part of the process, not a failure",
			"Start with the easiest possible version",
			"Focus on returning, not on catching up",
		}
	}
}

// ProgressUpdate 字段级合并更新，nil 字段保持原值
type ProgressUpdate struct {
	CurrentStep     *int
	SuccessfulDays  *int
	ChallengingDays *int
	NextMilestone   *string
}

// ApplyProgress 合并进度更新。
// 终态会话不接受任何更新；步骤号收敛到 [0, TotalSteps]。
// 返回是否发生了修改。
func ApplyProgress(s *model.RecoverySession, upd ProgressUpdate) bool {
	if s == nil || s.Completed {
		return false
	}

	changed := false
	if upd.CurrentStep != nil {
		step := *upd.CurrentStep
		if step < 0 {
			step = 0
		}
		if step > s.TotalSteps {
			step = s.TotalSteps
		}
		if step != s.CurrentStep {
			s.CurrentStep = step
			changed = true
		}
	}
	if upd.SuccessfulDays != nil && *upd.SuccessfulDays != s.SuccessfulDays {
		s.SuccessfulDays = *upd.SuccessfulDays
		changed = true
	}
	if upd.ChallengingDays != nil && *upd.ChallengingDays != s.ChallengingDays {
		s.ChallengingDays = *upd.ChallengingDays
		changed = true
	}
	if upd.NextMilestone != nil && *upd.NextMilestone != s.NextMilestone {
		s.NextMilestone = *upd.NextMilestone
		changed = true
	}
	return changed
}

// Complete 将会话置为终态。已完成的会话再次调用为空操作，返回 false。
func Complete(s *model.RecoverySession, outcome model.RecoveryOutcome, now time.Time) bool {
	if s == nil || s.Completed {
		return false
	}
	s.Completed = true
	s.Outcome = string(outcome)
	return true
}

// RecordCompletion 把一次会话结束并入全局统计。
// 平均恢复天数按成功完成次数做滑动均值。
func RecordCompletion(stats *model.RecoveryStats, recoveryDays float64, successful bool) {
	if !successful {
		return
	}
	n := float64(stats.SuccessfulRecoveries)
	stats.AverageRecoveryTimeDays = (stats.AverageRecoveryTimeDays*n + recoveryDays) / (n + 1)
	stats.SuccessfulRecoveries++
}
