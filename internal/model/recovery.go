package model

import "time"

// RecoveryType 恢复计划类型枚举
type RecoveryType string

const (
	RecoveryTypeGentleRestart RecoveryType = "gentle_restart" // 低压力重启
	RecoveryTypeMicroHabit    RecoveryType = "micro_habit"    // 缩减为微习惯
	RecoveryTypeFullReset     RecoveryType = "full_reset"     // 完整重置
)

// RecoveryOutcome 恢复计划结束时的结果
type RecoveryOutcome string

const (
	RecoveryOutcomeSuccessful RecoveryOutcome = "successful"
	RecoveryOutcomeAbandoned  RecoveryOutcome = "abandoned"
)

// RecoverySession 恢复计划会话。
// 状态机：active(completed=false) -> completed(终态)，不可逆。
// 不变式：0 <= CurrentStep <= TotalSteps；每个习惯至多一个活跃会话。
type RecoverySession struct {
	BaseModel
	SessionCode      int64        `gorm:"uniqueIndex;not null" json:"session_code"`
	HabitID          int64        `gorm:"not null;index:idx_recovery_sessions_habit" json:"habit_id"`
	UserID           int64        `gorm:"not null;index:idx_recovery_sessions_user" json:"user_id"`
	StartDate        time.Time    `gorm:"type:timestamptz;not null" json:"start_date"`
	TargetReturnDate time.Time    `gorm:"type:timestamptz;not null" json:"target_return_date"`
	RecoveryType     RecoveryType `gorm:"type:varchar(32);not null" json:"recovery_type"`
	CurrentStep      int          `gorm:"not null;default:0" json:"current_step"`
	TotalSteps       int          `gorm:"not null;default:5" json:"total_steps"`
	Completed        bool         `gorm:"not null;default:false" json:"completed"`
	Outcome          string       `gorm:"type:varchar(16);not null;default:''" json:"outcome,omitempty"`
	SuccessfulDays   int          `gorm:"not null;default:0" json:"successful_days"`
	ChallengingDays  int          `gorm:"not null;default:0" json:"challenging_days"`
	NextMilestone    string       `gorm:"type:varchar(128);not null;default:''" json:"next_milestone"`
	CoachingTips     StringList   `gorm:"type:jsonb" json:"coaching_tips,omitempty"`
}

// TableName 指定表名
func (RecoverySession) TableName() string {
	return "recovery_sessions"
}

// Active 会话是否仍处于活跃状态
func (s *RecoverySession) Active() bool {
	return !s.Completed
}

// RecoveryStats 全局恢复统计
type RecoveryStats struct {
	TotalRecoverySessions   int     `json:"total_recovery_sessions"`
	SuccessfulRecoveries    int     `json:"successful_recoveries"`
	AverageRecoveryTimeDays float64 `json:"average_recovery_time_days"`
}

// MicroHabit 微习惯：习惯的缩减版变体，恢复激活时即席生成，不落库为习惯。
type MicroHabit struct {
	ID                   string   `json:"id"`
	OriginalHabitID      int64    `json:"original_habit_id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	TimeRequiredMinutes  int      `json:"time_required_minutes"`
	ScalingSteps         []string `json:"scaling_steps"` // 由易到难的递进版本
	Difficulty           string   `json:"difficulty"`
	MaintainsSameContext bool     `json:"maintains_same_context"`
	SuccessRate          float64  `json:"success_rate"`
}
