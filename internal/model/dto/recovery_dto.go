package dto

// ========== Recovery 相关 DTO ==========

// StartRecoveryRequest 启动恢复会话请求
type StartRecoveryRequest struct {
	HabitID      int64  `json:"habit_id" binding:"required"`
	RecoveryType string `json:"recovery_type" binding:"required"` // gentle_restart / micro_habit / full_reset
}

// MicroHabitQuery 微习惯生成参数，二选一：指定习惯或仅给类目
type MicroHabitQuery struct {
	HabitID  int64  `form:"habit_id"`
	Category string `form:"category"`
}

// UpdateRecoveryRequest 会话进度字段级更新。
// 缺省字段保持原值不变。
type UpdateRecoveryRequest struct {
	CurrentStep     *int    `json:"current_step,omitempty"`
	SuccessfulDays  *int    `json:"successful_days,omitempty"`
	ChallengingDays *int    `json:"challenging_days,omitempty"`
	NextMilestone   *string `json:"next_milestone,omitempty"`
}

// CompleteRecoveryRequest 结束恢复会话请求
type CompleteRecoveryRequest struct {
	Outcome string `json:"outcome" binding:"required"` // successful / abandoned
}
