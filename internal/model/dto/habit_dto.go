package dto

// ========== Habit 相关 DTO ==========

// CreateHabitRequest 创建习惯请求
type CreateHabitRequest struct {
	Name           string               `json:"name" binding:"required"`
	Category       string               `json:"category"`
	Frequency      string               `json:"frequency" binding:"required"` // daily / weekly / periodic
	TimeTags       []string             `json:"time_tags"`
	WeeklyTarget   *WeeklyTargetInput   `json:"weekly_target,omitempty"`
	PeriodicTarget *PeriodicTargetInput `json:"periodic_target,omitempty"`
	ResearchRefs   []string             `json:"research_refs,omitempty"`
}

// WeeklyTargetInput 每周目标入参
type WeeklyTargetInput struct {
	SessionsPerWeek int      `json:"sessions_per_week" binding:"required"`
	PreferredDays   []string `json:"preferred_days,omitempty"`
}

// PeriodicTargetInput 周期目标入参
type PeriodicTargetInput struct {
	Interval      string `json:"interval" binding:"required"` // weekly / monthly / quarterly / yearly
	IntervalCount int    `json:"interval_count"`
}

// ListHabitsQuery 习惯列表查询参数
type ListHabitsQuery struct {
	IncludeArchived bool `form:"include_archived"`
}

// RecordCompletionRequest 记录完成请求。
// Date 为空表示今天；Hour 缺省时取服务端当前小时。
type RecordCompletionRequest struct {
	Date string `json:"date"`
	Hour *int   `json:"hour,omitempty"`
}

// TrendQuery 趋势查询参数
type TrendQuery struct {
	Period string `form:"period"` // week / month / quarter
}
