package model

import "time"

// BadgeRequirementType 徽章达成条件类型枚举
type BadgeRequirementType string

const (
	BadgeRequirementStreak             BadgeRequirementType = "streak"
	BadgeRequirementConsistencyRate    BadgeRequirementType = "consistency_rate"
	BadgeRequirementTotalCompletions   BadgeRequirementType = "total_completions"
	BadgeRequirementRecoverySuccess    BadgeRequirementType = "recovery_success"
	BadgeRequirementResearchEngagement BadgeRequirementType = "research_engagement"
)

// Badge 徽章定义：条件类型 + 阈值 + 可选的时间窗与习惯绑定。
type Badge struct {
	BaseModel
	Code            string               `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name            string               `gorm:"type:varchar(128);not null" json:"name"`
	Description     string               `gorm:"type:varchar(255);not null;default:''" json:"description"`
	RequirementType BadgeRequirementType `gorm:"type:varchar(32);not null" json:"requirement_type"`
	Threshold       float64              `gorm:"not null" json:"threshold"`
	TimeframeDays   int                  `gorm:"not null;default:0" json:"timeframe_days"` // 0 表示不限时间窗
	HabitScoped     bool                 `gorm:"not null;default:false" json:"habit_scoped"`
}

// TableName 指定表名
func (Badge) TableName() string {
	return "badges"
}

// UserBadge 已授予的徽章实例。
// 不变式：(badge_id, user_id, habit_id) 组合唯一，授予幂等。
type UserBadge struct {
	BaseModel
	AwardCode int64     `gorm:"uniqueIndex;not null" json:"award_code"`
	BadgeID   int64     `gorm:"not null;uniqueIndex:idx_user_badges_tuple" json:"badge_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_user_badges_tuple" json:"user_id"`
	HabitID   int64     `gorm:"not null;default:0;uniqueIndex:idx_user_badges_tuple" json:"habit_id"` // 0 表示不绑定习惯
	EarnedAt  time.Time `gorm:"type:timestamptz;not null" json:"earned_at"`
	IsNew     bool      `gorm:"not null;default:true" json:"is_new"`
}

// TableName 指定表名
func (UserBadge) TableName() string {
	return "user_badges"
}

// BadgeProgress 单个徽章的进度快照
type BadgeProgress struct {
	BadgeID   int64   `json:"badge_id"`
	BadgeCode string  `json:"badge_code"`
	Percent   float64 `json:"percent"` // 0-100
	Earned    bool    `json:"earned"`
}
