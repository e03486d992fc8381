package model

// CompassionSeverity 关怀触发严重程度
type CompassionSeverity string

const (
	SeverityLow    CompassionSeverity = "low"
	SeverityMedium CompassionSeverity = "medium"
	SeverityHigh   CompassionSeverity = "high"
)

// CompassionUrgency 建议的响应时限
type CompassionUrgency string

const (
	UrgencyImmediate  CompassionUrgency = "immediate"
	UrgencyWithin24h  CompassionUrgency = "within_24h"
	UrgencyWithinWeek CompassionUrgency = "within_week"
)

// 关怀消息 ID，与连续缺勤次数一一对应
const (
	CompassionMessageFirstMiss  = "first_miss"
	CompassionMessageSecondMiss = "second_consecutive"
	CompassionMessageThirdMiss  = "third_consecutive"
)

// CompassionTriggerResult 连续缺勤分类结果，是缺勤次数的纯函数。
type CompassionTriggerResult struct {
	ShouldTrigger  bool               `json:"should_trigger"`
	MessageID      string             `json:"message_id,omitempty"`
	Severity       CompassionSeverity `json:"severity,omitempty"`
	Urgency        CompassionUrgency  `json:"urgency,omitempty"`
	FollowUpNeeded bool               `json:"follow_up_needed"`
	ContextFactors []string           `json:"context_factors,omitempty"`
}

// CompassionEvent 关怀事件，只追加的日志记录。
type CompassionEvent struct {
	BaseModel
	EventCode             int64  `gorm:"uniqueIndex;not null" json:"event_code"`
	HabitID               int64  `gorm:"not null;index:idx_compassion_events_habit" json:"habit_id"`
	UserID                int64  `gorm:"not null;index:idx_compassion_events_user" json:"user_id"`
	TriggerCondition      string `gorm:"type:varchar(64);not null" json:"trigger_condition"`
	MessageShown          string `gorm:"type:varchar(255);not null" json:"message_shown"`
	UserResponse          string `gorm:"type:varchar(32);not null;default:''" json:"user_response"` // accepted / dismissed / ignored
	TimeToResponseSeconds int    `gorm:"not null;default:0" json:"time_to_response_seconds"`
	FollowUpNeeded        bool   `gorm:"not null;default:false" json:"follow_up_needed"`
}

// TableName 指定表名
func (CompassionEvent) TableName() string {
	return "compassion_events"
}
