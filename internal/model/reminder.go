package model

import "time"

// ReminderType 提醒类型枚举
type ReminderType string

const (
	ReminderTypeDaily    ReminderType = "daily"
	ReminderTypeWeekly   ReminderType = "weekly"
	ReminderTypePeriodic ReminderType = "periodic"
	ReminderTypeUrgent   ReminderType = "urgent"
	ReminderTypeGentle   ReminderType = "gentle"
)

// ReminderPriority 提醒优先级枚举
type ReminderPriority string

const (
	PriorityLow      ReminderPriority = "low"
	PriorityMedium   ReminderPriority = "medium"
	PriorityHigh     ReminderPriority = "high"
	PriorityCritical ReminderPriority = "critical"
)

// Rank 数值化优先级用于排序，越大越紧急
func (p ReminderPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ReminderRecommendation 引擎产出的提醒建议，交由外部分发器处理。
// 除 urgent / 逾期场景外，Timing 严格大于规划时刻。
type ReminderRecommendation struct {
	HabitID  int64            `json:"habit_id"`
	Type     ReminderType     `json:"type"`
	Priority ReminderPriority `json:"priority"`
	Timing   time.Time        `json:"timing"`
	Message  string           `json:"message"`
	Reason   string           `json:"reason"`
}

// NotificationCategory 通知类别枚举
type NotificationCategory string

const (
	NotificationCategoryHabitReminder  NotificationCategory = "habit_reminder"  // 习惯提醒
	NotificationCategoryCompassionNote NotificationCategory = "compassion_note" // 关怀消息
)

// NotificationTaskStatus 通知任务状态枚举
type NotificationTaskStatus string

const (
	NotificationTaskStatusPending    NotificationTaskStatus = "pending"    // 待处理
	NotificationTaskStatusProcessing NotificationTaskStatus = "processing" // 处理中
	NotificationTaskStatusSuccess    NotificationTaskStatus = "success"    // 成功
	NotificationTaskStatusFailed     NotificationTaskStatus = "failed"     // 失败
)

// NotificationTask 已投递给分发层的通知任务记录
type NotificationTask struct {
	BaseModel
	TaskCode    int64                  `gorm:"uniqueIndex;not null" json:"task_code"`
	UserID      int64                  `gorm:"not null;index:idx_notification_tasks_user" json:"user_id"`
	HabitID     int64                  `gorm:"not null;index:idx_notification_tasks_habit" json:"habit_id"`
	Category    NotificationCategory   `gorm:"type:varchar(32);not null" json:"category"`
	Payload     JSONB                  `gorm:"type:jsonb;not null" json:"payload"`
	Status      NotificationTaskStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_notification_tasks_status" json:"status"`
	RetryCount  int                    `gorm:"type:smallint;not null;default:0" json:"retry_count"`
	ScheduledAt time.Time              `gorm:"type:timestamptz;not null;index:idx_notification_tasks_status" json:"scheduled_at"`
	ProcessedAt *time.Time             `gorm:"type:timestamptz" json:"processed_at,omitempty"`
}

// TableName 指定表名
func (NotificationTask) TableName() string {
	return "notification_tasks"
}
