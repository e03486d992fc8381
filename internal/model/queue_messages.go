package model

// ReminderDueMessage 提醒到点消息（延迟投递）
type ReminderDueMessage struct {
	MessageID    string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	HabitID      int64  `json:"habit_id"`
	UserID       int64  `json:"user_id"`
	Type         string `json:"type"`
	Priority     string `json:"priority"`
	Message      string `json:"message"`
	Reason       string `json:"reason"`
	Timing       string `json:"timing"`       // RFC3339，提醒应触达的时刻
	ScheduledAt  string `json:"scheduled_at"` // RFC3339，消息发布的时刻
	DelaySeconds int    `json:"delay_seconds"`
}

// CompassionScanMessage 关怀扫描消息：进度变更或每日扫描时触发
type CompassionScanMessage struct {
	MessageID    string  `json:"message_id"` // 消息唯一ID，用于幂等性检查
	UserID       int64   `json:"user_id"`
	HabitIDs     []int64 `json:"habit_ids"`
	ScanDate     string  `json:"scan_date"` // "2006-01-02"
	ScheduledAt  string  `json:"scheduled_at"`
	DelaySeconds int     `json:"delay_seconds"`
}
