package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// FrequencyType 习惯频率类型枚举
type FrequencyType string

const (
	FrequencyDaily    FrequencyType = "daily"    // 每日习惯
	FrequencyWeekly   FrequencyType = "weekly"   // 每周 N 次
	FrequencyPeriodic FrequencyType = "periodic" // 周期性（每周/月/季/年）
)

// TimeSlot 一天中的时间偏好段
type TimeSlot string

const (
	SlotMorning  TimeSlot = "morning"  // 5-11 点
	SlotLunch    TimeSlot = "lunch"    // 11-14 点
	SlotEvening  TimeSlot = "evening"  // 17-23 点
	SlotFlexible TimeSlot = "flexible" // 按历史均值
)

// PeriodicInterval 周期单位枚举
type PeriodicInterval string

const (
	IntervalWeekly    PeriodicInterval = "weekly"
	IntervalMonthly   PeriodicInterval = "monthly"
	IntervalQuarterly PeriodicInterval = "quarterly"
	IntervalYearly    PeriodicInterval = "yearly"
)

// WeeklyTarget 每周习惯的目标设置
type WeeklyTarget struct {
	SessionsPerWeek int      `json:"sessions_per_week"`
	PreferredDays   []string `json:"preferred_days,omitempty"` // "monday" 等小写英文
}

func (t WeeklyTarget) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *WeeklyTarget) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal WeeklyTarget value")
	}
	return json.Unmarshal(bytes, t)
}

// PeriodicTarget 周期习惯的目标设置
type PeriodicTarget struct {
	Interval      PeriodicInterval `json:"interval"`
	IntervalCount int              `json:"interval_count"`
}

func (t PeriodicTarget) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *PeriodicTarget) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal PeriodicTarget value")
	}
	return json.Unmarshal(bytes, t)
}

// Habit 习惯模型。提醒规划过程中视为不可变快照。
type Habit struct {
	BaseModel
	PublicID       int64           `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID         int64           `gorm:"not null;index:idx_habits_user" json:"user_id"`
	Name           string          `gorm:"type:varchar(128);not null" json:"name"`
	Category       string          `gorm:"type:varchar(64);not null;default:''" json:"category"`
	Frequency      FrequencyType   `gorm:"type:varchar(16);not null" json:"frequency"`
	TimeTags       StringList      `gorm:"type:jsonb" json:"time_tags"` // morning / lunch / evening / flexible
	WeeklyTarget   *WeeklyTarget   `gorm:"type:jsonb" json:"weekly_target,omitempty"`
	PeriodicTarget *PeriodicTarget `gorm:"type:jsonb" json:"periodic_target,omitempty"`
	ResearchRefs   StringList      `gorm:"type:jsonb" json:"research_refs,omitempty"` // 关联的研究引用
	Archived       bool            `gorm:"not null;default:false" json:"archived"`
}

// TableName 指定表名
func (Habit) TableName() string {
	return "habits"
}

// Slots 返回习惯声明的时间偏好段，未声明时回退为 flexible
func (h *Habit) Slots() []TimeSlot {
	if len(h.TimeTags) == 0 {
		return []TimeSlot{SlotFlexible}
	}
	slots := make([]TimeSlot, 0, len(h.TimeTags))
	for _, tag := range h.TimeTags {
		slots = append(slots, TimeSlot(tag))
	}
	return slots
}
