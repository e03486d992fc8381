package model

// TrendPeriod 趋势分析窗口枚举
type TrendPeriod string

const (
	PeriodWeek    TrendPeriod = "week"
	PeriodMonth   TrendPeriod = "month"
	PeriodQuarter TrendPeriod = "quarter"
)

// Days 返回窗口天数，未知窗口返回 0
func (p TrendPeriod) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	default:
		return 0
	}
}

// TrendDirection 趋势方向枚举
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// TrendData 完成趋势报告，推送给外部持久化层的纯数据记录。
type TrendData struct {
	HabitID                 int64          `json:"habit_id"`
	Period                  TrendPeriod    `json:"period"`
	CompletionRate          float64        `json:"completion_rate"` // 0-100
	CompletedDays           int            `json:"completed_days"`
	TotalDays               int            `json:"total_days"`
	Trend                   TrendDirection `json:"trend"`
	TrendPercentage         float64        `json:"trend_percentage"`
	ConsistencyScore        float64        `json:"consistency_score"` // 0-100
	LongestStreak           int            `json:"longest_streak"`
	TotalStreaks            int            `json:"total_streaks"`
	AverageGapBetweenMisses float64        `json:"average_gap_between_misses"`
}

// PatternSummary 完成时段偏好分析结果
type PatternSummary struct {
	AverageCompletionHour int        `json:"average_completion_hour"`
	ConsistencyScore      float64    `json:"consistency_score"` // 0-1
	RecentStreak          int        `json:"recent_streak"`
	PreferredSlots        []TimeSlot `json:"preferred_slots"` // 按出现频次排序
}
