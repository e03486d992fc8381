package model

import (
	"sort"
	"time"

	"HabitPulse/utils"
)

// HabitProgress 习惯完成进度。引擎侧只读快照，由进度写入方维护。
// CompletionDates 为有序去重的 "2006-01-02" 日期集合。
type HabitProgress struct {
	BaseModel
	HabitID         int64      `gorm:"uniqueIndex;not null" json:"habit_id"`
	UserID          int64      `gorm:"not null;index:idx_habit_progress_user" json:"user_id"`
	CompletionDates StringList `gorm:"type:jsonb" json:"completion_dates"`
	CompletionHours JSONB      `gorm:"type:jsonb" json:"completion_hours,omitempty"` // dateKey -> 完成时刻的小时数
	CurrentStreak   int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"not null;default:0" json:"longest_streak"`
	TotalDays       int        `gorm:"not null;default:0" json:"total_days"`
}

// TableName 指定表名
func (HabitProgress) TableName() string {
	return "habit_progress"
}

// CompletionSet 返回日期集合，便于 O(1) 查询
func (p *HabitProgress) CompletionSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletionDates))
	for _, d := range p.CompletionDates {
		set[d] = true
	}
	return set
}

// CompletedOn 判断某日是否已完成
func (p *HabitProgress) CompletedOn(dateKey string) bool {
	for _, d := range p.CompletionDates {
		if d == dateKey {
			return true
		}
	}
	return false
}

// LastCompletion 返回最近一次完成日期（当地零点）
func (p *HabitProgress) LastCompletion(loc *time.Location) (time.Time, bool) {
	if len(p.CompletionDates) == 0 {
		return time.Time{}, false
	}

	// 集合按约定有序，但写入方出错时仍能自愈
	last := p.CompletionDates[0]
	for _, d := range p.CompletionDates[1:] {
		if d > last {
			last = d
		}
	}

	t, err := utils.ParseDate(last, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CompletedInWeek 统计指定周（周一零点起）的完成次数
func (p *HabitProgress) CompletedInWeek(weekStart time.Time) int {
	count := 0
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		if p.CompletedOn(utils.DateKey(day)) {
			count++
		}
	}
	return count
}

// AddCompletion 插入一个完成日期并保持有序去重，返回是否真正新增
func (p *HabitProgress) AddCompletion(dateKey string) bool {
	if p.CompletedOn(dateKey) {
		return false
	}
	p.CompletionDates = append(p.CompletionDates, dateKey)
	sort.Strings(p.CompletionDates)
	p.TotalDays = len(p.CompletionDates)
	return true
}

// RecomputeStreaks 基于完成集合重算当前/最长连续天数
func (p *HabitProgress) RecomputeStreaks(now time.Time) {
	set := p.CompletionSet()

	// 当前连续：从今天（或昨天）向前数
	day := utils.StartOfDay(now)
	if !set[utils.DateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	current := 0
	for set[utils.DateKey(day)] {
		current++
		day = day.AddDate(0, 0, -1)
	}
	p.CurrentStreak = current

	// 最长连续：扫描有序集合
	longest, run := 0, 0
	var prev time.Time
	for _, d := range p.CompletionDates {
		t, err := utils.ParseDate(d, now.Location())
		if err != nil {
			continue
		}
		if run > 0 && utils.DaysBetween(prev, t) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = t
	}
	p.LongestStreak = longest
}
