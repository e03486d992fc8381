package compassion

import (
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

// 关怀触发检测：根据连续缺勤次数分档，决定是否推送关怀消息。
// 纯计算，是否真正落库/推送由上层服务决定。

// maxLookbackDays 向前回溯的天数上限，避免长期荒废的习惯无界扫描
const maxLookbackDays = 60

// ConsecutiveMisses 从今天起向前扫描连续缺勤的适用日数量。
// 适用日按频率类型判定：
//   - daily    每天都适用
//   - weekly   配置了偏好星期时只数这些星期，否则每天都适用
//   - periodic 只数到期日（含）之后的日子
//
// 遇到第一个已完成的适用日即停止。
func ConsecutiveMisses(habit *model.Habit, progress *model.HabitProgress, now time.Time) int {
	misses := 0
	day := utils.StartOfDay(now)

	for i := 0; i < maxLookbackDays; i++ {
		current := day.AddDate(0, 0, -i)
		if !applicableDay(habit, progress, current, now) {
			continue
		}
		if progress.CompletedOn(utils.DateKey(current)) {
			break
		}
		misses++
	}
	return misses
}

func applicableDay(habit *model.Habit, progress *model.HabitProgress, day, now time.Time) bool {
	switch habit.Frequency {
	case model.FrequencyWeekly:
		target := habit.WeeklyTarget
		if target == nil || len(target.PreferredDays) == 0 {
			return true
		}
		for _, name := range target.PreferredDays {
			if weekday, ok := parseWeekday(name); ok && day.Weekday() == weekday {
				return true
			}
		}
		return false
	case model.FrequencyPeriodic:
		target := habit.PeriodicTarget
		if target == nil || target.IntervalCount <= 0 {
			return true
		}
		nextDue := now
		if last, ok := progress.LastCompletion(now.Location()); ok {
			nextDue = addInterval(last, target.Interval, target.IntervalCount)
		}
		return !day.Before(utils.StartOfDay(nextDue))
	default:
		return true
	}
}

// Classify 按连续缺勤数分档。enabled=false 时一律不触发。
func Classify(consecutiveMisses int, enabled bool) model.CompassionTriggerResult {
	if !enabled || consecutiveMisses <= 0 {
		return model.CompassionTriggerResult{ShouldTrigger: false}
	}

	switch consecutiveMisses {
	case 1:
		return model.CompassionTriggerResult{
			ShouldTrigger:  true,
			MessageID:      model.CompassionMessageFirstMiss,
			Severity:       model.SeverityLow,
			Urgency:        model.UrgencyWithin24h,
			ContextFactors: []string{"single_miss"},
		}
	case 2:
		return model.CompassionTriggerResult{
			ShouldTrigger:  true,
			MessageID:      model.CompassionMessageSecondMiss,
			Severity:       model.SeverityMedium,
			Urgency:        model.UrgencyImmediate,
			ContextFactors: []string{"pattern_forming"},
		}
	default:
		return model.CompassionTriggerResult{
			ShouldTrigger:  true,
			MessageID:      model.CompassionMessageThirdMiss,
			Severity:       model.SeverityHigh,
			Urgency:        model.UrgencyImmediate,
			FollowUpNeeded: true,
			ContextFactors: []string{"streak_broken", "recovery_candidate"},
		}
	}
}

// Check 组合缺勤扫描与分档
func Check(habit *model.Habit, progress *model.HabitProgress, now time.Time, enabled bool) model.CompassionTriggerResult {
	if !enabled {
		return model.CompassionTriggerResult{ShouldTrigger: false}
	}
	return Classify(ConsecutiveMisses(habit, progress, now), enabled)
}

func addInterval(t time.Time, interval model.PeriodicInterval, count int) time.Time {
	switch interval {
	case model.IntervalWeekly:
		return t.AddDate(0, 0, 7*count)
	case model.IntervalMonthly:
		return t.AddDate(0, count, 0)
	case model.IntervalQuarterly:
		return t.AddDate(0, 3*count, 0)
	case model.IntervalYearly:
		return t.AddDate(count, 0, 0)
	default:
		return t.AddDate(0, 0, 7*count)
	}
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch name {
	case "sunday", "Sunday":
		return time.Sunday, true
	case "monday", "Monday":
		return time.Monday, true
	case "tuesday", "Tuesday":
		return time.Tuesday, true
	case "wednesday", "Wednesday":
		return time.Wednesday, true
	case "thursday", "Thursday":
		return time.Thursday, true
	case "friday", "Friday":
		return time.Friday, true
	case "saturday", "Saturday":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}
