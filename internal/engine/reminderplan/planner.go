package reminderplan

import (
	"fmt"
	"strings"
	"time"

	"HabitPulse/internal/engine/pattern"
	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

// 提醒规划器：按习惯频率类型计算提醒时刻。
// 纯计算，调用方提供不可变的习惯/进度快照和当前时刻。

// Config 规划参数
type Config struct {
	// EveningUrgentHour 当日未完成的紧急提醒起始小时
	EveningUrgentHour int
	// NudgeMinutes 低一致性用户的提前提醒分钟数
	NudgeMinutes int
}

// DefaultConfig 缺省规划参数
var DefaultConfig = Config{
	EveningUrgentHour: 18,
	NudgeMinutes:      30,
}

type Planner struct {
	cfg Config
}

func NewPlanner(cfg Config) *Planner {
	if cfg.EveningUrgentHour == 0 {
		cfg.EveningUrgentHour = DefaultConfig.EveningUrgentHour
	}
	if cfg.NudgeMinutes == 0 {
		cfg.NudgeMinutes = DefaultConfig.NudgeMinutes
	}
	return &Planner{cfg: cfg}
}

// Plan 为单个习惯计算提醒建议。
// 缺少频率类型所需的目标配置时返回空列表，而不是错误。
func (p *Planner) Plan(habit *model.Habit, progress *model.HabitProgress, now time.Time) []model.ReminderRecommendation {
	switch habit.Frequency {
	case model.FrequencyDaily:
		return p.planDaily(habit, progress, now)
	case model.FrequencyWeekly:
		return p.planWeekly(habit, progress, now)
	case model.FrequencyPeriodic:
		return p.planPeriodic(habit, progress, now)
	default:
		return nil
	}
}

// planDaily 每日习惯：按时段偏好给出当天/次日提醒，傍晚未完成时追加紧急提醒
func (p *Planner) planDaily(habit *model.Habit, progress *model.HabitProgress, now time.Time) []model.ReminderRecommendation {
	if progress.CompletedOn(utils.DateKey(now)) {
		return nil
	}

	summary := pattern.Analyze(completionTimes(progress, now.Location()))
	priority := dailyPriority(now)

	var recs []model.ReminderRecommendation
	for _, slot := range habit.Slots() {
		hour := pattern.SlotHour(slot, summary.AverageCompletionHour)
		timing := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())

		// 当天时刻已过则顺延到次日
		if !timing.After(now) {
			timing = timing.AddDate(0, 0, 1)
		}

		// 完成时刻不稳定的用户提前提醒，留出缓冲；
		// 提前后落到过去时刻则保留原时刻，非紧急提醒必须在未来
		if summary.ConsistencyScore < 0.5 {
			if nudged := timing.Add(-time.Duration(p.cfg.NudgeMinutes) * time.Minute); nudged.After(now) {
				timing = nudged
			}
		}

		recs = append(recs, model.ReminderRecommendation{
			HabitID:  habit.PublicID,
			Type:     model.ReminderTypeDaily,
			Priority: priority,
			Timing:   timing,
			Message:  fmt.Sprintf("Time for %s", habit.Name),
			Reason:   fmt.Sprintf("preferred slot %s", slot),
		})
	}

	// 傍晚仍未完成：立即发一条紧急提醒
	if now.Hour() >= p.cfg.EveningUrgentHour {
		recs = append(recs, model.ReminderRecommendation{
			HabitID:  habit.PublicID,
			Type:     model.ReminderTypeUrgent,
			Priority: model.PriorityHigh,
			Timing:   now,
			Message:  fmt.Sprintf("Last chance today for %s", habit.Name),
			Reason:   "not completed by evening",
		})
	}

	return recs
}

// dailyPriority 一天越晚，当日提醒越紧迫
func dailyPriority(now time.Time) model.ReminderPriority {
	switch {
	case now.Hour() >= 15:
		return model.PriorityHigh
	case now.Hour() >= 12:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// planWeekly 每周 N 次习惯：按剩余次数与剩余天数的比值定紧迫度
func (p *Planner) planWeekly(habit *model.Habit, progress *model.HabitProgress, now time.Time) []model.ReminderRecommendation {
	target := habit.WeeklyTarget
	if target == nil || target.SessionsPerWeek <= 0 {
		return nil
	}

	weekStart := utils.StartOfWeek(now)
	completed := progress.CompletedInWeek(weekStart)
	remaining := target.SessionsPerWeek - completed
	if remaining <= 0 {
		return nil
	}

	daysRemaining := utils.DaysRemainingInWeek(now)
	priority := weeklyPriority(float64(remaining) / float64(daysRemaining))

	var instants []time.Time
	if len(target.PreferredDays) > 0 {
		for _, name := range target.PreferredDays {
			weekday, ok := parseWeekday(name)
			if !ok {
				continue
			}
			day := utils.NextWeekday(now, weekday)
			instants = append(instants, at10(day))
		}
	} else {
		// 剩余次数在剩余天数上均匀分布
		for i := 0; i < remaining; i++ {
			offset := i * daysRemaining / remaining
			day := utils.StartOfDay(now).AddDate(0, 0, offset)
			instants = append(instants, at10(day))
		}
	}

	var recs []model.ReminderRecommendation
	for _, instant := range instants {
		if !instant.After(now) {
			continue // 已过时刻直接丢弃
		}
		recs = append(recs, model.ReminderRecommendation{
			HabitID:  habit.PublicID,
			Type:     model.ReminderTypeWeekly,
			Priority: priority,
			Timing:   instant,
			Message:  fmt.Sprintf("%s: %d session(s) left this week", habit.Name, remaining),
			Reason:   fmt.Sprintf("%d remaining over %d day(s)", remaining, daysRemaining),
		})
	}
	return recs
}

func weeklyPriority(ratio float64) model.ReminderPriority {
	switch {
	case ratio >= 2:
		return model.PriorityCritical
	case ratio >= 1.5:
		return model.PriorityHigh
	case ratio >= 1:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// planPeriodic 周期习惯：到期立即提醒，未到期则在临近窗口内提前提醒
func (p *Planner) planPeriodic(habit *model.Habit, progress *model.HabitProgress, now time.Time) []model.ReminderRecommendation {
	target := habit.PeriodicTarget
	if target == nil || target.IntervalCount <= 0 {
		return nil
	}

	nextDue := now // 从未完成过即视为当下到期
	last, ok := progress.LastCompletion(now.Location())
	if ok {
		nextDue = addInterval(last, target.Interval, target.IntervalCount)
	}

	if !nextDue.After(now) {
		priority := model.PriorityHigh
		reason := "due now"
		if nextDue.Before(now) {
			priority = model.PriorityCritical
			reason = fmt.Sprintf("overdue by %d day(s)", utils.DaysBetween(nextDue, now))
		}
		return []model.ReminderRecommendation{{
			HabitID:  habit.PublicID,
			Type:     model.ReminderTypePeriodic,
			Priority: priority,
			Timing:   now,
			Message:  fmt.Sprintf("%s is due", habit.Name),
			Reason:   reason,
		}}
	}

	// 未到期：仅当提前提醒时刻落在未来 24 小时内才产出
	advance := nextDue.Add(-advanceOffset(target.Interval))
	if advance.After(now) && !advance.After(now.Add(24*time.Hour)) {
		return []model.ReminderRecommendation{{
			HabitID:  habit.PublicID,
			Type:     model.ReminderTypePeriodic,
			Priority: model.PriorityMedium,
			Timing:   advance,
			Message:  fmt.Sprintf("%s is coming up", habit.Name),
			Reason:   fmt.Sprintf("due %s", utils.DateKey(nextDue)),
		}}
	}

	return nil
}

// addInterval 按周期单位推进时间
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

// advanceOffset 各周期单位的提前提醒量
func advanceOffset(interval model.PeriodicInterval) time.Duration {
	switch interval {
	case model.IntervalWeekly:
		return 24 * time.Hour
	case model.IntervalMonthly:
		return 3 * 24 * time.Hour
	case model.IntervalQuarterly:
		return 7 * 24 * time.Hour
	case model.IntervalYearly:
		return 14 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func at10(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, day.Location())
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}

// completionTimes 将日期集合还原为完成时间点，缺少小时记录时按 9 点处理
func completionTimes(progress *model.HabitProgress, loc *time.Location) []time.Time {
	times := make([]time.Time, 0, len(progress.CompletionDates))
	for _, d := range progress.CompletionDates {
		day, err := utils.ParseDate(d, loc)
		if err != nil {
			continue
		}
		hour := 9
		if progress.CompletionHours != nil {
			if v, ok := progress.CompletionHours[d]; ok {
				if f, ok := v.(float64); ok {
					hour = int(f)
				}
			}
		}
		times = append(times, day.Add(time.Duration(hour)*time.Hour))
	}
	return times
}
