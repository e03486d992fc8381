package reminderplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

func newPlanner() *Planner {
	return NewPlanner(DefaultConfig)
}

func dailyHabit(tags ...string) *model.Habit {
	h := &model.Habit{
		Name:      "Morning run",
		Frequency: model.FrequencyDaily,
		TimeTags:  model.StringList(tags),
	}
	h.PublicID = 101
	return h
}

func TestDailyCompletedTodayReturnsNothing(t *testing.T) {
	now := time.Date(2025, 6, 30, 8, 30, 0, 0, time.Local)
	progress := &model.HabitProgress{CompletionDates: model.StringList{utils.DateKey(now)}}

	recs := newPlanner().Plan(dailyHabit("morning"), progress, now)

	assert.Empty(t, recs)
}

func TestDailyMorningSlotRollsToNextDay(t *testing.T) {
	// 08:30 时 morning 档（08:00）已过，应顺延到次日；
	// 空历史一致性为 0，再提前 30 分钟
	now := time.Date(2025, 6, 30, 8, 30, 0, 0, time.Local)
	progress := &model.HabitProgress{}

	recs := newPlanner().Plan(dailyHabit("morning"), progress, now)

	require.Len(t, recs, 1)
	assert.Equal(t, model.ReminderTypeDaily, recs[0].Type)
	assert.Equal(t, model.PriorityLow, recs[0].Priority)

	expected := time.Date(2025, 7, 1, 7, 30, 0, 0, time.Local)
	assert.True(t, recs[0].Timing.Equal(expected), "got %v", recs[0].Timing)
}

func TestDailyNudgeNearSlotBoundaryStaysFuture(t *testing.T) {
	// 07:45 时提前 30 分钟会落到 07:30，已是过去时刻；
	// 保留 08:00 原时刻而不是产出一条过期的非紧急提醒
	now := time.Date(2025, 6, 30, 7, 45, 0, 0, time.Local)
	progress := &model.HabitProgress{}

	recs := newPlanner().Plan(dailyHabit("morning"), progress, now)

	require.Len(t, recs, 1)
	assert.True(t, recs[0].Timing.After(now), "got %v", recs[0].Timing)

	expected := time.Date(2025, 6, 30, 8, 0, 0, 0, time.Local)
	assert.True(t, recs[0].Timing.Equal(expected), "got %v", recs[0].Timing)
}

func TestDailyConsistentUserKeepsSlotHour(t *testing.T) {
	now := time.Date(2025, 6, 30, 6, 0, 0, 0, time.Local)

	// 连续 5 天同一时刻完成，一致性高，不做提前
	progress := &model.HabitProgress{CompletionHours: model.JSONB{}}
	for i := 5; i >= 1; i-- {
		key := utils.DateKey(now.AddDate(0, 0, -i))
		progress.CompletionDates = append(progress.CompletionDates, key)
		progress.CompletionHours[key] = float64(8)
	}

	recs := newPlanner().Plan(dailyHabit("morning"), progress, now)

	require.Len(t, recs, 1)
	expected := time.Date(2025, 6, 30, 8, 0, 0, 0, time.Local)
	assert.True(t, recs[0].Timing.Equal(expected), "got %v", recs[0].Timing)
}

func TestDailyEveningUrgentReminder(t *testing.T) {
	now := time.Date(2025, 6, 30, 19, 0, 0, 0, time.Local)
	progress := &model.HabitProgress{}

	recs := newPlanner().Plan(dailyHabit("morning"), progress, now)

	var urgent *model.ReminderRecommendation
	for i := range recs {
		if recs[i].Type == model.ReminderTypeUrgent {
			urgent = &recs[i]
		}
	}

	require.NotNil(t, urgent, "expected an urgent reminder after 18:00")
	assert.Equal(t, model.PriorityHigh, urgent.Priority)
	assert.True(t, urgent.Timing.Equal(now))
}

func TestWeeklyWithoutTargetReturnsNothing(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	h := &model.Habit{Frequency: model.FrequencyWeekly, Name: "Gym"}

	recs := newPlanner().Plan(h, &model.HabitProgress{}, now)

	assert.Empty(t, recs)
}

func TestWeeklyUrgencyRatioMedium(t *testing.T) {
	// 周一为 6/30；周六时剩 2 次、剩 2 天，比值 1 -> medium
	now := time.Date(2025, 7, 5, 8, 0, 0, 0, time.Local) // Saturday
	h := &model.Habit{
		Name:         "Gym",
		Frequency:    model.FrequencyWeekly,
		WeeklyTarget: &model.WeeklyTarget{SessionsPerWeek: 3},
	}
	h.PublicID = 102
	progress := &model.HabitProgress{CompletionDates: model.StringList{"2025-07-01"}}

	recs := newPlanner().Plan(h, progress, now)

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, model.PriorityMedium, rec.Priority)
		assert.True(t, rec.Timing.After(now))
	}
}

func TestWeeklyTargetReachedReturnsNothing(t *testing.T) {
	now := time.Date(2025, 7, 2, 8, 0, 0, 0, time.Local)
	h := &model.Habit{
		Frequency:    model.FrequencyWeekly,
		WeeklyTarget: &model.WeeklyTarget{SessionsPerWeek: 2},
	}
	progress := &model.HabitProgress{CompletionDates: model.StringList{"2025-06-30", "2025-07-01"}}

	recs := newPlanner().Plan(h, progress, now)

	assert.Empty(t, recs)
}

func TestWeeklyPreferredDaysAtTen(t *testing.T) {
	now := time.Date(2025, 6, 30, 8, 0, 0, 0, time.Local) // Monday
	h := &model.Habit{
		Name:      "Yoga",
		Frequency: model.FrequencyWeekly,
		WeeklyTarget: &model.WeeklyTarget{
			SessionsPerWeek: 2,
			PreferredDays:   []string{"monday", "thursday"},
		},
	}

	recs := newPlanner().Plan(h, &model.HabitProgress{}, now)

	require.Len(t, recs, 2)
	assert.Equal(t, 10, recs[0].Timing.Hour())
	assert.Equal(t, time.Monday, recs[0].Timing.Weekday())
	assert.Equal(t, time.Thursday, recs[1].Timing.Weekday())
}

func TestPeriodicNeverCompletedDueNow(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	h := &model.Habit{
		Name:           "Deep clean",
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalMonthly, IntervalCount: 1},
	}

	recs := newPlanner().Plan(h, &model.HabitProgress{}, now)

	require.Len(t, recs, 1)
	assert.True(t, recs[0].Timing.Equal(now))
	assert.Equal(t, model.PriorityHigh, recs[0].Priority)
}

func TestPeriodicOverdueIsCritical(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	h := &model.Habit{
		Name:           "Review budget",
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalMonthly, IntervalCount: 1},
	}
	last := now.AddDate(0, 0, -40)
	progress := &model.HabitProgress{CompletionDates: model.StringList{utils.DateKey(last)}}

	recs := newPlanner().Plan(h, progress, now)

	require.Len(t, recs, 1)
	assert.Equal(t, model.PriorityCritical, recs[0].Priority)
	assert.True(t, recs[0].Timing.Equal(now))
}

func TestPeriodicAdvanceReminderWithin24h(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	h := &model.Habit{
		Name:           "Water plants",
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalWeekly, IntervalCount: 1},
	}
	// 下次到期 = 6 天前 + 7 天 = 明天零点，提前 1 天即今天零点…已过，不产出；
	// 改为 5 天前完成：到期后天零点，提前 1 天 = 明天零点，在 24h 窗口内
	last := now.AddDate(0, 0, -5)
	progress := &model.HabitProgress{CompletionDates: model.StringList{utils.DateKey(last)}}

	recs := newPlanner().Plan(h, progress, now)

	require.Len(t, recs, 1)
	assert.Equal(t, model.PriorityMedium, recs[0].Priority)
	assert.True(t, recs[0].Timing.After(now))
	assert.False(t, recs[0].Timing.After(now.Add(24*time.Hour)))
}

func TestPeriodicFarFromDueReturnsNothing(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	h := &model.Habit{
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalMonthly, IntervalCount: 1},
	}
	progress := &model.HabitProgress{CompletionDates: model.StringList{utils.DateKey(now.AddDate(0, 0, -2))}}

	recs := newPlanner().Plan(h, progress, now)

	assert.Empty(t, recs)
}

func TestPrioritizeOrdering(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local)
	listA := []model.ReminderRecommendation{
		{HabitID: 1, Priority: model.PriorityLow, Timing: now.Add(time.Hour)},
		{HabitID: 1, Priority: model.PriorityCritical, Timing: now.Add(3 * time.Hour)},
	}
	listB := []model.ReminderRecommendation{
		{HabitID: 2, Priority: model.PriorityCritical, Timing: now.Add(time.Hour)},
		{HabitID: 2, Priority: model.PriorityHigh, Timing: now},
	}

	merged := Prioritize(listA, listB)

	require.Len(t, merged, 4)

	// 优先级非递增
	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].Priority.Rank(), merged[i].Priority.Rank())
	}

	// 同级按时刻升序：两条 critical 中较早的在前
	assert.Equal(t, int64(2), merged[0].HabitID)
	assert.Equal(t, int64(1), merged[1].HabitID)
}
