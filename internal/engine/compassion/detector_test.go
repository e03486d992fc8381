package compassion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.Local) // Monday

func daysAgo(n int) string {
	return utils.DateKey(now.AddDate(0, 0, -n))
}

func dailyHabit() *model.Habit {
	return &model.Habit{Frequency: model.FrequencyDaily}
}

func TestNoMissesNoTrigger(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(0)}}

	result := Check(dailyHabit(), progress, now, true)

	assert.False(t, result.ShouldTrigger)
	assert.Equal(t, 0, ConsecutiveMisses(dailyHabit(), progress, now))
}

func TestFirstMissLowSeverity(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(1)}}

	result := Check(dailyHabit(), progress, now, true)

	assert.True(t, result.ShouldTrigger)
	assert.Equal(t, model.CompassionMessageFirstMiss, result.MessageID)
	assert.Equal(t, model.SeverityLow, result.Severity)
	assert.Equal(t, model.UrgencyWithin24h, result.Urgency)
	assert.False(t, result.FollowUpNeeded)
}

func TestSecondConsecutiveMediumImmediate(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(2)}}

	result := Check(dailyHabit(), progress, now, true)

	assert.Equal(t, model.CompassionMessageSecondMiss, result.MessageID)
	assert.Equal(t, model.SeverityMedium, result.Severity)
	assert.Equal(t, model.UrgencyImmediate, result.Urgency)
}

func TestThirdConsecutiveHighWithFollowUp(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(3)}}

	result := Check(dailyHabit(), progress, now, true)

	assert.True(t, result.ShouldTrigger)
	assert.Equal(t, model.CompassionMessageThirdMiss, result.MessageID)
	assert.Equal(t, model.SeverityHigh, result.Severity)
	assert.Equal(t, model.UrgencyImmediate, result.Urgency)
	assert.True(t, result.FollowUpNeeded)
}

func TestManyMissesStillThirdTier(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(10)}}

	result := Check(dailyHabit(), progress, now, true)

	assert.Equal(t, model.CompassionMessageThirdMiss, result.MessageID)
	assert.Equal(t, model.SeverityHigh, result.Severity)
}

func TestDisabledSettingsGate(t *testing.T) {
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(5)}}

	result := Check(dailyHabit(), progress, now, false)

	assert.False(t, result.ShouldTrigger)
	assert.Empty(t, result.MessageID)
}

func TestWeeklyPreferredDaysSkipped(t *testing.T) {
	// 只在周一/周四适用；今天周一未完成，上周四完成过，
	// 中间的周五到周日不计为缺勤
	h := &model.Habit{
		Frequency: model.FrequencyWeekly,
		WeeklyTarget: &model.WeeklyTarget{
			SessionsPerWeek: 2,
			PreferredDays:   []string{"monday", "thursday"},
		},
	}
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(4)}} // 上周四

	assert.Equal(t, 1, ConsecutiveMisses(h, progress, now))
}

func TestPeriodicNotYetDueNoMisses(t *testing.T) {
	h := &model.Habit{
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalMonthly, IntervalCount: 1},
	}
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(3)}}

	// 下次到期在一个月后，当前没有任何适用日
	assert.Equal(t, 0, ConsecutiveMisses(h, progress, now))
	assert.False(t, Check(h, progress, now, true).ShouldTrigger)
}

func TestPeriodicOverdueDaysCountAsMisses(t *testing.T) {
	h := &model.Habit{
		Frequency:      model.FrequencyPeriodic,
		PeriodicTarget: &model.PeriodicTarget{Interval: model.IntervalWeekly, IntervalCount: 1},
	}
	progress := &model.HabitProgress{CompletionDates: model.StringList{daysAgo(9)}}

	// 到期日在 2 天前，今天及之前共 3 个适用缺勤日
	assert.Equal(t, 3, ConsecutiveMisses(h, progress, now))
}

func TestClassifyZeroMisses(t *testing.T) {
	result := Classify(0, true)
	assert.False(t, result.ShouldTrigger)
}
