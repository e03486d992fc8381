package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"HabitPulse/internal/model"
)

func at(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.Local)
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	summary := Analyze(nil)

	assert.Equal(t, 9, summary.AverageCompletionHour)
	assert.Equal(t, 0.0, summary.ConsistencyScore)
	assert.Equal(t, 0, summary.RecentStreak)
	assert.Equal(t, []model.TimeSlot{model.SlotMorning}, summary.PreferredSlots)
}

func TestAnalyzeStableMorningRoutine(t *testing.T) {
	completions := []time.Time{
		at(1, 7), at(2, 7), at(3, 8), at(4, 7), at(5, 8),
	}

	summary := Analyze(completions)

	assert.Equal(t, 7, summary.AverageCompletionHour)
	assert.Equal(t, 5, summary.RecentStreak)
	assert.Equal(t, model.TimeSlot("morning"), summary.PreferredSlots[0])
	// 时刻几乎不变，一致性应接近 1
	assert.Greater(t, summary.ConsistencyScore, 0.9)
}

func TestAnalyzeScatteredHoursLowersConsistency(t *testing.T) {
	completions := []time.Time{
		at(1, 6), at(3, 22), at(5, 12), at(8, 23), at(10, 5),
	}

	summary := Analyze(completions)

	assert.Less(t, summary.ConsistencyScore, 0.7)
	assert.Equal(t, 1, summary.RecentStreak)
}

func TestAnalyzeConsistencyAlwaysBounded(t *testing.T) {
	cases := [][]time.Time{
		nil,
		{at(1, 0)},
		{at(1, 0), at(2, 23)},
		{at(1, 0), at(2, 23), at(3, 0), at(4, 23), at(5, 0), at(6, 23), at(7, 0)},
	}

	for _, completions := range cases {
		summary := Analyze(completions)
		assert.GreaterOrEqual(t, summary.ConsistencyScore, 0.0)
		assert.LessOrEqual(t, summary.ConsistencyScore, 1.0)
	}
}

func TestAnalyzeUsesOnlyRecentSeven(t *testing.T) {
	// 前面的深夜完成应被丢弃，只保留最近 7 条早晨记录
	completions := []time.Time{at(1, 2), at(2, 3)}
	for d := 3; d <= 9; d++ {
		completions = append(completions, at(d, 8))
	}

	summary := Analyze(completions)

	assert.Equal(t, 8, summary.AverageCompletionHour)
	assert.Equal(t, []model.TimeSlot{model.SlotMorning}, summary.PreferredSlots)
}

func TestSlotHour(t *testing.T) {
	assert.Equal(t, 8, SlotHour(model.SlotMorning, 15))
	assert.Equal(t, 12, SlotHour(model.SlotLunch, 15))
	assert.Equal(t, 19, SlotHour(model.SlotEvening, 15))
	assert.Equal(t, 15, SlotHour(model.SlotFlexible, 15))
}
