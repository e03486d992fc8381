package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

var now = time.Date(2025, 6, 30, 10, 0, 0, 0, time.Local)

// daysAgo 返回 now 往前 n 天的日期键
func daysAgo(n int) string {
	return utils.DateKey(now.AddDate(0, 0, -n))
}

func TestCalculateImprovingWeek(t *testing.T) {
	// 本周完成 5/7，上一周完成 3/7
	completions := []string{
		daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(4), daysAgo(5),
		daysAgo(7), daysAgo(9), daysAgo(12),
	}

	data := Calculate(1, completions, model.PeriodWeek, now)

	assert.Equal(t, 5, data.CompletedDays)
	assert.Equal(t, 7, data.TotalDays)
	assert.InDelta(t, 71.4, data.CompletionRate, 0.1)
	assert.Equal(t, model.TrendImproving, data.Trend)
	assert.InDelta(t, 66.7, data.TrendPercentage, 0.1)
}

func TestCalculateDecliningWeek(t *testing.T) {
	// 本周 1 次，上一周 4 次
	completions := []string{
		daysAgo(3),
		daysAgo(7), daysAgo(8), daysAgo(10), daysAgo(13),
	}

	data := Calculate(1, completions, model.PeriodWeek, now)

	assert.Equal(t, model.TrendDeclining, data.Trend)
	assert.InDelta(t, -75.0, data.TrendPercentage, 0.1)
}

func TestCalculateStableOnEqualWindows(t *testing.T) {
	completions := []string{daysAgo(1), daysAgo(8)}

	data := Calculate(1, completions, model.PeriodWeek, now)

	assert.Equal(t, model.TrendStable, data.Trend)
	assert.Equal(t, 0.0, data.TrendPercentage)
}

func TestCalculateEmptyHistory(t *testing.T) {
	data := Calculate(1, nil, model.PeriodMonth, now)

	assert.Equal(t, 0, data.CompletedDays)
	assert.Equal(t, 30, data.TotalDays)
	assert.Equal(t, 0.0, data.CompletionRate)
	assert.Equal(t, model.TrendStable, data.Trend)
	assert.Equal(t, 0, data.LongestStreak)
	assert.Equal(t, 0, data.TotalStreaks)
}

func TestStreakRunsInsideWindow(t *testing.T) {
	// 两段连续：3 天 + 2 天
	completions := []string{
		daysAgo(0), daysAgo(1), daysAgo(2),
		daysAgo(5), daysAgo(6),
	}

	data := Calculate(1, completions, model.PeriodWeek, now)

	assert.Equal(t, 3, data.LongestStreak)
	assert.Equal(t, 2, data.TotalStreaks)
}

func TestAverageGapBetweenMisses(t *testing.T) {
	// 窗口 7 天，缺勤在偏移 3 和 4（两个相邻缺勤日，间隔 1）
	completions := []string{
		daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(5), daysAgo(6),
	}

	data := Calculate(1, completions, model.PeriodWeek, now)

	assert.InDelta(t, 1.0, data.AverageGapBetweenMisses, 0.001)
}

func TestConsistencyScoreBounded(t *testing.T) {
	var full []string
	for i := 0; i < 7; i++ {
		full = append(full, daysAgo(i))
	}

	cases := [][]string{nil, {daysAgo(0)}, full}
	for _, completions := range cases {
		data := Calculate(1, completions, model.PeriodWeek, now)
		assert.GreaterOrEqual(t, data.ConsistencyScore, 0.0)
		assert.LessOrEqual(t, data.ConsistencyScore, 100.0)
	}
}

func TestUnknownPeriodFallsBackToWeek(t *testing.T) {
	data := Calculate(1, nil, model.TrendPeriod("fortnight"), now)
	assert.Equal(t, model.PeriodWeek, data.Period)
	assert.Equal(t, 7, data.TotalDays)
}
