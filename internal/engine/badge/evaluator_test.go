package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

var now = time.Date(2025, 6, 30, 10, 0, 0, 0, time.Local)

func daysAgo(n int) string {
	return utils.DateKey(now.AddDate(0, 0, -n))
}

func streakBadge(id int64, threshold float64) model.Badge {
	b := model.Badge{Code: "streak", RequirementType: model.BadgeRequirementStreak, Threshold: threshold}
	b.ID = id
	return b
}

func TestStreakProgressLinearAndClamped(t *testing.T) {
	b := streakBadge(1, 10)

	assert.InDelta(t, 50, Progress(&b, Snapshot{CurrentStreak: 5}), 0.001)
	assert.InDelta(t, 100, Progress(&b, Snapshot{CurrentStreak: 10}), 0.001)
	assert.InDelta(t, 100, Progress(&b, Snapshot{CurrentStreak: 25}), 0.001)
	assert.InDelta(t, 0, Progress(&b, Snapshot{}), 0.001)
}

func TestConsistencyRateBadge(t *testing.T) {
	b := model.Badge{
		RequirementType: model.BadgeRequirementConsistencyRate,
		Threshold:       0.8,
		TimeframeDays:   10,
	}

	// 10 天里完成 8 天，达到阈值 0.8
	var dates []string
	for i := 0; i < 8; i++ {
		dates = append(dates, daysAgo(i))
	}
	assert.InDelta(t, 100, Progress(&b, Snapshot{CompletionDates: dates, Now: now}), 0.001)

	// 完成 4 天，比率 0.4，线性折算到 50
	assert.InDelta(t, 50, Progress(&b, Snapshot{CompletionDates: dates[:4], Now: now}), 0.001)
}

func TestTotalCompletionsTimeframed(t *testing.T) {
	b := model.Badge{
		RequirementType: model.BadgeRequirementTotalCompletions,
		Threshold:       5,
		TimeframeDays:   7,
	}

	// 窗口内 3 条，窗口外的不计
	dates := []string{daysAgo(0), daysAgo(2), daysAgo(5), daysAgo(20), daysAgo(30)}
	assert.InDelta(t, 60, Progress(&b, Snapshot{CompletionDates: dates, Now: now}), 0.001)

	// 不限时间窗时全量计数
	b.TimeframeDays = 0
	assert.InDelta(t, 100, Progress(&b, Snapshot{CompletionDates: dates, Now: now}), 0.001)
}

func TestRecoveryAndResearchBadges(t *testing.T) {
	rec := model.Badge{RequirementType: model.BadgeRequirementRecoverySuccess, Threshold: 2}
	res := model.Badge{RequirementType: model.BadgeRequirementResearchEngagement, Threshold: 4}

	assert.InDelta(t, 50, Progress(&rec, Snapshot{SuccessfulRecoveries: 1}), 0.001)
	assert.InDelta(t, 100, Progress(&rec, Snapshot{SuccessfulRecoveries: 3}), 0.001)
	assert.InDelta(t, 25, Progress(&res, Snapshot{ResearchHabitCount: 1}), 0.001)
}

func TestUnknownRequirementTypeZero(t *testing.T) {
	b := model.Badge{RequirementType: model.BadgeRequirementType("mystery"), Threshold: 1}
	assert.Equal(t, 0.0, Progress(&b, Snapshot{CurrentStreak: 100}))
}

func TestNewlyEarnedIsIdempotent(t *testing.T) {
	badges := []model.Badge{streakBadge(1, 3), streakBadge(2, 7), streakBadge(3, 30)}
	snap := Snapshot{CurrentStreak: 7}

	first := NewlyEarned(badges, map[int64]bool{}, snap)
	require.Len(t, first, 2)

	earned := map[int64]bool{}
	for _, b := range first {
		earned[b.ID] = true
	}

	// 相同快照再评估不会重复产出
	second := NewlyEarned(badges, earned, snap)
	assert.Empty(t, second)

	// 只有新达成的条件会产出
	snap.CurrentStreak = 30
	third := NewlyEarned(badges, earned, snap)
	require.Len(t, third, 1)
	assert.Equal(t, int64(3), third[0].ID)
}

func TestEvaluateAllMarksEarned(t *testing.T) {
	badges := []model.Badge{streakBadge(1, 5), streakBadge(2, 50)}

	result := EvaluateAll(badges, map[int64]bool{1: true}, Snapshot{CurrentStreak: 10})

	require.Len(t, result, 2)
	assert.True(t, result[0].Earned)
	assert.InDelta(t, 100, result[0].Percent, 0.001)
	assert.False(t, result[1].Earned)
	assert.InDelta(t, 20, result[1].Percent, 0.001)
}
