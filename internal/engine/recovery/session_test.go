package recovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HabitPulse/internal/model"
)

var now = time.Date(2025, 6, 30, 10, 0, 0, 0, time.Local)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(1001, 7, 42, model.RecoveryTypeGentleRestart, now, DefaultConfig)

	assert.Equal(t, int64(1001), s.SessionCode)
	assert.Equal(t, 0, s.CurrentStep)
	assert.Equal(t, 5, s.TotalSteps)
	assert.False(t, s.Completed)
	assert.True(t, s.Active())
	assert.Equal(t, now.AddDate(0, 0, 7), s.TargetReturnDate)
	assert.Equal(t, "Complete 3 consecutive days", s.NextMilestone)
	assert.NotEmpty(t, s.CoachingTips)
}

func TestNewSessionZeroConfigFallsBack(t *testing.T) {
	s := NewSession(1, 1, 1, model.RecoveryTypeFullReset, now, Config{})

	assert.Equal(t, 5, s.TotalSteps)
	assert.Equal(t, now.AddDate(0, 0, 7), s.TargetReturnDate)
}

func TestCoachingTipsVaryByType(t *testing.T) {
	gentle := NewSession(1, 1, 1, model.RecoveryTypeGentleRestart, now, DefaultConfig)
	micro := NewSession(2, 1, 1, model.RecoveryTypeMicroHabit, now, DefaultConfig)

	assert.NotEqual(t, gentle.CoachingTips, micro.CoachingTips)
}

func TestApplyProgressMergesAndClamps(t *testing.T) {
	s := NewSession(1, 1, 1, model.RecoveryTypeGentleRestart, now, DefaultConfig)

	step := 3
	milestone := "Return to full habit"
	changed := ApplyProgress(s, ProgressUpdate{CurrentStep: &step, NextMilestone: &milestone})

	assert.True(t, changed)
	assert.Equal(t, 3, s.CurrentStep)
	assert.Equal(t, milestone, s.NextMilestone)

	// 越界步骤号收敛到上限
	over := 99
	ApplyProgress(s, ProgressUpdate{CurrentStep: &over})
	assert.Equal(t, s.TotalSteps, s.CurrentStep)

	under := -1
	ApplyProgress(s, ProgressUpdate{CurrentStep: &under})
	assert.Equal(t, 0, s.CurrentStep)
}

func TestApplyProgressAfterCompleteIsNoop(t *testing.T) {
	s := NewSession(1, 1, 1, model.RecoveryTypeGentleRestart, now, DefaultConfig)
	require.True(t, Complete(s, model.RecoveryOutcomeSuccessful, now))

	step := 2
	changed := ApplyProgress(s, ProgressUpdate{CurrentStep: &step})

	assert.False(t, changed)
	assert.Equal(t, 0, s.CurrentStep)
}

func TestCompleteIsTerminal(t *testing.T) {
	s := NewSession(1, 1, 1, model.RecoveryTypeGentleRestart, now, DefaultConfig)

	assert.True(t, Complete(s, model.RecoveryOutcomeAbandoned, now))
	assert.True(t, s.Completed)
	assert.Equal(t, string(model.RecoveryOutcomeAbandoned), s.Outcome)

	// 重复完成为空操作，结果不被覆盖
	assert.False(t, Complete(s, model.RecoveryOutcomeSuccessful, now))
	assert.Equal(t, string(model.RecoveryOutcomeAbandoned), s.Outcome)
}

func TestRecordCompletionRunningMean(t *testing.T) {
	stats := &model.RecoveryStats{TotalRecoverySessions: 3}

	RecordCompletion(stats, 4, true)
	RecordCompletion(stats, 8, true)

	assert.Equal(t, 2, stats.SuccessfulRecoveries)
	assert.InDelta(t, 6.0, stats.AverageRecoveryTimeDays, 0.001)

	// 放弃的会话不影响均值
	RecordCompletion(stats, 100, false)
	assert.Equal(t, 2, stats.SuccessfulRecoveries)
	assert.InDelta(t, 6.0, stats.AverageRecoveryTimeDays, 0.001)
}

func TestGenerateMicroHabitKnownCategory(t *testing.T) {
	h := &model.Habit{Name: "Morning run", Category: "fitness"}
	h.PublicID = 7

	m := GenerateMicroHabit(h)

	assert.Equal(t, int64(7), m.OriginalHabitID)
	assert.Equal(t, "One minute of movement", m.Name)
	assert.Equal(t, "minimal", m.Difficulty)
	assert.True(t, m.MaintainsSameContext)
	assert.InDelta(t, 0.8, m.SuccessRate, 0.001)
	assert.NotEmpty(t, m.ID)
	assert.NotEmpty(t, m.ScalingSteps)
}

func TestGenerateMicroHabitUnknownCategoryFallsBack(t *testing.T) {
	h := &model.Habit{Name: "Practice juggling", Category: "circus"}

	m := GenerateMicroHabit(h)

	assert.Equal(t, "Two minute version", m.Name)
	assert.Equal(t, 2, m.TimeRequiredMinutes)
	assert.InDelta(t, 0.8, m.SuccessRate, 0.001)
}

func TestGenerateMicroHabitForCategory(t *testing.T) {
	m := GenerateMicroHabitForCategory("mindfulness")

	assert.Equal(t, "Three deep breaths", m.Name)
	assert.Zero(t, m.OriginalHabitID)
	assert.NotEmpty(t, m.ID)

	fallback := GenerateMicroHabitForCategory("")
	assert.Equal(t, "Two minute version", fallback.Name)
}
