package badge

import (
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

// 徽章进度评估：对每种达成条件类型计算 0-100 的进度值。
// 纯计算，授予的幂等性由上层服务基于已获得集合保证。

// defaultTimeframeDays 比率类条件未配置时间窗时的缺省窗口
const defaultTimeframeDays = 30

// Snapshot 评估所需的用户/习惯状态快照
type Snapshot struct {
	CurrentStreak        int
	CompletionDates      []string
	SuccessfulRecoveries int
	ResearchHabitCount   int
	Now                  time.Time
}

// Progress 计算单个徽章的进度百分比，收敛到 [0, 100]
func Progress(b *model.Badge, snap Snapshot) float64 {
	if b.Threshold <= 0 {
		return 0
	}

	var value float64
	switch b.RequirementType {
	case model.BadgeRequirementStreak:
		value = float64(snap.CurrentStreak) / b.Threshold * 100

	case model.BadgeRequirementConsistencyRate:
		days := b.TimeframeDays
		if days <= 0 {
			days = defaultTimeframeDays
		}
		rate := float64(countInTimeframe(snap.CompletionDates, snap.Now, days)) / float64(days)
		value = rate / b.Threshold * 100

	case model.BadgeRequirementTotalCompletions:
		count := len(snap.CompletionDates)
		if b.TimeframeDays > 0 {
			count = countInTimeframe(snap.CompletionDates, snap.Now, b.TimeframeDays)
		}
		value = float64(count) / b.Threshold * 100

	case model.BadgeRequirementRecoverySuccess:
		value = float64(snap.SuccessfulRecoveries) / b.Threshold * 100

	case model.BadgeRequirementResearchEngagement:
		value = float64(snap.ResearchHabitCount) / b.Threshold * 100

	default:
		return 0
	}

	return clampPercent(value)
}

// Earned 徽章条件是否已达成
func Earned(b *model.Badge, snap Snapshot) bool {
	return Progress(b, snap) >= 100
}

// NewlyEarned 过滤出本次新达成的徽章。
// alreadyEarned 中的徽章永不重复产出，这是授予幂等性的依据。
func NewlyEarned(badges []model.Badge, alreadyEarned map[int64]bool, snap Snapshot) []model.Badge {
	var earned []model.Badge
	for i := range badges {
		b := &badges[i]
		if alreadyEarned[b.ID] {
			continue
		}
		if Earned(b, snap) {
			earned = append(earned, *b)
		}
	}
	return earned
}

// EvaluateAll 汇总全部徽章的进度快照
func EvaluateAll(badges []model.Badge, alreadyEarned map[int64]bool, snap Snapshot) []model.BadgeProgress {
	result := make([]model.BadgeProgress, 0, len(badges))
	for i := range badges {
		b := &badges[i]
		p := Progress(b, snap)
		result = append(result, model.BadgeProgress{
			BadgeID:   b.ID,
			BadgeCode: b.Code,
			Percent:   p,
			Earned:    alreadyEarned[b.ID] || p >= 100,
		})
	}
	return result
}

// countInTimeframe 统计落在 [now-(days-1), now] 日历区间内的完成日数
func countInTimeframe(dates []string, now time.Time, days int) int {
	start := utils.StartOfDay(now).AddDate(0, 0, -(days - 1))
	count := 0
	for _, d := range dates {
		day, err := utils.ParseDate(d, now.Location())
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(now) {
			count++
		}
	}
	return count
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
