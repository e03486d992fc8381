package pattern

import (
	"math"
	"sort"
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

// 完成时段分析器。输入为单个习惯最近的完成时间（最多取 7 条），
// 输出时段偏好与一致性评分。纯函数，无副作用。

const (
	// maxRecent 参与分析的最近完成数上限
	maxRecent = 7

	// maxHourVariance 小时方差的合理上限（12 小时的平方），用于归一化
	maxHourVariance = 144.0

	// defaultHour 无历史数据时的缺省提醒小时
	defaultHour = 9
)

// Analyze 分析完成时间集合，返回时段偏好摘要。
// 空历史返回缺省值 {hour:9, consistency:0, slots:[morning]}。
func Analyze(completions []time.Time) model.PatternSummary {
	if len(completions) == 0 {
		return model.PatternSummary{
			AverageCompletionHour: defaultHour,
			ConsistencyScore:      0,
			RecentStreak:          0,
			PreferredSlots:        []model.TimeSlot{model.SlotMorning},
		}
	}

	recent := latest(completions, maxRecent)

	hours := make([]float64, 0, len(recent))
	slotCounts := make(map[model.TimeSlot]int)
	for _, c := range recent {
		h := float64(c.Hour())
		hours = append(hours, h)
		slotCounts[slotOf(c.Hour())]++
	}

	avg := mean(hours)
	consistency := 1 - variance(hours, avg)/maxHourVariance
	if consistency < 0 {
		consistency = 0
	}
	if consistency > 1 {
		consistency = 1
	}

	return model.PatternSummary{
		AverageCompletionHour: int(math.Round(avg)),
		ConsistencyScore:      consistency,
		RecentStreak:          recentStreak(recent),
		PreferredSlots:        rankSlots(slotCounts),
	}
}

// slotOf 将小时映射到时段：morning 5-11，lunch 11-14，evening 17-23，其余 flexible
func slotOf(hour int) model.TimeSlot {
	switch {
	case hour >= 5 && hour < 11:
		return model.SlotMorning
	case hour >= 11 && hour < 14:
		return model.SlotLunch
	case hour >= 17 && hour < 23:
		return model.SlotEvening
	default:
		return model.SlotFlexible
	}
}

// SlotHour 返回时段的固定提醒小时；flexible 使用历史均值
func SlotHour(slot model.TimeSlot, averageHour int) int {
	switch slot {
	case model.SlotMorning:
		return 8
	case model.SlotLunch:
		return 12
	case model.SlotEvening:
		return 19
	default:
		return averageHour
	}
}

func latest(completions []time.Time, n int) []time.Time {
	sorted := make([]time.Time, len(completions))
	copy(sorted, completions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// recentStreak 以最近一次完成为终点的连续日历天数
func recentStreak(sorted []time.Time) int {
	if len(sorted) == 0 {
		return 0
	}

	streak := 1
	for i := len(sorted) - 1; i > 0; i-- {
		if utils.DaysBetween(sorted[i-1], sorted[i]) == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// rankSlots 按出现频次降序排列时段，频次相同时按时段自然顺序
func rankSlots(counts map[model.TimeSlot]int) []model.TimeSlot {
	order := []model.TimeSlot{model.SlotMorning, model.SlotLunch, model.SlotEvening, model.SlotFlexible}

	present := make([]model.TimeSlot, 0, len(counts))
	for _, slot := range order {
		if counts[slot] > 0 {
			present = append(present, slot)
		}
	}

	sort.SliceStable(present, func(i, j int) bool {
		return counts[present[i]] > counts[present[j]]
	})
	return present
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}
