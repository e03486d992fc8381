package trend

import (
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/utils"
)

// 趋势分析引擎：基于完成日期集合做窗口统计。
// 全部为纯计算，调用方传入不可变的进度快照。

// Calculate 计算指定窗口的完成趋势报告。
// 窗口为以 now 当天为终点、长度 period.Days() 的日历天区间，
// 趋势方向比较当前窗口与紧邻的前一个等长窗口。
func Calculate(habitID int64, completions []string, period model.TrendPeriod, now time.Time) model.TrendData {
	days := period.Days()
	if days == 0 {
		period = model.PeriodWeek
		days = period.Days()
	}

	set := make(map[string]bool, len(completions))
	for _, d := range completions {
		set[d] = true
	}

	today := utils.StartOfDay(now)
	windowStart := today.AddDate(0, 0, -(days - 1))
	prevStart := windowStart.AddDate(0, 0, -days)

	completed := countInWindow(set, windowStart, days)
	prevCompleted := countInWindow(set, prevStart, days)

	direction := model.TrendStable
	if completed > prevCompleted {
		direction = model.TrendImproving
	} else if completed < prevCompleted {
		direction = model.TrendDeclining
	}

	base := prevCompleted
	if base < 1 {
		base = 1
	}
	trendPct := float64(completed-prevCompleted) / float64(base) * 100

	longest, totalStreaks := streakRuns(set, windowStart, days)
	avgGap := averageGapBetweenMisses(set, windowStart, days)

	rate := float64(completed) / float64(days) * 100

	return model.TrendData{
		HabitID:                 habitID,
		Period:                  period,
		CompletionRate:          rate,
		CompletedDays:           completed,
		TotalDays:               days,
		Trend:                   direction,
		TrendPercentage:         trendPct,
		ConsistencyScore:        consistencyScore(rate, longest, completed),
		LongestStreak:           longest,
		TotalStreaks:            totalStreaks,
		AverageGapBetweenMisses: avgGap,
	}
}

func countInWindow(set map[string]bool, start time.Time, days int) int {
	count := 0
	for i := 0; i < days; i++ {
		if set[utils.DateKey(start.AddDate(0, 0, i))] {
			count++
		}
	}
	return count
}

// streakRuns 扫描窗口内的连续完成段，返回最长段长度与段数
func streakRuns(set map[string]bool, start time.Time, days int) (longest, total int) {
	run := 0
	for i := 0; i < days; i++ {
		if set[utils.DateKey(start.AddDate(0, 0, i))] {
			run++
			if run > longest {
				longest = run
			}
			if run == 1 {
				total++
			}
		} else {
			run = 0
		}
	}
	return longest, total
}

// averageGapBetweenMisses 窗口内相邻缺勤日之间的平均日历天距离。
// 缺勤日不足两个时返回 0。
func averageGapBetweenMisses(set map[string]bool, start time.Time, days int) float64 {
	var misses []int
	for i := 0; i < days; i++ {
		if !set[utils.DateKey(start.AddDate(0, 0, i))] {
			misses = append(misses, i)
		}
	}

	if len(misses) < 2 {
		return 0
	}

	sum := 0
	for i := 1; i < len(misses); i++ {
		sum += misses[i] - misses[i-1]
	}
	return float64(sum) / float64(len(misses)-1)
}

// consistencyScore 完成率与连续性的单调组合，限制在 0-100
func consistencyScore(rate float64, longest, completed int) float64 {
	regularity := 0.0
	if completed > 0 {
		regularity = float64(longest) / float64(completed) * 100
	}

	score := rate*0.7 + regularity*0.3
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
