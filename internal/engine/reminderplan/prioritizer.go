package reminderplan

import (
	"sort"

	"HabitPulse/internal/model"
)

// Prioritize 对多个习惯的提醒列表做全序合并：
// 优先级降序（critical > high > medium > low），同级按触达时刻升序。
// 这是 AllPendingReminders 对外的排序契约。
func Prioritize(lists ...[]model.ReminderRecommendation) []model.ReminderRecommendation {
	var merged []model.ReminderRecommendation
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ri, rj := merged[i].Priority.Rank(), merged[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return merged[i].Timing.Before(merged[j].Timing)
	})

	return merged
}
