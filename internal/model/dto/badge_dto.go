package dto

// ========== Badge 相关 DTO ==========

// BadgeProgressQuery 徽章进度查询参数。
// HabitID 为 0 时表示按用户全局评估。
type BadgeProgressQuery struct {
	HabitID int64 `form:"habit_id"`
}
