package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

// 仓储层：对 gorm 的薄封装，所有查询都带 context

var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func CreateHabit(ctx context.Context, habit *model.Habit) error {
	return database.DB().WithContext(ctx).Create(habit).Error
}

func GetHabitByPublicID(ctx context.Context, publicID int64) (*model.Habit, error) {
	var habit model.Habit
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// GetUserHabitByPublicID 带属主校验的查询，防止越权访问
func GetUserHabitByPublicID(ctx context.Context, userID, publicID int64) (*model.Habit, error) {
	var habit model.Habit
	err := database.DB().WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&habit).Error
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func ListHabitsByUser(ctx context.Context, userID int64, includeArchived bool) ([]model.Habit, error) {
	var habits []model.Habit
	q := database.DB().WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("archived = false")
	}
	err := q.Order("id").Find(&habits).Error
	return habits, err
}

// ListActiveHabits 调度器全量扫描用，分页遍历未归档习惯
func ListActiveHabits(ctx context.Context, afterID int64, limit int) ([]model.Habit, error) {
	var habits []model.Habit
	err := database.DB().WithContext(ctx).
		Where("archived = false AND id > ?", afterID).
		Order("id").
		Limit(limit).
		Find(&habits).Error
	return habits, err
}

// ListActiveHabitUserIDs 返回拥有未归档习惯的用户集合，每日关怀扫描用
func ListActiveHabitUserIDs(ctx context.Context) ([]int64, error) {
	var userIDs []int64
	err := database.DB().WithContext(ctx).
		Model(&model.Habit{}).
		Where("archived = false").
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func UpdateHabit(ctx context.Context, habit *model.Habit) error {
	return database.DB().WithContext(ctx).Save(habit).Error
}

func ArchiveHabit(ctx context.Context, userID, publicID int64) error {
	result := database.DB().WithContext(ctx).
		Model(&model.Habit{}).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		Update("archived", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountResearchHabits 统计用户带研究引用的习惯数，徽章评估用
func CountResearchHabits(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := database.DB().WithContext(ctx).
		Model(&model.Habit{}).
		Where("user_id = ? AND archived = false", userID).
		Where("research_refs IS NOT NULL AND jsonb_array_length(research_refs) > 0").
		Count(&count).Error
	return count, err
}
