package repository

import (
	"context"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

func GetProgressByHabit(ctx context.Context, habitID int64) (*model.HabitProgress, error) {
	var progress model.HabitProgress
	err := database.DB().WithContext(ctx).
		Where("habit_id = ?", habitID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// GetOrCreateProgress 不存在时创建一条空进度
func GetOrCreateProgress(ctx context.Context, habitID, userID int64) (*model.HabitProgress, error) {
	progress, err := GetProgressByHabit(ctx, habitID)
	if err == nil {
		return progress, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	progress = &model.HabitProgress{
		HabitID:         habitID,
		UserID:          userID,
		CompletionDates: model.StringList{},
		CompletionHours: model.JSONB{},
	}
	if err := database.DB().WithContext(ctx).Create(progress).Error; err != nil {
		// 并发创建时回退为读取
		existing, getErr := GetProgressByHabit(ctx, habitID)
		if getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return progress, nil
}

func SaveProgress(ctx context.Context, progress *model.HabitProgress) error {
	return database.DB().WithContext(ctx).Save(progress).Error
}

// ListProgressByUser 用户全部习惯的进度，关怀扫描用
func ListProgressByUser(ctx context.Context, userID int64) ([]model.HabitProgress, error) {
	var list []model.HabitProgress
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error
	return list, err
}
