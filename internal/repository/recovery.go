package repository

import (
	"context"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

func CreateRecoverySession(ctx context.Context, session *model.RecoverySession) error {
	return database.DB().WithContext(ctx).Create(session).Error
}

func GetRecoverySessionByCode(ctx context.Context, sessionCode int64) (*model.RecoverySession, error) {
	var session model.RecoverySession
	err := database.DB().WithContext(ctx).
		Where("session_code = ?", sessionCode).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetActiveSessionByHabit 习惯名下的活跃会话（至多一个）
func GetActiveSessionByHabit(ctx context.Context, habitID int64) (*model.RecoverySession, error) {
	var session model.RecoverySession
	err := database.DB().WithContext(ctx).
		Where("habit_id = ? AND completed = false", habitID).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func UpdateRecoverySession(ctx context.Context, session *model.RecoverySession) error {
	return database.DB().WithContext(ctx).Save(session).Error
}

func ListRecoverySessionsByUser(ctx context.Context, userID int64) ([]model.RecoverySession, error) {
	var sessions []model.RecoverySession
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&sessions).Error
	return sessions, err
}

// GetRecoveryStats 全局恢复统计：总数、成功数、平均恢复天数
func GetRecoveryStats(ctx context.Context, userID int64) (*model.RecoveryStats, error) {
	db := database.DB().WithContext(ctx)
	stats := &model.RecoveryStats{}

	var total int64
	if err := db.Model(&model.RecoverySession{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalRecoverySessions = int(total)

	var successful int64
	if err := db.Model(&model.RecoverySession{}).
		Where("user_id = ? AND completed = true AND outcome = ?", userID, string(model.RecoveryOutcomeSuccessful)).
		Count(&successful).Error; err != nil {
		return nil, err
	}
	stats.SuccessfulRecoveries = int(successful)

	if successful > 0 {
		var avgDays *float64
		err := db.Model(&model.RecoverySession{}).
			Where("user_id = ? AND completed = true AND outcome = ?", userID, string(model.RecoveryOutcomeSuccessful)).
			Select("AVG(EXTRACT(EPOCH FROM (updated_at - start_date)) / 86400)").
			Scan(&avgDays).Error
		if err != nil {
			return nil, err
		}
		if avgDays != nil {
			stats.AverageRecoveryTimeDays = *avgDays
		}
	}

	return stats, nil
}

// CountSuccessfulRecoveries 徽章评估用，habitID=0 表示不限习惯
func CountSuccessfulRecoveries(ctx context.Context, userID, habitID int64) (int64, error) {
	q := database.DB().WithContext(ctx).
		Model(&model.RecoverySession{}).
		Where("user_id = ? AND completed = true AND outcome = ?", userID, string(model.RecoveryOutcomeSuccessful))
	if habitID > 0 {
		q = q.Where("habit_id = ?", habitID)
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}
