package repository

import (
	"context"
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

func CreateNotificationTask(ctx context.Context, task *model.NotificationTask) error {
	return database.DB().WithContext(ctx).Create(task).Error
}

func MarkNotificationTaskStatus(ctx context.Context, taskCode int64, status model.NotificationTaskStatus) error {
	now := time.Now()
	return database.DB().WithContext(ctx).
		Model(&model.NotificationTask{}).
		Where("task_code = ?", taskCode).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": &now,
		}).Error
}

// ListPendingNotificationTasks 待分发任务，按计划时刻排序
func ListPendingNotificationTasks(ctx context.Context, limit int) ([]model.NotificationTask, error) {
	var tasks []model.NotificationTask
	err := database.DB().WithContext(ctx).
		Where("status = ?", model.NotificationTaskStatusPending).
		Order("scheduled_at").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func ListNotificationTasksByUser(ctx context.Context, userID int64, limit int) ([]model.NotificationTask, error) {
	var tasks []model.NotificationTask
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_at DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}
