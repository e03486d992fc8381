package repository

import (
	"context"
	"time"

	"HabitPulse/internal/model"
	"HabitPulse/storage/database"
)

func CreateCompassionEvent(ctx context.Context, event *model.CompassionEvent) error {
	return database.DB().WithContext(ctx).Create(event).Error
}

func GetCompassionEventByCode(ctx context.Context, eventCode int64) (*model.CompassionEvent, error) {
	var event model.CompassionEvent
	err := database.DB().WithContext(ctx).
		Where("event_code = ?", eventCode).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// RecordCompassionResponse 记录用户对关怀消息的反馈
func RecordCompassionResponse(ctx context.Context, eventCode int64, response string, elapsedSeconds int) error {
	return database.DB().WithContext(ctx).
		Model(&model.CompassionEvent{}).
		Where("event_code = ?", eventCode).
		Updates(map[string]interface{}{
			"user_response":            response,
			"time_to_response_seconds": elapsedSeconds,
		}).Error
}

// HasRecentCompassionEvent 习惯在给定时刻之后是否已触发过关怀，防止重复打扰
func HasRecentCompassionEvent(ctx context.Context, habitID int64, since time.Time) (bool, error) {
	var count int64
	err := database.DB().WithContext(ctx).
		Model(&model.CompassionEvent{}).
		Where("habit_id = ? AND created_at >= ?", habitID, since).
		Count(&count).Error
	return count > 0, err
}

func ListCompassionEventsByUser(ctx context.Context, userID int64, limit int) ([]model.CompassionEvent, error) {
	var events []model.CompassionEvent
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
