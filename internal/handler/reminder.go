package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/service"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/response"
)

// PlanHabitReminders 单个习惯的提醒建议
// GET /v1/habits/:id/reminders
func PlanHabitReminders(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	recs, err := service.Reminder().PlanHabitReminders(ctx, userID, habitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, recs)
}

// ListPendingReminders 用户全部待处理提醒，按优先级排序
// GET /v1/reminders
func ListPendingReminders(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	recs, err := service.Reminder().AllPendingReminders(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, recs)
}
