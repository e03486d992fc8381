package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/model/dto"
	"HabitPulse/internal/service"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/response"
)

// GetHabitTrend 习惯完成趋势
// GET /v1/habits/:id/trends
func GetHabitTrend(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	var query dto.TrendQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := service.Insight().GetTrend(ctx, userID, habitID, query.Period)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, data)
}

// GetHabitPattern 习惯完成模式归纳
// GET /v1/habits/:id/pattern
func GetHabitPattern(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	summary, err := service.Insight().GetPattern(ctx, userID, habitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, summary)
}
