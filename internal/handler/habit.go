package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/model"
	"HabitPulse/internal/model/dto"
	"HabitPulse/internal/service"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/response"
)

// CreateHabit 创建习惯
// POST /v1/habits
func CreateHabit(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.CreateHabitRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	params := service.CreateHabitParams{
		Name:         req.Name,
		Category:     req.Category,
		Frequency:    model.FrequencyType(req.Frequency),
		TimeTags:     req.TimeTags,
		ResearchRefs: req.ResearchRefs,
	}
	if req.WeeklyTarget != nil {
		params.WeeklyTarget = &model.WeeklyTarget{
			SessionsPerWeek: req.WeeklyTarget.SessionsPerWeek,
			PreferredDays:   req.WeeklyTarget.PreferredDays,
		}
	}
	if req.PeriodicTarget != nil {
		params.PeriodicTarget = &model.PeriodicTarget{
			Interval:      model.PeriodicInterval(req.PeriodicTarget.Interval),
			IntervalCount: req.PeriodicTarget.IntervalCount,
		}
	}

	habit, err := service.Habit().CreateHabit(ctx, userID, params)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, habit)
}

// ListHabits 习惯列表
// GET /v1/habits
func ListHabits(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var query dto.ListHabitsQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	habits, err := service.Habit().ListHabits(ctx, userID, query.IncludeArchived)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, habits)
}

// GetHabit 查询单个习惯
// GET /v1/habits/:id
func GetHabit(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	habit, err := service.Habit().GetHabit(ctx, userID, habitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, habit)
}

// ArchiveHabit 归档习惯
// DELETE /v1/habits/:id
func ArchiveHabit(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	if err := service.Habit().ArchiveHabit(ctx, userID, habitID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// RecordCompletion 记录一次习惯完成
// POST /v1/habits/:id/completions
func RecordCompletion(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	var req dto.RecordCompletionRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	hour := -1
	if req.Hour != nil {
		hour = *req.Hour
	}

	progress, err := service.Habit().RecordCompletion(ctx, userID, habitID, req.Date, hour)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, progress)
}

// GetProgress 查询习惯进度快照
// GET /v1/habits/:id/progress
func GetProgress(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	progress, err := service.Habit().GetProgress(ctx, userID, habitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, progress)
}
