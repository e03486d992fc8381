package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/engine/recovery"
	"HabitPulse/internal/model"
	"HabitPulse/internal/model/dto"
	"HabitPulse/internal/service"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/response"
)

// CheckCompassion 对单个习惯做关怀分类（只读）
// GET /v1/habits/:id/compassion
func CheckCompassion(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	habitID, err := pathID(c, "id")
	if err != nil {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	result, err := service.Recovery().CheckCompassion(ctx, userID, habitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// StartRecovery 为习惯启动恢复会话
// POST /v1/recovery/sessions
func StartRecovery(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.StartRecoveryRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}
	if req.HabitID <= 0 {
		response.Error(ctx, c, apperrors.HabitNotFound)
		return
	}

	rType := model.RecoveryType(req.RecoveryType)
	switch rType {
	case model.RecoveryTypeGentleRestart, model.RecoveryTypeMicroHabit, model.RecoveryTypeFullReset:
	default:
		response.BindError(ctx, c, apperrors.Definition{
			Code:    "RECOVERY_TYPE_INVALID",
			Message: "recovery_type must be gentle_restart, micro_habit or full_reset",
		})
		return
	}

	session, err := service.Recovery().StartRecovery(ctx, userID, req.HabitID, rType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, session)
}

// UpdateRecovery 字段级更新会话进度。
// 未知会话按无操作处理，返回空数据。
// PATCH /v1/recovery/sessions/:code
func UpdateRecovery(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	sessionCode, err := pathID(c, "code")
	if err != nil {
		response.Error(ctx, c, apperrors.RecoverySessionNotFound)
		return
	}

	var req dto.UpdateRecoveryRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Recovery().UpdateRecovery(ctx, userID, sessionCode, recovery.ProgressUpdate{
		CurrentStep:     req.CurrentStep,
		SuccessfulDays:  req.SuccessfulDays,
		ChallengingDays: req.ChallengingDays,
		NextMilestone:   req.NextMilestone,
	})
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, session)
}

// CompleteRecovery 结束恢复会话
// POST /v1/recovery/sessions/:code/complete
func CompleteRecovery(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	sessionCode, err := pathID(c, "code")
	if err != nil {
		response.Error(ctx, c, apperrors.RecoverySessionNotFound)
		return
	}

	var req dto.CompleteRecoveryRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Recovery().CompleteRecovery(ctx, userID, sessionCode, model.RecoveryOutcome(req.Outcome))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, session)
}

// ListRecoverySessions 用户全部恢复会话
// GET /v1/recovery/sessions
func ListRecoverySessions(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	sessions, err := service.Recovery().ListSessions(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, sessions)
}

// GetRecoveryStats 用户恢复统计
// GET /v1/recovery/stats
func GetRecoveryStats(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	stats, err := service.Recovery().GetStats(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, stats)
}

// GenerateMicroHabit 生成缩减版微习惯，按习惯或按类目
// GET /v1/recovery/micro-habits
func GenerateMicroHabit(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var query dto.MicroHabitQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	micro, err := service.Recovery().GenerateMicroHabit(ctx, userID, query.HabitID, query.Category)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, micro)
}
