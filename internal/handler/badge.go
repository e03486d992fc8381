package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/model/dto"
	"HabitPulse/internal/service"
	"HabitPulse/pkg/response"
)

// ListBadgeProgress 全部徽章的达成进度
// GET /v1/badges
func ListBadgeProgress(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var query dto.BadgeProgressQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	progress, err := service.BadgeSvc().ListBadgeProgress(ctx, userID, query.HabitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, progress)
}

// ListEarnedBadges 已获得的徽章
// GET /v1/badges/earned
func ListEarnedBadges(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	earned, err := service.BadgeSvc().ListEarnedBadges(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, earned)
}

// CheckBadges 主动触发一次徽章扫描，返回本次新授予的徽章
// POST /v1/badges/check
func CheckBadges(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	var query dto.BadgeProgressQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	awarded, err := service.BadgeSvc().CheckForNewBadges(ctx, userID, query.HabitID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, awarded)
}

// DrainNewBadges 取出未读的新徽章，同一徽章只会出现在一次响应中
// GET /v1/badges/new
func DrainNewBadges(ctx context.Context, c *app.RequestContext) {
	userID, ok := requireUserID(ctx, c)
	if !ok {
		return
	}

	badges, err := service.BadgeSvc().DrainNewBadges(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, badges)
}
