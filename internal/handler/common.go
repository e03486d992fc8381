package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"HabitPulse/internal/middleware"
	apperrors "HabitPulse/pkg/errors"
	"HabitPulse/pkg/response"
)

// requireUserID 从上下文提取数值型用户ID，缺失时直接写回 401
func requireUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, apperrors.Unauthorized)
		return 0, false
	}
	return userID, true
}

// pathID 解析路径中的数值参数
func pathID(c *app.RequestContext, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
