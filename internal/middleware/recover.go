package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"HabitPulse/config"
	"HabitPulse/pkg/errors"
	"HabitPulse/pkg/logger"
	"HabitPulse/pkg/response"
)

// RecoverMiddleware 捕获 handler panic，记录日志并返回统一错误响应
func RecoverMiddleware() app.HandlerFunc {
	isProduction := config.Cfg.IsProduction()

	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				fields := []zap.Field{
					zap.String("panic", fmt.Sprintf("%v", err)),
					zap.String("path", string(c.Path())),
					zap.String("method", string(c.Method())),
					zap.String("client_ip", c.ClientIP()),
					zap.ByteString("stack", stack),
				}
				if userID, exists := GetUserID(ctx, c); exists {
					fields = append(fields, zap.String("user_id", userID))
				}
				logger.Logger.Error("[PANIC RECOVERED]", fields...)

				errDef := errors.Definition{
					Code:    "INTERNAL_SERVER_ERROR",
					Message: "Internal server error, please retry later",
				}

				if isProduction {
					response.Error(ctx, c, errDef)
					return
				}

				// 开发环境带上 panic 详情便于排查
				response.ErrorWithDetails(ctx, c, errDef, map[string]interface{}{
					"panic":     fmt.Sprintf("%v", err),
					"stack":     string(stack),
					"timestamp": time.Now().Format(time.RFC3339),
				})
			}
		}()

		c.Next(ctx)
	}
}
