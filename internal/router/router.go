package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"HabitPulse/internal/handler"
	"HabitPulse/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	auth.Use(middleware.GeneralRateLimitMiddleware())
	{
		auth.POST("/token", handler.IssueToken)
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	// 习惯相关路由
	habits := v1.Group("/habits")
	habits.Use(middleware.AuthMiddleware())
	{
		habits.POST("", handler.CreateHabit)
		habits.GET("", handler.ListHabits)
		habits.GET("/:id", handler.GetHabit)
		habits.DELETE("/:id", handler.ArchiveHabit)

		habits.POST("/:id/completions", middleware.CompletionRateLimitMiddleware(), handler.RecordCompletion)
		habits.GET("/:id/progress", handler.GetProgress)

		habits.GET("/:id/reminders", handler.PlanHabitReminders)
		habits.GET("/:id/trends", handler.GetHabitTrend)
		habits.GET("/:id/pattern", handler.GetHabitPattern)
		habits.GET("/:id/compassion", handler.CheckCompassion)
	}

	// 汇总提醒路由
	reminders := v1.Group("/reminders")
	reminders.Use(middleware.AuthMiddleware())
	{
		reminders.GET("", handler.ListPendingReminders)
	}

	// 恢复会话路由
	recovery := v1.Group("/recovery")
	recovery.Use(middleware.AuthMiddleware())
	{
		recovery.GET("/sessions", handler.ListRecoverySessions)
		recovery.POST("/sessions", handler.StartRecovery)
		recovery.PATCH("/sessions/:code", handler.UpdateRecovery)
		recovery.POST("/sessions/:code/complete", handler.CompleteRecovery)
		recovery.GET("/stats", handler.GetRecoveryStats)
		recovery.GET("/micro-habits", handler.GenerateMicroHabit)
	}

	// 徽章路由
	badges := v1.Group("/badges")
	badges.Use(middleware.AuthMiddleware())
	{
		badges.GET("", handler.ListBadgeProgress)
		badges.GET("/earned", handler.ListEarnedBadges)
		badges.GET("/new", handler.DrainNewBadges)
		badges.POST("/check", handler.CheckBadges)
	}
}
