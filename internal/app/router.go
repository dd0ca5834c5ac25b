package app

import (
	"mathquest_backend/internal/config"
	"mathquest_backend/internal/middleware"
	"mathquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/password-reset/request", c.reset.Request)
		public.POST("/password-reset/pin", c.reset.ResetWithPin)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.session))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.POST("/signout", c.auth.SignOut)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		authGroup.POST("/progress", c.progress.SaveProgress)
		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.GET("/progress/detail", c.progress.GetProgressDetail)
		authGroup.DELETE("/progress", c.progress.ClearAllProgress)

		authGroup.POST("/achievements/:id/unlock", c.achievement.Unlock)
		authGroup.GET("/achievements", c.achievement.List)

		authGroup.POST("/scores", c.score.SaveScore)
		authGroup.GET("/scores", c.score.GetScores)
		authGroup.GET("/scores/:id", c.score.GetScoreDetail)

		authGroup.POST("/activity/touch", c.activity.Touch)
		authGroup.GET("/activity/streak", c.activity.GetStreak)
	}

	// 3. 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg, a.services.session), middleware.AdminMiddleware(cfg))
	{
		adminGroup.GET("/overview", c.admin.GetOverview)
		adminGroup.GET("/users/summaries", c.admin.GetUserSummaries)
		adminGroup.GET("/users/:id/scores", c.admin.GetUserScores)
		adminGroup.GET("/users/:id/scores/:scoreId", c.admin.GetQuizAttemptDetails)
		adminGroup.GET("/users/:id/achievements", c.admin.GetUserAchievements)
		adminGroup.POST("/users/:id/password", c.admin.SetUserPassword)
		adminGroup.GET("/password-resets", c.admin.ListPendingResets)
		adminGroup.POST("/password-resets/:id/complete", c.admin.CompleteReset)
	}
}
