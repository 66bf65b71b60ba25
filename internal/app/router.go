package app

import (
	"exam_admin_backend/docs"
	"exam_admin_backend/internal/config"
	"exam_admin_backend/internal/middleware"
	"exam_admin_backend/internal/model"
	"exam_admin_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/refresh", c.auth.Refresh)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/auth/logout", c.auth.Logout)
		authGroup.GET("/auth/me", c.auth.Me)

		// 用户管理：仅管理员
		users := authGroup.Group("/users")
		users.Use(middleware.RoleMiddleware(model.Admin))
		{
			users.GET("", c.user.List)
			users.POST("", c.user.Create)
			users.GET("/:id", c.user.Get)
			users.PATCH("/:id/role", c.user.UpdateRole)
		}

		// 题库：考官与管理员
		questions := authGroup.Group("/questions")
		questions.Use(middleware.RoleMiddleware(model.Examiner))
		{
			questions.POST("", c.question.Create)
			questions.GET("", c.question.List)
			questions.GET("/:id", c.question.Get)
			questions.PATCH("/:id", c.question.Update)
			questions.DELETE("/:id", c.question.Delete)
		}

		// 考试管理：考官与管理员
		exams := authGroup.Group("/exams")
		exams.Use(middleware.RoleMiddleware(model.Examiner))
		{
			exams.POST("", c.exam.Create)
			exams.GET("", c.exam.List)
			exams.GET("/statuses", c.exam.Statuses)
			exams.GET("/:id", c.exam.Get)
			exams.PATCH("/:id", c.exam.Update)
			exams.DELETE("/:id", c.exam.Delete)
			exams.POST("/:id/duplicate", c.exam.Duplicate)
			exams.POST("/:id/publish", c.exam.Publish)
			exams.POST("/:id/unpublish", c.exam.Unpublish)
			exams.POST("/:id/archive", c.exam.Archive)

			exams.GET("/:id/questions", c.examQuestion.List)
			exams.POST("/:id/questions", c.examQuestion.Attach)
			exams.PUT("/:id/questions", c.examQuestion.Reconcile)
			exams.DELETE("/:id/questions/:questionId", c.examQuestion.Detach)

			exams.GET("/:id/attempts", c.exam.ListAttempts)
			exams.POST("/:id/attempts/:attemptId/terminate", c.exam.TerminateAttempt)
		}

		// 候选人答题
		attempts := authGroup.Group("/attempts")
		attempts.Use(middleware.RoleMiddleware(model.Candidate))
		{
			attempts.GET("/exams", c.attempt.ListAssigned)
			attempts.POST("/exams/:examId/start", c.attempt.Start)
			attempts.POST("/exams/:examId/submit", c.attempt.Submit)
			attempts.GET("/exams/:examId/result", c.attempt.Result)
		}
	}
}
