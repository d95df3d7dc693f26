package app

import (
	"pdf_quiz_backend/docs"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/middleware"
	"pdf_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	if cfg.Server.EnableSwagger {
		docs.SwaggerInfo.BasePath = "/"
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	}

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, s.tokens))
	{
		a.registerUserRoutes(authGroup, c)

		// 3. 管理员接口
		admin := authGroup.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.POST("/quizzes", c.quiz.Upload)
		public.GET("/quizzes/:name", c.quiz.Show)
		public.POST("/quizzes/:name/submit", c.quiz.Submit)
		public.GET("/quizzes/:name/answer-key", c.quiz.AnswerKey)

		public.GET("/documents/:id", c.document.Show)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/logout", c.auth.Logout)
	group.GET("/profile", c.auth.Profile)
	group.GET("/dashboard", c.assignment.Dashboard)

	assignments := group.Group("/assignments")
	{
		assignments.GET("/:id/test", c.assignment.TakeTest)
		assignments.POST("/:id/submit", c.assignment.Submit)
		assignments.GET("/:id/attempts/:attemptId", c.assignment.Attempt)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/users", c.user.ListUsers)
	group.POST("/assignments", c.assignment.Create)
}
