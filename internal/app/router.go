package app

import (
	"projectk_backend/docs"
	"projectk_backend/internal/config"
	"projectk_backend/internal/middleware"
	"projectk_backend/internal/model"
	"projectk_backend/pkg/monitoring"
	"projectk_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 调用模型的接口按用户单独限流
const (
	aiRequestsPerWindow = 30
	aiRequestWindow     = time.Minute
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.profile))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.GET("/notifications", c.notification.List)
		authGroup.PUT("/notifications/:id/read", c.notification.MarkRead)

		// 学生接口
		a.registerStudentRoutes(authGroup, c)

		// 教师接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))

	aiLimit := security.RateLimiter(aiRequestsPerWindow, aiRequestWindow, security.KeyByUser)

	{
		student.GET("/students/profile", c.user.GetStudentProfile)
		student.PUT("/students/profile", c.user.UpdateStudentProfile)
		student.GET("/students/dashboard", c.dashboard.StudentDashboard)
		student.GET("/students/analytics", c.analytics.StudentSubjects)
		student.GET("/students/classes", c.class.StudentClasses)
		student.POST("/students/classes/join", c.class.JoinClass)

		// 学科辅导
		student.POST("/chat/sessions", c.chat.CreateSession)
		student.GET("/chat/sessions", c.chat.ListSessions)
		student.POST("/chat/message", aiLimit, c.chat.SendMessage)
		student.GET("/chat/history", c.chat.History)

		// 练习
		student.POST("/practice/generate", aiLimit, c.practice.GenerateTest)
		student.POST("/practice/submit", c.practice.SubmitAttempt)
		student.GET("/practice/results", c.practice.ListResults)
		student.GET("/practice/results/:id", c.practice.ResultDetails)
		student.GET("/practice/stats/:subject", c.practice.SubjectStats)

		// 笔记
		student.POST("/notes/generate", aiLimit, c.note.GenerateNotes)
		student.GET("/notes", c.note.ListNotes)
		student.GET("/notes/:id", c.note.GetNote)
		student.PUT("/notes/:id/favorite", c.note.ToggleFavorite)
		student.POST("/notes/:id/export", c.note.ExportNote)
		student.DELETE("/notes/:id", c.note.DeleteNote)

		// 学习助手
		student.POST("/assistant/query", aiLimit, c.assistant.Query)
		student.POST("/assistant/study-plan", aiLimit, c.assistant.StudyPlan)

		// 身心健康与日程
		student.POST("/mindfulness/sessions", c.wellbeing.RecordMindfulness)
		student.GET("/mindfulness/sessions", c.wellbeing.MindfulnessHistory)
		student.POST("/calendar/events", c.wellbeing.CreateEvent)
		student.GET("/calendar/events", c.wellbeing.ListEvents)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teachers")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/profile", c.user.GetTeacherProfile)
		teacher.GET("/dashboard", c.dashboard.TeacherDashboard)

		teacher.POST("/classes", c.class.CreateClass)
		teacher.GET("/classes", c.class.TeacherClasses)
		teacher.GET("/classes/:id/performance", c.analytics.ClassPerformance)
		teacher.GET("/classes/:id/analytics", c.analytics.ClassAnalytics)
		teacher.POST("/classes/:id/notify", c.notification.SendToClass)

		teacher.GET("/analytics/overview", c.analytics.TeacherOverview)
		teacher.GET("/students/:id/report", c.analytics.StudentReport)
		teacher.GET("/test-results", c.analytics.TestResults)
	}
}
