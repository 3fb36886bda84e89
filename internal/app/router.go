package app

import (
	"aral_lms_backend/internal/config"
	"aral_lms_backend/internal/middleware"
	"aral_lms_backend/internal/model"
	"aral_lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		auth := public.Group("/auth")
		{
			auth.POST("/verify-email", c.auth.VerifyEmail)
			auth.POST("/resend-verification", c.auth.ResendVerification)
			auth.POST("/forgot-password", c.auth.RequestPasswordReset)
			auth.POST("/reset-password", c.auth.ResetPassword)
		}

		// Catalog browsing is open; enrolled-only detail is enforced at the
		// progress endpoints, not here.
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.ListCourses)
		public.GET("/courses/:slug", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)

	rg.POST("/courses/enroll", c.course.Enroll)
	rg.GET("/enrollments", c.course.ListMyEnrollments)

	rg.GET("/modules/:id", c.content.GetModule)
	rg.GET("/modules/:id/lock-status", c.content.GetModuleLockStatus)
	rg.GET("/lessons/:id", c.content.GetLesson)

	rg.POST("/progress/lesson", c.progress.RecordLessonProgress)
	rg.GET("/progress/lesson/:id", c.progress.GetLessonProgress)
	rg.GET("/progress/module/:id", c.progress.GetModuleProgress)
	rg.GET("/progress/course/:id", c.progress.GetCourseProgress)

	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
	rg.GET("/quizzes/:id/attempts", c.quiz.AttemptHistory)

	rg.GET("/modules/:id/threads", c.discussion.ListThreads)
	rg.GET("/threads/:id", c.discussion.GetThread)
	rg.POST("/threads", c.discussion.CreateThread)
	rg.POST("/threads/:id/replies", c.discussion.Reply)
	rg.DELETE("/threads/:id", c.discussion.DeleteThread)
	rg.DELETE("/replies/:id", c.discussion.DeleteReply)

	rg.GET("/notifications", c.notification.List)
	rg.POST("/notifications/:id/read", c.notification.MarkRead)
	rg.POST("/notifications/read-all", c.notification.MarkAllRead)
	rg.GET("/notifications/stream", c.notification.Stream)

	rg.POST("/outputs", c.output.Submit)
	rg.GET("/outputs", c.output.ListMine)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	staff := rg.Group("/manage")
	staff.Use(middleware.RoleMiddleware(model.Instructor))
	{
		staff.POST("/courses", c.course.CreateCourse)
		staff.PUT("/courses/:id", c.course.UpdateCourse)
		staff.DELETE("/courses/:id", c.course.DeleteCourse)
		staff.POST("/courses/:id/invite-codes", c.course.CreateInviteCode)
		staff.GET("/courses/:id/invite-codes", c.course.ListInviteCodes)

		staff.GET("/courses/:id/modules", c.content.ListModules)
		staff.POST("/modules", c.content.CreateModule)
		staff.PUT("/modules/:id", c.content.UpdateModule)
		staff.DELETE("/modules/:id", c.content.DeleteModule)

		staff.POST("/lessons", c.content.CreateLesson)
		staff.PUT("/lessons/:id", c.content.UpdateLesson)
		staff.DELETE("/lessons/:id", c.content.DeleteLesson)
		staff.POST("/lessons/:id/video", c.content.UploadVideo)
		staff.POST("/lessons/:id/materials", c.content.UploadMaterial)

		staff.POST("/quizzes", c.quiz.CreateQuiz)
		staff.GET("/quizzes/:id", c.quiz.GetQuizAdmin)
		staff.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		staff.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		staff.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		staff.PUT("/quizzes/:id/questions/:questionId", c.quiz.UpdateQuestion)
		staff.DELETE("/quizzes/:id/questions/:questionId", c.quiz.DeleteQuestion)

		staff.PUT("/threads/:id/moderate", c.discussion.Moderate)

		staff.GET("/outputs", c.output.ListForReview)
		staff.POST("/outputs/:id/review", c.output.Review)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/active", c.user.SetUserActive)
		admin.PUT("/users/:id/role", c.user.SetUserRole)
		admin.GET("/stats", c.user.GetPlatformStats)
	}
}
