package app

import (
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/docs"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/config"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/middleware"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerCommonRoutes(authGroup, c)

		// 学生相关接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)

		// 管理员相关接口
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/curriculum/years", c.curriculum.Years)
		public.GET("/curriculum/subjects", c.curriculum.Subjects)
	}
}

// registerCommonRoutes serves any signed-in caller; ownership is checked by the services.
func (a *App) registerCommonRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.user.Me)
	group.GET("/attempts/:attemptId", c.attempt.GetAttempt)
	group.GET("/submissions/:id", c.submission.GetSubmission)
	group.GET("/submissions/:id/file", c.submission.DownloadFile)
	group.GET("/assignments/:id/file", c.assignment.DownloadBrief)
	group.GET("/notifications", c.notification.List)
	group.PATCH("/notifications/:id/read", c.notification.MarkRead)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/quizzes/:id", c.quiz.GetStudentQuiz)
		student.POST("/quizzes/:id/attempts", c.attempt.StartAttempt)
		student.POST("/quizzes/:id/submit", c.attempt.SubmitQuiz)
		student.POST("/attempts/:attemptId/answers", c.attempt.SubmitAnswer)
		student.POST("/attempts/:attemptId/finish", c.attempt.FinishAttempt)
		student.GET("/results", c.attempt.StudentResults)

		student.POST("/assignments/:id/submit", c.submission.Submit)
		student.POST("/assignments/:id/auto-grade", c.submission.AutoGrade)
		student.GET("/submissions", c.submission.StudentSubmissions)
		student.GET("/deadlines", c.submission.Deadlines)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/subjects", c.curriculum.TeacherSubjects)

		teacher.POST("/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes", c.quiz.ListQuizzes)
		teacher.GET("/quizzes/:id", c.quiz.GetQuiz)
		teacher.POST("/quizzes/:id/publish", c.quiz.PublishQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		teacher.GET("/quizzes/:id/results", c.quiz.QuizResults)

		teacher.POST("/assignments", c.assignment.CreateAssignment)
		teacher.GET("/assignments", c.assignment.ListAssignments)
		teacher.DELETE("/assignments/:id", c.assignment.DeleteAssignment)
		teacher.GET("/assignments/:id/submissions", c.assignment.AssignmentSubmissions)
		teacher.POST("/assignments/:id/auto-grade", c.assignment.AutoGradeStudent)

		teacher.GET("/submissions/pending", c.submission.PendingGrading)
		teacher.POST("/submissions/:id/grade", c.submission.Grade)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.PUT("/users", c.user.Sync)
	}
}
