package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/handler"
	"github.com/codexam/codexam-backend/internal/middleware"
	"github.com/codexam/codexam-backend/internal/response"
	"github.com/codexam/codexam-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Student  *handler.StudentHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Grading  *handler.GradingHandler
	Monitor  *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.POST("/exams/join", handlers.Student.Join)
		studentAPI.GET("/exams/:exam_id/questions", handlers.Student.Questions)
		studentAPI.DELETE("/exams/:exam_id/attempt", handlers.Student.Leave)
		studentAPI.POST("/exams/:exam_id/submit", handlers.Student.Submit)
		studentAPI.POST("/exams/:exam_id/flags", handlers.Student.FlagQuestions)
		studentAPI.GET("/exams/:exam_id/flags", handlers.Student.ListFlags)
		studentAPI.GET("/exams/:exam_id/leaderboard", handlers.Student.Leaderboard)
		studentAPI.GET("/exams/:exam_id/review", handlers.Student.Review)
		studentAPI.GET("/results", handlers.Student.MyResults)
	}

	// ─── 3. Teacher Group ──────────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.POST("/exams", handlers.Exam.Create)
		teacherAPI.GET("/exams", handlers.Exam.List)
		teacherAPI.GET("/exams/:exam_id", handlers.Exam.Get)
		teacherAPI.PATCH("/exams/:exam_id", handlers.Exam.Update)
		teacherAPI.DELETE("/exams/:exam_id", handlers.Exam.Delete)
		teacherAPI.GET("/exams/:exam_id/release-check", handlers.Exam.ReleaseCheck)
		teacherAPI.POST("/exams/:exam_id/release", handlers.Exam.Release)

		teacherAPI.PUT("/exams/:exam_id/questions", handlers.Question.Replace)
		teacherAPI.GET("/exams/:exam_id/questions", handlers.Question.List)

		teacherAPI.GET("/exams/:exam_id/attempts", handlers.Grading.ListAttempts)
		teacherAPI.GET("/exams/:exam_id/leaderboard", handlers.Grading.Leaderboard)
		teacherAPI.GET("/attempts/:attempt_id", handlers.Grading.AttemptDetail)
		teacherAPI.POST("/attempts/:attempt_id/grade", handlers.Grading.Grade)
	}

	// ─── 4. WebSocket Group (Teacher) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacherJWT(authService))
	{
		ws.GET("/teacher/exams/:exam_id/monitor", handlers.Monitor.Stream)
	}

	return router
}
