package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/database"
	"github.com/codexam/codexam-backend/internal/handler"
	"github.com/codexam/codexam-backend/internal/judge"
	"github.com/codexam/codexam-backend/internal/logger"
	"github.com/codexam/codexam-backend/internal/repository"
	"github.com/codexam/codexam-backend/internal/router"
	"github.com/codexam/codexam-backend/internal/service"
	"github.com/codexam/codexam-backend/internal/validator"
	"github.com/codexam/codexam-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting CodExam Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	choiceRepo := repository.NewChoiceRepository(pool)
	testCaseRepo := repository.NewTestCaseRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	flagRepo := repository.NewFlagRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	judgeClient := judge.NewClient(cfg, log)

	authService := service.NewAuthService(cfg, userRepo)
	examService := service.NewExamService(examRepo, attemptRepo)
	questionService := service.NewQuestionService(examRepo, questionRepo, choiceRepo, testCaseRepo)
	flagService := service.NewFlagService(examRepo, questionRepo, flagRepo)
	attemptService := service.NewAttemptService(
		examRepo, attemptRepo, answerRepo, questionRepo, choiceRepo,
		testCaseRepo, userRepo, flagRepo, judgeClient, rdb, log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Student:  handler.NewStudentHandler(attemptService, questionService, flagService),
		Exam:     handler.NewExamHandler(examService),
		Question: handler.NewQuestionHandler(questionService, examService),
		Grading:  handler.NewGradingHandler(attemptService),
		Monitor:  handler.NewMonitorHandler(rdb, examService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	overdueWorker := worker.NewOverdueWorker(attemptRepo, cfg.OverdueSweepInterval, log)
	go overdueWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
