package main

import (
	"context"
	"fmt"
	"time"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/database"
	"github.com/codexam/codexam-backend/internal/logger"
	"github.com/codexam/codexam-backend/internal/model"
	"github.com/codexam/codexam-backend/internal/repository"
	"github.com/codexam/codexam-backend/internal/service"
)

// Seeds one teacher, a batch of students and a demo exam for local
// development. All accounts share the password "password123".
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	authService := service.NewAuthService(cfg, userRepo)
	examService := service.NewExamService(examRepo, attemptRepo)

	fmt.Println("=== Seeding demo data ===")

	teacher, err := authService.Register(ctx, "teacher@codexam.dev", "Demo Teacher", "password123", model.RoleTeacher)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}
	fmt.Printf("Teacher: %s (%s)\n", teacher.FullName, teacher.Email)

	names := []string{
		"Alice Carter", "Ben Okafor", "Chloe Nguyen", "Daniel Reyes", "Emma Fischer",
		"Felix Tanaka", "Grace Lindqvist", "Hassan Ali", "Isla Morrison", "Jonas Weber",
		"Katya Petrova", "Liam O'Brien", "Mei Chen", "Noah Johansson", "Olivia Santos",
		"Pavel Novak", "Quinn Taylor", "Rosa Martinez", "Samir Patel", "Tara Singh",
	}
	for i, name := range names {
		email := fmt.Sprintf("student%02d@codexam.dev", i+1)
		if _, err := authService.Register(ctx, email, name, "password123", model.RoleStudent); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("Skipping student")
			continue
		}
	}
	fmt.Printf("Students: %d seeded\n", len(names))

	endAt := time.Now().Add(7 * 24 * time.Hour)
	duration := 90
	exam, err := examService.Create(ctx, teacher.ID, &model.CreateExamRequest{
		Title:           "Introduction to Algorithms",
		Description:     "Demo exam covering all question types.",
		EndAt:           endAt,
		DurationMinutes: &duration,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo exam")
	}

	fmt.Printf("Exam: %q, access code %s\n", exam.Title, exam.AccessCode)
	fmt.Println("Done.")
}
