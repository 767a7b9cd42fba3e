package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codexam/codexam-backend/internal/model"
)

// FlagStore is the flag persistence the flag service needs.
type FlagStore interface {
	CreateBulk(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID, note string) error
	ListByUserAndExam(ctx context.Context, userID, examID uuid.UUID) ([]model.Flag, error)
}

// FlagService handles student question-flagging.
type FlagService struct {
	exams     ExamStore
	questions QuestionStore
	flags     FlagStore
}

// NewFlagService creates a new FlagService.
func NewFlagService(exams ExamStore, questions QuestionStore, flags FlagStore) *FlagService {
	return &FlagService{exams: exams, questions: questions, flags: flags}
}

// FlagQuestions records flags on questions of one exam. Every id must
// belong to the exam; the payload is rejected as a whole otherwise.
// Re-flagging is a no-op, so retries are safe.
func (s *FlagService) FlagQuestions(ctx context.Context, userID, examID uuid.UUID, req *model.FlagQuestionsRequest) error {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for _, id := range req.QuestionIDs {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
		}
	}

	if err := s.flags.CreateBulk(ctx, userID, req.QuestionIDs, req.Note); err != nil {
		return fmt.Errorf("create flags: %w", err)
	}
	return nil
}

// ListFlags retrieves the student's flags for one exam.
func (s *FlagService) ListFlags(ctx context.Context, userID, examID uuid.UUID) ([]model.Flag, error) {
	flags, err := s.flags.ListByUserAndExam(ctx, userID, examID)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return flags, nil
}
