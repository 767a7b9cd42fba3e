package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codexam/codexam-backend/internal/model"
)

// ExamStore is the exam persistence the exam service needs.
type ExamStore interface {
	Create(ctx context.Context, e *model.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	GetByAccessCode(ctx context.Context, code string) (*model.Exam, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Exam, error)
	Update(ctx context.Context, e *model.Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetResultsReleased(ctx context.Context, id uuid.UUID, released bool) error
}

// AttemptLister is the minimal attempt access needed for the release gate.
type AttemptLister interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Attempt, error)
}

// ExamService handles exam lifecycle business logic.
type ExamService struct {
	exams    ExamStore
	attempts AttemptLister
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamStore, attempts AttemptLister) *ExamService {
	return &ExamService{exams: exams, attempts: attempts}
}

// accessCodeAlphabet omits easily confused characters (0/O, 1/I/L).
const accessCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func generateAccessCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(accessCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Create builds a new exam owned by the teacher, with a fresh access code.
func (s *ExamService) Create(ctx context.Context, teacherID uuid.UUID, req *model.CreateExamRequest) (*model.Exam, error) {
	code, err := generateAccessCode(8)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		TeacherID:       teacherID,
		Title:           req.Title,
		Description:     req.Description,
		AccessCode:      code,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

// Get retrieves an exam, enforcing teacher ownership.
func (s *ExamService) Get(ctx context.Context, teacherID, examID uuid.UUID) (*model.Exam, error) {
	return s.getOwned(ctx, teacherID, examID)
}

// List retrieves all exams owned by the teacher.
func (s *ExamService) List(ctx context.Context, teacherID uuid.UUID) ([]model.Exam, error) {
	exams, err := s.exams.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// Update applies the non-zero fields of the request to an owned exam.
func (s *ExamService) Update(ctx context.Context, teacherID, examID uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.getOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.StartAt != nil {
		exam.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		exam.EndAt = *req.EndAt
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = req.DurationMinutes
	}

	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return exam, nil
}

// Delete removes an owned exam with everything underneath it.
func (s *ExamService) Delete(ctx context.Context, teacherID, examID uuid.UUID) error {
	if _, err := s.getOwned(ctx, teacherID, examID); err != nil {
		return err
	}
	if err := s.exams.Delete(ctx, examID); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return nil
}

// CanReleaseResults evaluates the release gate without changing anything.
// Results may go out only once the exam has ended and no finished attempt
// is still waiting for a grade; attempts that never finished do not block.
func (s *ExamService) CanReleaseResults(ctx context.Context, teacherID, examID uuid.UUID) (*model.ReleaseCheck, error) {
	exam, err := s.getOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	check := &model.ReleaseCheck{TotalAttempts: len(attempts)}
	pending := 0
	for _, a := range attempts {
		switch a.Status {
		case model.AttemptStatusGraded:
			check.GradedAttempts++
		case model.AttemptStatusSubmitted, model.AttemptStatusOverdue:
			pending++
		}
	}

	if !exam.HasEnded(time.Now()) {
		check.Reason = "exam has not ended yet"
		return check, nil
	}
	if pending > 0 {
		check.Reason = fmt.Sprintf("%d attempt(s) still need grading", pending)
		return check, nil
	}
	check.Allowed = true
	return check, nil
}

// ReleaseResults opens the results gate after re-evaluating it.
func (s *ExamService) ReleaseResults(ctx context.Context, teacherID, examID uuid.UUID) (*model.ReleaseCheck, error) {
	check, err := s.CanReleaseResults(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return check, ErrResultsNotReleasable
	}
	if err := s.exams.SetResultsReleased(ctx, examID, true); err != nil {
		return nil, fmt.Errorf("release results: %w", err)
	}
	return check, nil
}

func (s *ExamService) getOwned(ctx context.Context, teacherID, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	return exam, nil
}
