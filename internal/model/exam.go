package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam entity. StartAt/EndAt define the exam time
// window; DurationMinutes drives the client-side attempt timer, the
// server holds submissions against EndAt only.
type Exam struct {
	ID              uuid.UUID  `json:"exam_id"`
	TeacherID       uuid.UUID  `json:"teacher_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	AccessCode      string     `json:"access_code"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           time.Time  `json:"end_at"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	ResultsReleased bool       `json:"results_released"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HasEnded reports whether the exam window is closed at the given instant.
func (e *Exam) HasEnded(now time.Time) bool {
	return !e.EndAt.After(now)
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=255"`
	Description     string     `json:"description" binding:"omitempty,max=2000"`
	StartAt         *time.Time `json:"start_at" binding:"omitempty"`
	EndAt           time.Time  `json:"end_at" binding:"required"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
}

// UpdateExamRequest is the payload for updating an existing exam.
type UpdateExamRequest struct {
	Title           string     `json:"title" binding:"omitempty,min=3,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	StartAt         *time.Time `json:"start_at" binding:"omitempty"`
	EndAt           *time.Time `json:"end_at" binding:"omitempty"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
}

// ReleaseCheck is the outcome of the results-release gate.
type ReleaseCheck struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	TotalAttempts  int    `json:"total_attempts"`
	GradedAttempts int    `json:"graded_attempts"`
}
