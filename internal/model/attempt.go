package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states.
//
// not_started -> in_progress -> {submitted, overdue} -> graded
//
// graded is terminal; there is no reopening path.
type AttemptStatus string

const (
	AttemptStatusNotStarted AttemptStatus = "not_started"
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusSubmitted  AttemptStatus = "submitted"
	AttemptStatusOverdue    AttemptStatus = "overdue"
	AttemptStatusGraded     AttemptStatus = "graded"
)

// Terminal reports whether the status forbids further submission.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptStatusSubmitted || s == AttemptStatusGraded
}

// Attempt is one student's run at one exam. At most one attempt exists per
// (exam, user) pair, enforced by a unique constraint.
type Attempt struct {
	ID          uuid.UUID     `json:"attempt_id"`
	ExamID      uuid.UUID     `json:"exam_id"`
	UserID      uuid.UUID     `json:"user_id"`
	Status      AttemptStatus `json:"status"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	TotalScore  *float64      `json:"total_score,omitempty"`
	Cheated     bool          `json:"cheated"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// JoinExamRequest is the payload for a student joining an exam.
type JoinExamRequest struct {
	AccessCode string `json:"access_code" binding:"required,min=4,max=20"`
}

// AnswerSubmission is one answer within a submit payload.
type AnswerSubmission struct {
	QuestionID          uuid.UUID   `json:"question_id" binding:"required"`
	AnswerText          string      `json:"answer_text" binding:"omitempty"`
	SelectedChoices     []uuid.UUID `json:"selected_choices" binding:"omitempty"`
	ProgrammingLanguage string      `json:"programming_language" binding:"omitempty"`
}

// SubmitExamRequest is the payload for submitting an attempt. The cheated
// flag is the client-reported proctoring signal, copied verbatim.
type SubmitExamRequest struct {
	Answers   []AnswerSubmission `json:"answers" binding:"required,dive"`
	StartedAt *time.Time         `json:"started_at" binding:"omitempty"`
	Cheated   bool               `json:"cheated"`
}

// QuestionGrade is a manually entered score for one question.
type QuestionGrade struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Score      float64   `json:"score" binding:"min=0"`
}

// GradeAttemptRequest is the payload for manual grading of an attempt.
type GradeAttemptRequest struct {
	QuestionGrades []QuestionGrade `json:"question_grades" binding:"required,min=1,dive"`
}
