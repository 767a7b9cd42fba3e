package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a student's submitted content for one question within an
// attempt, keyed by (attempt_id, question_id). Score stays null until a
// grading pass assigns one; null means "not yet graded".
type Answer struct {
	AttemptID           uuid.UUID   `json:"attempt_id"`
	QuestionID          uuid.UUID   `json:"question_id"`
	AnswerText          string      `json:"answer_text,omitempty"`
	SelectedChoices     []uuid.UUID `json:"selected_choices,omitempty"`
	ProgrammingLanguage string      `json:"programming_language,omitempty"`
	Score               *float64    `json:"score,omitempty"`
	GradedBy            *uuid.UUID  `json:"graded_by,omitempty"`
	GradedAt            *time.Time  `json:"graded_at,omitempty"`
}
