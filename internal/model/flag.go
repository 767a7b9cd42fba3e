package model

import (
	"time"

	"github.com/google/uuid"
)

// Flag is a student-raised note on a question. The grading engine never
// reads flags; they are surfaced on the submission review page only.
type Flag struct {
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	FlaggedAt  time.Time `json:"flagged_at"`
	Note       string    `json:"note,omitempty"`
}

// FlagQuestionsRequest is the payload for bulk-flagging questions.
type FlagQuestionsRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1"`
	Note        string      `json:"note" binding:"omitempty,max=2000"`
}
