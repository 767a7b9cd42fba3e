package model

import "github.com/google/uuid"

// Choice belongs to one single/multiple-choice question. Correctness is
// derived from the question's CorrectAnswer set in the grading path; the
// stored flag exists only for authoring round-trips.
type Choice struct {
	ID         uuid.UUID `json:"choice_id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceText string    `json:"choice_text"`
}

// ChoiceInput is one choice row of a bulk question replace. ChoiceID may be
// a real uuid or a client-side "temp_*" placeholder.
type ChoiceInput struct {
	ChoiceID   string `json:"choice_id" binding:"omitempty"`
	ChoiceText string `json:"choice_text" binding:"required,max=2000"`
}

// ReviewChoice is a choice annotated for the submission review page.
type ReviewChoice struct {
	Choice
	IsCorrect bool `json:"is_correct"`
	IsChosen  bool `json:"is_chosen"`
}
