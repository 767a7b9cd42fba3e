package model

import "github.com/google/uuid"

// TestCase is an (input, expected output) pair owned by a coding question.
// Hidden cases are excluded from student-facing exam payloads but still
// count toward the proportional score.
type TestCase struct {
	ID             uuid.UUID `json:"test_case_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	Hidden         bool      `json:"is_hidden"`
}

// TestCaseInput is one test-case row of a bulk question replace. TestCaseID
// may be a real uuid or a client-side "temp_*" placeholder.
type TestCaseInput struct {
	TestCaseID     string `json:"test_case_id" binding:"omitempty"`
	Input          string `json:"input" binding:"omitempty,max=10000"`
	ExpectedOutput string `json:"expected_output" binding:"required,max=10000"`
	Hidden         bool   `json:"is_hidden"`
}
