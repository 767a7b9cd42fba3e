package model

import "github.com/google/uuid"

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeEssay          QuestionType = "essay"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeCoding         QuestionType = "coding"
)

// ProgrammingLanguage enumerates languages a coding question may allow.
type ProgrammingLanguage string

const (
	LanguageCpp        ProgrammingLanguage = "c++"
	LanguagePython     ProgrammingLanguage = "python"
	LanguageJavascript ProgrammingLanguage = "javascript"
	LanguageJava       ProgrammingLanguage = "java"
)

// Question represents a single exam question. Type-specific correctness
// data lives in CorrectAnswer (choice ids), CorrectAnswerText (accepted
// strings) or the question's owned test cases, depending on Type.
type Question struct {
	ID                   uuid.UUID             `json:"question_id"`
	ExamID               uuid.UUID             `json:"exam_id"`
	QuestionText         string                `json:"question_text"`
	Title                string                `json:"title,omitempty"`
	Order                int                   `json:"order"`
	Type                 QuestionType          `json:"question_type"`
	Points               float64               `json:"points"`
	CorrectAnswer        []uuid.UUID           `json:"correct_answer,omitempty"`
	CorrectAnswerText    []string              `json:"correct_answer_text,omitempty"`
	CodingTemplate       map[string]string     `json:"coding_template,omitempty"`
	ProgrammingLanguages []ProgrammingLanguage `json:"programming_languages,omitempty"`
}

// QuestionInput is one entry of a bulk question replace. Children carry
// client-generated "temp_*" placeholder ids that are remapped to real ids
// after persistence; CorrectAnswer may reference either kind.
type QuestionInput struct {
	QuestionID           *uuid.UUID            `json:"question_id" binding:"omitempty"`
	QuestionText         string                `json:"question_text" binding:"required,min=1,max=5000"`
	Title                string                `json:"title" binding:"omitempty,max=255"`
	Order                *int                  `json:"order" binding:"omitempty,min=0"`
	Type                 QuestionType          `json:"question_type" binding:"required,oneof=essay single_choice multiple_choice short_answer coding"`
	Points               float64               `json:"points" binding:"omitempty,gt=0"`
	CorrectAnswer        []string              `json:"correct_answer" binding:"omitempty"`
	CorrectAnswerText    []string              `json:"correct_answer_text" binding:"omitempty"`
	CodingTemplate       map[string]string     `json:"coding_template" binding:"omitempty"`
	ProgrammingLanguages []ProgrammingLanguage `json:"programming_languages" binding:"omitempty,dive,oneof=c++ python javascript java"`
	Choices              []ChoiceInput         `json:"choices" binding:"omitempty,dive"`
	TestCases            []TestCaseInput       `json:"test_cases" binding:"omitempty,dive"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing exam questions.
type ReplaceQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"dive"`
}
