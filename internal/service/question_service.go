package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/codexam/codexam-backend/internal/model"
)

// QuestionStore is the question persistence the question service needs.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	Update(ctx context.Context, q *model.Question) error
	UpdateCorrectAnswer(ctx context.Context, id uuid.UUID, correct []uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// ChoiceStore is the choice persistence the question service needs.
type ChoiceStore interface {
	Create(ctx context.Context, c *model.Choice) error
	ListByQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]model.Choice, error)
	DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error
}

// TestCaseStore is the test-case persistence the question service needs.
type TestCaseStore interface {
	Create(ctx context.Context, tc *model.TestCase) error
	ListByQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]model.TestCase, error)
	DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error
}

// QuestionDetail is a question with its owned children, the teacher view.
type QuestionDetail struct {
	model.Question
	Choices   []model.Choice   `json:"choices,omitempty"`
	TestCases []model.TestCase `json:"test_cases,omitempty"`
}

// StudentQuestion is the sanitized projection served to exam takers:
// correctness data is stripped and hidden test cases are excluded.
type StudentQuestion struct {
	ID                   uuid.UUID                   `json:"question_id"`
	QuestionText         string                      `json:"question_text"`
	Title                string                      `json:"title,omitempty"`
	Order                int                         `json:"order"`
	Type                 model.QuestionType          `json:"question_type"`
	Points               float64                     `json:"points"`
	CodingTemplate       map[string]string           `json:"coding_template,omitempty"`
	ProgrammingLanguages []model.ProgrammingLanguage `json:"programming_languages,omitempty"`
	Choices              []model.Choice              `json:"choices,omitempty"`
	TestCases            []model.TestCase            `json:"test_cases,omitempty"`
}

// QuestionService handles question authoring and retrieval.
type QuestionService struct {
	exams     ExamStore
	questions QuestionStore
	choices   ChoiceStore
	testCases TestCaseStore
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(exams ExamStore, questions QuestionStore, choices ChoiceStore, testCases TestCaseStore) *QuestionService {
	return &QuestionService{exams: exams, questions: questions, choices: choices, testCases: testCases}
}

const tempIDPrefix = "temp_"

// ReplaceForExam makes the exam's question set match the request exactly:
// entries carrying a known question id are updated in place, entries
// without one are created, and stored questions absent from the payload
// are deleted.
//
// Clients author choices before ids exist, so choice rows and the
// correct-answer set may reference "temp_*" placeholders. Children are
// persisted first to obtain real ids, then every correct-answer entry is
// remapped through the placeholder table and written back.
func (s *QuestionService) ReplaceForExam(ctx context.Context, teacherID, examID uuid.UUID, inputs []model.QuestionInput) ([]QuestionDetail, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}

	existing, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	existingByID := make(map[uuid.UUID]*model.Question, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	seen := make(map[uuid.UUID]bool, len(inputs))
	for order, in := range inputs {
		q, err := s.upsertQuestion(ctx, examID, order, in, existingByID)
		if err != nil {
			return nil, err
		}
		seen[q.ID] = true
	}

	// Drop stored questions the payload no longer mentions.
	var stale []uuid.UUID
	for id := range existingByID {
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	if err := s.questions.DeleteByIDs(ctx, stale); err != nil {
		return nil, fmt.Errorf("delete stale questions: %w", err)
	}

	return s.Catalog(ctx, examID)
}

func (s *QuestionService) upsertQuestion(ctx context.Context, examID uuid.UUID, order int,
	in model.QuestionInput, existingByID map[uuid.UUID]*model.Question) (*model.Question, error) {

	q := &model.Question{
		ExamID:               examID,
		QuestionText:         in.QuestionText,
		Title:                in.Title,
		Order:                order,
		Type:                 in.Type,
		Points:               in.Points,
		CorrectAnswerText:    in.CorrectAnswerText,
		CodingTemplate:       in.CodingTemplate,
		ProgrammingLanguages: in.ProgrammingLanguages,
	}
	if in.Order != nil {
		q.Order = *in.Order
	}
	if q.Points == 0 {
		q.Points = 1
	}

	isUpdate := in.QuestionID != nil && existingByID[*in.QuestionID] != nil
	if isUpdate {
		q.ID = *in.QuestionID
		if err := s.questions.Update(ctx, q); err != nil {
			return nil, fmt.Errorf("update question: %w", err)
		}
		// Children are replaced wholesale on every save.
		if err := s.choices.DeleteByQuestion(ctx, q.ID); err != nil {
			return nil, fmt.Errorf("clear choices: %w", err)
		}
		if err := s.testCases.DeleteByQuestion(ctx, q.ID); err != nil {
			return nil, fmt.Errorf("clear test cases: %w", err)
		}
	} else {
		if err := s.questions.Create(ctx, q); err != nil {
			return nil, fmt.Errorf("create question: %w", err)
		}
	}

	realIDs := make(map[string]uuid.UUID, len(in.Choices))
	for _, ci := range in.Choices {
		choice := &model.Choice{QuestionID: q.ID, ChoiceText: ci.ChoiceText}
		if err := s.choices.Create(ctx, choice); err != nil {
			return nil, fmt.Errorf("create choice: %w", err)
		}
		if ci.ChoiceID != "" {
			realIDs[ci.ChoiceID] = choice.ID
		}
	}

	for _, ti := range in.TestCases {
		tc := &model.TestCase{
			QuestionID:     q.ID,
			Input:          ti.Input,
			ExpectedOutput: ti.ExpectedOutput,
			Hidden:         ti.Hidden,
		}
		if err := s.testCases.Create(ctx, tc); err != nil {
			return nil, fmt.Errorf("create test case: %w", err)
		}
	}

	correct, err := remapCorrectAnswers(in.CorrectAnswer, realIDs)
	if err != nil {
		return nil, err
	}
	q.CorrectAnswer = correct
	if err := s.questions.UpdateCorrectAnswer(ctx, q.ID, correct); err != nil {
		return nil, fmt.Errorf("update correct answer: %w", err)
	}
	return q, nil
}

// remapCorrectAnswers resolves each correct-answer entry to a real choice
// id: placeholders go through the temp-id table, everything else must
// already be a uuid.
func remapCorrectAnswers(entries []string, realIDs map[string]uuid.UUID) ([]uuid.UUID, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry, tempIDPrefix) {
			id, ok := realIDs[entry]
			if !ok {
				return nil, fmt.Errorf("correct answer references unknown placeholder %q", entry)
			}
			out = append(out, id)
			continue
		}
		id, err := uuid.Parse(entry)
		if err != nil {
			return nil, fmt.Errorf("correct answer %q is not a valid choice id: %w", entry, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// Catalog returns the full teacher view of an exam's questions.
func (s *QuestionService) Catalog(ctx context.Context, examID uuid.UUID) ([]QuestionDetail, error) {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	choices, err := s.choices.ListByQuestions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}
	cases, err := s.testCases.ListByQuestions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}

	choicesByQ := make(map[uuid.UUID][]model.Choice)
	for _, c := range choices {
		choicesByQ[c.QuestionID] = append(choicesByQ[c.QuestionID], c)
	}
	casesByQ := make(map[uuid.UUID][]model.TestCase)
	for _, tc := range cases {
		casesByQ[tc.QuestionID] = append(casesByQ[tc.QuestionID], tc)
	}

	details := make([]QuestionDetail, len(questions))
	for i, q := range questions {
		details[i] = QuestionDetail{
			Question:  q,
			Choices:   choicesByQ[q.ID],
			TestCases: casesByQ[q.ID],
		}
	}
	return details, nil
}

// StudentView returns the exam-taking projection: no correctness data,
// no hidden test cases.
func (s *QuestionService) StudentView(ctx context.Context, examID uuid.UUID) ([]StudentQuestion, error) {
	details, err := s.Catalog(ctx, examID)
	if err != nil {
		return nil, err
	}

	out := make([]StudentQuestion, len(details))
	for i, d := range details {
		var visible []model.TestCase
		for _, tc := range d.TestCases {
			if !tc.Hidden {
				visible = append(visible, tc)
			}
		}
		out[i] = StudentQuestion{
			ID:                   d.ID,
			QuestionText:         d.QuestionText,
			Title:                d.Title,
			Order:                d.Order,
			Type:                 d.Type,
			Points:               d.Points,
			CodingTemplate:       d.CodingTemplate,
			ProgrammingLanguages: d.ProgrammingLanguages,
			Choices:              d.Choices,
			TestCases:            visible,
		}
	}
	return out, nil
}
