package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/codexam/codexam-backend/internal/judge"
	"github.com/codexam/codexam-backend/internal/model"
)

func choiceIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestScoreEssayAlwaysPending(t *testing.T) {
	q := &model.Question{Type: model.QuestionTypeEssay, Points: 10}
	out := Score(q, model.AnswerSubmission{AnswerText: "a thoughtful essay"}, 10, nil)
	assert.True(t, out.Pending)
}

func TestScoreUnknownTypePending(t *testing.T) {
	q := &model.Question{Type: model.QuestionType("matching"), Points: 5}
	out := Score(q, model.AnswerSubmission{}, 5, nil)
	assert.True(t, out.Pending)
}

func TestScoreSingleChoice(t *testing.T) {
	ids := choiceIDs(3)
	q := &model.Question{
		Type:          model.QuestionTypeSingleChoice,
		Points:        4,
		CorrectAnswer: []uuid.UUID{ids[0]},
	}

	t.Run("correct selection gets full points", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: []uuid.UUID{ids[0]}}, 4, nil)
		assert.False(t, out.Pending)
		assert.Equal(t, 4.0, out.Value)
	})

	t.Run("wrong selection gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: []uuid.UUID{ids[1]}}, 4, nil)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("multiple selections get zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: ids[:2]}, 4, nil)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("empty selection gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{}, 4, nil)
		assert.Equal(t, 0.0, out.Value)
	})
}

func TestScoreMultipleChoice(t *testing.T) {
	ids := choiceIDs(4)
	q := &model.Question{
		Type:          model.QuestionTypeMultipleChoice,
		Points:        6,
		CorrectAnswer: []uuid.UUID{ids[0], ids[2]},
	}

	t.Run("exact set in any order gets full points", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: []uuid.UUID{ids[2], ids[0]}}, 6, nil)
		assert.Equal(t, 6.0, out.Value)
	})

	t.Run("missing one correct gets zero, no partial credit", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: []uuid.UUID{ids[0]}}, 6, nil)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("one extra wrong gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{SelectedChoices: []uuid.UUID{ids[0], ids[2], ids[3]}}, 6, nil)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("empty selection gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{}, 6, nil)
		assert.Equal(t, 0.0, out.Value)
	})
}

func TestScoreShortAnswer(t *testing.T) {
	q := &model.Question{
		Type:              model.QuestionTypeShortAnswer,
		Points:            3,
		CorrectAnswerText: []string{"Paris", " berlin "},
	}

	t.Run("case and whitespace insensitive match", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{AnswerText: "  PARIS "}, 3, nil)
		assert.Equal(t, 3.0, out.Value)
	})

	t.Run("matches any accepted string", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{AnswerText: "Berlin"}, 3, nil)
		assert.Equal(t, 3.0, out.Value)
	})

	t.Run("no match gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{AnswerText: "London"}, 3, nil)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("blank answer gets zero", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{AnswerText: "   "}, 3, nil)
		assert.Equal(t, 0.0, out.Value)
	})
}

func TestScoreCoding(t *testing.T) {
	q := &model.Question{Type: model.QuestionTypeCoding, Points: 10}
	sub := model.AnswerSubmission{AnswerText: "print(input())", ProgrammingLanguage: "python"}

	t.Run("proportional to passed cases", func(t *testing.T) {
		results := []judge.TestResult{{Passed: true}, {Passed: true}, {Passed: false}}
		out := Score(q, sub, 10, results)
		assert.False(t, out.Pending)
		assert.Equal(t, 6.67, out.Value)
	})

	t.Run("all passed gets full points", func(t *testing.T) {
		results := []judge.TestResult{{Passed: true}, {Passed: true}}
		out := Score(q, sub, 10, results)
		assert.Equal(t, 10.0, out.Value)
	})

	t.Run("all failed gets zero", func(t *testing.T) {
		results := []judge.TestResult{{Passed: false}}
		out := Score(q, sub, 10, results)
		assert.Equal(t, 0.0, out.Value)
	})

	t.Run("empty source is pending", func(t *testing.T) {
		out := Score(q, model.AnswerSubmission{AnswerText: "  "}, 10, []judge.TestResult{{Passed: true}})
		assert.True(t, out.Pending)
	})

	t.Run("no judge results is pending", func(t *testing.T) {
		out := Score(q, sub, 10, nil)
		assert.True(t, out.Pending)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 6.67, Round2(2.0/3.0*10))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 3.33, Round2(1.0/3.0*10))
}
