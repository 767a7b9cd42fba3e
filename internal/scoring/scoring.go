package scoring

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/codexam/codexam-backend/internal/judge"
	"github.com/codexam/codexam-backend/internal/model"
)

// Outcome is the result of auto-grading one answer. Pending means the
// answer needs a human grader; otherwise Value holds the awarded score.
type Outcome struct {
	Pending bool
	Value   float64
}

// Graded builds a final Outcome with the given value.
func Graded(v float64) Outcome {
	return Outcome{Value: v}
}

// PendingReview marks an answer as requiring manual grading.
var PendingReview = Outcome{Pending: true}

// Score applies the auto-grading rule for the question's type and returns
// either a final score or a pending-review marker.
//
// For coding questions judgeResults carries one verdict per stored test
// case; nil or empty means the code never reached the judge (empty source,
// no test cases, or malformed question data) and yields PendingReview —
// the caller decides whether that blocks finalization or degrades to zero.
func Score(q *model.Question, sub model.AnswerSubmission, maxPoints float64, judgeResults []judge.TestResult) Outcome {
	switch q.Type {
	case model.QuestionTypeEssay:
		return PendingReview
	case model.QuestionTypeSingleChoice:
		return scoreSingleChoice(q.CorrectAnswer, sub.SelectedChoices, maxPoints)
	case model.QuestionTypeMultipleChoice:
		return scoreMultipleChoice(q.CorrectAnswer, sub.SelectedChoices, maxPoints)
	case model.QuestionTypeShortAnswer:
		return scoreShortAnswer(q.CorrectAnswerText, sub.AnswerText, maxPoints)
	case model.QuestionTypeCoding:
		return scoreCoding(sub.AnswerText, maxPoints, judgeResults)
	default:
		// Unknown type: never guess a score.
		return PendingReview
	}
}

// scoreSingleChoice awards full points iff exactly one choice was selected,
// the correct-answer set has exactly one member, and they match.
func scoreSingleChoice(correct, selected []uuid.UUID, maxPoints float64) Outcome {
	if len(selected) != 1 || len(correct) != 1 {
		return Graded(0)
	}
	if selected[0] == correct[0] {
		return Graded(maxPoints)
	}
	return Graded(0)
}

// scoreMultipleChoice awards full points iff the selected set equals the
// correct set exactly. No partial credit.
func scoreMultipleChoice(correct, selected []uuid.UUID, maxPoints float64) Outcome {
	if len(selected) == 0 || len(selected) != len(correct) {
		return Graded(0)
	}
	correctSet := make(map[uuid.UUID]struct{}, len(correct))
	for _, id := range correct {
		correctSet[id] = struct{}{}
	}
	for _, id := range selected {
		if _, ok := correctSet[id]; !ok {
			return Graded(0)
		}
	}
	return Graded(maxPoints)
}

// scoreShortAnswer matches the submission against the accepted strings,
// case-insensitively and with surrounding whitespace trimmed.
func scoreShortAnswer(accepted []string, submitted string, maxPoints float64) Outcome {
	norm := normalize(submitted)
	if norm == "" {
		return Graded(0)
	}
	for _, a := range accepted {
		if normalize(a) == norm {
			return Graded(maxPoints)
		}
	}
	return Graded(0)
}

// scoreCoding awards points proportionally to passed test cases, rounded
// to two decimals.
func scoreCoding(source string, maxPoints float64, results []judge.TestResult) Outcome {
	if strings.TrimSpace(source) == "" || len(results) == 0 {
		return PendingReview
	}
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return Graded(Round2(float64(passed) / float64(len(results)) * maxPoints))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
