// Package ranking orders exam attempts for leaderboards. Ranking is
// population-agnostic: callers pick the attempt set (all attempts for the
// admin view, only graded ones for students) and this package only sorts
// and assigns positions.
package ranking

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codexam/codexam-backend/internal/model"
)

// RankedAttempt is an attempt with its 1-based leaderboard position.
type RankedAttempt struct {
	model.Attempt
	Rank int `json:"rank"`
}

// Rank sorts attempts by score descending with nil scores last, breaking
// ties by earlier submission time, and assigns strictly increasing 1-based
// positions. The input slice is not modified.
func Rank(attempts []model.Attempt) []RankedAttempt {
	sorted := make([]model.Attempt, len(attempts))
	copy(sorted, attempts)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	ranked := make([]RankedAttempt, len(sorted))
	for i, a := range sorted {
		ranked[i] = RankedAttempt{Attempt: a, Rank: i + 1}
	}
	return ranked
}

// less orders a before b when a scores higher, or scores equal and a
// submitted earlier. A nil score always loses; a nil submission time is
// treated as the zero time and therefore wins ties.
func less(a, b model.Attempt) bool {
	as, bs := a.TotalScore, b.TotalScore
	switch {
	case as == nil && bs == nil:
		return submittedAt(a).Before(submittedAt(b))
	case as == nil:
		return false
	case bs == nil:
		return true
	case *as != *bs:
		return *as > *bs
	default:
		return submittedAt(a).Before(submittedAt(b))
	}
}

func submittedAt(a model.Attempt) time.Time {
	if a.SubmittedAt == nil {
		return time.Time{}
	}
	return *a.SubmittedAt
}

// Filter returns the attempts for which keep is true, preserving order.
func Filter(attempts []model.Attempt, keep func(model.Attempt) bool) []model.Attempt {
	out := make([]model.Attempt, 0, len(attempts))
	for _, a := range attempts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// Graded keeps only fully graded attempts with a score and a submission
// time, the population students see on the leaderboard.
func Graded(a model.Attempt) bool {
	return a.Status == model.AttemptStatusGraded && a.TotalScore != nil && a.SubmittedAt != nil
}

// ByStatus builds a predicate matching one lifecycle status.
func ByStatus(status model.AttemptStatus) func(model.Attempt) bool {
	return func(a model.Attempt) bool { return a.Status == status }
}

// Position finds the given user's entry in a ranked list. The second
// return is false when the user has no entry.
func Position(ranked []RankedAttempt, userID uuid.UUID) (RankedAttempt, bool) {
	for _, r := range ranked {
		if r.UserID == userID {
			return r, true
		}
	}
	return RankedAttempt{}, false
}
