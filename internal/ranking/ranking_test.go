package ranking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexam/codexam-backend/internal/model"
)

func attempt(score *float64, submittedAt *time.Time, status model.AttemptStatus) model.Attempt {
	return model.Attempt{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Status:      status,
		TotalScore:  score,
		SubmittedAt: submittedAt,
	}
}

func ptr[T any](v T) *T { return &v }

func TestRankOrdersByScoreDescending(t *testing.T) {
	base := time.Now()
	low := attempt(ptr(40.0), ptr(base), model.AttemptStatusGraded)
	high := attempt(ptr(90.0), ptr(base), model.AttemptStatusGraded)
	mid := attempt(ptr(70.0), ptr(base), model.AttemptStatusGraded)

	ranked := Rank([]model.Attempt{low, high, mid})

	require.Len(t, ranked, 3)
	assert.Equal(t, high.ID, ranked[0].ID)
	assert.Equal(t, mid.ID, ranked[1].ID)
	assert.Equal(t, low.ID, ranked[2].ID)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

func TestRankBreaksTiesByEarlierSubmission(t *testing.T) {
	base := time.Now()
	later := attempt(ptr(80.0), ptr(base.Add(time.Minute)), model.AttemptStatusGraded)
	earlier := attempt(ptr(80.0), ptr(base), model.AttemptStatusGraded)

	ranked := Rank([]model.Attempt{later, earlier})

	assert.Equal(t, earlier.ID, ranked[0].ID)
	assert.Equal(t, later.ID, ranked[1].ID)
}

func TestRankNilScoreSortsLast(t *testing.T) {
	base := time.Now()
	scored := attempt(ptr(1.0), ptr(base), model.AttemptStatusGraded)
	unscored := attempt(nil, ptr(base), model.AttemptStatusSubmitted)

	ranked := Rank([]model.Attempt{unscored, scored})

	assert.Equal(t, scored.ID, ranked[0].ID)
	assert.Equal(t, unscored.ID, ranked[1].ID)
}

func TestRankNilSubmittedAtWinsTie(t *testing.T) {
	// A missing submission time sorts as the zero time and therefore
	// ahead of any real timestamp on equal scores.
	withTime := attempt(ptr(50.0), ptr(time.Now()), model.AttemptStatusGraded)
	withoutTime := attempt(ptr(50.0), nil, model.AttemptStatusGraded)

	ranked := Rank([]model.Attempt{withTime, withoutTime})

	assert.Equal(t, withoutTime.ID, ranked[0].ID)
}

func TestRankRanksAreStrictlyPositional(t *testing.T) {
	base := time.Now()
	a := attempt(ptr(80.0), ptr(base), model.AttemptStatusGraded)
	b := attempt(ptr(80.0), ptr(base), model.AttemptStatusGraded)

	ranked := Rank([]model.Attempt{a, b})

	// Equal scores do not share a rank.
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankDoesNotModifyInput(t *testing.T) {
	base := time.Now()
	first := attempt(ptr(10.0), ptr(base), model.AttemptStatusGraded)
	second := attempt(ptr(99.0), ptr(base), model.AttemptStatusGraded)
	input := []model.Attempt{first, second}

	Rank(input)

	assert.Equal(t, first.ID, input[0].ID)
	assert.Equal(t, second.ID, input[1].ID)
}

func TestGradedPredicate(t *testing.T) {
	now := time.Now()
	assert.True(t, Graded(attempt(ptr(5.0), ptr(now), model.AttemptStatusGraded)))
	assert.False(t, Graded(attempt(nil, ptr(now), model.AttemptStatusGraded)))
	assert.False(t, Graded(attempt(ptr(5.0), nil, model.AttemptStatusGraded)))
	assert.False(t, Graded(attempt(ptr(5.0), ptr(now), model.AttemptStatusSubmitted)))
}

func TestFilterPreservesOrder(t *testing.T) {
	now := time.Now()
	graded1 := attempt(ptr(1.0), ptr(now), model.AttemptStatusGraded)
	pending := attempt(nil, ptr(now), model.AttemptStatusSubmitted)
	graded2 := attempt(ptr(2.0), ptr(now), model.AttemptStatusGraded)

	kept := Filter([]model.Attempt{graded1, pending, graded2}, Graded)

	require.Len(t, kept, 2)
	assert.Equal(t, graded1.ID, kept[0].ID)
	assert.Equal(t, graded2.ID, kept[1].ID)
}

func TestByStatus(t *testing.T) {
	overdue := attempt(nil, nil, model.AttemptStatusOverdue)
	assert.True(t, ByStatus(model.AttemptStatusOverdue)(overdue))
	assert.False(t, ByStatus(model.AttemptStatusGraded)(overdue))
}

func TestPosition(t *testing.T) {
	base := time.Now()
	a := attempt(ptr(90.0), ptr(base), model.AttemptStatusGraded)
	b := attempt(ptr(50.0), ptr(base), model.AttemptStatusGraded)
	ranked := Rank([]model.Attempt{a, b})

	pos, ok := Position(ranked, b.UserID)
	require.True(t, ok)
	assert.Equal(t, 2, pos.Rank)

	_, ok = Position(ranked, uuid.New())
	assert.False(t, ok)
}
