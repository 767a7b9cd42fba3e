package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexam/codexam-backend/internal/model"
)

func newExamService() (*ExamService, *fakeExamStore, *fakeAttemptStore) {
	exams := newFakeExamStore()
	attempts := newFakeAttemptStore()
	return NewExamService(exams, attempts), exams, attempts
}

func TestExamCreateAssignsAccessCode(t *testing.T) {
	svc, _, _ := newExamService()
	teacherID := uuid.New()

	exam, err := svc.Create(context.Background(), teacherID, &model.CreateExamRequest{
		Title: "Finals",
		EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, teacherID, exam.TeacherID)
	assert.Len(t, exam.AccessCode, 8)
	for _, r := range exam.AccessCode {
		assert.Contains(t, accessCodeAlphabet, string(r))
	}
	assert.False(t, exam.ResultsReleased)
}

func TestExamAccessCodesDiffer(t *testing.T) {
	a, err := generateAccessCode(8)
	require.NoError(t, err)
	b, err := generateAccessCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExamGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, ownerID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New(), exam.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, ownerID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExamUpdatePatchesNonZeroFields(t *testing.T) {
	svc, _, _ := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()
	end := time.Now().Add(time.Hour)

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", Description: "original", EndAt: end,
	})
	require.NoError(t, err)

	newEnd := end.Add(time.Hour)
	duration := 45
	updated, err := svc.Update(ctx, ownerID, exam.ID, &model.UpdateExamRequest{
		Title:           "Finals (extended)",
		EndAt:           &newEnd,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)

	assert.Equal(t, "Finals (extended)", updated.Title)
	assert.Equal(t, "original", updated.Description, "untouched field survives")
	assert.True(t, updated.EndAt.Equal(newEnd))
	require.NotNil(t, updated.DurationMinutes)
	assert.Equal(t, 45, *updated.DurationMinutes)
	assert.Equal(t, exam.AccessCode, updated.AccessCode, "access code is stable across updates")
}

func TestExamDeleteRequiresOwnership(t *testing.T) {
	svc, exams, _ := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), exam.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, ownerID, exam.ID))
	_, err = exams.GetByID(ctx, exam.ID)
	assert.Error(t, err)
}

// endExam moves the exam's end into the past so the release gate's
// end-of-exam precondition is met.
func endExam(t *testing.T, exams *fakeExamStore, exam *model.Exam) {
	t.Helper()
	exam.EndAt = time.Now().Add(-time.Minute)
	require.NoError(t, exams.Update(context.Background(), exam))
}

func TestCanReleaseResultsRequiresExamEnded(t *testing.T) {
	svc, _, _ := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// Zero pending attempts, but the exam is still running.
	check, err := svc.CanReleaseResults(ctx, ownerID, exam.ID)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Contains(t, check.Reason, "not ended")

	_, err = svc.ReleaseResults(ctx, ownerID, exam.ID)
	assert.ErrorIs(t, err, ErrResultsNotReleasable)
}

func TestCanReleaseResultsCountsPending(t *testing.T) {
	svc, exams, attempts := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	seedAttempt := func(status model.AttemptStatus) {
		t.Helper()
		created, err := attempts.Create(ctx, exam.ID, uuid.New())
		require.NoError(t, err)
		require.True(t, created)
		for _, a := range attempts.attempts {
			if a.ExamID == exam.ID && a.Status == model.AttemptStatusNotStarted {
				a.Status = status
			}
		}
	}

	seedAttempt(model.AttemptStatusGraded)
	seedAttempt(model.AttemptStatusSubmitted)
	seedAttempt(model.AttemptStatusInProgress)
	endExam(t, exams, exam)

	check, err := svc.CanReleaseResults(ctx, ownerID, exam.ID)
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	assert.Equal(t, 3, check.TotalAttempts)
	assert.Equal(t, 1, check.GradedAttempts)
	assert.Contains(t, check.Reason, "1 attempt(s) still need grading")
}

func TestCanReleaseResultsAllowsWithoutPending(t *testing.T) {
	svc, exams, attempts := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// One graded attempt, one that never finished. Neither blocks.
	_, err = attempts.Create(ctx, exam.ID, uuid.New())
	require.NoError(t, err)
	gradedUser := uuid.New()
	_, err = attempts.Create(ctx, exam.ID, gradedUser)
	require.NoError(t, err)
	a, err := attempts.GetByExamAndUser(ctx, exam.ID, gradedUser)
	require.NoError(t, err)
	require.NoError(t, attempts.FinishGrading(ctx, a.ID, 80))
	endExam(t, exams, exam)

	check, err := svc.CanReleaseResults(ctx, ownerID, exam.ID)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Empty(t, check.Reason)
}

func TestReleaseResultsGated(t *testing.T) {
	svc, exams, attempts := newExamService()
	ctx := context.Background()
	ownerID := uuid.New()

	exam, err := svc.Create(ctx, ownerID, &model.CreateExamRequest{
		Title: "Finals", EndAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	userID := uuid.New()
	_, err = attempts.Create(ctx, exam.ID, userID)
	require.NoError(t, err)
	a, err := attempts.GetByExamAndUser(ctx, exam.ID, userID)
	require.NoError(t, err)
	applied, err := attempts.MarkSubmitted(ctx, a.ID, model.AttemptStatusSubmitted, nil, time.Now(), nil, false)
	require.NoError(t, err)
	require.True(t, applied)
	endExam(t, exams, exam)

	check, err := svc.ReleaseResults(ctx, ownerID, exam.ID)
	assert.ErrorIs(t, err, ErrResultsNotReleasable)
	require.NotNil(t, check)
	assert.False(t, check.Allowed)

	stored, err := exams.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.False(t, stored.ResultsReleased, "gate failure must not release")

	// Grading the attempt opens the gate.
	require.NoError(t, attempts.FinishGrading(ctx, a.ID, 50))

	check, err = svc.ReleaseResults(ctx, ownerID, exam.ID)
	require.NoError(t, err)
	assert.True(t, check.Allowed)

	stored, err = exams.GetByID(ctx, exam.ID)
	require.NoError(t, err)
	assert.True(t, stored.ResultsReleased)
}
