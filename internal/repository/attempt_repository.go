package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// AttemptRepository handles attempt data access. State transitions that
// race with each other (submit vs. overdue sweep, double submit) are
// guarded with compare-and-set UPDATEs so the database is the arbiter.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, exam_id, user_id, status, started_at, submitted_at,
	total_score, cheated, created_at, updated_at`

func scanAttempt(row interface{ Scan(...any) error }) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := row.Scan(&a.ID, &a.ExamID, &a.UserID, &a.Status, &a.StartedAt,
		&a.SubmittedAt, &a.TotalScore, &a.Cheated, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new attempt in the not_started state. If the (exam,
// user) pair already has one, created is false and the attempt is left
// untouched.
func (r *AttemptRepository) Create(ctx context.Context, examID, userID uuid.UUID) (created bool, err error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO attempts (exam_id, user_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (exam_id, user_id) DO NOTHING`,
		examID, userID, model.AttemptStatusNotStarted)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves one attempt.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// GetByExamAndUser retrieves a student's attempt at an exam.
func (r *AttemptRepository) GetByExamAndUser(ctx context.Context, examID, userID uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE exam_id = $1 AND user_id = $2`, examID, userID))
}

// ListByExam retrieves every attempt at one exam.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Attempt, error) {
	return r.list(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE exam_id = $1
		 ORDER BY created_at ASC`, examID)
}

// ListByUser retrieves every attempt of one student, newest exam first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Attempt, error) {
	return r.list(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
}

func (r *AttemptRepository) list(ctx context.Context, query string, arg any) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// Delete removes an attempt and its answers (cascade). Used when a student
// leaves an exam before submitting.
func (r *AttemptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attempts WHERE id = $1`, id)
	return err
}

// MarkSubmitted finalizes an attempt. The WHERE clause rejects attempts
// that already reached a terminal state, so a concurrent double submit
// loses the race and gets applied=false.
func (r *AttemptRepository) MarkSubmitted(ctx context.Context, id uuid.UUID, status model.AttemptStatus,
	startedAt *time.Time, submittedAt time.Time, totalScore *float64, cheated bool) (applied bool, err error) {

	tag, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, started_at = COALESCE($2, started_at), submitted_at = $3,
		     total_score = $4, cheated = $5, updated_at = NOW()
		 WHERE id = $6 AND status NOT IN ($7, $8)`,
		status, startedAt, submittedAt, totalScore, cheated, id,
		model.AttemptStatusSubmitted, model.AttemptStatusGraded)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkOverdue flips a non-terminal attempt to overdue. Safe to call
// repeatedly; terminal attempts are never touched.
func (r *AttemptRepository) MarkOverdue(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status IN ($3, $4)`,
		model.AttemptStatusOverdue, id,
		model.AttemptStatusNotStarted, model.AttemptStatusInProgress)
	return err
}

// FinishGrading sets the final score and moves the attempt to graded.
func (r *AttemptRepository) FinishGrading(ctx context.Context, id uuid.UUID, totalScore float64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $1, total_score = $2, updated_at = NOW()
		 WHERE id = $3`,
		model.AttemptStatusGraded, totalScore, id)
	return err
}

// SweepOverdue flips every stale attempt of ended exams to overdue and
// returns how many rows changed. Used by the periodic background sweep.
func (r *AttemptRepository) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attempts a
		 SET status = $1, updated_at = NOW()
		 FROM exams e
		 WHERE a.exam_id = e.id
		   AND e.end_at <= $2
		   AND a.status IN ($3, $4)`,
		model.AttemptStatusOverdue, now,
		model.AttemptStatusNotStarted, model.AttemptStatusInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
