package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// FlagRepository handles question-flag data access.
type FlagRepository struct {
	pool *pgxpool.Pool
}

// NewFlagRepository creates a new FlagRepository.
func NewFlagRepository(pool *pgxpool.Pool) *FlagRepository {
	return &FlagRepository{pool: pool}
}

// CreateBulk stores one flag per question id. Re-flagging an already
// flagged question is a no-op.
func (r *FlagRepository) CreateBulk(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID, note string) error {
	for _, qid := range questionIDs {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO question_flags (user_id, question_id, note)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, question_id) DO NOTHING`,
			userID, qid, note)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListByUserAndExam retrieves a student's flags scoped to one exam.
func (r *FlagRepository) ListByUserAndExam(ctx context.Context, userID, examID uuid.UUID) ([]model.Flag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.user_id, f.question_id, f.flagged_at, f.note
		 FROM question_flags f
		 JOIN questions q ON q.id = f.question_id
		 WHERE f.user_id = $1 AND q.exam_id = $2
		 ORDER BY f.flagged_at ASC`, userID, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []model.Flag
	for rows.Next() {
		var f model.Flag
		if err := rows.Scan(&f.UserID, &f.QuestionID, &f.FlaggedAt, &f.Note); err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}
