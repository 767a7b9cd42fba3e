package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// ChoiceRepository handles answer-choice data access.
type ChoiceRepository struct {
	pool *pgxpool.Pool
}

// NewChoiceRepository creates a new ChoiceRepository.
func NewChoiceRepository(pool *pgxpool.Pool) *ChoiceRepository {
	return &ChoiceRepository{pool: pool}
}

// Create inserts a new choice and fills in its generated id.
func (r *ChoiceRepository) Create(ctx context.Context, c *model.Choice) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO choices (question_id, choice_text)
		 VALUES ($1, $2)
		 RETURNING id`,
		c.QuestionID, c.ChoiceText,
	).Scan(&c.ID)
}

// ListByQuestions retrieves the choices of all given questions.
func (r *ChoiceRepository) ListByQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]model.Choice, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, choice_text
		 FROM choices
		 WHERE question_id = ANY($1)
		 ORDER BY id ASC`, questionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []model.Choice
	for rows.Next() {
		var c model.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// DeleteByQuestion removes every choice of one question.
func (r *ChoiceRepository) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM choices WHERE question_id = $1`, questionID)
	return err
}
