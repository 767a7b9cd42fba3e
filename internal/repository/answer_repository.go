package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// AnswerRepository handles per-question answer data access. Answers are
// keyed by (attempt_id, question_id); writes are upserts so a resubmitted
// payload overwrites earlier content.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert stores one answer, replacing any previous row for the same
// attempt and question.
func (r *AnswerRepository) Upsert(ctx context.Context, a *model.Answer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answers (attempt_id, question_id, answer_text,
		                      selected_choices, programming_language, score)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET answer_text = EXCLUDED.answer_text,
		     selected_choices = EXCLUDED.selected_choices,
		     programming_language = EXCLUDED.programming_language,
		     score = EXCLUDED.score`,
		a.AttemptID, a.QuestionID, a.AnswerText,
		a.SelectedChoices, a.ProgrammingLanguage, a.Score)
	return err
}

// ListByAttempt retrieves every stored answer of one attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, question_id, answer_text, selected_choices,
		        programming_language, score, graded_by, graded_at
		 FROM answers
		 WHERE attempt_id = $1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.AttemptID, &a.QuestionID, &a.AnswerText, &a.SelectedChoices,
			&a.ProgrammingLanguage, &a.Score, &a.GradedBy, &a.GradedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// UpdateScore records a manually assigned score with the grader's identity.
// Scoring an answer that was never stored is an error, not a no-op.
func (r *AnswerRepository) UpdateScore(ctx context.Context, attemptID, questionID uuid.UUID,
	score float64, gradedBy uuid.UUID, gradedAt time.Time) error {

	tag, err := r.pool.Exec(ctx,
		`UPDATE answers
		 SET score = $1, graded_by = $2, graded_at = $3
		 WHERE attempt_id = $4 AND question_id = $5`,
		score, gradedBy, gradedAt, attemptID, questionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
