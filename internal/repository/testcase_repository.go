package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// TestCaseRepository handles coding test-case data access.
type TestCaseRepository struct {
	pool *pgxpool.Pool
}

// NewTestCaseRepository creates a new TestCaseRepository.
func NewTestCaseRepository(pool *pgxpool.Pool) *TestCaseRepository {
	return &TestCaseRepository{pool: pool}
}

// Create inserts a new test case and fills in its generated id.
func (r *TestCaseRepository) Create(ctx context.Context, tc *model.TestCase) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_cases (question_id, input, expected_output, is_hidden)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		tc.QuestionID, tc.Input, tc.ExpectedOutput, tc.Hidden,
	).Scan(&tc.ID)
}

// ListByQuestion retrieves all test cases of one question, hidden included.
func (r *TestCaseRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.TestCase, error) {
	return r.list(ctx,
		`SELECT id, question_id, input, expected_output, is_hidden
		 FROM test_cases
		 WHERE question_id = $1
		 ORDER BY id ASC`, questionID)
}

// ListByQuestions retrieves the test cases of all given questions.
func (r *TestCaseRepository) ListByQuestions(ctx context.Context, questionIDs []uuid.UUID) ([]model.TestCase, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT id, question_id, input, expected_output, is_hidden
		 FROM test_cases
		 WHERE question_id = ANY($1)
		 ORDER BY id ASC`, questionIDs)
}

func (r *TestCaseRepository) list(ctx context.Context, query string, arg any) ([]model.TestCase, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.Input, &tc.ExpectedOutput, &tc.Hidden); err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}

// DeleteByQuestion removes every test case of one question.
func (r *TestCaseRepository) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM test_cases WHERE question_id = $1`, questionID)
	return err
}
