package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// QuestionRepository handles question data access. Choice ids and accepted
// answer strings are array columns, coding templates JSONB; pgx maps all of
// them to the Go slice and map types directly.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, exam_id, question_text, title, "order", question_type,
	points, correct_answer, correct_answer_text, coding_template, programming_languages`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	err := row.Scan(&q.ID, &q.ExamID, &q.QuestionText, &q.Title, &q.Order, &q.Type,
		&q.Points, &q.CorrectAnswer, &q.CorrectAnswerText, &q.CodingTemplate,
		&q.ProgrammingLanguages)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, question_text, title, "order", question_type,
		                        points, correct_answer, correct_answer_text,
		                        coding_template, programming_languages)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		q.ExamID, q.QuestionText, q.Title, q.Order, q.Type,
		q.Points, q.CorrectAnswer, q.CorrectAnswerText,
		q.CodingTemplate, q.ProgrammingLanguages,
	).Scan(&q.ID)
}

// GetByID retrieves one question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// ListByExam retrieves all questions of an exam in display order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE exam_id = $1
		 ORDER BY "order" ASC, id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// Update persists the mutable fields of an existing question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, title = $2, "order" = $3, question_type = $4,
		     points = $5, correct_answer = $6, correct_answer_text = $7,
		     coding_template = $8, programming_languages = $9
		 WHERE id = $10`,
		q.QuestionText, q.Title, q.Order, q.Type,
		q.Points, q.CorrectAnswer, q.CorrectAnswerText,
		q.CodingTemplate, q.ProgrammingLanguages, q.ID)
	return err
}

// UpdateCorrectAnswer rewrites just the correct-answer id set. Used by the
// bulk replace flow after placeholder choice ids get their real values.
func (r *QuestionRepository) UpdateCorrectAnswer(ctx context.Context, id uuid.UUID, correct []uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET correct_answer = $1 WHERE id = $2`, correct, id)
	return err
}

// DeleteByIDs removes the given questions; owned choices and test cases
// cascade at the database level.
func (r *QuestionRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = ANY($1)`, ids)
	return err
}
