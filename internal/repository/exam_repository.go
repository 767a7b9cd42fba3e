package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codexam/codexam-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, teacher_id, title, description, access_code,
	start_at, end_at, duration_minutes, results_released, created_at`

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.TeacherID, &e.Title, &e.Description, &e.AccessCode,
		&e.StartAt, &e.EndAt, &e.DurationMinutes, &e.ResultsReleased, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (teacher_id, title, description, access_code,
		                    start_at, end_at, duration_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.TeacherID, e.Title, e.Description, e.AccessCode,
		e.StartAt, e.EndAt, e.DurationMinutes,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// GetByAccessCode retrieves an exam by its join code.
func (r *ExamRepository) GetByAccessCode(ctx context.Context, code string) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE access_code = $1`, code))
}

// ListByTeacher retrieves all exams owned by a teacher, newest first.
func (r *ExamRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE teacher_id = $1
		 ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// Update persists the mutable exam fields.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, start_at = $3, end_at = $4,
		     duration_minutes = $5
		 WHERE id = $6`,
		e.Title, e.Description, e.StartAt, e.EndAt, e.DurationMinutes, e.ID)
	return err
}

// Delete removes an exam; dependent rows cascade at the database level.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// SetResultsReleased toggles the results visibility gate.
func (r *ExamRepository) SetResultsReleased(ctx context.Context, id uuid.UUID, released bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET results_released = $1 WHERE id = $2`, released, id)
	return err
}
