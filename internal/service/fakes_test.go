package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/codexam/codexam-backend/internal/judge"
	"github.com/codexam/codexam-backend/internal/model"
)

// In-memory store fakes. Single-goroutine tests, no locking needed.

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
}

func (f *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExamStore) GetByAccessCode(_ context.Context, code string) (*model.Exam, error) {
	for _, e := range f.exams {
		if e.AccessCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeExamStore) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range f.exams {
		if e.TeacherID == teacherID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExamStore) Update(_ context.Context, e *model.Exam) error {
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *fakeExamStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.exams, id)
	return nil
}

func (f *fakeExamStore) SetResultsReleased(_ context.Context, id uuid.UUID, released bool) error {
	if e, ok := f.exams[id]; ok {
		e.ResultsReleased = released
	}
	return nil
}

type fakeAttemptStore struct {
	attempts map[uuid.UUID]*model.Attempt
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: make(map[uuid.UUID]*model.Attempt)}
}

func (f *fakeAttemptStore) Create(_ context.Context, examID, userID uuid.UUID) (bool, error) {
	for _, a := range f.attempts {
		if a.ExamID == examID && a.UserID == userID {
			return false, nil
		}
	}
	now := time.Now()
	a := &model.Attempt{
		ID:        uuid.New(),
		ExamID:    examID,
		UserID:    userID,
		Status:    model.AttemptStatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.attempts[a.ID] = a
	return true, nil
}

func (f *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) GetByExamAndUser(_ context.Context, examID, userID uuid.UUID) (*model.Attempt, error) {
	for _, a := range f.attempts {
		if a.ExamID == examID && a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttemptStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.ExamID == examID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.attempts, id)
	return nil
}

func (f *fakeAttemptStore) MarkSubmitted(_ context.Context, id uuid.UUID, status model.AttemptStatus,
	startedAt *time.Time, submittedAt time.Time, totalScore *float64, cheated bool) (bool, error) {

	a, ok := f.attempts[id]
	if !ok || a.Status.Terminal() {
		return false, nil
	}
	a.Status = status
	if startedAt != nil {
		a.StartedAt = startedAt
	}
	a.SubmittedAt = &submittedAt
	a.TotalScore = totalScore
	a.Cheated = cheated
	a.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeAttemptStore) MarkOverdue(_ context.Context, id uuid.UUID) error {
	a, ok := f.attempts[id]
	if ok && (a.Status == model.AttemptStatusNotStarted || a.Status == model.AttemptStatusInProgress) {
		a.Status = model.AttemptStatusOverdue
	}
	return nil
}

func (f *fakeAttemptStore) FinishGrading(_ context.Context, id uuid.UUID, totalScore float64) error {
	a, ok := f.attempts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = model.AttemptStatusGraded
	a.TotalScore = &totalScore
	return nil
}

type answerKey struct {
	attemptID, questionID uuid.UUID
}

type fakeAnswerStore struct {
	answers map[answerKey]*model.Answer
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{answers: make(map[answerKey]*model.Answer)}
}

func (f *fakeAnswerStore) Upsert(_ context.Context, a *model.Answer) error {
	cp := *a
	f.answers[answerKey{a.AttemptID, a.QuestionID}] = &cp
	return nil
}

func (f *fakeAnswerStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]model.Answer, error) {
	var out []model.Answer
	for k, a := range f.answers {
		if k.attemptID == attemptID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnswerStore) UpdateScore(_ context.Context, attemptID, questionID uuid.UUID,
	score float64, gradedBy uuid.UUID, gradedAt time.Time) error {

	a, ok := f.answers[answerKey{attemptID, questionID}]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Score = &score
	a.GradedBy = &gradedBy
	a.GradedAt = &gradedAt
	return nil
}

type fakeQuestionStore struct {
	questions map[uuid.UUID]*model.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[uuid.UUID]*model.Question)}
}

func (f *fakeQuestionStore) Create(_ context.Context, q *model.Question) error {
	q.ID = uuid.New()
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.ExamID == examID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) Update(_ context.Context, q *model.Question) error {
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeQuestionStore) UpdateCorrectAnswer(_ context.Context, id uuid.UUID, correct []uuid.UUID) error {
	if q, ok := f.questions[id]; ok {
		q.CorrectAnswer = correct
	}
	return nil
}

func (f *fakeQuestionStore) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(f.questions, id)
	}
	return nil
}

type fakeChoiceStore struct {
	choices map[uuid.UUID]*model.Choice
}

func newFakeChoiceStore() *fakeChoiceStore {
	return &fakeChoiceStore{choices: make(map[uuid.UUID]*model.Choice)}
}

func (f *fakeChoiceStore) Create(_ context.Context, c *model.Choice) error {
	c.ID = uuid.New()
	cp := *c
	f.choices[c.ID] = &cp
	return nil
}

func (f *fakeChoiceStore) ListByQuestions(_ context.Context, questionIDs []uuid.UUID) ([]model.Choice, error) {
	wanted := make(map[uuid.UUID]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	var out []model.Choice
	for _, c := range f.choices {
		if wanted[c.QuestionID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChoiceStore) DeleteByQuestion(_ context.Context, questionID uuid.UUID) error {
	for id, c := range f.choices {
		if c.QuestionID == questionID {
			delete(f.choices, id)
		}
	}
	return nil
}

type fakeTestCaseStore struct {
	cases map[uuid.UUID]*model.TestCase
}

func newFakeTestCaseStore() *fakeTestCaseStore {
	return &fakeTestCaseStore{cases: make(map[uuid.UUID]*model.TestCase)}
}

func (f *fakeTestCaseStore) Create(_ context.Context, tc *model.TestCase) error {
	tc.ID = uuid.New()
	cp := *tc
	f.cases[tc.ID] = &cp
	return nil
}

func (f *fakeTestCaseStore) ListByQuestions(_ context.Context, questionIDs []uuid.UUID) ([]model.TestCase, error) {
	wanted := make(map[uuid.UUID]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	var out []model.TestCase
	for _, tc := range f.cases {
		if wanted[tc.QuestionID] {
			out = append(out, *tc)
		}
	}
	return out, nil
}

func (f *fakeTestCaseStore) DeleteByQuestion(_ context.Context, questionID uuid.UUID) error {
	for id, tc := range f.cases {
		if tc.QuestionID == questionID {
			delete(f.cases, id)
		}
	}
	return nil
}

type fakeUserRefLister struct {
	refs map[uuid.UUID]model.UserRef
}

func (f *fakeUserRefLister) ListRefsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.UserRef, error) {
	out := make(map[uuid.UUID]model.UserRef)
	for _, id := range ids {
		if ref, ok := f.refs[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

type flagKey struct {
	userID, questionID uuid.UUID
}

type fakeFlagStore struct {
	flags     map[flagKey]*model.Flag
	questions *fakeQuestionStore
}

func newFakeFlagStore(questions *fakeQuestionStore) *fakeFlagStore {
	return &fakeFlagStore{flags: make(map[flagKey]*model.Flag), questions: questions}
}

func (f *fakeFlagStore) CreateBulk(_ context.Context, userID uuid.UUID, questionIDs []uuid.UUID, note string) error {
	for _, qid := range questionIDs {
		key := flagKey{userID, qid}
		if _, exists := f.flags[key]; exists {
			continue
		}
		f.flags[key] = &model.Flag{UserID: userID, QuestionID: qid, FlaggedAt: time.Now(), Note: note}
	}
	return nil
}

func (f *fakeFlagStore) ListByUserAndExam(_ context.Context, userID, examID uuid.UUID) ([]model.Flag, error) {
	var out []model.Flag
	for key, fl := range f.flags {
		if key.userID != userID {
			continue
		}
		if q, ok := f.questions.questions[key.questionID]; ok && q.ExamID == examID {
			out = append(out, *fl)
		}
	}
	return out, nil
}

// fakeRunner passes a test case iff its expected output equals the
// submitted source, a convenient knob for controlling pass counts.
type fakeRunner struct {
	results []judge.TestResult
	calls   int
}

func (f *fakeRunner) Run(_ context.Context, source, language string, cases []model.TestCase) []judge.TestResult {
	f.calls++
	if f.results != nil {
		return f.results
	}
	out := make([]judge.TestResult, len(cases))
	for i, tc := range cases {
		out[i] = judge.TestResult{
			Passed:         tc.ExpectedOutput == source,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}
	}
	return out
}

// deadRedis returns a client pointing nowhere. Every call fails fast,
// exercising the best-effort cache paths.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}
