package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/judge"
	"github.com/codexam/codexam-backend/internal/model"
	"github.com/codexam/codexam-backend/internal/ranking"
	"github.com/codexam/codexam-backend/internal/scoring"
)

// AttemptStore is the attempt persistence the attempt service needs.
type AttemptStore interface {
	Create(ctx context.Context, examID, userID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	GetByExamAndUser(ctx context.Context, examID, userID uuid.UUID) (*model.Attempt, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Attempt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Attempt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkSubmitted(ctx context.Context, id uuid.UUID, status model.AttemptStatus,
		startedAt *time.Time, submittedAt time.Time, totalScore *float64, cheated bool) (bool, error)
	MarkOverdue(ctx context.Context, id uuid.UUID) error
	FinishGrading(ctx context.Context, id uuid.UUID, totalScore float64) error
}

// AnswerStore is the answer persistence the attempt service needs.
type AnswerStore interface {
	Upsert(ctx context.Context, a *model.Answer) error
	ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.Answer, error)
	UpdateScore(ctx context.Context, attemptID, questionID uuid.UUID,
		score float64, gradedBy uuid.UUID, gradedAt time.Time) error
}

// UserRefLister resolves user ids to public display projections.
type UserRefLister interface {
	ListRefsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.UserRef, error)
}

// FlagLister is the flag access the review page needs.
type FlagLister interface {
	ListByUserAndExam(ctx context.Context, userID, examID uuid.UUID) ([]model.Flag, error)
}

// CodeRunner executes submitted code against test cases. Implemented by
// the judge client; faked in tests.
type CodeRunner interface {
	Run(ctx context.Context, source, language string, cases []model.TestCase) []judge.TestResult
}

// AttemptService orchestrates the attempt lifecycle: joining an exam,
// submitting with auto-grading, manual grading, results and leaderboards.
type AttemptService struct {
	exams     ExamStore
	attempts  AttemptStore
	answers   AnswerStore
	questions QuestionStore
	choices   ChoiceStore
	testCases TestCaseStore
	users     UserRefLister
	flags     FlagLister
	runner    CodeRunner
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	exams ExamStore,
	attempts AttemptStore,
	answers AnswerStore,
	questions QuestionStore,
	choices ChoiceStore,
	testCases TestCaseStore,
	users UserRefLister,
	flags FlagLister,
	runner CodeRunner,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		exams:     exams,
		attempts:  attempts,
		answers:   answers,
		questions: questions,
		choices:   choices,
		testCases: testCases,
		users:     users,
		flags:     flags,
		runner:    runner,
		rdb:       rdb,
		log:       log.With().Str("component", "attempt_service").Logger(),
	}
}

// leaderboardCacheTTL bounds staleness between invalidations.
const leaderboardCacheTTL = 60 * time.Second

// JoinResult is the outcome of joining an exam.
type JoinResult struct {
	Exam    *model.Exam    `json:"exam"`
	Attempt *model.Attempt `json:"attempt"`
}

// Join resolves the access code and creates the student's attempt. Each
// student joins an exam exactly once.
func (s *AttemptService) Join(ctx context.Context, userID uuid.UUID, accessCode string) (*JoinResult, error) {
	exam, err := s.exams.GetByAccessCode(ctx, accessCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidAccessCode
		}
		return nil, fmt.Errorf("get exam by access code: %w", err)
	}
	if exam.HasEnded(time.Now()) {
		return nil, ErrExamEnded
	}

	created, err := s.attempts.Create(ctx, exam.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	if !created {
		return nil, ErrAlreadyJoined
	}

	attempt, err := s.attempts.GetByExamAndUser(ctx, exam.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return &JoinResult{Exam: exam, Attempt: attempt}, nil
}

// GetAttempt returns the student's attempt at an exam, with the overdue
// flip applied. Used as the membership gate for exam-scoped endpoints.
func (s *AttemptService) GetAttempt(ctx context.Context, userID, examID uuid.UUID) (*model.Attempt, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.getAttempt(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	flipped := s.flipIfOverdue(ctx, exam, *attempt)
	return &flipped, nil
}

// Leave abandons an unfinished attempt, discarding its answers. Terminal
// attempts cannot be abandoned.
func (s *AttemptService) Leave(ctx context.Context, userID, examID uuid.UUID) error {
	attempt, err := s.getAttempt(ctx, examID, userID)
	if err != nil {
		return err
	}
	if attempt.Status.Terminal() {
		return ErrCannotLeave
	}
	if err := s.attempts.Delete(ctx, attempt.ID); err != nil {
		return fmt.Errorf("delete attempt: %w", err)
	}
	return nil
}

// SubmitResult is the outcome of submitting an attempt.
type SubmitResult struct {
	Attempt       *model.Attempt `json:"attempt"`
	PendingReview int            `json:"pending_review"`
}

// Submit finalizes an attempt: validates every answer against the exam's
// question set, auto-grades what can be auto-graded, and moves the attempt
// to its terminal state.
//
// Validation is all-or-nothing: one answer referencing a foreign question
// rejects the whole payload before anything is written. Essay answers (and
// unknown question types) stay ungraded and keep the attempt in submitted
// until a teacher grades them; coding answers that never reached the judge
// score zero rather than blocking, since rerunning the code later would
// grade against a possibly different environment.
func (s *AttemptService) Submit(ctx context.Context, userID, examID uuid.UUID, req *model.SubmitExamRequest) (*SubmitResult, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.getAttempt(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.Terminal() {
		return nil, ErrAlreadySubmitted
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	questionsByID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		questionsByID[questions[i].ID] = &questions[i]
	}

	for _, sub := range req.Answers {
		if questionsByID[sub.QuestionID] == nil {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, sub.QuestionID)
		}
	}

	now := time.Now()
	startedAt := attempt.StartedAt
	if startedAt == nil {
		startedAt = req.StartedAt
	}

	var total float64
	pending := 0
	for _, sub := range req.Answers {
		q := questionsByID[sub.QuestionID]
		outcome, err := s.gradeAnswer(ctx, q, sub)
		if err != nil {
			return nil, err
		}

		answer := &model.Answer{
			AttemptID:           attempt.ID,
			QuestionID:          sub.QuestionID,
			AnswerText:          sub.AnswerText,
			SelectedChoices:     sub.SelectedChoices,
			ProgrammingLanguage: sub.ProgrammingLanguage,
		}
		if outcome.Pending {
			pending++
		} else {
			v := outcome.Value
			answer.Score = &v
			total += v
		}
		if err := s.answers.Upsert(ctx, answer); err != nil {
			return nil, fmt.Errorf("store answer: %w", err)
		}
	}

	status := model.AttemptStatusSubmitted
	if exam.HasEnded(now) {
		status = model.AttemptStatusOverdue
	}
	if pending == 0 && status == model.AttemptStatusSubmitted {
		status = model.AttemptStatusGraded
	}
	// The running total is persisted even while essays wait for a grade,
	// so partially-scored attempts still rank by what is already scored.
	rounded := scoring.Round2(total)

	applied, err := s.attempts.MarkSubmitted(ctx, attempt.ID, status, startedAt, now, &rounded, req.Cheated)
	if err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	}
	if !applied {
		return nil, ErrAlreadySubmitted
	}

	attempt, err = s.attempts.GetByID(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("reload attempt: %w", err)
	}

	s.invalidateLeaderboard(ctx, examID)
	s.publishSubmission(ctx, attempt)

	return &SubmitResult{Attempt: attempt, PendingReview: pending}, nil
}

// gradeAnswer applies auto-grading for one answer, reaching out to the
// judge for coding questions that actually have code and test cases.
func (s *AttemptService) gradeAnswer(ctx context.Context, q *model.Question, sub model.AnswerSubmission) (scoring.Outcome, error) {
	var results []judge.TestResult
	if q.Type == model.QuestionTypeCoding && sub.AnswerText != "" {
		cases, err := s.testCases.ListByQuestions(ctx, []uuid.UUID{q.ID})
		if err != nil {
			return scoring.Outcome{}, fmt.Errorf("list test cases: %w", err)
		}
		if len(cases) > 0 {
			results = s.runner.Run(ctx, sub.AnswerText, sub.ProgrammingLanguage, cases)
		}
	}

	outcome := scoring.Score(q, sub, q.Points, results)
	if outcome.Pending && q.Type == model.QuestionTypeCoding {
		// Coding never blocks finalization.
		return scoring.Graded(0), nil
	}
	return outcome, nil
}

// GradeAttempt records teacher-entered scores and finalizes the attempt
// once every answer has one. Regrading an already graded question simply
// overwrites the score, so the operation is safe to repeat.
func (s *AttemptService) GradeAttempt(ctx context.Context, teacherID, attemptID uuid.UUID, req *model.GradeAttemptRequest) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	exam, err := s.getExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, err
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	// Only finalized attempts carry gradable answers.
	if attempt.Status != model.AttemptStatusSubmitted &&
		attempt.Status != model.AttemptStatusOverdue &&
		attempt.Status != model.AttemptStatusGraded {
		return nil, ErrAttemptNotFinished
	}

	questions, err := s.questions.ListByExam(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	questionsByID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		questionsByID[questions[i].ID] = &questions[i]
	}

	stored, err := s.answers.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	answered := make(map[uuid.UUID]bool, len(stored))
	for _, a := range stored {
		answered[a.QuestionID] = true
	}

	// Validate the whole payload before writing any score.
	for _, g := range req.QuestionGrades {
		q := questionsByID[g.QuestionID]
		if q == nil {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, g.QuestionID)
		}
		if !answered[g.QuestionID] {
			return nil, fmt.Errorf("%w: %s", ErrAnswerNotFound, g.QuestionID)
		}
		if g.Score > q.Points {
			return nil, fmt.Errorf("%w: question %s allows at most %g", ErrScoreExceedsMaximum, g.QuestionID, q.Points)
		}
	}

	now := time.Now()
	for _, g := range req.QuestionGrades {
		if err := s.answers.UpdateScore(ctx, attemptID, g.QuestionID, g.Score, teacherID, now); err != nil {
			return nil, fmt.Errorf("update score: %w", err)
		}
	}

	answers, err := s.answers.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	total := 0.0
	allGraded := true
	for _, a := range answers {
		if a.Score == nil {
			allGraded = false
			break
		}
		total += *a.Score
	}

	if allGraded {
		if err := s.attempts.FinishGrading(ctx, attemptID, scoring.Round2(total)); err != nil {
			return nil, fmt.Errorf("finish grading: %w", err)
		}
		s.invalidateLeaderboard(ctx, exam.ID)
	}

	attempt, err = s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("reload attempt: %w", err)
	}
	return attempt, nil
}

// MyResult is one entry of a student's results overview. Score stays nil
// until the exam's results are released.
type MyResult struct {
	ExamID    uuid.UUID           `json:"exam_id"`
	ExamTitle string              `json:"exam_title"`
	Status    model.AttemptStatus `json:"status"`
	Released  bool                `json:"released"`
	Score     *float64            `json:"score,omitempty"`
	Rank      *int                `json:"rank,omitempty"`
}

// MyResults lists the student's attempts across all exams. Stale attempts
// of ended exams are flipped to overdue on the way out.
func (s *AttemptService) MyResults(ctx context.Context, userID uuid.UUID) ([]MyResult, error) {
	attempts, err := s.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	results := make([]MyResult, 0, len(attempts))
	for _, a := range attempts {
		exam, err := s.getExam(ctx, a.ExamID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // Exam was deleted.
			}
			return nil, err
		}

		a = s.flipIfOverdue(ctx, exam, a)

		r := MyResult{
			ExamID:    exam.ID,
			ExamTitle: exam.Title,
			Status:    a.Status,
			Released:  exam.ResultsReleased,
		}
		if exam.ResultsReleased && a.Status == model.AttemptStatusGraded {
			r.Score = a.TotalScore
			if ranked, err := s.gradedLeaderboard(ctx, exam.ID); err == nil {
				if pos, ok := ranking.Position(ranked, userID); ok {
					rank := pos.Rank
					r.Rank = &rank
				}
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// LeaderboardEntry is one leaderboard row with display info attached.
type LeaderboardEntry struct {
	Rank        int                 `json:"rank"`
	User        model.UserRef       `json:"user"`
	Status      model.AttemptStatus `json:"status"`
	Score       *float64            `json:"score,omitempty"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
}

// LeaderboardView is the student-facing leaderboard with the caller's
// own standing.
type LeaderboardView struct {
	Entries    []LeaderboardEntry `json:"entries"`
	MyRank     *int               `json:"my_rank,omitempty"`
	Percentile *float64           `json:"percentile,omitempty"`
	Total      int                `json:"total"`
}

// Leaderboard returns the student view: only graded attempts, visible
// once results are released.
func (s *AttemptService) Leaderboard(ctx context.Context, userID, examID uuid.UUID) (*LeaderboardView, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.ResultsReleased {
		return nil, ErrResultsNotReleased
	}

	ranked, err := s.gradedLeaderboard(ctx, examID)
	if err != nil {
		return nil, err
	}

	entries, err := s.toEntries(ctx, ranked)
	if err != nil {
		return nil, err
	}

	view := &LeaderboardView{Entries: entries, Total: len(ranked)}
	if pos, ok := ranking.Position(ranked, userID); ok {
		rank := pos.Rank
		view.MyRank = &rank
		if len(ranked) > 0 {
			pct := scoring.Round2(float64(len(ranked)-rank) / float64(len(ranked)) * 100)
			view.Percentile = &pct
		}
	}
	return view, nil
}

// AdminLeaderboard returns the teacher view: every attempt regardless of
// state, ranked by the same ordering.
func (s *AttemptService) AdminLeaderboard(ctx context.Context, teacherID, examID uuid.UUID) ([]LeaderboardEntry, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}

	attempts, err := s.listWithOverdueFlip(ctx, exam)
	if err != nil {
		return nil, err
	}
	return s.toEntries(ctx, ranking.Rank(attempts))
}

// AttemptsOverview summarizes an exam's attempts for the grading page.
type AttemptsOverview struct {
	Total    int             `json:"total"`
	Graded   int             `json:"graded"`
	Cheated  int             `json:"cheated"`
	Attempts []model.Attempt `json:"attempts"`
}

// ListAttempts returns the attempts of an owned exam with summary counts
// for the grading overview.
func (s *AttemptService) ListAttempts(ctx context.Context, teacherID, examID uuid.UUID) (*AttemptsOverview, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}

	attempts, err := s.listWithOverdueFlip(ctx, exam)
	if err != nil {
		return nil, err
	}

	overview := &AttemptsOverview{Total: len(attempts), Attempts: attempts}
	for _, a := range attempts {
		if a.Status == model.AttemptStatusGraded {
			overview.Graded++
		}
		if a.Cheated {
			overview.Cheated++
		}
	}
	return overview, nil
}

// AttemptDetail is the grader's view of one attempt: the student's answers
// next to each question, regardless of the release gate.
type AttemptDetail struct {
	Attempt *model.Attempt `json:"attempt"`
	Items   []ReviewItem   `json:"items"`
}

// GetAttemptDetail loads one attempt of an owned exam for manual grading.
func (s *AttemptService) GetAttemptDetail(ctx context.Context, teacherID, attemptID uuid.UUID) (*AttemptDetail, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	exam, err := s.getExam(ctx, attempt.ExamID)
	if err != nil {
		return nil, err
	}
	if exam.TeacherID != teacherID {
		return nil, ErrForbidden
	}

	items, err := s.reviewItems(ctx, exam.ID, attempt)
	if err != nil {
		return nil, err
	}
	return &AttemptDetail{Attempt: attempt, Items: items}, nil
}

// ReviewItem is one question of the submission review page.
type ReviewItem struct {
	Question QuestionDetail       `json:"question"`
	Choices  []model.ReviewChoice `json:"choices,omitempty"`
	Answer   *model.Answer        `json:"answer,omitempty"`
	Flagged  bool                 `json:"flagged"`
}

// SubmissionReview builds the student's post-release answer review:
// every question with the student's answer, per-question score, choice
// correctness and raised flags.
func (s *AttemptService) SubmissionReview(ctx context.Context, userID, examID uuid.UUID) ([]ReviewItem, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.ResultsReleased {
		return nil, ErrResultsNotReleased
	}

	attempt, err := s.getAttempt(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	return s.reviewItems(ctx, examID, attempt)
}

// reviewItems assembles the per-question review rows for one attempt:
// the question with the answer given, choice correctness and flags.
// Shared between the student review page and the grader's detail view.
func (s *AttemptService) reviewItems(ctx context.Context, examID uuid.UUID, attempt *model.Attempt) ([]ReviewItem, error) {
	answers, err := s.answers.ListByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	answersByQ := make(map[uuid.UUID]*model.Answer, len(answers))
	for i := range answers {
		answersByQ[answers[i].QuestionID] = &answers[i]
	}

	flags, err := s.flags.ListByUserAndExam(ctx, attempt.UserID, examID)
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	flagged := make(map[uuid.UUID]bool, len(flags))
	for _, f := range flags {
		flagged[f.QuestionID] = true
	}

	details, err := s.questionDetails(ctx, examID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, len(details))
	for i, d := range details {
		answer := answersByQ[d.ID]

		correct := make(map[uuid.UUID]bool, len(d.CorrectAnswer))
		for _, id := range d.CorrectAnswer {
			correct[id] = true
		}
		chosen := make(map[uuid.UUID]bool)
		if answer != nil {
			for _, id := range answer.SelectedChoices {
				chosen[id] = true
			}
		}

		var choices []model.ReviewChoice
		for _, c := range d.Choices {
			choices = append(choices, model.ReviewChoice{
				Choice:    c,
				IsCorrect: correct[c.ID],
				IsChosen:  chosen[c.ID],
			})
		}

		items[i] = ReviewItem{
			Question: d,
			Choices:  choices,
			Answer:   answer,
			Flagged:  flagged[d.ID],
		}
	}
	return items, nil
}

// gradedLeaderboard returns the ranked graded attempts of an exam,
// serving from the Redis cache when possible. A cold or failing cache
// degrades to a direct ranking, never to an error.
func (s *AttemptService) gradedLeaderboard(ctx context.Context, examID uuid.UUID) ([]ranking.RankedAttempt, error) {
	key := config.CacheKey.LeaderboardKey(examID.String())

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var ranked []ranking.RankedAttempt
		if json.Unmarshal([]byte(cached), &ranked) == nil {
			return ranked, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("leaderboard cache read failed")
	}

	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.listWithOverdueFlip(ctx, exam)
	if err != nil {
		return nil, err
	}
	ranked := ranking.Rank(ranking.Filter(attempts, ranking.Graded))

	if payload, err := json.Marshal(ranked); err == nil {
		if err := s.rdb.Set(ctx, key, payload, leaderboardCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return ranked, nil
}

func (s *AttemptService) toEntries(ctx context.Context, ranked []ranking.RankedAttempt) ([]LeaderboardEntry, error) {
	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.UserID
	}
	refs, err := s.users.ListRefsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list user refs: %w", err)
	}

	entries := make([]LeaderboardEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = LeaderboardEntry{
			Rank:        r.Rank,
			User:        refs[r.UserID],
			Status:      r.Status,
			Score:       r.TotalScore,
			SubmittedAt: r.SubmittedAt,
		}
	}
	return entries, nil
}

// listWithOverdueFlip loads an exam's attempts, flipping stale ones to
// overdue when the exam has ended.
func (s *AttemptService) listWithOverdueFlip(ctx context.Context, exam *model.Exam) ([]model.Attempt, error) {
	attempts, err := s.attempts.ListByExam(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	for i := range attempts {
		attempts[i] = s.flipIfOverdue(ctx, exam, attempts[i])
	}
	return attempts, nil
}

// flipIfOverdue transitions a stale attempt to overdue on read. The write
// is best-effort; the returned attempt reflects the flip either way.
func (s *AttemptService) flipIfOverdue(ctx context.Context, exam *model.Exam, a model.Attempt) model.Attempt {
	if a.Status.Terminal() || a.Status == model.AttemptStatusOverdue || !exam.HasEnded(time.Now()) {
		return a
	}
	if err := s.attempts.MarkOverdue(ctx, a.ID); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", a.ID.String()).Msg("overdue flip failed")
	}
	a.Status = model.AttemptStatusOverdue
	return a
}

func (s *AttemptService) invalidateLeaderboard(ctx context.Context, examID uuid.UUID) {
	key := config.CacheKey.LeaderboardKey(examID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard invalidation failed")
	}
}

// SubmissionEvent is the payload published to the exam's monitor channel
// whenever an attempt reaches a terminal state.
type SubmissionEvent struct {
	AttemptID   uuid.UUID           `json:"attempt_id"`
	ExamID      uuid.UUID           `json:"exam_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      model.AttemptStatus `json:"status"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
}

func (s *AttemptService) publishSubmission(ctx context.Context, attempt *model.Attempt) {
	event := SubmissionEvent{
		AttemptID:   attempt.ID,
		ExamID:      attempt.ExamID,
		UserID:      attempt.UserID,
		Status:      attempt.Status,
		SubmittedAt: attempt.SubmittedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	channel := config.CacheKey.SubmissionChannel(attempt.ExamID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("submission publish failed")
	}
}

// questionDetails mirrors QuestionService.Catalog for the review page
// without creating a service-to-service dependency.
func (s *AttemptService) questionDetails(ctx context.Context, examID uuid.UUID) ([]QuestionDetail, error) {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	choices, err := s.choices.ListByQuestions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}
	choicesByQ := make(map[uuid.UUID][]model.Choice)
	for _, c := range choices {
		choicesByQ[c.QuestionID] = append(choicesByQ[c.QuestionID], c)
	}

	cases, err := s.testCases.ListByQuestions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	casesByQ := make(map[uuid.UUID][]model.TestCase)
	for _, tc := range cases {
		casesByQ[tc.QuestionID] = append(casesByQ[tc.QuestionID], tc)
	}

	details := make([]QuestionDetail, len(questions))
	for i, q := range questions {
		details[i] = QuestionDetail{Question: q, Choices: choicesByQ[q.ID], TestCases: casesByQ[q.ID]}
	}
	return details, nil
}

func (s *AttemptService) getExam(ctx context.Context, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return exam, nil
}

func (s *AttemptService) getAttempt(ctx context.Context, examID, userID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}
