package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codexam/codexam-backend/internal/middleware"
	"github.com/codexam/codexam-backend/internal/model"
	"github.com/codexam/codexam-backend/internal/response"
	"github.com/codexam/codexam-backend/internal/service"
	"github.com/codexam/codexam-backend/internal/validator"
)

// StudentHandler handles the student exam-taking endpoints.
type StudentHandler struct {
	attemptService  *service.AttemptService
	questionService *service.QuestionService
	flagService     *service.FlagService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	attemptService *service.AttemptService,
	questionService *service.QuestionService,
	flagService *service.FlagService,
) *StudentHandler {
	return &StudentHandler{
		attemptService:  attemptService,
		questionService: questionService,
		flagService:     flagService,
	}
}

// Join godoc
// POST /api/v1/student/exams/join
// Resolves the access code and creates the student's attempt. Joining
// the same exam twice is a conflict.
func (h *StudentHandler) Join(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.JoinExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attemptService.Join(c.Request.Context(), claims.UserID, req.AccessCode)
	if err != nil {
		failServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Questions godoc
// GET /api/v1/student/exams/:exam_id/questions
// Returns the sanitized question set. Requires a prior join.
func (h *StudentHandler) Questions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	if _, err := h.attemptService.GetAttempt(c.Request.Context(), claims.UserID, examID); err != nil {
		failServiceError(c, err)
		return
	}

	questions, err := h.questionService.StudentView(c.Request.Context(), examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Leave godoc
// DELETE /api/v1/student/exams/:exam_id/attempt
// Abandons an unfinished attempt, discarding stored answers.
func (h *StudentHandler) Leave(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	if err := h.attemptService.Leave(c.Request.Context(), claims.UserID, examID); err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Submit godoc
// POST /api/v1/student/exams/:exam_id/submit
// Finalizes the attempt with auto-grading.
func (h *StudentHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), claims.UserID, examID, &req)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// FlagQuestions godoc
// POST /api/v1/student/exams/:exam_id/flags
// Raises flags on questions of the exam.
func (h *StudentHandler) FlagQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.FlagQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, err := h.attemptService.GetAttempt(c.Request.Context(), claims.UserID, examID); err != nil {
		failServiceError(c, err)
		return
	}

	if err := h.flagService.FlagQuestions(c.Request.Context(), claims.UserID, examID, &req); err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{})
}

// ListFlags godoc
// GET /api/v1/student/exams/:exam_id/flags
func (h *StudentHandler) ListFlags(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	flags, err := h.flagService.ListFlags(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"flags": flags})
}

// Leaderboard godoc
// GET /api/v1/student/exams/:exam_id/leaderboard
// Returns the graded ranking with the caller's own standing. Available
// once results are released.
func (h *StudentHandler) Leaderboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	view, err := h.attemptService.Leaderboard(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// MyResults godoc
// GET /api/v1/student/results
// Lists the student's attempts across exams. Scores appear only after
// the exam's results are released.
func (h *StudentHandler) MyResults(c *gin.Context) {
	claims := middleware.GetClaims(c)

	results, err := h.attemptService.MyResults(c.Request.Context(), claims.UserID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// Review godoc
// GET /api/v1/student/exams/:exam_id/review
// Returns the post-release answer review for the student's attempt.
func (h *StudentHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	items, err := h.attemptService.SubmissionReview(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}
