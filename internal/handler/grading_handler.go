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

// GradingHandler handles the teacher grading endpoints.
type GradingHandler struct {
	attemptService *service.AttemptService
}

// NewGradingHandler creates a new GradingHandler.
func NewGradingHandler(attemptService *service.AttemptService) *GradingHandler {
	return &GradingHandler{attemptService: attemptService}
}

// ListAttempts godoc
// GET /api/v1/teacher/exams/:exam_id/attempts
// Returns every attempt at an owned exam, with summary counts, for the
// grading overview.
func (h *GradingHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	overview, err := h.attemptService.ListAttempts(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// AttemptDetail godoc
// GET /api/v1/teacher/attempts/:attempt_id
// Returns one attempt with the student's answers laid out per question,
// for manual grading.
func (h *GradingHandler) AttemptDetail(c *gin.Context) {
	claims := middleware.GetClaims(c)
	attemptID, ok := parseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	detail, err := h.attemptService.GetAttemptDetail(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Grade godoc
// POST /api/v1/teacher/attempts/:attempt_id/grade
// Records manual scores; finalizes the attempt once everything is scored.
func (h *GradingHandler) Grade(c *gin.Context) {
	claims := middleware.GetClaims(c)
	attemptID, ok := parseIDParam(c, "attempt_id")
	if !ok {
		return
	}

	var req model.GradeAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.GradeAttempt(c.Request.Context(), claims.UserID, attemptID, &req)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// Leaderboard godoc
// GET /api/v1/teacher/exams/:exam_id/leaderboard
// Returns every attempt ranked, regardless of state or release.
func (h *GradingHandler) Leaderboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	entries, err := h.attemptService.AdminLeaderboard(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
