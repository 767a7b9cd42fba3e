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

// ExamHandler handles teacher exam management endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// Create godoc
// POST /api/v1/teacher/exams
func (h *ExamHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// List godoc
// GET /api/v1/teacher/exams
func (h *ExamHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	exams, err := h.examService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/teacher/exams/:exam_id
func (h *ExamHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	exam, err := h.examService.Get(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Update godoc
// PATCH /api/v1/teacher/exams/:exam_id
func (h *ExamHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), claims.UserID, examID, &req)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Delete godoc
// DELETE /api/v1/teacher/exams/:exam_id
func (h *ExamHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), claims.UserID, examID); err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ReleaseCheck godoc
// GET /api/v1/teacher/exams/:exam_id/release-check
// Evaluates the release gate without releasing anything.
func (h *ExamHandler) ReleaseCheck(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	check, err := h.examService.CanReleaseResults(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"release_check": check})
}

// Release godoc
// POST /api/v1/teacher/exams/:exam_id/release
// Opens the results gate once every finished attempt is graded.
func (h *ExamHandler) Release(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	check, err := h.examService.ReleaseResults(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"release_check": check})
}
