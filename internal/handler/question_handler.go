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

// QuestionHandler handles teacher question authoring endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	examService     *service.ExamService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, examService *service.ExamService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, examService: examService}
}

// Replace godoc
// PUT /api/v1/teacher/exams/:exam_id/questions
// Replaces the exam's question set wholesale, remapping placeholder
// choice ids to their persisted values.
func (h *QuestionHandler) Replace(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	details, err := h.questionService.ReplaceForExam(c.Request.Context(), claims.UserID, examID, req.Questions)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": details})
}

// List godoc
// GET /api/v1/teacher/exams/:exam_id/questions
// Returns the full authoring view including correctness data.
func (h *QuestionHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	// Ownership gate before exposing correct answers.
	if _, err := h.examService.Get(c.Request.Context(), claims.UserID, examID); err != nil {
		failServiceError(c, err)
		return
	}

	details, err := h.questionService.Catalog(c.Request.Context(), examID)
	if err != nil {
		failServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": details})
}
