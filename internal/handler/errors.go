package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codexam/codexam-backend/internal/response"
	"github.com/codexam/codexam-backend/internal/service"
)

// failServiceError maps a service-layer error onto an HTTP response.
func failServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrInvalidAccessCode):
		response.Fail(c, http.StatusNotFound, response.ErrInvalidAccessCode)
	case errors.Is(err, service.ErrExamEnded):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrAlreadyJoined):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyJoined)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrAttemptNotFinished):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrAnswerNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCannotLeave):
		response.Fail(c, http.StatusConflict, response.ErrCannotLeave)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusBadRequest, response.ErrQuestionNotFound)
	case errors.Is(err, service.ErrScoreExceedsMaximum):
		response.Fail(c, http.StatusBadRequest, response.ErrScoreExceedsMaximum)
	case errors.Is(err, service.ErrResultsNotReleased):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrResultsNotReleasable):
		response.Fail(c, http.StatusConflict, response.ErrResultsNotReleasable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseIDParam parses a uuid path parameter, failing the request on error.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
