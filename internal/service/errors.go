package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes and response error codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAccessCode  = errors.New("access code does not match any exam")

	ErrExamEnded        = errors.New("exam has already ended")
	ErrAlreadyJoined    = errors.New("exam already joined")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrCannotLeave      = errors.New("cannot leave after submitting")

	ErrAttemptNotFinished = errors.New("attempt has not been finalized")
	ErrAnswerNotFound     = errors.New("no answer recorded for this question")

	ErrQuestionNotFound     = errors.New("question does not belong to this exam")
	ErrScoreExceedsMaximum  = errors.New("score exceeds the question's maximum points")
	ErrResultsNotReleased   = errors.New("results are not released yet")
	ErrResultsNotReleasable = errors.New("results cannot be released yet")
)
