package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrAlreadyJoined        ErrCode = "ALREADY_JOINED"
	ErrAlreadySubmitted     ErrCode = "ALREADY_SUBMITTED"
	ErrCannotLeave          ErrCode = "CANNOT_LEAVE_AFTER_SUBMISSION"
	ErrQuestionNotFound     ErrCode = "QUESTION_NOT_FOUND"
	ErrScoreExceedsMaximum  ErrCode = "SCORE_EXCEEDS_MAXIMUM"
	ErrResultsNotReleasable ErrCode = "RESULTS_NOT_RELEASABLE"
	ErrInvalidAccessCode    ErrCode = "INVALID_ACCESS_CODE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrAlreadyJoined:
		return "You have already joined this exam."
	case ErrAlreadySubmitted:
		return "This exam has already been submitted."
	case ErrCannotLeave:
		return "You cannot leave an exam after submitting it."
	case ErrQuestionNotFound:
		return "A submitted answer references a question that is not part of this exam."
	case ErrScoreExceedsMaximum:
		return "A score exceeds the maximum points for its question."
	case ErrResultsNotReleasable:
		return "Results cannot be released for this exam yet."
	case ErrInvalidAccessCode:
		return "No exam matches this access code."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
