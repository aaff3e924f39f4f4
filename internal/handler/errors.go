package handler

import (
	"net/http"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// Generic HTTP error messages for client responses.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidDrawID         = "Invalid draw ID"
	ErrMsgInvalidStatus         = "Invalid status filter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidOffset         = "Invalid offset parameter"
)

// User-facing messages for 5xx responses. Internal error text is never returned.
const (
	ErrMsgGenericServerError      = "Something went wrong"
	ErrMsgRandomnessUnavailable   = "Randomness source is temporarily unavailable. Please try again later."
	ErrMsgVerificationUnavailable = "Verification source is temporarily unavailable. Please try again later."
	ErrMsgAuthFailedError         = "Authentication failed. Please check your API key."
)

// Success messages
const (
	MsgDrawRemoved = "Draw removed"
)

// mapServiceError converts a service error into an HTTP status and the
// message returned to the client. 4xx responses carry the error text since
// it describes the caller's mistake; 5xx responses never do.
func mapServiceError(err error) (int, string) {
	kind := domain.ErrorKind(err)
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, err.Error()
	case domain.KindConflict:
		return http.StatusConflict, err.Error()
	case domain.KindValidation:
		return http.StatusBadRequest, err.Error()
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, ErrMsgAuthFailedError
	case domain.KindRandomnessUnavailable:
		return http.StatusServiceUnavailable, ErrMsgRandomnessUnavailable
	case domain.KindVerificationUnavailable:
		return http.StatusServiceUnavailable, ErrMsgVerificationUnavailable
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
