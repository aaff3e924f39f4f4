package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Draw errors
	ErrMsgDrawNotFound       = "draw not found"
	ErrMsgDrawResultNotFound = "draw result not found"

	// Lifecycle errors
	ErrMsgConflict          = "conflict"
	ErrMsgInvalidTransition = "invalid transition"

	// Validation errors
	ErrMsgValidation   = "validation error"
	ErrMsgInvalidRange = "invalid number range"

	// External collaborator errors
	ErrMsgRandomnessUnavailable   = "randomness source unavailable"
	ErrMsgVerificationUnavailable = "verification source unavailable"

	// Auth errors
	ErrMsgUnauthorized = "unauthorized"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrDrawNotFound = errors.New(ErrMsgDrawNotFound)

	ErrConflict = errors.New(ErrMsgConflict)

	ErrValidation = errors.New(ErrMsgValidation)

	ErrRandomnessUnavailable   = errors.New(ErrMsgRandomnessUnavailable)
	ErrVerificationUnavailable = errors.New(ErrMsgVerificationUnavailable)

	ErrUnauthorized = errors.New(ErrMsgUnauthorized)
)

// Errors that refine one of the kinds above. errors.Is matches both the
// refined error and its kind.
var (
	ErrDrawResultNotFound error = kindError{msg: ErrMsgDrawResultNotFound, kind: ErrDrawNotFound}
	ErrInvalidTransition  error = kindError{msg: ErrMsgInvalidTransition, kind: ErrConflict}
	ErrInvalidRange       error = kindError{msg: ErrMsgInvalidRange, kind: ErrValidation}
)

type kindError struct {
	msg  string
	kind error
}

func (e kindError) Error() string { return e.msg }

func (e kindError) Unwrap() error { return e.kind }

// Stable, machine-readable error kinds exposed to callers.
const (
	KindNotFound                = "NOT_FOUND"
	KindConflict                = "CONFLICT"
	KindValidation              = "VALIDATION_ERROR"
	KindRandomnessUnavailable   = "RANDOMNESS_UNAVAILABLE"
	KindVerificationUnavailable = "VERIFICATION_UNAVAILABLE"
	KindUnauthorized            = "UNAUTHORIZED"
	KindInternal                = "INTERNAL"
)

// ErrorKind classifies err into one of the stable kinds. Errors that do not
// wrap a domain sentinel are reported as KindInternal.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDrawNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrRandomnessUnavailable):
		return KindRandomnessUnavailable
	case errors.Is(err, ErrVerificationUnavailable):
		return KindVerificationUnavailable
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
