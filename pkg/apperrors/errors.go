package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrRepository signals a repository-level invariant violation, such as
	// a review submitted without an author or movie.
	ErrRepository = errors.New("repository invariant violated")
)

// ValidationError carries per-field messages and matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

func NewValidationError(fields map[string]string, message string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
