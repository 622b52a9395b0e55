package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("state conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// It is a state conflict, so errors.Is(err, ErrConflict) holds for it as well.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// ErrForbidden indicates a cross-tenant access attempt.
var ErrForbidden = errors.New("access denied")

// ErrIntegration indicates that an external collaborator failed or could not be reached.
var ErrIntegration = errors.New("integration failure")

// ErrInternal indicates an unexpected failure inside the service.
var ErrInternal = errors.New("internal error")

// AppError wraps infrastructure failures with an HTTP-ish status code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidPeriodError is returned when a reporting period label cannot be resolved.
type InvalidPeriodError struct {
	Label string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period label %q: expected Q1-Q4, M01-M12 or YEAR", e.Label)
}

// Unwrap makes InvalidPeriodError match ErrValidation.
func (e *InvalidPeriodError) Unwrap() error {
	return ErrValidation
}
