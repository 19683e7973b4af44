package apperror

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// AppError is an error that carries the HTTP status it should be reported with
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound        = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized    = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden       = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest      = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer  = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidToken    = &AppError{Code: http.StatusUnauthorized, Message: "Invalid or expired session"}
	ErrSessionRequired = &AppError{Code: http.StatusUnauthorized, Message: "Not authenticated"}
	ErrEmailDisabled   = &AppError{Code: http.StatusServiceUnavailable, Message: "Email delivery is not configured"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error for a resource name
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// NewUnauthorizedError creates an unauthorized error with a custom message
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError finds the AppError in err's chain. Anything else is reported as
// an internal error without exposing its message.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
