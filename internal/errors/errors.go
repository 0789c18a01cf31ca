package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeMalformedDate    = "MALFORMED_DATE"
	ErrCodeCursorOutOfRange = "CURSOR_OUT_OF_RANGE"
	ErrCodeWriteFailed      = "WRITE_FAILED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "MALFORMED_DATE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As finds the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err's chain contains an AppError with the given code.
func Is(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewStoreUnavailableError reports that the backing store could not be opened
// or initialized.
func NewStoreUnavailableError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: fmt.Sprintf("card store unavailable: %s", path),
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// NewMalformedDateError reports persisted date text that is not YYYY-MM-DD.
func NewMalformedDateError(value string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedDate,
		Message: fmt.Sprintf("malformed review date %q", value),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewCursorOutOfRangeError reports a review attempted with no card under the cursor.
func NewCursorOutOfRangeError(cursor, length int) *AppError {
	return &AppError{
		Code:    ErrCodeCursorOutOfRange,
		Message: fmt.Sprintf("cursor %d out of range for %d cards", cursor, length),
		Status:  http.StatusConflict,
	}
}

// NewWriteFailedError wraps a failed store write.
func NewWriteFailedError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeWriteFailed,
		Message: fmt.Sprintf("%s failed", op),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
