package models

import (
	"fmt"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

const (
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeNoData              ErrorCode = "no_data"
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
)

// APIError is an error that already knows how it should be reported to the caller.
type APIError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches any APIError carrying the same code, so callers can test
// errors.Is(err, ErrNoData).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	ErrValidation  = &APIError{Code: ErrorCodeValidationFailed}
	ErrNoData      = &APIError{Code: ErrorCodeNoData}
	ErrPersistence = &APIError{Code: ErrorCodeInternalServerError}
)

// ValidationError rejects an incoming request. Nothing has been stored.
func ValidationError(message string) *APIError {
	return &APIError{Code: ErrorCodeValidationFailed, Message: message, StatusCode: http.StatusBadRequest}
}

// NoDataError reports an export over a window with no readings.
func NoDataError(message string) *APIError {
	return &APIError{Code: ErrorCodeNoData, Message: message, StatusCode: http.StatusNotFound}
}

// PersistenceError wraps a store failure.
func PersistenceError(message string, err error) *APIError {
	return &APIError{Code: ErrorCodeInternalServerError, Message: message, StatusCode: http.StatusInternalServerError, Err: err}
}
