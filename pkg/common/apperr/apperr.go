package apperr

import (
	"github.com/pkg/errors"
)

// Error codes for queue and dispatch failures.
const (
	CodeInvalidConfig = 1001
	CodeQueueRejected = 1002
	CodePublishFailed = 1003
	CodeSinkFailed    = 1004
	CodeClosed        = 1005
)

// AppError is a coded error carrying an optional cause with a stack trace.
type AppError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError with the given code and message.
func New(code int, msg string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Cause:   cause,
	}
}

// Wrap annotates err with a code and message, capturing a stack trace.
func Wrap(err error, code int, msg string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: msg,
		Cause:   errors.WithStack(err),
	}
}

// Code extracts the error code from err, or 0 if err is not an AppError.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
