// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown             = "UNKNOWN_ERROR"
	CodeInvalidRange        = "INVALID_RANGE"
	CodeInterrupted         = "INTERRUPTED"
	CodeVerifyFailed        = "VERIFY_FAILED"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeConfigError         = "CONFIG_ERROR"
	CodeUnsupportedStrategy = "UNSUPPORTED_STRATEGY"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrInvalidRange        = New(CodeInvalidRange, "invalid range")
	ErrInterrupted         = New(CodeInterrupted, "sort interrupted")
	ErrVerifyFailed        = New(CodeVerifyFailed, "verification failed")
	ErrInvalidInput        = New(CodeInvalidInput, "invalid input")
	ErrConfigError         = New(CodeConfigError, "configuration error")
	ErrUnsupportedStrategy = New(CodeUnsupportedStrategy, "unsupported strategy")
)

// IsInvalidRange checks if the error is an invalid range error.
func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsInterrupted checks if the error is an interrupted wait.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// IsVerifyFailed checks if the error is a verification failure.
func IsVerifyFailed(err error) bool {
	return errors.Is(err, ErrVerifyFailed)
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigError)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
