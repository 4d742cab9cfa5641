package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeInvalidRange, "range [3, 1) is inverted"),
			expected: "[INVALID_RANGE] range [3, 1) is inverted",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeInterrupted, "phase barrier interrupted", context.Canceled),
			expected: "[INTERRUPTED] phase barrier interrupted: context canceled",
		},
		{
			name:     "formatted message",
			err:      Newf(CodeVerifyFailed, "mismatch at index %d", 7),
			expected: "[VERIFY_FAILED] mismatch at index 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := Wrap(CodeInterrupted, "join interrupted", context.DeadlineExceeded)

	assert.Equal(t, context.DeadlineExceeded, err.Unwrap())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeInvalidRange, "error 1")
	err2 := New(CodeInvalidRange, "error 2")
	err3 := New(CodeInterrupted, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsInterrupted(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "interrupted error",
			err:      ErrInterrupted,
			expected: true,
		},
		{
			name:     "wrapped twice",
			err:      fmt.Errorf("bucket stage A: %w", Wrap(CodeInterrupted, "barrier", context.Canceled)),
			expected: true,
		},
		{
			name:     "other error",
			err:      ErrInvalidRange,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInterrupted(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsInvalidRange(New(CodeInvalidRange, "x")))
	assert.True(t, IsVerifyFailed(New(CodeVerifyFailed, "x")))
	assert.True(t, IsConfigError(Wrap(CodeConfigError, "x", errors.New("y"))))
	assert.False(t, IsConfigError(errors.New("plain")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeUnsupportedStrategy, GetErrorCode(ErrUnsupportedStrategy))
	assert.Equal(t, CodeInterrupted, GetErrorCode(fmt.Errorf("wrapped: %w", ErrInterrupted)))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "verification failed", GetErrorMessage(ErrVerifyFailed))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
