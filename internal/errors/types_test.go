package errors

import (
	"errors"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  string
	}{
		{"Validation", ErrorTypeValidation, "validation"},
		{"NotFound", ErrorTypeNotFound, "not_found"},
		{"Storage", ErrorTypeStorage, "storage"},
		{"InvalidInput", ErrorTypeInvalidInput, "invalid_input"},
		{"Timeout", ErrorTypeTimeout, "timeout"},
		{"QuotaExceeded", ErrorTypeQuotaExceeded, "quota_exceeded"},
		{"CapabilityUnavailable", ErrorTypeCapabilityUnavailable, "capability_unavailable"},
		{"Unknown", ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.errorType.String(); got != tt.expected {
				t.Errorf("ErrorType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "Error without cause",
			appError: &AppError{
				Type:    ErrorTypeValidation,
				Message: "content is required",
			},
			expected: "validation: content is required",
		},
		{
			name: "Error with cause",
			appError: &AppError{
				Type:    ErrorTypeStorage,
				Message: "write failed",
				Cause:   errors.New("disk full"),
			},
			expected: "storage: write failed (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appError.Error(); got != tt.expected {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	appError := &AppError{Type: ErrorTypeStorage, Message: "write failed", Cause: cause}

	if appError.Unwrap() != cause {
		t.Errorf("AppError.Unwrap() = %v, want %v", appError.Unwrap(), cause)
	}
	if !errors.Is(appError, cause) {
		t.Errorf("errors.Is should see through AppError to its cause")
	}
}

func TestAppError_Is(t *testing.T) {
	quota1 := NewQuotaExceededError("tasks", 10, 5)
	quota2 := NewQuotaExceededError("other", 99, 1)
	storage := NewStorageError("save", nil)

	tests := []struct {
		name     string
		err      *AppError
		target   error
		expected bool
	}{
		{"Same type and code", quota1, quota2, true},
		{"Different type", quota1, storage, false},
		{"Regular error", quota1, errors.New("regular"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Is(tt.target); got != tt.expected {
				t.Errorf("AppError.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Context(t *testing.T) {
	appError := &AppError{Type: ErrorTypeValidation, Message: "bad"}

	if _, exists := appError.GetContext("field"); exists {
		t.Errorf("GetContext should return false when context is nil")
	}

	result := appError.WithContext("field", "content")
	if result != appError {
		t.Errorf("WithContext should return the same instance")
	}

	value, exists := appError.GetContext("field")
	if !exists || value != "content" {
		t.Errorf("GetContext(field) = %v, %v; want content, true", value, exists)
	}
	if _, exists := appError.GetContext("missing"); exists {
		t.Errorf("GetContext should return false for a missing key")
	}
}
