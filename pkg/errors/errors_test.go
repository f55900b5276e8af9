package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   NotFound("Booking"),
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name:     "with wrapped error",
			appErr:   Internal("Failed to update booking", fmt.Errorf("connection reset")),
			expected: "INTERNAL_ERROR: Failed to update booking (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		appErr *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Route"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("price must be positive"), CodeInvalidInput, http.StatusBadRequest},
		{"forbidden", Forbidden("session credential mismatch"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("route already exists"), CodeConflict, http.StatusConflict},
		{"validation", Validation("invalid booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"unauthorized", Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.appErr.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.appErr.Code, tt.code)
			}
			if tt.appErr.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.appErr.StatusCode(), tt.status)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("write conflict")
	appErr := Internal("transaction failed", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	appErr := NotFoundWithID("Booking", "abc123")

	if appErr.Details["resource"] != "Booking" {
		t.Errorf("Details[resource] = %v, want Booking", appErr.Details["resource"])
	}
	if appErr.Details["id"] != "abc123" {
		t.Errorf("Details[id] = %v, want abc123", appErr.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("duplicate tracking code")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the same AppError unchanged")
	}

	plain := fmt.Errorf("some db failure")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("wrapped Code = %q, want %q", wrapped.Code, CodeInternal)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should keep the original cause")
	}
}
