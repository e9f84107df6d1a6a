package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	err := TimeConflict("there is already a booking for this time")
	if !Is(err, ErrTimeConflict) {
		t.Error("expected TimeConflict to match ErrTimeConflict")
	}
	if Is(err, ErrNotFound) {
		t.Error("TimeConflict should not match ErrNotFound")
	}
}

func TestWrappedMatching(t *testing.T) {
	inner := NotFound("amenity 60d21b4667d0d8992e610c51 not found")
	wrapped := fmt.Errorf("admit booking: %w", inner)
	if !Is(wrapped, ErrNotFound) {
		t.Error("expected wrapped error to match ErrNotFound")
	}

	var domainErr *Error
	if !As(wrapped, &domainErr) {
		t.Fatal("expected As to extract *Error")
	}
	if domainErr.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", domainErr.Code, CodeNotFound)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk read failed")
	err := Wrap(cause, CodeStoreUnavailable, "directory store unavailable")
	if !stderrors.Is(err, cause) {
		t.Error("expected Wrap to preserve the cause chain")
	}
	if !Is(err, ErrStoreUnavailable) {
		t.Error("expected wrapped error to match ErrStoreUnavailable")
	}
	want := "directory store unavailable: disk read failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeNotAssigned, http.StatusNotFound},
		{CodeInvalidIdentifier, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotBookable, http.StatusUnprocessableEntity},
		{CodeOutsideHours, http.StatusUnprocessableEntity},
		{CodeTimeConflict, http.StatusConflict},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeStoreUnavailable, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWithDetails(t *testing.T) {
	base := Validation("request validation failed")
	detailed := base.WithDetails(map[string]string{"timeStart": "must be HH:MM"})
	if detailed.Details == nil {
		t.Error("expected details to be set")
	}
	if base.Details != nil {
		t.Error("WithDetails must not mutate the original error")
	}
	if !Is(detailed, ErrValidation) {
		t.Error("detailed error should still match ErrValidation")
	}
}
