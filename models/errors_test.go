package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestScrapeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ScrapeError
		want string
	}{
		{
			name: "without cause",
			err:  NewScrapeError(ErrCodeConfiguration, "bad proxy", nil),
			want: "CONFIGURATION_ERROR: bad proxy",
		},
		{
			name: "with cause",
			err:  NewScrapeError(ErrCodeAcquisition, "navigation failed", errors.New("timeout")),
			want: "ACQUISITION_FAILED: navigation failed: timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScrapeErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewScrapeError(ErrCodeAcquisition, "navigation failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestHasCode(t *testing.T) {
	err := NewScrapeError(ErrCodeState, "not started", nil)
	if !HasCode(err, ErrCodeState) {
		t.Error("HasCode should match the error's own code")
	}
	if HasCode(err, ErrCodeHTTP) {
		t.Error("HasCode should not match a different code")
	}

	wrapped := fmt.Errorf("retrieve: %w", err)
	if !HasCode(wrapped, ErrCodeState) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}

	if HasCode(errors.New("plain"), ErrCodeState) {
		t.Error("HasCode should reject non-ScrapeError values")
	}
}

func TestStatusCode(t *testing.T) {
	err := NewHTTPError(404, "https://example.com/missing")
	if got := StatusCode(err); got != 404 {
		t.Errorf("StatusCode() = %d, want 404", got)
	}
	if got := StatusCode(ErrNotStarted("RetrieveHTML")); got != 0 {
		t.Errorf("StatusCode() for non-HTTP error = %d, want 0", got)
	}
}

func TestErrNotStarted(t *testing.T) {
	err := ErrNotStarted("RetrieveHTML")
	if err.Code != ErrCodeState {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeState)
	}
	if err.Message == "" {
		t.Error("Message should name the failing operation")
	}
}
