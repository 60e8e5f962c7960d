package models

import (
	"errors"
	"fmt"
)

// Error codes used across the scraper and identity packages.
const (
	// ErrCodeConfiguration covers bad construction input: malformed proxy,
	// unsupported browser engine, invalid user-agent catalog. Always fatal
	// to construction, never retried.
	ErrCodeConfiguration = "CONFIGURATION_ERROR"

	// ErrCodeState marks an operation attempted on a session that was never
	// started or was already quit. A programming error, not a runtime one.
	ErrCodeState = "STATE_ERROR"

	// ErrCodeHTTP marks a non-success HTTP status from the direct strategy.
	// The status code is carried on the error.
	ErrCodeHTTP = "HTTP_ERROR"

	// ErrCodeAcquisition marks a browser navigation failure in the rendered
	// strategy, surfaced as-is from the driver.
	ErrCodeAcquisition = "ACQUISITION_FAILED"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Status  int // HTTP status code, set only for ErrCodeHTTP
	Err     error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// NewHTTPError creates a ScrapeError for a non-success HTTP response.
func NewHTTPError(status int, url string) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeHTTP,
		Message: fmt.Sprintf("HTTP %d for %s", status, url),
		Status:  status,
	}
}

// ErrNotStarted is the StateError returned when a session-dependent
// operation runs before Start or after Quit.
func ErrNotStarted(op string) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeState,
		Message: fmt.Sprintf("%s requires a started session: call Start() first", op),
	}
}

// HasCode reports whether err is (or wraps) a ScrapeError with the given code.
func HasCode(err error, code string) bool {
	var se *ScrapeError
	return errors.As(err, &se) && se.Code == code
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// HTTP_ERROR.
func StatusCode(err error) int {
	var se *ScrapeError
	if errors.As(err, &se) && se.Code == ErrCodeHTTP {
		return se.Status
	}
	return 0
}
