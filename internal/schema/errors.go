package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the per-indicator failure taxonomy. Batch callers tag
// each indicator's outcome with one of these; none of them aborts a batch.
var (
	// ErrTableNotFound: the source HTML contained no table matching the
	// expected header shape.
	ErrTableNotFound = errors.New("table not found")

	// ErrNoReleaseData: parsed rows contained no realized value.
	ErrNoReleaseData = errors.New("no release data")
)

// ExtractionError reports a source shape mismatch. Not retried; unrecognized
// shapes fail closed rather than returning partial data.
type ExtractionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Source, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InsufficientHistoryError: the YoY transform found no usable year-ago
// anchor for an observation.
type InsufficientHistoryError struct {
	IndicatorID string
	Date        string
	Reason      string
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s at %s: %s", e.IndicatorID, e.Date, e.Reason)
}

// ConfigError: required configuration (e.g. a statistical API key) is
// missing or invalid. Fails fast, never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// ErrorEnvelope is the structured failure shape surfaced across component
// boundaries instead of raw errors.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Envelope wraps an error into the user-visible {status, message} form.
func Envelope(err error) ErrorEnvelope {
	return ErrorEnvelope{Status: "error", Message: err.Error()}
}
