// Package sources contains the registry clients the aggregation service
// fans out to: the GDC tumor-mutation registry, the Ensembl population
// frequency endpoint and the cBioPortal cross-study registry.
package sources

import (
	"errors"
	"fmt"
)

// Source names as they appear in failed_sources and per-source metrics.
const (
	NameTumorRegistry = "tcga"
	NamePopulation    = "1000genomes"
	NameCrossStudy    = "cbioportal"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the registry took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the registry returned invalid/malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorOutage indicates the registry is unavailable
	ErrorOutage ErrorCategory = "provider_outage"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// SourceError wraps registry failures with normalized categorization
type SourceError struct {
	Category   ErrorCategory
	Source     string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// NewSourceError creates a new normalized source error
func NewSourceError(category ErrorCategory, source, message string, underlying error) *SourceError {
	return &SourceError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Category == ErrorTimeout ||
			se.Category == ErrorOutage ||
			se.Category == ErrorRateLimited
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Category
	}
	return ErrorInternal
}

// ErrCircuitOpen is returned when a source's circuit breaker is rejecting
// calls after repeated failures.
var ErrCircuitOpen = errors.New("source circuit open")
