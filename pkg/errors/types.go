// Package errors provides typed errors for the recap tool.
//
// The types map to how failures propagate: configuration and date
// errors abort the run before any network call, item errors degrade a
// single record inside a batch, summary errors drop the narrative but
// keep the run alive, and render errors are fatal for the destination
// they name. All types implement the error interface and work with
// errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ConfigError represents a missing or invalid configuration value.
// It is always fatal and reported before any network call.
type ConfigError struct {
	Field   string // which config field has the issue
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	return errors.HasType(err, (*ConfigError)(nil))
}

// DateError represents a malformed or out-of-range date input.
type DateError struct {
	Input   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *DateError) Unwrap() error {
	return e.Cause
}

// NewDateError creates a new DateError.
func NewDateError(input, message string, cause error) *DateError {
	return &DateError{Input: input, Message: message, Cause: cause}
}

// IsDate reports whether err is (or wraps) a DateError.
func IsDate(err error) bool {
	return errors.HasType(err, (*DateError)(nil))
}

// ItemError represents the failure of a single per-item detail lookup
// inside a batch. It is recovered locally by degrading that one
// record and is never propagated out of the adapter.
type ItemError struct {
	Source string // "github" or "linear"
	Item   string // identifier of the record that degraded
	Cause  error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s detail lookup for %s failed: %v", e.Source, e.Item, e.Cause)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ItemError) Unwrap() error {
	return e.Cause
}

// NewItemError creates a new ItemError.
func NewItemError(source, item string, cause error) *ItemError {
	return &ItemError{Source: source, Item: item, Cause: cause}
}

// SummaryError represents a failed narrative generation. Callers
// decide whether to continue without the narrative or abort.
type SummaryError struct {
	Operation  string // e.g., "SummarizeReport"
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *SummaryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ai %s failed (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ai %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *SummaryError) Unwrap() error {
	return e.Cause
}

// NewSummaryError creates a new SummaryError.
func NewSummaryError(operation, message string) *SummaryError {
	return &SummaryError{Operation: operation, Message: message}
}

// NewSummaryErrorWithStatus creates a new SummaryError carrying an
// HTTP status code.
func NewSummaryErrorWithStatus(operation string, statusCode int, message string) *SummaryError {
	return &SummaryError{Operation: operation, StatusCode: statusCode, Message: message}
}

// NewSummaryErrorWithCause creates a new SummaryError with an
// underlying cause.
func NewSummaryErrorWithCause(operation, message string, cause error) *SummaryError {
	return &SummaryError{Operation: operation, Message: message, Cause: cause}
}

// IsSummary reports whether err is (or wraps) a SummaryError.
func IsSummary(err error) bool {
	return errors.HasType(err, (*SummaryError)(nil))
}

// RenderError represents a failed write to an output destination,
// whether a local file or the Notion workspace.
type RenderError struct {
	Target  string // e.g., "file", "notion"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render to %s failed: %s", e.Target, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError.
func NewRenderError(target, message string, cause error) *RenderError {
	return &RenderError{Target: target, Message: message, Cause: cause}
}

// IsRender reports whether err is (or wraps) a RenderError.
func IsRender(err error) bool {
	return errors.HasType(err, (*RenderError)(nil))
}
