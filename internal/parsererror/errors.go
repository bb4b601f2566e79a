// Package parsererror defines the error types of the statement import pipeline.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrIncompleteClassification is reported when a report is built before each
// of the recipient, date and amount roles has an owning column.
var ErrIncompleteClassification = errors.New("column classification incomplete: recipient, date and amount roles are required")

// ErrEmptyField marks a required cell that carried no value.
var ErrEmptyField = errors.New("empty value")

// ParseError represents a field-level parse failure for a single cell.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents an invalid configuration or roles profile.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// StateError is returned when a session operation is not allowed in the
// session's current state.
type StateError struct {
	Operation string
	State     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while report is %s", e.Operation, e.State)
}

// InvalidFormatError represents an input file that cannot be used as a
// statement at all (missing, a directory, not text).
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
