// Package errors provides custom error types for the playermap system.
// These errors enable programmatic error checking across the sync pipeline:
// fetch failures, registry storage failures, parse failures and the
// non-fatal data-quality warnings collected during a run.
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the playermap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates that an external source could not be fetched
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSourceUnavailable indicates that an external source is temporarily unavailable
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrStorage indicates that the registry file could not be loaded or saved
	ErrStorage = errors.New("registry storage failure")

	// ErrRegistryEmpty indicates a registry file with no data rows
	ErrRegistryEmpty = errors.New("registry has no data rows")

	// ErrDuplicateCode indicates two registry rows share a stable code
	ErrDuplicateCode = errors.New("duplicate stable code")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// FetchError represents a network or HTTP failure reaching an external source.
type FetchError struct {
	Source     string // "bootstrap", "crossref"
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	if target == ErrFetchFailed {
		return true
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// NewFetchError creates a new FetchError
func NewFetchError(source, url string, statusCode int, message string) *FetchError {
	return &FetchError{
		Source:     source,
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// StorageError represents a failure loading or saving the registry file.
type StorageError struct {
	Operation string // "load", "save"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("storage error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError creates a new StorageError
func NewStorageError(operation, path string, err error) *StorageError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &StorageError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "csv", "yaml"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string // "merge", "reconcile"
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// WarningKind classifies a data-quality warning.
type WarningKind string

// Data-quality warning kinds.
const (
	// WarningUnresolvedTeam is raised when a player's team code has no display name.
	WarningUnresolvedTeam WarningKind = "unresolved_team"

	// WarningMissingExternalID is raised for a player with minutes but no cross-reference id.
	WarningMissingExternalID WarningKind = "missing_external_id"

	// WarningExternalIDConflict is raised when the cross-reference source disagrees with a stored id.
	WarningExternalIDConflict WarningKind = "external_id_conflict"

	// WarningUnmatchedCode is raised for a stored code that can never be matched.
	WarningUnmatchedCode WarningKind = "unmatched_code"
)

// DataQualityWarning is a non-fatal finding accumulated during a run.
// It satisfies the error interface so it can be logged like one, but it is
// never returned as a failure.
type DataQualityWarning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Code    string      `json:"code,omitempty" yaml:"code,omitempty"`
	Name    string      `json:"name,omitempty" yaml:"name,omitempty"`
	Message string      `json:"message" yaml:"message"`
}

// Error implements the error interface
func (w *DataQualityWarning) Error() string {
	if w.Code != "" {
		return fmt.Sprintf("data quality (%s) for code %s: %s", w.Kind, w.Code, w.Message)
	}
	return fmt.Sprintf("data quality (%s): %s", w.Kind, w.Message)
}

// NewDataQualityWarning creates a new DataQualityWarning
func NewDataQualityWarning(kind WarningKind, code, name, message string) *DataQualityWarning {
	return &DataQualityWarning{
		Kind:    kind,
		Code:    code,
		Name:    name,
		Message: message,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFetchError checks if an error came from reaching an external source
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsStorageError checks if an error came from the registry store
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsSourceUnavailable checks if an error indicates source unavailability
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsDataQualityWarning extracts a DataQualityWarning from err.
func AsDataQualityWarning(err error) (*DataQualityWarning, bool) {
	var w *DataQualityWarning
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}

// Helper wrapping functions for common patterns

// WrapStorage wraps an error as a StorageError
func WrapStorage(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewStorageError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapFetch wraps a transport error as a FetchError
func WrapFetch(source, url string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{
		Source:  source,
		URL:     url,
		Message: err.Error(),
		Err:     err,
	}
}
