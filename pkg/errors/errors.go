// Package errors provides custom error types for the tokenmap build.
// Every error kind is fatal to a build run; the types exist so callers and
// tests can tell which source, address or field caused the failure.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the tokenmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates that a source could not be fetched
	ErrFetchFailed = errors.New("source fetch failed")

	// ErrMissingField indicates that a synthetic token lacks a required field
	ErrMissingField = errors.New("missing required field")

	// ErrMarketData indicates that a market data request failed
	ErrMarketData = errors.New("market data unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates that a remote endpoint is temporarily unavailable
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
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
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SchemaValidationError reports a record from a source that is missing a
// required field or carries a malformed one.
type SchemaValidationError struct {
	Source  string // source ID, e.g. "contract_map"
	Record  string // address, file name or map key identifying the record
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *SchemaValidationError) Error() string {
	msg := fmt.Sprintf("schema validation failed in %s", e.Source)
	if e.Record != "" {
		msg += fmt.Sprintf(" for record %s", e.Record)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	return msg + ": " + e.Message
}

// Unwrap implements errors.Unwrap
func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewSchemaValidationError creates a new SchemaValidationError
func NewSchemaValidationError(source, record, field, message string) *SchemaValidationError {
	return &SchemaValidationError{Source: source, Record: record, Field: field, Message: message}
}

// SourceFetchError represents a failed repository checkout or HTTP fetch.
type SourceFetchError struct {
	Source string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *SourceFetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("failed to fetch source %s from %s: %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch source %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceFetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// NewSourceFetchError creates a new SourceFetchError
func NewSourceFetchError(source, url string, err error) *SourceFetchError {
	return &SourceFetchError{Source: source, URL: url, Err: err}
}

// MissingSyntheticFieldError is returned when an override introduces an
// address unknown to every source without supplying a required field.
type MissingSyntheticFieldError struct {
	Address string
	Field   string
}

// Error implements the error interface
func (e *MissingSyntheticFieldError) Error() string {
	return fmt.Sprintf("override %s adds a new token but is missing required field %q", e.Address, e.Field)
}

// Is implements errors.Is support
func (e *MissingSyntheticFieldError) Is(target error) bool {
	return target == ErrMissingField || target == ErrInvalidInput
}

// MarketDataError represents a failed market data batch.
type MarketDataError struct {
	Batch int // zero-based batch index, -1 for the id listing request
	IDs   int // number of ids in the batch
	Err   error
}

// Error implements the error interface
func (e *MarketDataError) Error() string {
	if e.Batch < 0 {
		return fmt.Sprintf("market data id listing failed: %v", e.Err)
	}
	return fmt.Sprintf("market data batch %d (%d ids) failed: %v", e.Batch, e.IDs, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MarketDataError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MarketDataError) Is(target error) bool {
	return target == ErrMarketData
}

// APIError represents a non-success response from a remote endpoint
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
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

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "svg"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	Err       error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
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

// IsFetchError checks if an error came from a failed source fetch
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsMarketDataError checks if an error came from the market data service
func IsMarketDataError(err error) bool {
	return errors.Is(err, ErrMarketData)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Message: err.Error(), Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapFetch wraps an error as a SourceFetchError
func WrapFetch(source, url string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceFetchError(source, url, err)
}
