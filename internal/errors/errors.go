// Package errors provides structured error handling for docscraper.
//
// Every failure is classified into one of four kinds that decide how the
// pipeline reacts:
//   - Config errors are fatal before any network activity.
//   - Discovery errors drop one sitemap's URLs and the run continues.
//   - Page errors drop one page's documents and the run continues.
//   - Engine errors are fatal for the current configuration.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for pipeline-level handling.
type Kind string

const (
	// KindConfig indicates an invalid or incomplete configuration.
	KindConfig Kind = "CONFIG"
	// KindDiscovery indicates a failed sitemap fetch or parse.
	KindDiscovery Kind = "DISCOVERY"
	// KindPage indicates a failed page fetch or parse.
	KindPage Kind = "PAGE"
	// KindEngine indicates a failed search-engine call.
	KindEngine Kind = "ENGINE"
	// KindInternal indicates an unexpected internal error.
	KindInternal Kind = "INTERNAL"
)

// Error is the structured error type for docscraper.
type Error struct {
	// Kind is the error classification.
	Kind Kind

	// Message is the human-readable error message.
	Message string

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by kind.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given kind and message.
func New(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(KindConfig, message, cause)
}

// DiscoveryError creates a sitemap-discovery error.
func DiscoveryError(message string, cause error) *Error {
	return New(KindDiscovery, message, cause)
}

// PageError creates a per-page fetch or parse error.
func PageError(message string, cause error) *Error {
	return New(KindPage, message, cause)
}

// EngineError creates a search-engine error.
func EngineError(message string, cause error) *Error {
	return New(KindEngine, message, cause)
}

// KindOf extracts the kind from an error chain.
// Returns KindInternal for errors not created by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
