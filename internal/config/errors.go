package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidValue indicates a field value outside its declared domain.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrUnsupportedBackend indicates a model backend outside the supported set.
	ErrUnsupportedBackend = errors.New("unsupported model backend")

	// ErrDirectoryCreation indicates a required output directory could not be created.
	ErrDirectoryCreation = errors.New("directory creation failed")

	// ErrAlreadyInitialized is returned by Initialize when the global configuration exists.
	ErrAlreadyInitialized = errors.New("configuration already initialized")
)

// ValidationError reports a single field whose value violates its domain.
type ValidationError struct {
	Field  string // dotted key, e.g. gemini.temperature
	Value  string // offending value as received
	Domain string // expected domain, e.g. [0.0, 2.0]
}

// Error returns formatted error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s': value %s is outside domain %s", e.Field, e.Value, e.Domain)
}

// Unwrap returns ErrInvalidValue.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

// UnsupportedBackendError is returned for backend names outside SupportedBackends.
type UnsupportedBackendError struct {
	Backend string
}

// Error returns formatted error message
func (e *UnsupportedBackendError) Error() string {
	names := make([]string, 0, len(supportedBackends))
	for _, b := range supportedBackends {
		names = append(names, string(b))
	}
	return fmt.Sprintf("unsupported model backend %q (supported: %s)", e.Backend, strings.Join(names, ", "))
}

// Unwrap returns ErrUnsupportedBackend.
func (e *UnsupportedBackendError) Unwrap() error {
	return ErrUnsupportedBackend
}

// DirectoryCreationError wraps the filesystem error for a directory that could not be created.
type DirectoryCreationError struct {
	Path string
	Err  error
}

// Error returns formatted error message
func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("create directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DirectoryCreationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDirectoryCreation) hold.
func (e *DirectoryCreationError) Is(target error) bool {
	return target == ErrDirectoryCreation
}

// LoadError wraps failures to read or parse a configuration file.
type LoadError struct {
	File string
	Err  error
}

// Error returns formatted error message
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}
