// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// ValidationError indicates the command registry or a config document failed validation.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// InvariantError indicates a programmer error in how collaborators were wired,
// such as an injector that builds something that is not an executable command.
// It is never caused by sender input.
type InvariantError struct {
	Cause       error
	CommandType command.CommandType
	Message     string
}

func (e *InvariantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invariant violated for %s: %s: %v", e.CommandType, e.Message, e.Cause)
	}
	return fmt.Sprintf("invariant violated for %s: %s", e.CommandType, e.Message)
}

func (e *InvariantError) Unwrap() error {
	return e.Cause
}

// NewInvariantError creates a new invariant error.
func NewInvariantError(t command.CommandType, message string, cause error) *InvariantError {
	return &InvariantError{
		CommandType: t,
		Message:     message,
		Cause:       cause,
	}
}

// ConfigurationError indicates system config or setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}

// PermissionsFileError indicates the permissions document could not be read or is malformed.
type PermissionsFileError struct {
	Cause error
	Path  string
}

func (e *PermissionsFileError) Error() string {
	return fmt.Sprintf("permissions file %s: %v", e.Path, e.Cause)
}

func (e *PermissionsFileError) Unwrap() error {
	return e.Cause
}

// NewPermissionsFileError creates a new permissions file error.
func NewPermissionsFileError(path string, cause error) *PermissionsFileError {
	return &PermissionsFileError{Path: path, Cause: cause}
}
