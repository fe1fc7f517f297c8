package gen

import (
	"errors"
	"fmt"
)

// Sentinel errors for generation failures.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("prismatic: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("prismatic: code generation failed")
)

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("prismatic: config error on option %s: %s (value: %v)", e.Option, e.Message, e.Value)
	}
	return fmt.Sprintf("prismatic: config error on option %s: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}
