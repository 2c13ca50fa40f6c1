package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks configuration problems detected before traversal.
	ErrConfig = errors.New("invalid configuration")
	// ErrOutputWrite marks failures creating or writing the destination document.
	ErrOutputWrite = errors.New("output write failed")
)

// ConfigError names the offending setting and value.
type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (configError *ConfigError) Error() string {
	if configError.Value == "" {
		return fmt.Sprintf("%s: %s", configError.Field, configError.Message)
	}
	return fmt.Sprintf("%s %q: %s", configError.Field, configError.Value, configError.Message)
}

// Unwrap allows errors.Is(err, ErrConfig).
func (configError *ConfigError) Unwrap() error {
	return ErrConfig
}

// NewConfigError constructs a ConfigError.
func NewConfigError(field string, value string, message string) error {
	return &ConfigError{Field: field, Value: value, Message: message}
}
