package modelroute

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("modelroute: invalid config")
	ErrUnknownModel  = errors.New("modelroute: unknown model")
)

// ConfigError wraps a configuration problem with the offending field path.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("modelroute: config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}
