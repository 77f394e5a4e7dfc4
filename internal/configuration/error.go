package configuration

import "errors"

// ErrInvalidValue is an error that occurs when a configured value cannot be
// parsed for its key.
var ErrInvalidValue = errors.New("invalid configuration value")
