package entities

import "errors"

var (
	// ErrMissingRequiredValue is returned when a required deployment parameter
	// has neither an environment value nor a CLI value.
	ErrMissingRequiredValue = errors.New("missing required value")

	// ErrInvalidConfiguration is returned when the supplied options contradict
	// each other or are malformed. It is always raised before any remote call.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrServerNotFound is returned when the target server cannot be looked up.
	ErrServerNotFound = errors.New("server not found")
)
