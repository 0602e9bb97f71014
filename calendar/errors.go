/*
errors.go - Centralized error types for the calendar engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Host packages (factory, store, api) wrap these with their own context.

ERROR POLICY:
  Validation errors are detected eagerly when a Model is loaded and are
  fatal to that Model. Per-call conversion functions are total and never
  fail; lookups that can miss (festival, season, era, moon index) return
  a found/ok result instead of an error wherever the miss is an expected
  state. Warnings (era overlaps, skipped malformed cycles) are values,
  not errors - the model stays usable.

USAGE:
  if errors.Is(err, calendar.ErrInvalidModel) { ... }

SEE ALSO:
  - validate.go: Produces these errors
*/
package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidModel is the root of every model validation failure.
	ErrInvalidModel = errors.New("invalid calendar model")

	// ErrUnknownMoon is returned when a moon index is out of range.
	ErrUnknownMoon = errors.New("unknown moon index")

	// ErrNotValidated is returned when a Converter is built from a model
	// that has not passed Validate.
	ErrNotValidated = errors.New("calendar model not validated")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigurationError describes one malformed field of a Model.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidModel }
