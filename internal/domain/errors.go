package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, odometer ordering violation).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrSessionConflict is returned when a tracking operation is attempted in
// the wrong state: starting a session while one is already live, or stopping
// when none is. The live session, if any, is left untouched.
// Handlers should map this to HTTP 409 Conflict.
var ErrSessionConflict = errors.New("tracking session conflict")

// ErrNoActiveVehicle is returned by operations that need a selected vehicle
// (export, selection-scoped reads) when none has been selected yet.
// Handlers should map this to HTTP 409 Conflict.
var ErrNoActiveVehicle = errors.New("no active vehicle selected")

// ErrNoActivePeriod is returned when a vehicle has no active logbook period.
// Handlers should map this to HTTP 404.
var ErrNoActivePeriod = errors.New("no active logbook period")

// ValidationErrors collects every rule violation found in a single input so
// the caller can surface all of them at once instead of one per round trip.
// It matches ErrValidation under errors.Is, so handlers and tests can treat
// single- and multi-message validation failures uniformly.
type ValidationErrors []string

// Error joins all messages into one string for logging and wrapping.
func (v ValidationErrors) Error() string {
	return "validation error: " + strings.Join(v, "; ")
}

// Is reports whether target is ErrValidation, making
// errors.Is(err, ErrValidation) true for any ValidationErrors value.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
