// Package catalogerr defines the typed error categories shared across the
// catalog, duplicate engine, organizer, scanner and profile manager.
// Callers distinguish categories with errors.Is; wrapping with fmt.Errorf
// keeps the sentinel reachable while attaching operation context.
package catalogerr

import "errors"

var (
	// ErrNotFound indicates the addressed record or profile does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateFilePath indicates a unique file_path constraint violation.
	ErrDuplicateFilePath = errors.New("duplicate file path")

	// ErrInvalidTemplate indicates a path template failed to parse or validate.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidConfig indicates an out-of-range threshold or empty required field.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrIO indicates an underlying file system or database error.
	ErrIO = errors.New("io error")

	// ErrCancelled indicates a caller-initiated termination; a normal outcome.
	ErrCancelled = errors.New("cancelled")

	// ErrInternal indicates an unexpected, unrecoverable condition.
	ErrInternal = errors.New("internal error")
)
