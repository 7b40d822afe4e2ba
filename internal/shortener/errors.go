package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the input is not an absolute URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNotConfigured is returned when no store is wired into the service.
	ErrNotConfigured = errors.New("url store is not configured")

	// ErrStoreUnavailable wraps transient store failures. Callers may retry the whole operation.
	ErrStoreUnavailable = errors.New("url store unavailable")

	// ErrNotFound covers both missing and expired codes.
	ErrNotFound = errors.New("url not found")

	// ErrReservedCode is returned for well-known paths that are never short codes.
	ErrReservedCode = errors.New("reserved path")

	// ErrCodeExists is returned by a Repository when a record is already stored under the code.
	ErrCodeExists = errors.New("short code already exists")
)
