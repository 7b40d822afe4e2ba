package shortener

import "context"

// Repository stores URL records keyed by code.
type Repository interface {
	// GetByCode returns the record stored under code, expired or not.
	// Returns ErrNotFound if no record exists.
	GetByCode(ctx context.Context, code Code) (*Record, error)

	// FindByOriginalURL returns one record whose OriginalURL equals url exactly.
	// No expiry filtering is applied. Returns ErrNotFound if none exists.
	FindByOriginalURL(ctx context.Context, url string) (*Record, error)

	// Create stores a new record. Returns ErrCodeExists instead of overwriting.
	Create(ctx context.Context, record *Record) error
}

// Counter is the durable allocation sequence behind short codes.
type Counter interface {
	// IncrementAndGet atomically adds one to the counter and returns the new value.
	// The first call on an empty store returns 1.
	IncrementAndGet(ctx context.Context) (uint64, error)
}
