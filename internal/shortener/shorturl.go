package shortener

import "time"

// DefaultTTL is how long a short code stays resolvable after creation.
const DefaultTTL = 30 * 24 * time.Hour

// Code represents a short URL code.
type Code string

// Record is the stored mapping from a short code to its original URL.
// Records are immutable once created.
type Record struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpired reports whether the record is no longer resolvable at now.
func (r *Record) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
