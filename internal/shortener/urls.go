package shortener

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

var reservedPaths = []string{"favicon.ico", "robots.txt", "sitemap.xml"}

// ReservedPaths returns the well-known request paths that are never treated as codes.
func ReservedPaths() []string {
	out := make([]string, len(reservedPaths))
	copy(out, reservedPaths)

	return out
}

// IsReserved reports whether token is a well-known path rather than a short code.
func IsReserved(token string) bool {
	for _, p := range reservedPaths {
		if token == p {
			return true
		}
	}

	return false
}

// ValidateURL checks that rawURL is an absolute URL with a host.
// The input is returned unchanged: deduplication matches the exact string.
func ValidateURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	if !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidURL
	}

	return rawURL, nil
}

// HashURL returns the hex-encoded SHA256 of the exact URL string.
// Stores use it as a bounded-size index key for reverse lookups.
func HashURL(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))

	return hex.EncodeToString(h[:])
}
