package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/serroba/shorturl/internal/shortener"
)

func recordFields(record *shortener.Record) map[string]any {
	return map[string]any{
		"code":         string(record.Code),
		"original_url": record.OriginalURL,
		"created_at":   record.CreatedAt.UnixNano(),
		"expires_at":   record.ExpiresAt.UnixNano(),
	}
}

func parseRecord(fields map[string]string) (*shortener.Record, error) {
	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	createdAt, err := parseNanos(fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	expiresAt, err := parseNanos(fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("expires_at: %w", err)
	}

	return &shortener.Record{
		Code:        shortener.Code(fields["code"]),
		OriginalURL: fields["original_url"],
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}, nil
}

func parseNanos(s string) (time.Time, error) {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(0, nanos).UTC(), nil
}
