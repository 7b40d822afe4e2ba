// Package events carries short URL lifecycle events between the API and background consumers.
package events

import (
	"time"

	"github.com/serroba/shorturl/internal/shortener"
)

// TopicLinkCreated is published once per newly allocated code.
const TopicLinkCreated = "shorturl.created"

// LinkCreated is published after a new record is persisted.
type LinkCreated struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// NewLinkCreated builds the event for record.
func NewLinkCreated(record *shortener.Record) *LinkCreated {
	return &LinkCreated{
		Code:        string(record.Code),
		OriginalURL: record.OriginalURL,
		CreatedAt:   record.CreatedAt,
		ExpiresAt:   record.ExpiresAt,
	}
}

// Record converts the event back into the stored record.
func (e *LinkCreated) Record() *shortener.Record {
	return &shortener.Record{
		Code:        shortener.Code(e.Code),
		OriginalURL: e.OriginalURL,
		CreatedAt:   e.CreatedAt,
		ExpiresAt:   e.ExpiresAt,
	}
}
