package events

import (
	"context"

	"github.com/serroba/shorturl/internal/shortener"
	"go.uber.org/zap"
)

// RecordWriter stores a record copy, typically in a cache.
type RecordWriter interface {
	Put(ctx context.Context, record *shortener.Record) error
}

// CacheWarmer fills the read cache as soon as a code is created.
type CacheWarmer struct {
	cache  RecordWriter
	logger *zap.Logger
}

// NewCacheWarmer creates a new cache warmer.
func NewCacheWarmer(cache RecordWriter, logger *zap.Logger) *CacheWarmer {
	return &CacheWarmer{
		cache:  cache,
		logger: logger,
	}
}

// Handle caches the record carried by event.
func (w *CacheWarmer) Handle(ctx context.Context, event *LinkCreated) error {
	if err := w.cache.Put(ctx, event.Record()); err != nil {
		return err
	}

	w.logger.Debug("warmed cache", zap.String("code", event.Code))

	return nil
}
