package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl/internal/shortener"
	"go.uber.org/zap"
)

// RecordCache keeps copies of records in Redis with a bounded TTL.
type RecordCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	clock  shortener.Clock
}

// NewRecordCache creates a cache whose entries live at most ttl.
func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	return &RecordCache{
		client: client,
		prefix: "cache:url:",
		ttl:    ttl,
		clock:  shortener.SystemClock{},
	}
}

// Get returns the cached record or shortener.ErrNotFound on a miss.
func (c *RecordCache) Get(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	fields, err := c.client.HGetAll(ctx, c.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	return parseRecord(fields)
}

// Put caches record until the earlier of the cache TTL and the record's own expiry.
// Expired records are not cached.
func (c *RecordCache) Put(ctx context.Context, record *shortener.Record) error {
	ttl := c.ttl

	if remaining := record.ExpiresAt.Sub(c.clock.Now()); remaining < ttl {
		ttl = remaining
	}

	if ttl <= 0 {
		return nil
	}

	key := c.prefix + string(record.Code)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, recordFields(record))
		pipe.Expire(ctx, key, ttl)

		return nil
	})

	return err
}

const (
	// DefaultCacheTimeout caps a single cache round trip.
	DefaultCacheTimeout = 250 * time.Millisecond

	// A cache call may use at most 1/cacheBudgetShare of the caller's remaining deadline.
	cacheBudgetShare = 4
)

// CachedRepository wraps a Repository with Redis read-through caching of code lookups.
// Cache calls run under their own short deadline so a slow cache never consumes the
// budget of the underlying store read.
type CachedRepository struct {
	store        shortener.Repository
	cache        *RecordCache
	cacheTimeout time.Duration
	logger       *zap.Logger
}

// NewCachedRepository creates a new Redis-cached repository decorator.
func NewCachedRepository(store shortener.Repository, cache *RecordCache, logger *zap.Logger) *CachedRepository {
	return &CachedRepository{
		store:        store,
		cache:        cache,
		cacheTimeout: DefaultCacheTimeout,
		logger:       logger,
	}
}

// GetByCode checks the cache first and populates it on a miss.
func (r *CachedRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	cacheCtx, cancel := r.cacheContext(ctx)
	record, err := r.cache.Get(cacheCtx, code)

	cancel()

	if err == nil {
		return record, nil
	}

	if !errors.Is(err, shortener.ErrNotFound) {
		r.logger.Warn("cache read failed", zap.String("code", string(code)), zap.Error(err))
	}

	record, err = r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	cacheCtx, cancel = r.cacheContext(ctx)
	defer cancel()

	if err = r.cache.Put(cacheCtx, record); err != nil {
		r.logger.Warn("cache write failed", zap.String("code", string(code)), zap.Error(err))
	}

	return record, nil
}

func (r *CachedRepository) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.cacheTimeout

	if deadline, ok := ctx.Deadline(); ok {
		if share := time.Until(deadline) / cacheBudgetShare; share < timeout {
			timeout = share
		}
	}

	return context.WithTimeout(ctx, timeout)
}

// FindByOriginalURL always reads the underlying store so dedup sees every record.
func (r *CachedRepository) FindByOriginalURL(ctx context.Context, url string) (*shortener.Record, error) {
	return r.store.FindByOriginalURL(ctx, url)
}

// Create writes to the underlying store only; events warm the cache.
func (r *CachedRepository) Create(ctx context.Context, record *shortener.Record) error {
	return r.store.Create(ctx, record)
}

// Compile-time check.
var _ shortener.Repository = (*CachedRepository)(nil)
