package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/serroba/shorturl/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository and shortener.Counter.
// Records never get a Redis TTL: expiry is evaluated by the service on read.
type RedisStore struct {
	client      *redis.Client
	counterKey  string // INCR counter
	prefix      string // "url:" + code -> record hash
	indexPrefix string // "url_index:" + sha256(url) -> latest code
	maxRetries  uint64
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:      client,
		counterKey:  "counter:" + DefaultCounterName,
		prefix:      "url:",
		indexPrefix: "url_index:",
		maxRetries:  defaultTxRetries,
	}
}

// IncrementAndGet relies on INCR, which is atomic and creates the key at 1 on first use.
func (r *RedisStore) IncrementAndGet(ctx context.Context) (uint64, error) {
	value, err := r.client.Incr(ctx, r.counterKey).Result()
	if err != nil {
		return 0, err
	}

	return uint64(value), nil
}

// Create writes the record and its reverse index under WATCH so an existing code is never
// overwritten. A concurrent write to the key aborts the transaction, which is retried.
func (r *RedisStore) Create(ctx context.Context, record *shortener.Record) error {
	key := r.prefix + string(record.Code)
	indexKey := r.indexPrefix + shortener.HashURL(record.OriginalURL)

	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(txRetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			exists, err := tx.Exists(ctx, key).Result()
			if err != nil {
				return err
			}

			if exists > 0 {
				return shortener.ErrCodeExists
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, recordFields(record))
				pipe.Set(ctx, indexKey, string(record.Code), 0)

				return nil
			})

			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			return retry.RetryableError(err)
		}

		return err
	})
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	return parseRecord(fields)
}

func (r *RedisStore) FindByOriginalURL(ctx context.Context, url string) (*shortener.Record, error) {
	code, err := r.client.Get(ctx, r.indexPrefix+shortener.HashURL(url)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.GetByCode(ctx, shortener.Code(code))
}

// Compile-time checks.
var (
	_ shortener.Repository = (*RedisStore)(nil)
	_ shortener.Counter    = (*RedisStore)(nil)
)
