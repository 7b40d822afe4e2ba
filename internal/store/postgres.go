package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"github.com/serroba/shorturl/internal/shortener"
)

const (
	// DefaultCounterName is the row holding the global allocation counter.
	DefaultCounterName = "global_url_counter"

	defaultTxRetries = 5
	txRetryBase      = 10 * time.Millisecond
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository and shortener.Counter.
type PostgresStore struct {
	pool        *pgxpool.Pool
	counterName string
	maxRetries  uint64
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:        pool,
		counterName: DefaultCounterName,
		maxRetries:  defaultTxRetries,
	}
}

// IncrementAndGet bumps the counter row in its own transaction. The upsert takes a row
// lock, so concurrent callers are serialized by Postgres. Serialization failures and
// deadlocks are retried with exponential backoff.
func (p *PostgresStore) IncrementAndGet(ctx context.Context) (uint64, error) {
	query := `
		INSERT INTO counters (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var value int64

	backoff := retry.WithMaxRetries(p.maxRetries, retry.NewExponential(txRetryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := pgx.BeginTxFunc(ctx, p.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
			return tx.QueryRow(ctx, query, p.counterName).Scan(&value)
		})
		if isTxConflict(err) {
			return retry.RetryableError(err)
		}

		return err
	})
	if err != nil {
		return 0, err
	}

	return uint64(value), nil
}

func (p *PostgresStore) Create(ctx context.Context, record *shortener.Record) error {
	query := `
		INSERT INTO short_urls (code, original_url, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		string(record.Code),
		record.OriginalURL,
		record.CreatedAt.UTC(),
		record.ExpiresAt.UTC(),
	)
	if isUniqueViolation(err) {
		return shortener.ErrCodeExists
	}

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	query := `
		SELECT code, original_url, created_at, expires_at
		FROM short_urls
		WHERE code = $1
	`

	return p.scanRecord(p.pool.QueryRow(ctx, query, string(code)))
}

// FindByOriginalURL prefers the record that stays valid the longest.
func (p *PostgresStore) FindByOriginalURL(ctx context.Context, url string) (*shortener.Record, error) {
	query := `
		SELECT code, original_url, created_at, expires_at
		FROM short_urls
		WHERE original_url = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	return p.scanRecord(p.pool.QueryRow(ctx, query, url))
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) scanRecord(row pgx.Row) (*shortener.Record, error) {
	var (
		record shortener.Record
		code   string
	)

	err := row.Scan(&code, &record.OriginalURL, &record.CreatedAt, &record.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	record.Code = shortener.Code(code)

	return &record, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "23505"
}

func isTxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// serialization_failure, deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// Compile-time checks.
var (
	_ shortener.Repository = (*PostgresStore)(nil)
	_ shortener.Counter    = (*PostgresStore)(nil)
)
