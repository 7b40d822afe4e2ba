package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shorturl/internal/shortener"
	"github.com/serroba/shorturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(code, url string, createdAt time.Time) *shortener.Record {
	return &shortener.Record{
		Code:        shortener.Code(code),
		OriginalURL: url,
		CreatedAt:   createdAt,
		ExpiresAt:   createdAt.Add(shortener.DefaultTTL),
	}
}

func TestMemoryStore_Create(t *testing.T) {
	t.Run("stores record", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Create(context.Background(), newRecord("1", "https://example.com", time.Now()))

		require.NoError(t, err)
	})

	t.Run("rejects overwrite of existing code", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newRecord("1", "https://old.com", time.Now()))

		err := s.Create(context.Background(), newRecord("1", "https://new.com", time.Now()))
		require.ErrorIs(t, err, shortener.ErrCodeExists)

		got, _ := s.GetByCode(context.Background(), "1")
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Create(ctx, newRecord("1", "https://example.com", time.Now()))

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryStore_GetByCode(t *testing.T) {
	t.Run("returns record when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		_ = s.Create(context.Background(), newRecord("abc", "https://example.com", created))

		got, err := s.GetByCode(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.Equal(t, created, got.CreatedAt)
		assert.Equal(t, created.Add(shortener.DefaultTTL), got.ExpiresAt)
	})

	t.Run("returns expired records too", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newRecord("old", "https://example.com", time.Now().Add(-90*24*time.Hour)))

		got, err := s.GetByCode(context.Background(), "old")

		require.NoError(t, err)
		assert.True(t, got.IsExpired(time.Now()))
	})

	t.Run("returns ErrNotFound when code does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		got, err := s.GetByCode(context.Background(), "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_FindByOriginalURL(t *testing.T) {
	t.Run("matches exact url", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newRecord("1", "https://example.com/a", time.Now()))

		got, err := s.FindByOriginalURL(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("1"), got.Code)

		_, err = s.FindByOriginalURL(context.Background(), "https://example.com/a/")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returns latest record for repeated url", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newRecord("1", "https://example.com", time.Now().Add(-40*24*time.Hour)))
		_ = s.Create(context.Background(), newRecord("2", "https://example.com", time.Now()))

		got, err := s.FindByOriginalURL(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("2"), got.Code)
	})
}

func TestMemoryStore_IncrementAndGet(t *testing.T) {
	t.Run("starts at one", func(t *testing.T) {
		s := store.NewMemoryStore()

		n, err := s.IncrementAndGet(context.Background())

		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)
	})

	t.Run("concurrent increments are distinct and contiguous", func(t *testing.T) {
		s := store.NewMemoryStore()

		const workers = 200

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[uint64]bool, workers)
		)

		for range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				n, err := s.IncrementAndGet(context.Background())
				assert.NoError(t, err)

				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}()
		}

		wg.Wait()

		assert.Len(t, seen, workers)

		for i := uint64(1); i <= workers; i++ {
			assert.True(t, seen[i], "value %d was not allocated", i)
		}

		assert.Equal(t, uint64(workers), s.CounterValue())
	})
}
