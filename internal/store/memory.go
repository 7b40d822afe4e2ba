package store

import (
	"context"
	"sync"

	"github.com/serroba/shorturl/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository and shortener.Counter.
// It is process-local and intended for tests and single-instance development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shortener.Code]shortener.Record
	byURL   map[string]shortener.Code // original url -> latest code
	counter uint64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Code]shortener.Record),
		byURL:   make(map[string]shortener.Code),
	}
}

func (m *MemoryStore) IncrementAndGet(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++

	return m.counter, nil
}

// CounterValue returns the current counter without incrementing it.
func (m *MemoryStore) CounterValue() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counter
}

func (m *MemoryStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &record, nil
}

func (m *MemoryStore) FindByOriginalURL(ctx context.Context, url string) (*shortener.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.byURL[url]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	record := m.records[code]

	return &record, nil
}

func (m *MemoryStore) Create(ctx context.Context, record *shortener.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.Code]; exists {
		return shortener.ErrCodeExists
	}

	m.records[record.Code] = *record
	m.byURL[record.OriginalURL] = record.Code

	return nil
}

// Compile-time checks.
var (
	_ shortener.Repository = (*MemoryStore)(nil)
	_ shortener.Counter    = (*MemoryStore)(nil)
)
