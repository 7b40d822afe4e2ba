package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/shorturl/internal/base62"
	"go.uber.org/zap"
)

// DefaultStoreTimeout bounds every individual store call.
const DefaultStoreTimeout = 3 * time.Second

// CreatedHook is invoked after a new record has been persisted.
// It is not called when an existing code is reused.
type CreatedHook func(ctx context.Context, record *Record)

// Service shortens URLs and resolves codes.
//
// Shorten does not hold any lock across the dedup lookup, the counter increment and the
// insert. Two concurrent calls for the same URL may both miss the lookup and receive
// distinct codes; both codes resolve correctly.
type Service struct {
	records   Repository
	counter   Counter
	clock     Clock
	ttl       time.Duration
	timeout   time.Duration
	onCreated CreatedHook
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for creation and expiry checks.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithStoreTimeout overrides DefaultStoreTimeout. Zero disables the per-call timeout.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithCreatedHook registers a callback for newly allocated codes.
func WithCreatedHook(hook CreatedHook) Option {
	return func(s *Service) {
		s.onCreated = hook
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service. A nil records or counter leaves the service unconfigured:
// Shorten then fails with ErrNotConfigured before doing any work.
func NewService(records Repository, counter Counter, opts ...Option) *Service {
	s := &Service{
		records: records,
		counter: counter,
		clock:   SystemClock{},
		ttl:     DefaultTTL,
		timeout: DefaultStoreTimeout,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Configured reports whether both stores are wired.
func (s *Service) Configured() bool {
	return s.records != nil && s.counter != nil
}

// Shorten returns a record for longURL, reusing an unexpired one when present.
func (s *Service) Shorten(ctx context.Context, longURL string) (*Record, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	longURL, err := ValidateURL(longURL)
	if err != nil {
		return nil, err
	}

	existing, err := s.findActive(ctx, longURL)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		s.logger.Debug("reusing existing code",
			zap.String("code", string(existing.Code)),
		)

		return existing, nil
	}

	n, err := s.allocate(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &Record{
		Code:        Code(base62.Encode(n)),
		OriginalURL: longURL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err = s.create(ctx, record); err != nil {
		return nil, err
	}

	if s.onCreated != nil {
		s.onCreated(ctx, record)
	}

	return record, nil
}

// Resolve returns the original URL for code.
// Missing, expired and malformed codes all yield ErrNotFound.
// Reserved paths yield ErrReservedCode without touching the store.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	if IsReserved(code) {
		return "", ErrReservedCode
	}

	if !base62.Valid(code) {
		return "", ErrNotFound
	}

	if s.records == nil {
		return "", ErrNotConfigured
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	record, err := s.records.GetByCode(storeCtx, Code(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", s.unavailable("get by code", err)
	}

	if record.IsExpired(s.clock.Now()) {
		return "", ErrNotFound
	}

	return record.OriginalURL, nil
}

func (s *Service) findActive(ctx context.Context, longURL string) (*Record, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	record, err := s.records.FindByOriginalURL(storeCtx, longURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, s.unavailable("find by original url", err)
	}

	if record.IsExpired(s.clock.Now()) {
		return nil, nil
	}

	return record, nil
}

func (s *Service) allocate(ctx context.Context) (uint64, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	n, err := s.counter.IncrementAndGet(storeCtx)
	if err != nil {
		return 0, s.unavailable("increment counter", err)
	}

	// Counters start at 1; zero would mean a broken store.
	if n == 0 {
		return 0, s.unavailable("increment counter", errors.New("counter returned zero"))
	}

	return n, nil
}

func (s *Service) create(ctx context.Context, record *Record) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.records.Create(storeCtx, record); err != nil {
		return s.unavailable("create record", err)
	}

	return nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) unavailable(op string, err error) error {
	s.logger.Error("store operation failed",
		zap.String("op", op),
		zap.Error(err),
	)

	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
