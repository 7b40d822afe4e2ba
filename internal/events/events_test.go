package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shorturl/internal/events"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/serroba/shorturl/internal/shortener"
	"github.com/serroba/shorturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testRecord = &shortener.Record{
	Code:        "1",
	OriginalURL: "https://example.com",
	CreatedAt:   time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	ExpiresAt:   time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
}

type recordingCache struct {
	records []*shortener.Record
	err     error
}

func (c *recordingCache) Put(_ context.Context, record *shortener.Record) error {
	if c.err != nil {
		return c.err
	}

	c.records = append(c.records, record)

	return nil
}

func TestLinkCreated_RoundTrip(t *testing.T) {
	event := events.NewLinkCreated(testRecord)

	assert.Equal(t, "1", event.Code)
	assert.Equal(t, testRecord, event.Record())
}

func TestPublishingHook(t *testing.T) {
	t.Run("publishes created records", func(t *testing.T) {
		var published []*events.LinkCreated

		publish := messaging.Publish[events.LinkCreated](func(_ context.Context, event *events.LinkCreated) error {
			published = append(published, event)

			return nil
		})

		svc := shortener.NewService(store.NewMemoryStore(), store.NewMemoryStore(),
			shortener.WithCreatedHook(events.PublishingHook(publish, time.Second, zap.NewNop())),
		)

		record, err := svc.Shorten(context.Background(), "https://example.com")
		require.NoError(t, err)

		require.Len(t, published, 1)
		assert.Equal(t, string(record.Code), published[0].Code)
		assert.Equal(t, record.ExpiresAt, published[0].ExpiresAt)
	})

	t.Run("publish failure does not fail shorten", func(t *testing.T) {
		publish := messaging.Publish[events.LinkCreated](func(_ context.Context, _ *events.LinkCreated) error {
			return errors.New("publish error")
		})

		svc := shortener.NewService(store.NewMemoryStore(), store.NewMemoryStore(),
			shortener.WithCreatedHook(events.PublishingHook(publish, time.Second, zap.NewNop())),
		)

		record, err := svc.Shorten(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("1"), record.Code)
	})
}

func TestPublishingHook_Timeout(t *testing.T) {
	t.Run("publish runs under a deadline", func(t *testing.T) {
		var hasDeadline bool

		publish := messaging.Publish[events.LinkCreated](func(ctx context.Context, _ *events.LinkCreated) error {
			_, hasDeadline = ctx.Deadline()

			return nil
		})

		hook := events.PublishingHook(publish, time.Second, zap.NewNop())
		hook(context.Background(), testRecord)

		assert.True(t, hasDeadline)
	})

	t.Run("stalled publisher does not stall shorten", func(t *testing.T) {
		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		publish := messaging.Publish[events.LinkCreated](func(_ context.Context, _ *events.LinkCreated) error {
			<-release

			return nil
		})

		core, logs := observer.New(zapcore.ErrorLevel)
		svc := shortener.NewService(store.NewMemoryStore(), store.NewMemoryStore(),
			shortener.WithCreatedHook(events.PublishingHook(publish, 50*time.Millisecond, zap.New(core))),
		)

		start := time.Now()
		record, err := svc.Shorten(context.Background(), "https://example.com/slow")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("1"), record.Code)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, 1, logs.FilterMessage("failed to publish link created event").Len())
	})
}

func TestCacheWarmer_Handle(t *testing.T) {
	t.Run("writes record to cache", func(t *testing.T) {
		cache := &recordingCache{}
		warmer := events.NewCacheWarmer(cache, zap.NewNop())

		err := warmer.Handle(context.Background(), events.NewLinkCreated(testRecord))

		require.NoError(t, err)
		require.Len(t, cache.records, 1)
		assert.Equal(t, testRecord, cache.records[0])
	})

	t.Run("returns cache error so the message is redelivered", func(t *testing.T) {
		cache := &recordingCache{err: errors.New("cache down")}
		warmer := events.NewCacheWarmer(cache, zap.NewNop())

		err := warmer.Handle(context.Background(), events.NewLinkCreated(testRecord))

		assert.Error(t, err)
	})
}
