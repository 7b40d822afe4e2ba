package events

import (
	"context"
	"time"

	"github.com/serroba/shorturl/internal/messaging"
	"github.com/serroba/shorturl/internal/shortener"
	"go.uber.org/zap"
)

// DefaultPublishTimeout bounds how long a shorten call waits for its event to be published.
const DefaultPublishTimeout = 2 * time.Second

// PublishingHook returns a created-hook that publishes LinkCreated events.
// Publish failures are logged and never fail the shorten call. The hook gives up after
// timeout even if the publisher ignores its context; a zero timeout means DefaultPublishTimeout.
func PublishingHook(publish messaging.Publish[LinkCreated], timeout time.Duration, logger *zap.Logger) shortener.CreatedHook {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	return func(ctx context.Context, record *shortener.Record) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		event := NewLinkCreated(record)
		done := make(chan error, 1)

		go func() {
			done <- publish(ctx, event)
		}()

		var err error

		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		if err != nil {
			logger.Error("failed to publish link created event",
				zap.String("code", string(record.Code)),
				zap.Error(err),
			)
		}
	}
}
