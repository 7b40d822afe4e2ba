package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := messaging.NewZapLoggerAdapter(zap.New(core))

	adapter.Info("info message", watermill.LogFields{"stream": "shorturl.created"})
	adapter.Error("error message", errors.New("boom"), nil)
	adapter.With(watermill.LogFields{"consumer": "c1"}).Trace("trace message", nil)

	entries := logs.AllUntimed()
	assert.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "shorturl.created", entries[0].ContextMap()["stream"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, "c1", entries[2].ContextMap()["consumer"])
}
