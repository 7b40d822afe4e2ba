package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/shorturl/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingRunnable appends its lifecycle calls to a shared journal.
type recordingRunnable struct {
	name        string
	journal     *[]string
	startErr    error
	shutdownErr error
}

func (r *recordingRunnable) Start(_ context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}

	*r.journal = append(*r.journal, "start "+r.name)

	return nil
}

func (r *recordingRunnable) Shutdown() error {
	*r.journal = append(*r.journal, "stop "+r.name)

	return r.shutdownErr
}

func newGroup(t *testing.T) (*messaging.ConsumerGroup, *mockSubscriber) {
	t.Helper()

	sub := newMockSubscriber()

	return messaging.NewConsumerGroup(sub, zap.NewNop()), sub
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts consumers in order", func(t *testing.T) {
		group, _ := newGroup(t)

		var journal []string

		group.Add(
			&recordingRunnable{name: "warmer", journal: &journal},
			&recordingRunnable{name: "audit", journal: &journal},
		)

		require.NoError(t, group.Start(context.Background()))
		assert.Equal(t, []string{"start warmer", "start audit"}, journal)
	})

	t.Run("stops already started consumers in reverse when one fails", func(t *testing.T) {
		group, _ := newGroup(t)

		var journal []string

		group.Add(
			&recordingRunnable{name: "a", journal: &journal},
			&recordingRunnable{name: "b", journal: &journal},
			&recordingRunnable{name: "c", journal: &journal, startErr: errors.New("subscribe failed")},
		)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "subscribe failed")
		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, journal)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops every consumer and closes the subscriber", func(t *testing.T) {
		group, sub := newGroup(t)

		var journal []string

		group.Add(
			&recordingRunnable{name: "a", journal: &journal},
			&recordingRunnable{name: "b", journal: &journal},
		)
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())
		assert.Equal(t, []string{"start a", "start b", "stop a", "stop b"}, journal)
		assert.True(t, sub.closed)
	})

	t.Run("returns first error but still stops the rest", func(t *testing.T) {
		group, _ := newGroup(t)

		var journal []string

		group.Add(
			&recordingRunnable{name: "a", journal: &journal, shutdownErr: errors.New("first failure")},
			&recordingRunnable{name: "b", journal: &journal, shutdownErr: errors.New("second failure")},
		)
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "first failure")
		assert.Contains(t, journal, "stop b")
	})
}
