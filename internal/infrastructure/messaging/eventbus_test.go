package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

type ctxKey struct{}

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		Logger:        logger.Nop(),
		EnableMetrics: true,
	})
}

func TestInMemoryEventBus_SyncDelivery(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var typed, all int32
	require.NoError(t, bus.Subscribe(shared.EventUserRegistered, func(ctx context.Context, e shared.Event) error {
		atomic.AddInt32(&typed, 1)
		assert.Equal(t, "u-1", e.AggregateID())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, e shared.Event) error {
		atomic.AddInt32(&all, 1)
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), shared.NewUserRegisteredEvent("u-1", "a@b.c", "A")))
	require.NoError(t, bus.Publish(context.Background(), shared.NewUserLoggedInEvent("u-1", 2)))

	assert.Equal(t, int32(1), atomic.LoadInt32(&typed))
	assert.Equal(t, int32(2), atomic.LoadInt32(&all))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalPublished)
	assert.Equal(t, int64(3), snap.TotalHandlerExecs)
}

func TestInMemoryEventBus_HandlerErrorsAreSwallowed(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var second bool
	require.NoError(t, bus.Subscribe(shared.EventLevelUp, func(ctx context.Context, e shared.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(shared.EventLevelUp, func(ctx context.Context, e shared.Event) error {
		panic("handler bug")
	}))
	require.NoError(t, bus.Subscribe(shared.EventLevelUp, func(ctx context.Context, e shared.Event) error {
		second = true
		return nil
	}))

	err := bus.Publish(context.Background(), shared.NewLevelUpEvent("u-1", 1, 2, 120))
	require.NoError(t, err)
	assert.True(t, second)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.HandlerFailures)
}

func TestInMemoryEventBus_AsyncSurvivesPublisherCancel(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 2,
		HandlerTimeout: time.Second,
		Logger:         logger.Nop(),
	})
	defer bus.Close()

	done := make(chan error, 1)
	require.NoError(t, bus.Subscribe(shared.EventAchievementUnlocked, func(ctx context.Context, e shared.Event) error {
		assert.Equal(t, "req-1", ctx.Value(ctxKey{}))
		done <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	require.NoError(t, bus.Publish(ctx, shared.NewAchievementUnlockedEvent("u-1", 1, "first_lesson", "First Steps", "🎯", 10)))
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}
	bus.Wait()
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), shared.NewUserLoggedInEvent("u", 1))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventUserLoggedIn, func(context.Context, shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	assert.Error(t, bus.Publish(context.Background(), nil))
}

func TestInMemoryEventBus_CloseWaitsForConcurrentPublishers(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 4,
		HandlerTimeout: time.Second,
		Logger:         logger.Nop(),
	})

	var closed atomic.Bool
	var lateRuns atomic.Int32
	require.NoError(t, bus.Subscribe(shared.EventProgressRecorded, func(ctx context.Context, e shared.Event) error {
		if closed.Load() {
			lateRuns.Add(1)
		}
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				err := bus.Publish(context.Background(), shared.NewProgressRecordedEvent("u-1", 3, 90, true, false))
				if errors.Is(err, ErrEventBusClosed) {
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, bus.Close())
	closed.Store(true)
	wg.Wait()

	assert.Zero(t, lateRuns.Load(), "handlers ran after Close returned")
}
