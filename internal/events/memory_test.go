package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversToSubscriber(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, err := bus.SubscribeShotCreated(ctx)
	require.NoError(t, err)

	event := ShotCreated{ShotID: uuid.New(), GunID: uuid.New(), Timestamp: time.Now()}
	require.NoError(t, bus.PublishShotCreated(ctx, event))

	select {
	case got := <-ch:
		assert.Equal(t, event.ShotID, got.ShotID)
		assert.Equal(t, event.GunID, got.GunID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryBusFansOutToAllSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch1, err := bus.SubscribeShotCreated(ctx)
	require.NoError(t, err)
	ch2, err := bus.SubscribeShotCreated(ctx)
	require.NoError(t, err)

	event := ShotCreated{ShotID: uuid.New()}
	require.NoError(t, bus.PublishShotCreated(ctx, event))

	for _, ch := range []<-chan ShotCreated{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, event.ShotID, got.ShotID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered to all subscribers")
		}
	}
}

func TestMemoryBusUnsubscribesOnCancel(t *testing.T) {
	bus := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.SubscribeShotCreated(ctx)
	require.NoError(t, err)

	cancel()

	// Channel closes once the unsubscribe is processed
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancel")
		}
	}
}

func TestMemoryBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.PublishShotCreated(context.Background(), ShotCreated{ShotID: uuid.New()}))
}
