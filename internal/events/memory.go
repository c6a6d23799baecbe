package events

import (
	"context"
	"sync"
)

// MemoryBus - in-process bus used by the test suite and single-node setups
type MemoryBus struct {
	mu   sync.Mutex
	subs []chan ShotCreated
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// PublishShotCreated delivers the event to every subscriber. Subscriber
// channels are buffered; a full subscriber drops the event rather than
// blocking the write path.
func (b *MemoryBus) PublishShotCreated(ctx context.Context, event ShotCreated) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) SubscribeShotCreated(ctx context.Context) (<-chan ShotCreated, error) {
	ch := make(chan ShotCreated, 16)

	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		for i, sub := range b.subs {
			if sub == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
