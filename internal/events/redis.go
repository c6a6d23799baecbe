package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBus carries shot events over a redis pub/sub channel
type RedisBus struct {
	client  *redis.Client
	channel string
}

func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = "huntguard:shots"
	}
	return &RedisBus{client: client, channel: channel}
}

func (b *RedisBus) PublishShotCreated(ctx context.Context, event ShotCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal shot event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish shot event: %w", err)
	}
	return nil
}

func (b *RedisBus) SubscribeShotCreated(ctx context.Context) (<-chan ShotCreated, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)

	// Confirm the subscription before handing the channel out
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan ShotCreated)
	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}

				var event ShotCreated
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("❌ [EVENTS] Malformed shot event dropped: %v", err)
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
