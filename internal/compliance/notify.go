package compliance

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Notifier is the sink new violations are forwarded to after persistence.
// Production deployments plug in an alerting channel here.
type Notifier interface {
	Notify(ctx context.Context, v Violation)
}

// LogNotifier writes violations to the server log
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, v Violation) {
	log.Printf("🚨 [VIOLATION] %s (%s) hunter=%s: %s", v.Type, v.Severity, v.HunterID, v.Description)
}

// RedisNotifier publishes violations to a redis channel; the websocket hub
// subscribes to the same channel and fans the alert out to connected clients.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, v Violation) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":      "violation_alert",
		"violation": v,
	})
	if err != nil {
		log.Printf("❌ [VIOLATION] Failed to marshal alert: %v", err)
		return
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		log.Printf("❌ [VIOLATION] Failed to publish alert: %v", err)
	}
}

// MultiNotifier forwards each violation to every configured sink
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, v Violation) {
	for _, n := range m {
		n.Notify(ctx, v)
	}
}
