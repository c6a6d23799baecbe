// Package events carries the shot-created event from the write path to the
// compliance detector. The shot row is durably committed before its event is
// published, so every violation referencing it has a valid target.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ShotCreated is published after a new shot row is committed
type ShotCreated struct {
	ShotID    uuid.UUID `json:"shot_id"`
	GunID     uuid.UUID `json:"gun_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is the write-path side of the bus
type Publisher interface {
	PublishShotCreated(ctx context.Context, event ShotCreated) error
}

// Subscriber is the detector side of the bus. The returned channel closes
// when the context is cancelled.
type Subscriber interface {
	SubscribeShotCreated(ctx context.Context) (<-chan ShotCreated, error)
}

// Bus combines both ends of the shot event channel
type Bus interface {
	Publisher
	Subscriber
}
