package bus

import (
	"context"

	"github.com/relscore/relscore/internal/pkg/logger"
)

// LoggedBus wraps another Bus implementation and logs published events.
type LoggedBus struct {
	inner Bus
	log   *logger.Logger
}

// NewLoggedBus creates a new logged bus that wraps an inner bus.
func NewLoggedBus(inner Bus, log *logger.Logger) *LoggedBus {
	if log == nil {
		log = logger.Default()
	}
	return &LoggedBus{
		inner: inner,
		log:   log,
	}
}

// Publish logs the event and then delegates to the inner bus.
func (b *LoggedBus) Publish(ctx context.Context, topic string, event Event) error {
	b.log.Debug("publishing event",
		"topic", topic,
		"event_id", event.ID,
		"event_type", event.Type,
	)
	return b.inner.Publish(ctx, topic, event)
}

// Subscribe delegates to the inner bus.
func (b *LoggedBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	return b.inner.Subscribe(ctx, topic, handler)
}

// Close closes the inner bus.
func (b *LoggedBus) Close() error {
	return b.inner.Close()
}
