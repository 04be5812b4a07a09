package messaging

import "context"

// Publisher emits domain events to the message broker. Delivery is best
// effort from the caller's point of view; order creation never fails
// because the broker is down.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured and
// as a stand-in for tests.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, key string, value []byte) error { return nil }

func (NopPublisher) Close() error { return nil }
