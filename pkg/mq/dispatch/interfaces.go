package dispatch

import (
	"context"
	"time"

	"github.com/huynhanx03/mq-common/pkg/settings"
	"github.com/huynhanx03/mq-common/pkg/utils"
)

// Handler is the interface that must be implemented by consumers of a
// Dispatcher. It is responsible for processing a batch of drained items.
type Handler[T any] interface {
	// Handle processes a batch of items.
	// Returns an error if processing fails; the dispatcher logs and counts
	// handler errors but keeps draining.
	Handle(ctx context.Context, batch []T) error
}

// Sink receives items rejected by TryPublish when the queue stays full past
// the offer timeout. Implementations live in pkg/mq/deadletter.
type Sink[T any] interface {
	// Reject hands a rejected item to the sink.
	Reject(ctx context.Context, item T) error
}

// Config holds configuration for the Dispatcher.
type Config struct {
	// QueueCapacity is the fixed capacity of the backpressure queue.
	QueueCapacity int

	// Workers is the number of consumer goroutines draining the queue.
	Workers int

	// BatchSize is the maximum number of items handed to the Handler at once.
	BatchSize int

	// OfferTimeout bounds how long TryPublish waits for queue room before
	// rejecting an item.
	OfferTimeout time.Duration
}

// FromSettings builds a Config from the settings struct.
func FromSettings(cfg settings.Dispatch) Config {
	return Config{
		QueueCapacity: cfg.Queue.Capacity,
		Workers:       cfg.Workers,
		BatchSize:     cfg.BatchSize,
		OfferTimeout:  utils.ToDurationMs(cfg.OfferTimeout),
	}
}
