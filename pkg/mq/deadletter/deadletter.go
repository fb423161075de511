package deadletter

import (
	"context"

	"go.uber.org/zap"

	"github.com/huynhanx03/mq-common/pkg/mq/dispatch"
)

var (
	_ dispatch.Sink[int] = (*LogSink[int])(nil)
	_ dispatch.Sink[int] = (*DropSink[int])(nil)
)

// LogSink records rejected items to the log and nothing else. Useful when
// overflow is expected and acceptable but should remain visible.
type LogSink[T any] struct {
	log *zap.Logger
}

// NewLogSink creates a sink logging each rejected item at warn level.
func NewLogSink[T any](log *zap.Logger) *LogSink[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink[T]{log: log}
}

// Reject logs the rejected item.
func (s *LogSink[T]) Reject(_ context.Context, item T) error {
	s.log.Warn("item rejected by dispatch queue", zap.Any("item", item))
	return nil
}

// DropSink silently discards rejected items.
type DropSink[T any] struct{}

// Reject discards the item.
func (DropSink[T]) Reject(context.Context, T) error { return nil }
