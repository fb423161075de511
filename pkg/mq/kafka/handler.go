package kafka

import (
	"context"

	"github.com/huynhanx03/mq-common/pkg/mq/dispatch"
)

var _ dispatch.Handler[Message] = (*TopicHandler)(nil)

// TopicHandler adapts a Producer to the dispatch.Handler interface so a
// Dispatcher can drain its queue straight into a Kafka topic. Messages
// without a topic of their own fall back to the handler's default topic.
type TopicHandler struct {
	producer *Producer
	topic    string
}

// NewTopicHandler creates a handler publishing drained batches to topic.
func NewTopicHandler(producer *Producer, topic string) *TopicHandler {
	return &TopicHandler{producer: producer, topic: topic}
}

// Handle publishes the batch in a single round trip.
func (h *TopicHandler) Handle(_ context.Context, batch []Message) error {
	for i := range batch {
		if batch[i].Topic == "" {
			batch[i].Topic = h.topic
		}
	}
	return h.producer.PublishBatch(batch)
}
