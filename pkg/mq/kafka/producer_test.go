package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/mq-common/pkg/common/apperr"
	"github.com/huynhanx03/mq-common/pkg/mq/dispatch"
	"github.com/huynhanx03/mq-common/pkg/settings"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := NewConfig(settings.Kafka{})

		assert.Equal(t, sarama.WaitForAll, config.Producer.RequiredAcks)
		assert.True(t, config.Producer.Return.Successes)
		assert.Equal(t, defaultMaxRetries, config.Producer.Retry.Max)
		assert.Equal(t, defaultRetryBackoff*time.Millisecond, config.Producer.Retry.Backoff)
		assert.Equal(t, defaultTimeout*time.Second, config.Producer.Timeout)
	})

	t.Run("explicit_values", func(t *testing.T) {
		config := NewConfig(settings.Kafka{
			MaxRetries:      5,
			RetryBackoff:    250,
			Timeout:         3,
			MaxMessageBytes: 1 << 20,
			FlushFrequency:  100,
			FlushBytes:      64 << 10,
		})

		assert.Equal(t, 5, config.Producer.Retry.Max)
		assert.Equal(t, 250*time.Millisecond, config.Producer.Retry.Backoff)
		assert.Equal(t, 3*time.Second, config.Producer.Timeout)
		assert.Equal(t, 1<<20, config.Producer.MaxMessageBytes)
		assert.Equal(t, 100*time.Millisecond, config.Producer.Flush.Frequency)
		assert.Equal(t, 64<<10, config.Producer.Flush.Bytes)
	})
}

func TestNew_EmptyBrokers(t *testing.T) {
	_, err := New(settings.Kafka{}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidConfig, apperr.Code(err))
}

func TestProducer_Publish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewConfig(settings.Kafka{}))
	mock.ExpectSendMessageAndSucceed()

	p := NewFromProducer(mock, nil)
	err := p.Publish(Message{Topic: "events", Key: []byte("k"), Value: []byte("v")})
	assert.NoError(t, err)
}

func TestProducer_Publish_BrokerError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewConfig(settings.Kafka{}))
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewFromProducer(mock, nil)
	err := p.Publish(Message{Topic: "events", Value: []byte("v")})
	require.Error(t, err)
	assert.Equal(t, apperr.CodePublishFailed, apperr.Code(err))
}

func TestProducer_PublishBatch(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewConfig(settings.Kafka{}))
	for i := 0; i < 3; i++ {
		mock.ExpectSendMessageAndSucceed()
	}

	p := NewFromProducer(mock, nil)
	batch := []Message{
		{Topic: "events", Value: []byte("a")},
		{Topic: "events", Value: []byte("b")},
		{Topic: "events", Value: []byte("c")},
	}
	assert.NoError(t, p.PublishBatch(batch))
	assert.NoError(t, p.PublishBatch(nil))
}

func TestTopicHandler_DefaultTopic(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewConfig(settings.Kafka{}))
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		return nil
	})

	h := NewTopicHandler(NewFromProducer(mock, nil), "fallback")
	err := h.Handle(context.Background(), []Message{{Value: []byte("v")}})
	assert.NoError(t, err)
}

// TestDispatcherToKafka drains a dispatch queue into a mocked broker.
func TestDispatcherToKafka(t *testing.T) {
	mock := mocks.NewSyncProducer(t, NewConfig(settings.Kafka{}))
	const total = 10
	for i := 0; i < total; i++ {
		mock.ExpectSendMessageAndSucceed()
	}

	h := NewTopicHandler(NewFromProducer(mock, nil), "events")
	d, err := dispatch.New[Message](h, dispatch.Config{QueueCapacity: 4, Workers: 2})
	require.NoError(t, err)
	require.NoError(t, d.Start(context.Background()))

	for i := 0; i < total; i++ {
		require.NoError(t, d.Publish(context.Background(), Message{Value: []byte{byte(i)}}))
	}
	require.NoError(t, d.Close())

	stats := d.Stats()
	assert.EqualValues(t, total, stats.Handled)
	assert.EqualValues(t, 0, stats.HandlerErrors)
}
