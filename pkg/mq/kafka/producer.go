package kafka

import (
	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/huynhanx03/mq-common/pkg/common/apperr"
	"github.com/huynhanx03/mq-common/pkg/settings"
	"github.com/huynhanx03/mq-common/pkg/utils"
)

const component = "kafka producer"

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 // millis
	defaultTimeout      = 10  // seconds
)

// Message is a produced record.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Producer wraps a synchronous Kafka producer.
type Producer struct {
	producer sarama.SyncProducer
	log      *zap.Logger
}

// NewConfig builds a sarama configuration from settings.
func NewConfig(cfg settings.Kafka) *sarama.Config {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true // required by SyncProducer
	config.Producer.Retry.Max = cfg.MaxRetries
	config.Producer.Retry.Backoff = utils.ToDurationMs(cfg.RetryBackoff)
	config.Producer.Timeout = utils.ToDuration(cfg.Timeout)
	if cfg.MaxMessageBytes > 0 {
		config.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	if cfg.FlushFrequency > 0 {
		config.Producer.Flush.Frequency = utils.ToDurationMs(cfg.FlushFrequency)
	}
	if cfg.FlushBytes > 0 {
		config.Producer.Flush.Bytes = cfg.FlushBytes
	}
	return config
}

// New connects a Producer to the configured brokers.
func New(cfg settings.Kafka, log *zap.Logger) (*Producer, error) {
	if err := settings.Validate(cfg); err != nil {
		return nil, apperr.MapError(component, err, apperr.CodeInvalidConfig, apperr.MsgConfigInvalid)
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewConfig(cfg))
	if err != nil {
		return nil, apperr.MapError(component, err, apperr.CodePublishFailed, "failed to connect")
	}
	return NewFromProducer(producer, log), nil
}

// NewFromProducer wraps an existing sarama producer. Useful for tests.
func NewFromProducer(producer sarama.SyncProducer, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{producer: producer, log: log}
}

// Publish sends a single message and waits for the broker acknowledgement.
func (p *Producer) Publish(msg Message) error {
	partition, offset, err := p.producer.SendMessage(toSarama(msg))
	if err != nil {
		return apperr.MapError(component, err, apperr.CodePublishFailed, apperr.MsgPublishFailed)
	}
	p.log.Debug("message published",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// PublishBatch sends a batch of messages in one round trip.
func (p *Producer) PublishBatch(batch []Message) error {
	if len(batch) == 0 {
		return nil
	}
	msgs := make([]*sarama.ProducerMessage, len(batch))
	for i, msg := range batch {
		msgs[i] = toSarama(msg)
	}
	if err := p.producer.SendMessages(msgs); err != nil {
		return apperr.MapError(component, err, apperr.CodePublishFailed, apperr.MsgPublishFailed)
	}
	return nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}

func toSarama(msg Message) *sarama.ProducerMessage {
	out := &sarama.ProducerMessage{
		Topic: msg.Topic,
		Value: sarama.ByteEncoder(msg.Value),
	}
	if msg.Key != nil {
		out.Key = sarama.ByteEncoder(msg.Key)
	}
	return out
}
