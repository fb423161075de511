package settings

import (
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Logger   Logger   `mapstructure:"logger"`
	Kafka    Kafka    `mapstructure:"kafka"`
	Redis    Redis    `mapstructure:"redis"`
	Queue    Queue    `mapstructure:"queue"`
	Dispatch Dispatch `mapstructure:"dispatch"`
}

// Queue is the configuration for bounded blocking queues.
type Queue struct {
	Capacity int `mapstructure:"capacity" validate:"gte=1"`
}

// Dispatch is the configuration for the dispatch pipeline.
type Dispatch struct {
	Queue        Queue `mapstructure:"queue"`
	Workers      int   `mapstructure:"workers" validate:"gte=1"`
	BatchSize    int   `mapstructure:"batch_size" validate:"gte=1"`
	OfferTimeout int   `mapstructure:"offer_timeout"` // Milliseconds
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}

// Redis is the configuration for Redis
type Redis struct {
	Host            string `mapstructure:"host"`
	Password        string `mapstructure:"password"`
	Database        int    `mapstructure:"database"`
	Port            int    `mapstructure:"port"`
	PoolSize        int    `mapstructure:"pool_size"`
	MinIdleConns    int    `mapstructure:"min_idle_conns"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`
	DialTimeout     int    `mapstructure:"dial_timeout"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"` // Milliseconds
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"` // Milliseconds
}

// Kafka is the configuration for Kafka
type Kafka struct {
	Brokers         []string `mapstructure:"brokers" validate:"min=1"`
	FlushFrequency  int      `mapstructure:"flush_frequency"`   // Milliseconds
	FlushBytes      int      `mapstructure:"flush_bytes"`       // Bytes
	MaxMessageBytes int      `mapstructure:"max_message_bytes"` // Bytes
	Timeout         int      `mapstructure:"timeout"`           // Seconds
	MaxRetries      int      `mapstructure:"max_retries"`       // Number of retries
	RetryBackoff    int      `mapstructure:"retry_backoff"`     // Milliseconds
}

var validate = validator.New()

// Validate checks struct-tag constraints on any settings struct.
func Validate(cfg any) error {
	return validate.Struct(cfg)
}
