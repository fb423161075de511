package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/mq-common/pkg/common/apperr"
	"github.com/huynhanx03/mq-common/pkg/mq/dispatch"
	"github.com/huynhanx03/mq-common/pkg/settings"
	"github.com/huynhanx03/mq-common/pkg/utils"
)

const component = "deadletter"

const (
	defaultPoolSize        = 10
	defaultMinIdleConns    = 5
	defaultPoolTimeout     = 5
	defaultDialTimeout     = 5
	defaultReadTimeout     = 3
	defaultWriteTimeout    = 3
	defaultMaxRetries      = 3
	defaultMinRetryBackoff = 300 // millis
	defaultMaxRetryBackoff = 500 // millis
)

var _ dispatch.Sink[int] = (*RedisSink[int])(nil)

// RedisSink pushes rejected items onto a Redis list so they can be inspected
// or replayed later. Items are JSON-encoded.
type RedisSink[T any] struct {
	client redisV9.Cmdable
	key    string
}

// NewRedisSink creates a sink writing to the list stored at key.
func NewRedisSink[T any](client redisV9.Cmdable, key string) *RedisSink[T] {
	return &RedisSink[T]{client: client, key: key}
}

// Reject appends the item to the dead-letter list.
func (s *RedisSink[T]) Reject(ctx context.Context, item T) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return apperr.MapError(component, err, apperr.CodeSinkFailed, "failed to encode item")
	}
	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		return apperr.MapError(component, err, apperr.CodeSinkFailed, "failed to push item")
	}
	return nil
}

// Len returns the current length of the dead-letter list.
func (s *RedisSink[T]) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}

// Connect creates a Redis client from settings and verifies the connection.
func Connect(cfg *settings.Redis) (*redisV9.Client, error) {
	setDefaultConfig(cfg)

	addr := cfg.Host
	if cfg.Port > 0 {
		addr = fmt.Sprintf("%s:%d", addr, cfg.Port)
	}

	client := redisV9.NewClient(&redisV9.Options{
		Addr:            addr,
		Password:        cfg.Password,
		DB:              cfg.Database,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxRetries:      cfg.MaxRetries,
		DialTimeout:     utils.ToDuration(cfg.DialTimeout),
		ReadTimeout:     utils.ToDuration(cfg.ReadTimeout),
		WriteTimeout:    utils.ToDuration(cfg.WriteTimeout),
		PoolTimeout:     utils.ToDuration(cfg.PoolTimeout),
		MinRetryBackoff: utils.ToDurationMs(cfg.MinRetryBackoff),
		MaxRetryBackoff: utils.ToDurationMs(cfg.MaxRetryBackoff),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperr.MapError(component, err, apperr.CodeSinkFailed, "failed to ping redis")
	}

	return client, nil
}

func setDefaultConfig(cfg *settings.Redis) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = defaultMinIdleConns
	}
	if cfg.PoolTimeout == 0 {
		cfg.PoolTimeout = defaultPoolTimeout
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MinRetryBackoff == 0 {
		cfg.MinRetryBackoff = defaultMinRetryBackoff
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = defaultMaxRetryBackoff
	}
}
