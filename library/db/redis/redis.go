package redis

import (
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultHost        = "127.0.0.1"
	defaultPort        = 6379
	defaultMinIdle     = 5
	defaultMaxIdle     = 10
	defaultPoolSize    = 10
	defaultMaxLifetime = 2 * time.Minute
	defaultMaxIdleTime = 5 * time.Minute
)

type ClientOption func(*redis.Options)

// NewClient creates a pooled client on 127.0.0.1:6379 unless opts say otherwise.
// It does not dial; the first command does.
func NewClient(opts ...ClientOption) *redis.Client {
	options := &redis.Options{
		Addr:            fmt.Sprintf("%s:%d", defaultHost, defaultPort),
		PoolSize:        defaultPoolSize,
		MinIdleConns:    defaultMinIdle,
		MaxIdleConns:    defaultMaxIdle,
		ConnMaxLifetime: defaultMaxLifetime,
		ConnMaxIdleTime: defaultMaxIdleTime,
	}
	for _, opt := range opts {
		opt(options)
	}
	return redis.NewClient(options)
}

// WithAddress sets host:port. Malformed addresses are ignored.
func WithAddress(addr string) ClientOption {
	return func(o *redis.Options) {
		if _, _, err := net.SplitHostPort(addr); err == nil {
			o.Addr = addr
		}
	}
}

func WithPassword(pass string) ClientOption {
	return func(o *redis.Options) {
		o.Password = pass
	}
}

func WithDB(db int) ClientOption {
	return func(o *redis.Options) {
		if db >= 0 {
			o.DB = db
		}
	}
}

func WithPoolSize(size int) ClientOption {
	return func(o *redis.Options) {
		if size > 0 {
			o.PoolSize = size
		}
	}
}

func WithConnMaxIdleTime(d time.Duration) ClientOption {
	return func(o *redis.Options) {
		if d > 0 {
			o.ConnMaxIdleTime = d
		}
	}
}
