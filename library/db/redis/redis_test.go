package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c := NewClient()
	defer c.Close()
	require.Equal(t, "127.0.0.1:6379", c.Options().Addr)
	require.Equal(t, defaultPoolSize, c.Options().PoolSize)

	c2 := NewClient(
		WithAddress("redis.local:6380"),
		WithPassword("secret"),
		WithDB(2),
		WithPoolSize(20),
		WithConnMaxIdleTime(time.Minute),
	)
	defer c2.Close()
	opts := c2.Options()
	require.Equal(t, "redis.local:6380", opts.Addr)
	require.Equal(t, "secret", opts.Password)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, 20, opts.PoolSize)
	require.Equal(t, time.Minute, opts.ConnMaxIdleTime)

	c3 := NewClient(WithAddress("no-port"), WithDB(-1), WithPoolSize(0))
	defer c3.Close()
	require.Equal(t, "127.0.0.1:6379", c3.Options().Addr)
	require.Equal(t, 0, c3.Options().DB)
	require.Equal(t, defaultPoolSize, c3.Options().PoolSize)
}
