package data

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"github.com/yola1107/ludo/internal/conf"
	kredis "github.com/yola1107/ludo/library/db/redis"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewDataRepo, NewRedis)

type Data struct {
	redis *redis.Client
	ttl   *conf.Redis
}

func NewData(c *conf.Data, logger log.Logger, rdb *redis.Client) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	cleanup := func() {
		helper.Info("closing the data resources")
		if rdb != nil {
			_ = rdb.Close()
		}
	}
	return &Data{redis: rdb, ttl: c.Redis}, cleanup, nil
}

// NewRedis builds the client lazily; an unreachable server only fails the first save.
func NewRedis(c *conf.Data) *redis.Client {
	return kredis.NewClient(
		kredis.WithAddress(c.Redis.Addr),
		kredis.WithPassword(c.Redis.Password),
		kredis.WithDB(int(c.Redis.Db)),
	)
}
