package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/yola1107/ludo/internal/biz"
	"github.com/yola1107/ludo/internal/biz/table"
	"github.com/yola1107/ludo/internal/conf"
)

const recentGamesMax = 50

var ErrRecordNotFound = kerrors.New(404, "RECORD_NOT_FOUND", "game record not found")

type dataRepo struct {
	data *Data
	log  *log.Helper
}

func NewDataRepo(data *Data, logger log.Logger) biz.DataRepo {
	return &dataRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data")),
	}
}

func gameKey(gameID string) string       { return fmt.Sprintf("%s:game:%s", conf.Name, gameID) }
func tableGamesKey(tableID int32) string { return fmt.Sprintf("%s:table:%d:games", conf.Name, tableID) }
func playerStatsKey(uid int64) string    { return fmt.Sprintf("%s:player:%d:stats", conf.Name, uid) }

// SaveRecord stores the record under its game id with the configured TTL, pushes the
// id onto the table's recent list and counts played and won rounds per player.
func (r *dataRepo) SaveRecord(ctx context.Context, rec *table.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.GameID, err)
	}

	ttl := r.data.ttl.SnapshotTTL()
	_, err = r.data.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(rec.GameID), body, ttl)
		pipe.LPush(ctx, tableGamesKey(rec.TableID), rec.GameID)
		pipe.LTrim(ctx, tableGamesKey(rec.TableID), 0, recentGamesMax-1)
		for _, uid := range rec.Players {
			pipe.HIncrBy(ctx, playerStatsKey(uid), "played", 1)
			if uid == rec.Winner {
				pipe.HIncrBy(ctx, playerStatsKey(uid), "won", 1)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.GameID, err)
	}
	r.log.Debugf("record saved. game=%s table=%d winner=%d", rec.GameID, rec.TableID, rec.Winner)
	return nil
}

func (r *dataRepo) GetRecord(ctx context.Context, gameID string) (*table.Record, error) {
	body, err := r.data.redis.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := &table.Record{}
	if err := json.Unmarshal(body, rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", gameID, err)
	}
	return rec, nil
}

// RecentGames lists up to n game ids played at the table, newest first.
func (r *dataRepo) RecentGames(ctx context.Context, tableID int32, n int64) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.data.redis.LRange(ctx, tableGamesKey(tableID), 0, n-1).Result()
}
