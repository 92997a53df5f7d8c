package table

import (
	"context"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/work"
)

// Repo is what a table needs from the room around it.
type Repo interface {
	GetLoop() work.Loop
	GetTimer() work.Scheduler
	GetRoomConfig() *conf.Room
	GetTopology() *model.Topology
	SaveSnapshot(ctx context.Context, rec *Record) error
	LogoutGame(p *player.Player, code int32, msg string)
}

// Record is a finished round as persisted by the room.
type Record struct {
	GameID   string           `json:"gameId"`
	TableID  int32            `json:"tableId"`
	Winner   int64            `json:"winner"`
	Players  map[string]int64 `json:"players"` // color -> uid
	Snapshot *model.Snapshot  `json:"snapshot"`
	Activity []string         `json:"activity"`
}
