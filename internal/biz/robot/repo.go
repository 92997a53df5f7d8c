package robot

import (
	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/biz/table"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/library/work"
)

type Repo interface {
	GetTimer() work.Scheduler
	CreateRobot(raw *player.Raw) (*player.Player, error)
	GetTableList() []*table.Table
	GetRoomConfig() *conf.Room
}
