package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/google/wire"

	"github.com/yola1107/ludo/internal/biz"
	"github.com/yola1107/ludo/library/ext"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewRoomServer)

var _ transport.Server = (*RoomServer)(nil)

const defaultReportInterval = 30 * time.Second

// RoomServer hosts the room inside the app lifecycle and reports its counters.
type RoomServer struct {
	uc       *biz.Usecase
	log      *log.Helper
	interval time.Duration
	timerID  int64
}

func NewRoomServer(uc *biz.Usecase, logger log.Logger) *RoomServer {
	return &RoomServer{
		uc:       uc,
		log:      log.NewHelper(log.With(logger, "module", "server/room")),
		interval: defaultReportInterval,
		timerID:  -1,
	}
}

func (s *RoomServer) Start(ctx context.Context) error {
	c := s.uc.GetRoomConfig()
	s.log.Infof("room started. tables=%d chairs=%d robots=%v turnTimeout=%v",
		c.Table.TableNum, c.Table.ChairNum, c.Robot.Open, c.Game.TurnTimeout())
	s.timerID = s.uc.GetTimer().Forever(s.interval, s.report)
	return nil
}

func (s *RoomServer) Stop(ctx context.Context) error {
	s.uc.GetTimer().Cancel(s.timerID)
	s.report()
	s.log.Info("room stopped")
	return nil
}

func (s *RoomServer) report() {
	s.log.Infof("[Room] %s", ext.ToJSON(s.uc.Stats()))
}
