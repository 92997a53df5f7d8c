package biz

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/yola1107/ludo/internal/biz/ledger"
	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/biz/robot"
	"github.com/yola1107/ludo/internal/biz/table"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/work"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewUsecase)

var (
	_ table.Repo = (*Usecase)(nil)
	_ robot.Repo = (*Usecase)(nil)
)

var defaultPendingNum = 10000

// DataRepo persists finished rounds.
type DataRepo interface {
	SaveRecord(ctx context.Context, rec *table.Record) error
	GetRecord(ctx context.Context, gameID string) (*table.Record, error)
	RecentGames(ctx context.Context, tableID int32, n int64) ([]string, error)
}

// Usecase is the room: tables, players and robots sharing one loop and timer.
type Usecase struct {
	repo DataRepo
	log  *log.Helper

	rc   *conf.Live
	topo *model.Topology
	ws   work.Store
	pm   *player.Manager
	tm   *table.Manager
	rm   *robot.Manager
}

func NewUsecase(repo DataRepo, logger log.Logger, live *conf.Live) (*Usecase, func(), error) {
	c := live.Load()
	topo, err := loadTopology(c.Game.TopologyFile)
	if err != nil {
		return nil, nil, err
	}
	uc := &Usecase{repo: repo, log: log.NewHelper(log.With(logger, "module", "biz")), rc: live, topo: topo}

	ctx, cancel := context.WithCancel(context.Background())
	uc.ws = work.NewStore(ctx, defaultPendingNum)
	uc.pm = player.NewManager()
	uc.tm = table.NewManager(c, uc)
	uc.rm = robot.NewManager(c, uc)

	cleanup := func() {
		uc.log.Info("closing the room resources")
		uc.rm.Stop()
		cancel()
		uc.ws.Stop()
		uc.tm.Close()
	}
	return uc, cleanup, errors.Join(uc.ws.Start(), uc.rm.Start())
}

func loadTopology(path string) (*model.Topology, error) {
	if path == "" {
		return model.DefaultTopology(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology %s: %w", path, err)
	}
	return model.LoadTopology(data)
}

func (uc *Usecase) GetLoop() work.Loop {
	return uc.ws
}

func (uc *Usecase) GetTimer() work.Scheduler {
	return uc.ws
}

// GetRoomConfig is the room config in force. Callers should not hold it across rounds.
func (uc *Usecase) GetRoomConfig() *conf.Room {
	return uc.rc.Load()
}

func (uc *Usecase) GetTopology() *model.Topology {
	return uc.topo
}

func (uc *Usecase) GetTableList() []*table.Table {
	return uc.tm.GetTableList()
}

func (uc *Usecase) GetTable(id int32) *table.Table {
	return uc.tm.GetTable(id)
}

func (uc *Usecase) SaveSnapshot(ctx context.Context, rec *table.Record) error {
	return uc.repo.SaveRecord(ctx, rec)
}

func (uc *Usecase) GetRecord(ctx context.Context, gameID string) (*table.Record, error) {
	return uc.repo.GetRecord(ctx, gameID)
}

func (uc *Usecase) CreateRobot(raw *player.Raw) (*player.Player, error) {
	if raw == nil || !raw.IsRobot {
		return nil, fmt.Errorf("not a robot: %+v", raw)
	}
	if raw.BaseData == nil {
		raw.BaseData = &player.BaseData{UID: raw.ID, NickName: fmt.Sprintf("robot%d", raw.ID)}
	}
	p := player.New(raw)
	uc.pm.Add(p)
	return p, nil
}

// LogoutGame runs after a table released p.
func (uc *Usecase) LogoutGame(p *player.Player, code int32, msg string) {
	uc.log.Infof("logout. p=%v code=%d msg=%q", p.Desc(), code, msg)
	if p.IsRobot() {
		uc.rm.Leave(p.GetPlayerID())
		return
	}
	uc.pm.Remove(p.GetPlayerID())
}

// NewMirror creates a ledger mirror playing by the room rules.
func (uc *Usecase) NewMirror() (*ledger.Mirror, error) {
	c := uc.GetRoomConfig()
	g := c.Game
	return ledger.NewMirror(int(c.Table.ChairNum), log.GetLogger(),
		model.WithTopology(uc.topo),
		model.WithAutoMoveSingle(g.AutoMoveSingle),
		model.WithMissedDeadlineLimit(g.MissedDeadlineLimit),
		model.WithBonusRoll(g.BonusRoll),
	)
}

// Stats is a point-in-time count of the room.
type Stats struct {
	Tables      int `json:"tables"`
	Playing     int `json:"playing"` // tables with a running round
	Users       int `json:"users"`
	Robots      int `json:"robots"`
	RobotsFree  int `json:"robotsFree"`
	RobotsTotal int `json:"robotsTotal"`
}

func (uc *Usecase) Stats() Stats {
	s := Stats{}
	for _, t := range uc.tm.GetTableList() {
		s.Tables++
		user, ai, _, gaming := t.Counter()
		s.Users += int(user)
		s.Robots += int(ai)
		if gaming > 0 {
			s.Playing++
		}
	}
	s.RobotsTotal, s.RobotsFree, _ = uc.rm.Counter()
	return s
}
