package table

import (
	"fmt"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/ext"
)

const maxActivity = 64

// Table runs one model.Game at a time for the players seated at it.
// Exported entry points lock mu; lower-case helpers expect it held.
type Table struct {
	ID     int32
	MaxCnt int16
	repo   Repo
	mu     sync.Mutex

	stage   *Stage
	mLog    *Log
	seats   []*player.Player
	sitCnt  int16
	aiLogic RobotLogic

	game     *model.Game
	gameID   string
	dice     model.DiceSource
	lastSeq  int64
	activity []string
	leaving  []pendingExit
}

func NewTable(id int32, c *conf.Room, repo Repo) *Table {
	t := &Table{
		ID:     id,
		MaxCnt: int16(c.Table.ChairNum),
		repo:   repo,
		stage:  &Stage{},
		mLog:   NewTableLog(id, c.LogCache, func() bool { return repo.GetRoomConfig().LogCache.Open }),
		seats:  make([]*player.Player, c.Table.ChairNum),
		dice:   ext.RollDice,
	}
	t.aiLogic.init(t)
	return t
}

// SetDiceSource replaces the local dice PRNG, e.g. with values finalized elsewhere.
func (t *Table) SetDiceSource(src model.DiceSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dice = src
}

func (t *Table) Desc() string {
	return fmt.Sprintf("(T:%d SitCnt:%d St:%v game:%s)", t.ID, t.sitCnt, t.stage.GetState(), t.gameID)
}

func (t *Table) Empty() bool {
	return t.sitCnt <= 0
}

func (t *Table) IsFull() bool {
	return t.sitCnt >= t.MaxCnt
}

func (t *Table) GetSitCnt() int32 {
	return int32(t.sitCnt)
}

func (t *Table) GetStage() StageID {
	return t.stage.GetState()
}

// GameID is the id of the running or last finished round.
func (t *Table) GameID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gameID
}

// Phase is the engine phase, PhaseNotStarted when no round is running.
func (t *Table) Phase() model.Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return model.Phase{Kind: model.PhaseNotStarted}
	}
	return t.game.Phase()
}

// Snapshot of the running round, nil between rounds.
func (t *Table) Snapshot() *model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return nil
	}
	return t.game.Snapshot()
}

// Activity returns the rendered feed of the current round, oldest first.
func (t *Table) Activity() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.activity...)
}

// ThrowInto seats p on the first free chair.
func (t *Table) ThrowInto(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.canEnter(p) {
		return false
	}
	for k, v := range t.seats {
		if v != nil {
			continue
		}

		t.seats[k] = p
		t.sitCnt++

		p.Reset()
		p.SetTableID(t.ID)
		p.SetChairID(int32(k))
		p.SetReady()

		t.aiLogic.markEnterNow()

		t.mLog.userEnter(p, t.sitCnt)
		log.Infof("EnterTable. p:%+v sitCnt:%d", p.Desc(), t.sitCnt)

		t.checkCanStart()
		return true
	}
	return false
}

// ThrowOff frees the chair of p when the stage allows leaving.
func (t *Table) ThrowOff(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.throwOff(p)
}

func (t *Table) throwOff(p *player.Player) bool {
	if p == nil {
		return false
	}
	chair := p.GetChairID()
	if t.getPlayerByChair(chair) != p || !t.canExit(p) {
		return false
	}

	t.seats[chair] = nil
	t.sitCnt--
	if st := t.stage.GetState(); st == StReady {
		t.updateStage(StWait)
	}

	t.aiLogic.markExitNow()
	p.ExitReset()

	t.mLog.userExit(p, t.sitCnt, chair)
	log.Infof("ExitTable. p:%+v sitCnt:%d st:%v", p.Desc(), t.sitCnt, t.stage.GetState())
	return true
}

func (t *Table) CanEnter(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canEnter(p)
}

func (t *Table) canEnter(p *player.Player) bool {
	s := t.stage.GetState()
	return p != nil && p.GetTableID() < 0 && !t.IsFull() && (s == StWait || s == StReady)
}

func (t *Table) CanExit(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canExit(p)
}

func (t *Table) canExit(p *player.Player) bool {
	s := t.stage.GetState()
	return p != nil && !p.IsGaming() && (s == StWait || s == StReady || s == StResult)
}

func (t *Table) CanEnterRobot(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canEnter(p) && t.aiLogic.CanEnter(p)
}

func (t *Table) GetPlayerByChair(chair int32) *player.Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getPlayerByChair(chair)
}

func (t *Table) getPlayerByChair(chair int32) *player.Player {
	if chair < 0 || chair >= int32(t.MaxCnt) {
		return nil
	}
	return t.seats[chair]
}

// playerOf maps an engine color back to the seated player.
func (t *Table) playerOf(c model.Color) *player.Player {
	p, _ := lo.Find(t.seats, func(p *player.Player) bool {
		if p == nil {
			return false
		}
		pc, ok := p.GetColor()
		return ok && pc == c
	})
	return p
}

// currentPlayer is the seated player whose turn it is.
func (t *Table) currentPlayer() *player.Player {
	if t.game == nil || t.game.Status() != model.StatusPlaying {
		return nil
	}
	return t.playerOf(t.game.Current().Color())
}

func (t *Table) nameOf(c model.Color) string {
	if p := t.playerOf(c); p != nil {
		return p.Name()
	}
	return c.String()
}

// ChairColor is the color of a chair: four chairs take the ring order, two
// chairs sit opposite as red and green.
func ChairColor(maxCnt int16, chair int32) model.Color {
	if maxCnt == 2 {
		return model.AllColors[chair*2]
	}
	return model.AllColors[chair]
}

func (t *Table) Counter() (userCnt, aiCnt, allCnt, gamingCnt int32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counter()
}

func (t *Table) counter() (userCnt, aiCnt, allCnt, gamingCnt int32) {
	for _, seat := range t.seats {
		if seat == nil {
			continue
		}
		if seat.IsRobot() {
			aiCnt++
		} else {
			userCnt++
		}
		if seat.IsGaming() {
			gamingCnt++
		}
		allCnt++
	}
	return
}

func (t *Table) turn() int64 {
	if t.game == nil {
		return 0
	}
	return t.game.Turn()
}
