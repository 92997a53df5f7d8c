package table

import (
	"sync/atomic"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/library/ext"
)

const (
	EnterMinIntervalSec = 1
	EnterMaxIntervalSec = 7
	ExitMinIntervalSec  = 3
	ExitMaxIntervalSec  = 10
	ExitRandChance      = 0.05
)

// RobotLogic drives the robot seats of a table. Its methods run with the table lock held.
type RobotLogic struct {
	mTable        *Table
	lastEnterUnix atomic.Int64
	lastExitUnix  atomic.Int64
}

func (r *RobotLogic) init(t *Table) {
	r.mTable = t
}

func (r *RobotLogic) markEnterNow() {
	r.lastEnterUnix.Store(time.Now().Unix())
}

func (r *RobotLogic) markExitNow() {
	r.lastExitUnix.Store(time.Now().Unix())
}

func (r *RobotLogic) EnterTooShort() bool {
	elapsedSec := time.Now().Unix() - r.lastEnterUnix.Load()
	return elapsedSec < int64(ext.RandIntInclusive(EnterMinIntervalSec, EnterMaxIntervalSec))
}

func (r *RobotLogic) ExitTooShort() bool {
	elapsedSec := time.Now().Unix() - r.lastExitUnix.Load()
	return elapsedSec < int64(ext.RandIntInclusive(ExitMinIntervalSec, ExitMaxIntervalSec))
}

// CanEnter paces robot arrivals at the table.
func (r *RobotLogic) CanEnter(p *player.Player) bool {
	if !r.mTable.repo.GetRoomConfig().Robot.Open {
		return false
	}
	return p != nil && p.IsRobot() && !r.mTable.IsFull() && !r.EnterTooShort()
}

// CanExit decides whether a robot leaves between rounds. Robots stay while humans
// play with them and otherwise leave now and then to churn the tables.
func (r *RobotLogic) CanExit(p *player.Player) bool {
	if !r.mTable.repo.GetRoomConfig().Robot.Open {
		return true
	}
	if p == nil || r.ExitTooShort() {
		return false
	}
	userCnt, _, _, _ := r.mTable.counter()
	if userCnt > 0 {
		return false
	}
	return ext.IsHitFloat(ExitRandChance)
}

// thinkDelay is a random pause that always leaves room before the turn deadline.
func (r *RobotLogic) thinkDelay() time.Duration {
	c := r.mTable.repo.GetRoomConfig()
	delay := time.Duration(ext.RandIntInclusive(c.Robot.MinThinkMs, c.Robot.MaxThinkMs)) * time.Millisecond
	if limit := c.Game.TurnTimeout() / 2; delay > limit {
		delay = limit
	}
	return delay
}

// ActivePlayer schedules the robot's roll or move for the stage just entered.
func (r *RobotLogic) ActivePlayer(p *player.Player) {
	t := r.mTable
	stage := t.stage.GetState()
	if !stage.IsTurn() || p != t.currentPlayer() {
		return
	}
	gameID, turn := t.gameID, t.turn()

	t.repo.GetTimer().Once(r.thinkDelay(), func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.isStale(stage, gameID, turn) {
			return
		}

		switch stage {
		case StDice:
			t.onDiceReq(p)
		case StMove:
			id, ok := t.game.BestMove()
			if !ok {
				log.Errorf("robot has no move. tb=%v p=%v phase=%v", t.Desc(), p.Desc(), t.game.Phase())
				return
			}
			t.onMoveReq(p, id.Index)
		}
	})
}
