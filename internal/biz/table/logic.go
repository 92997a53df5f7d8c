package table

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/model"
)

// OnTimer handles the expiry of the stage armed in round gameID at turn. A timer that
// lost the race against a player action finds another stage or turn and does nothing.
func (t *Table) OnTimer(state StageID, gameID string, turn int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isStale(state, gameID, turn) {
		log.Debugf("[Stage] stale timer dropped. timer=%v/%d now=%v/%d tb=%v", state, turn, t.stage.GetState(), t.turn(), t.Desc())
		return
	}
	log.Debugf("[Stage] OnTimer timeout. St:%v Tb=%v", state, t.Desc())
	switch state {
	case StWait:
		t.checkCanStart()
	case StReady:
		t.onGameStart()
	case StDice, StMove:
		t.onTurnTimeout()
	case StPass:
		t.enterTurn()
	case StResult:
		t.gameEnd()
	default:
		log.Errorf("unhandled stage timeout: %v", state)
	}
}

func (t *Table) isStale(state StageID, gameID string, turn int64) bool {
	return t.stage.GetState() != state || t.gameID != gameID || t.turn() != turn
}

func (t *Table) updateStage(state StageID) {
	t.updateStageWith(state, state.Timeout(t.repo.GetRoomConfig().Game))
}

func (t *Table) updateStageWith(state StageID, duration time.Duration) {
	timer := t.repo.GetTimer()
	timer.Cancel(t.stage.GetTimerID())

	timerID := int64(-1)
	if duration > 0 {
		gameID, turn := t.gameID, t.turn()
		timerID = timer.Once(duration, func() { t.OnTimer(state, gameID, turn) })
	}

	t.stage.Set(state, duration, timerID)
	t.mLog.stage(t.stage.Desc(), t.turn())
}

// checkCanStart moves a full table of ready players to StReady.
func (t *Table) checkCanStart() {
	if t.stage.GetState() != StWait || !t.IsFull() {
		return
	}
	for _, p := range t.seats {
		if p == nil || !p.IsReady() {
			return
		}
	}
	log.Infof("Table %s: all %d seats ready, transitioning to StReady", t.Desc(), t.sitCnt)
	t.updateStage(StReady)
}

func (t *Table) gameOptions() []model.Option {
	c := t.repo.GetRoomConfig().Game
	return []model.Option{
		model.WithTopology(t.repo.GetTopology()),
		model.WithAutoMoveSingle(c.AutoMoveSingle),
		model.WithMissedDeadlineLimit(c.MissedDeadlineLimit),
		model.WithBonusRoll(c.BonusRoll),
		model.WithLogger(log.With(log.GetLogger(), "table", t.ID)),
	}
}

func (t *Table) onGameStart() {
	if !t.IsFull() {
		t.updateStage(StWait)
		return
	}

	g, err := model.NewGame(int(t.MaxCnt), t.gameOptions()...)
	if err != nil {
		log.Errorf("onGameStart: %v tb=%v", err, t.Desc())
		t.updateStage(StWait)
		return
	}
	for _, p := range t.seats {
		color := ChairColor(t.MaxCnt, p.GetChairID())
		if err := g.SeatPlayer(color); err != nil {
			log.Errorf("onGameStart: seat %v: %v tb=%v", color, err, t.Desc())
			t.updateStage(StWait)
			return
		}
		p.SetColor(color)
		p.SetGaming()
	}
	if err := g.Start(); err != nil {
		log.Errorf("onGameStart: %v tb=%v", err, t.Desc())
		t.updateStage(StWait)
		return
	}

	t.game = g
	t.gameID = uuid.NewString()
	t.lastSeq = 0
	t.activity = nil

	log.Debugf("******** <GameStart> %s", t.Desc())
	t.mLog.begin(t.Desc(), t.seats)
	t.enterTurn()
}

// enterTurn arms the stage the engine phase asks for and wakes a robot on turn.
func (t *Table) enterTurn() {
	ph := t.game.Phase()
	switch ph.Kind {
	case model.PhaseFinished:
		t.settle()
		return
	case model.PhaseAwaitingRoll:
		t.updateStage(StDice)
	case model.PhaseAwaitingMove:
		t.updateStage(StMove)
	default:
		log.Errorf("enterTurn: unexpected phase %v tb=%v", ph.Kind, t.Desc())
		return
	}

	if p := t.currentPlayer(); p != nil && p.IsRobot() {
		t.aiLogic.ActivePlayer(p)
	}
}

// pause holds the table for the grace delay before the next deadline starts.
func (t *Table) pause() {
	if t.game.Status() == model.StatusFinished {
		t.settle()
		return
	}
	if t.repo.GetRoomConfig().Game.GraceDelayMs <= 0 {
		t.enterTurn()
		return
	}
	t.updateStage(StPass)
}

// onTurnTimeout charges the current player with a missed deadline.
func (t *Table) onTurnTimeout() {
	p := t.currentPlayer()
	out, err := t.game.ReportDeadlineMissed()
	if err != nil {
		log.Errorf("onTurnTimeout: %v tb=%v", err, t.Desc())
		return
	}
	if p != nil {
		p.IncrTimeoutCnt(true)
		if out.Dropped {
			p.SetOut(false)
		}
		t.mLog.Missed(p, out)
	}
	t.flushEvents()
	t.enterTurn()
}

// flushEvents renders the engine events recorded since the last flush.
func (t *Table) flushEvents() {
	for _, e := range t.game.EventsSince(t.lastSeq) {
		line := RenderEvent(e, t.nameOf)
		t.mLog.write("[Activity] %s", line)
		t.activity = append(t.activity, line)
		t.lastSeq = e.Seq
	}
	if over := len(t.activity) - maxActivity; over > 0 {
		t.activity = t.activity[over:]
	}
}

// settle enters StResult and persists the finished round off the table lock.
func (t *Table) settle() {
	t.updateStage(StResult)

	winner, _ := t.game.Winner()
	wp := t.playerOf(winner)
	rec := &Record{
		GameID:   t.gameID,
		TableID:  t.ID,
		Players:  make(map[string]int64, len(t.seats)),
		Snapshot: t.game.Snapshot(),
		Activity: append([]string(nil), t.activity...),
	}
	for _, p := range lo.Compact(t.seats) {
		if c, ok := p.GetColor(); ok {
			rec.Players[c.String()] = p.GetPlayerID()
		}
	}
	if wp != nil {
		rec.Winner = wp.GetPlayerID()
	}

	t.mLog.settle(wp, winner, t.game.Turn())
	log.Infof("GameOver. tb=%v winner=%v turn=%d", t.Desc(), winner, t.game.Turn())

	repo := t.repo
	repo.GetLoop().Post(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := repo.SaveSnapshot(ctx, rec); err != nil {
			log.Errorf("save snapshot failed. game=%s err=%v", rec.GameID, err)
		}
	})
}

func (t *Table) gameEnd() {
	t.game = nil
	for _, p := range t.seats {
		if p != nil {
			p.Reset()
			p.SetReady()
		}
	}
	t.updateStage(StWait)

	t.checkKick()

	log.Debugf("game end cleanup done. tb=%v", t.Desc())
	t.mLog.end(fmt.Sprintf("cleanup done. %s %s", t.Desc(), logPlayers(t.seats)))

	t.checkCanStart()
}

// checkKick frees the chairs of players that left mid-round and lets robots
// that are done playing leave between rounds.
func (t *Table) checkKick() {
	leaving := t.leaving
	t.leaving = nil
	for _, e := range leaving {
		if !t.exitGame(e.p, e.code, e.msg) {
			log.Errorf("deferred exit failed. p=%v tb=%v", e.p.Desc(), t.Desc())
		}
	}
	for _, p := range lo.Compact(t.seats) {
		if p.IsRobot() && t.aiLogic.CanExit(p) {
			t.exitGame(p, 0, "robot exit")
		}
	}
}

func (t *Table) exitGame(p *player.Player, code int32, msg string) bool {
	if !t.throwOff(p) {
		return false
	}
	repo := t.repo
	repo.GetLoop().Post(func() { repo.LogoutGame(p, code, msg) })
	return true
}
