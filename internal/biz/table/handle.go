package table

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/model"
)

// OnDiceReq rolls for p when it is p's turn to roll.
func (t *Table) OnDiceReq(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onDiceReq(p)
}

func (t *Table) onDiceReq(p *player.Player) bool {
	if p == nil || t.stage.GetState() != StDice || p != t.currentPlayer() {
		return false
	}

	out, err := t.game.Roll(t.dice)
	if err != nil {
		log.Errorf("OnDiceReq failed. p=%v err=%v", p.Desc(), err)
		return false
	}
	t.flushEvents()
	t.mLog.Dice(p, out)
	log.Debugf("OnDiceReq: p=%v, dice=%d, legal=%v, passed=%v, forfeited=%v",
		p.Desc(), out.Dice, out.Legal, out.Passed, out.Forfeited)

	switch {
	case out.Forfeited, out.Passed:
		t.pause()
	default:
		t.enterTurn()
	}
	return true
}

// OnMoveReq moves piece index of p with the pending dice value.
func (t *Table) OnMoveReq(p *player.Player, index int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onMoveReq(p, index)
}

func (t *Table) onMoveReq(p *player.Player, index int32) bool {
	if p == nil || t.stage.GetState() != StMove || p != t.currentPlayer() {
		return false
	}

	color, _ := p.GetColor()
	out, err := t.game.Move(model.PieceID{Color: color, Index: index})
	if err != nil {
		log.Errorf("OnMoveReq failed. p=%v index=%d err=%v", p.Desc(), index, err)
		return false
	}
	t.flushEvents()
	t.mLog.Move(p, out)
	log.Debugf("OnMoveReq. p=%v move=%v", p.Desc(), out)

	t.enterTurn()
	return true
}

// OnResign takes p out of the running round. Its pieces stay on the board.
func (t *Table) OnResign(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onResign(p)
}

func (t *Table) onResign(p *player.Player) bool {
	if p == nil || t.game == nil || !p.IsGaming() {
		return false
	}
	color, _ := p.GetColor()
	if err := t.game.Resign(color); err != nil {
		log.Errorf("OnResign failed. p=%v err=%v", p.Desc(), err)
		return false
	}
	p.SetOut(true)
	t.flushEvents()
	t.mLog.resign(p)

	// Resign bumps the turn and strands the armed deadline even when p was
	// not on turn. Re-arm it for whoever acts now.
	t.enterTurn()
	return true
}

// OnExitGame resigns a playing p, then frees its chair. When the round is still
// running the chair is freed once it ends.
func (t *Table) OnExitGame(p *player.Player, code int32, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil || t.getPlayerByChair(p.GetChairID()) != p {
		return false
	}
	if p.IsGaming() && !t.onResign(p) {
		return false
	}
	if t.exitGame(p, code, msg) {
		return true
	}
	if t.game == nil {
		return false
	}
	t.deferExit(p, code, msg)
	return true
}

type pendingExit struct {
	p    *player.Player
	code int32
	msg  string
}

func (t *Table) deferExit(p *player.Player, code int32, msg string) {
	if lo.ContainsBy(t.leaving, func(e pendingExit) bool { return e.p == p }) {
		return
	}
	t.leaving = append(t.leaving, pendingExit{p: p, code: code, msg: msg})
	t.mLog.write("[Exit] deferred until round end. p=%v", p.Desc())
}

// Leaving reports whether p asked to leave and waits for the round to end.
func (t *Table) Leaving(p *player.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.ContainsBy(t.leaving, func(e pendingExit) bool { return e.p == p })
}
