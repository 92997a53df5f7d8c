package model

import (
	"fmt"

	"github.com/samber/lo"
)

const maxSixStreak = 3

// Roll samples src for the current player and runs the legality check.
//
// A third six in a row forfeits the turn. No legal move passes the turn, except after
// a six where the same player rolls again. With AutoMoveSingle a single legal move is
// applied right away and reported in RollOutcome.AutoMove.
func (g *Game) Roll(src DiceSource) (*RollOutcome, error) {
	if g.status != StatusPlaying {
		return nil, ErrGameNotActive
	}
	if g.dice != 0 {
		return nil, ErrRollAlreadyPending
	}
	x := src()
	if !validDice(x) {
		return nil, ErrInvalidDice
	}

	pl := g.players[g.current]
	if x == 6 {
		g.sixStreak++
	} else {
		g.sixStreak = 0
	}
	g.turn++
	g.record(Event{Kind: EventDice, Color: pl.color, Dice: x})

	out := &RollOutcome{Player: g.current, Color: pl.color, Dice: x, SixStreak: g.sixStreak}

	if g.sixStreak >= maxSixStreak {
		out.Forfeited = true
		g.record(Event{Kind: EventTurnForfeited, Color: pl.color, Dice: x})
		g.advance()
		out.Turn, out.Next = g.turn, g.current
		return out, nil
	}

	legal := g.topo.LegalPieces(pl.Pieces(), x)
	out.Legal = legal
	if len(legal) == 0 {
		out.Passed = true
		g.record(Event{Kind: EventTurnPassed, Color: pl.color, Dice: x})
		if x == 6 {
			g.again()
		} else {
			g.advance()
		}
		out.Turn, out.Next = g.turn, g.current
		return out, nil
	}

	g.dice = x
	g.legal = legal
	if len(legal) == 1 && g.rules.AutoMoveSingle {
		mv, err := g.Move(legal[0])
		if err != nil {
			panic(fmt.Sprintf("auto move %s rejected: %v", legal[0], err))
		}
		out.AutoMove = mv
		out.Finished = mv.Won
		out.Turn, out.Next = mv.Turn, mv.Next
		return out, nil
	}
	out.Turn, out.Next = g.turn, g.current
	return out, nil
}

// LegalMoves is the pending legal set, empty while awaiting a roll.
func (g *Game) LegalMoves() []PieceID {
	if g.status != StatusPlaying || g.dice == 0 {
		return nil
	}
	return append([]PieceID(nil), g.legal...)
}

// Move applies the pending dice value to piece id.
func (g *Game) Move(id PieceID) (*MoveOutcome, error) {
	if g.status != StatusPlaying {
		return nil, ErrGameNotActive
	}
	if g.dice == 0 || !lo.Contains(g.legal, id) {
		return nil, ErrIllegalMove
	}

	pl := g.players[g.current]
	pc := pl.Piece(id.Index)
	res, err := g.topo.Resolve(pc, g.dice)
	if err != nil {
		panic(fmt.Sprintf("legal piece %s does not resolve for %d: %v", id, g.dice, err))
	}

	from := pc.pos
	pc.setPos(res.Final)
	captured := g.topo.ApplyCapture(res.Final, pl.color, g.players)
	g.turn++

	out := &MoveOutcome{
		Player:   g.current,
		Piece:    id,
		Dice:     g.dice,
		From:     from,
		To:       res.Final,
		Path:     res.Path,
		Captured: captured,
	}
	g.record(Event{Kind: EventMove, Color: pl.color, Dice: g.dice, Piece: id, From: from, To: res.Final, Captured: captured})

	if pl.AllFinished() {
		g.finish(pl)
		out.Won = true
		out.Turn, out.Next = g.turn, g.current
		return out, nil
	}

	switch {
	case g.dice == 6:
		out.ExtraRoll = true
		g.again()
	case g.rules.BonusRoll && (len(captured) > 0 || res.Final.IsFinished()):
		out.ExtraRoll = true
		g.again()
	default:
		g.advance()
	}
	out.Turn, out.Next = g.turn, g.current
	return out, nil
}

// again hands the dice back to the current player, keeping the six streak.
func (g *Game) again() {
	g.dice = 0
	g.legal = nil
}

// advance passes the turn to the next active player in seat order.
func (g *Game) advance() {
	g.dice = 0
	g.legal = nil
	g.sixStreak = 0
	n := len(g.players)
	for i := 1; i <= n; i++ {
		next := (g.current + i) % n
		if g.players[next].active {
			g.current = next
			return
		}
	}
}

func (g *Game) finish(winner *Player) {
	g.status = StatusFinished
	g.winner = winner.color
	g.hasWinner = true
	g.current = g.seatOf(winner.color)
	g.dice = 0
	g.legal = nil
	g.sixStreak = 0
	g.record(Event{Kind: EventPlayerWon, Color: winner.color})
	g.log.Debugf("game finished winner=%s turn=%d", winner.color, g.turn)
}

// lastStanding finishes the game when attrition leaves one active player.
func (g *Game) lastStanding() bool {
	active := g.ActivePlayers()
	if len(active) != 1 {
		return false
	}
	g.finish(active[0])
	return true
}
