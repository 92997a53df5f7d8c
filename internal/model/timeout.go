package model

import (
	"time"
)

// DeadlinePassed reports whether a turn window opened at startedAt has run out at now.
func DeadlinePassed(startedAt, now time.Time, window time.Duration) bool {
	return !now.Before(startedAt.Add(window))
}

// ReportDeadlineMissed charges the current player with a missed deadline and forces a
// pass, discarding any pending roll. Reaching the configured limit drops the player;
// when one active player remains that player wins.
func (g *Game) ReportDeadlineMissed() (*PassOutcome, error) {
	if g.status != StatusPlaying {
		return nil, ErrGameNotActive
	}

	pl := g.players[g.current]
	pl.missed++
	g.turn++
	g.record(Event{Kind: EventDeadlineMissed, Color: pl.color, Missed: pl.missed})

	out := &PassOutcome{Player: g.current, Color: pl.color, Missed: pl.missed}
	if limit := g.rules.MissedDeadlineLimit; limit > 0 && pl.missed >= limit {
		pl.active = false
		out.Dropped = true
		g.record(Event{Kind: EventPlayerDropped, Color: pl.color, Missed: pl.missed})
		if g.lastStanding() {
			out.Won = true
			out.Turn, out.Next = g.turn, g.current
			return out, nil
		}
	}
	g.advance()
	out.Turn, out.Next = g.turn, g.current
	return out, nil
}

// Resign removes color c from play. Before the game starts the seat is freed; during
// play the player turns inactive and its pieces stay where they are.
func (g *Game) Resign(c Color) error {
	idx := g.seatOf(c)
	if idx < 0 {
		return ErrNotSeated
	}

	switch g.status {
	case StatusWaitingForPlayers, StatusReady:
		g.players = append(g.players[:idx], g.players[idx+1:]...)
		g.status = StatusWaitingForPlayers
		return nil
	case StatusFinished:
		return ErrGameNotActive
	}

	pl := g.players[idx]
	if !pl.active {
		return ErrPlayerInactive
	}
	pl.active = false
	pl.resigned = true
	g.turn++
	g.record(Event{Kind: EventPlayerResigned, Color: c})

	if g.lastStanding() {
		return nil
	}
	if idx == g.current {
		g.advance()
	}
	return nil
}
