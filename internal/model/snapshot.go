package model

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

// Snapshot is the serialisable state of a Game. Positions use the TrackPosition
// string form so the JSON is stable across versions.
type Snapshot struct {
	SeatCount int              `json:"seatCount"`
	Status    Status           `json:"status"`
	Current   int              `json:"current"`
	Dice      int32            `json:"dice"`
	SixStreak int32            `json:"sixStreak"`
	Winner    string           `json:"winner,omitempty"`
	Turn      int64            `json:"turn"`
	Seq       int64            `json:"seq"`
	Players   []PlayerSnapshot `json:"players"`
}

type PlayerSnapshot struct {
	Color    string   `json:"color"`
	Active   bool     `json:"active"`
	Resigned bool     `json:"resigned,omitempty"`
	Missed   int32    `json:"missed"`
	Pieces   []string `json:"pieces"`
}

// Snapshot captures the game state; the activity history is not part of it.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		SeatCount: g.seatCount,
		Status:    g.status,
		Current:   g.current,
		Dice:      g.dice,
		SixStreak: g.sixStreak,
		Turn:      g.turn,
		Seq:       g.seq,
		Players: lo.Map(g.players, func(p *Player, _ int) PlayerSnapshot {
			return PlayerSnapshot{
				Color:    p.color.String(),
				Active:   p.active,
				Resigned: p.resigned,
				Missed:   p.missed,
				Pieces:   lo.Map(p.pieces[:], func(pc *Piece, _ int) string { return pc.pos.String() }),
			}
		}),
	}
	if g.hasWinner {
		s.Winner = g.winner.String()
	}
	return s
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{}
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return out
}

func (s *Snapshot) Marshal() ([]byte, error) { return json.Marshal(s) }

// UnmarshalSnapshot decodes a snapshot produced by Marshal.
func UnmarshalSnapshot(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, ErrInvalidSnapshot.WithCause(err)
	}
	return s, nil
}

// Restore rebuilds a Game from s. The pending legal set is recomputed from the dice.
func Restore(s *Snapshot, opts ...Option) (*Game, error) {
	if s == nil {
		return nil, invalidSnapshot("nil snapshot")
	}
	g, err := NewGame(s.SeatCount, opts...)
	if err != nil {
		return nil, err
	}
	if len(s.Players) > s.SeatCount {
		return nil, invalidSnapshot("%d players for %d seats", len(s.Players), s.SeatCount)
	}
	if s.Status < StatusWaitingForPlayers || s.Status > StatusFinished {
		return nil, invalidSnapshot("unknown status %d", s.Status)
	}

	for i, ps := range s.Players {
		c, err := ParseColor(ps.Color)
		if err != nil {
			return nil, invalidSnapshot("player %d: unknown color %q", i, ps.Color)
		}
		if i > 0 && c <= g.players[i-1].color {
			return nil, invalidSnapshot("players out of color order at %d", i)
		}
		if len(ps.Pieces) != PiecesPerPlayer {
			return nil, invalidSnapshot("%s has %d pieces", c, len(ps.Pieces))
		}
		p := newPlayer(c)
		p.active, p.resigned, p.missed = ps.Active, ps.Resigned, ps.Missed
		for j, raw := range ps.Pieces {
			pos, err := ParsePosition(raw)
			if err != nil {
				return nil, err
			}
			if pos.IsInStretch() && pos.StretchColor() != c {
				return nil, invalidSnapshot("%s piece %d on %s stretch", c, j, pos.StretchColor())
			}
			if pos.IsOnRing() && g.topo.DistanceFromEntry(c, pos.Cell()) > HomeEntryThreshold {
				return nil, invalidSnapshot("%s piece %d past its home entry at %s", c, j, pos)
			}
			if pos.IsHome() && pos.Slot() != int32(j) {
				return nil, invalidSnapshot("%s piece %d in yard slot %d", c, j, pos.Slot())
			}
			p.pieces[j].pos = pos
		}
		g.players = append(g.players, p)
	}

	g.status = s.Status
	g.current = s.Current
	g.sixStreak = s.SixStreak
	g.turn = s.Turn
	g.seq = s.Seq

	switch g.status {
	case StatusWaitingForPlayers, StatusReady:
		full := len(g.players) == g.seatCount
		if full != (g.status == StatusReady) {
			return nil, invalidSnapshot("status %s with %d/%d seats", g.status, len(g.players), g.seatCount)
		}
		return g, nil
	}

	if len(g.players) != g.seatCount {
		return nil, invalidSnapshot("status %s with %d/%d seats", g.status, len(g.players), g.seatCount)
	}
	if g.current < 0 || g.current >= len(g.players) {
		return nil, invalidSnapshot("current seat %d out of range", g.current)
	}
	if s.SixStreak < 0 || s.SixStreak >= maxSixStreak {
		return nil, invalidSnapshot("six streak %d out of range", s.SixStreak)
	}

	if g.status == StatusFinished {
		c, err := ParseColor(s.Winner)
		if err != nil || g.Player(c) == nil {
			return nil, invalidSnapshot("finished without a seated winner %q", s.Winner)
		}
		g.winner, g.hasWinner = c, true
		return g, nil
	}

	if !g.players[g.current].active {
		return nil, invalidSnapshot("current seat %d is inactive", g.current)
	}
	if len(g.ActivePlayers()) < 2 {
		return nil, invalidSnapshot("playing with fewer than two active players")
	}
	if s.Dice != 0 {
		if !validDice(s.Dice) {
			return nil, invalidSnapshot("pending dice %d", s.Dice)
		}
		legal := g.topo.LegalPieces(g.players[g.current].Pieces(), s.Dice)
		if len(legal) == 0 {
			return nil, invalidSnapshot("pending dice %d has no legal move", s.Dice)
		}
		g.dice, g.legal = s.Dice, legal
	}
	return g, nil
}
