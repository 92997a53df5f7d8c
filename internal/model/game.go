package model

import (
	"fmt"
	"sort"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// Status is the lifecycle of a Game.
type Status int32

const (
	StatusWaitingForPlayers Status = iota
	StatusReady
	StatusPlaying
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusWaitingForPlayers:
		return "waiting"
	case StatusReady:
		return "ready"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

/*
Game is the aggregate mutated by the turn machine.

	AwaitingRoll(p) --Roll--> AwaitingMove(p, dice, legal) --Move--> AwaitingRoll(p or next)
	      |                         |
	      +-- three sixes / no legal move / deadline missed --> AwaitingRoll(next)

A Game is not safe for concurrent use; callers serialize access.
*/
type Game struct {
	topo  *Topology
	rules Rules
	log   *log.Helper

	seatCount int
	players   []*Player // ordered by color once seated
	current   int
	dice      int32 // 0 while awaiting a roll
	legal     []PieceID
	sixStreak int32
	status    Status
	winner    Color
	hasWinner bool

	turn   int64
	seq    int64
	events []Event
}

// NewGame creates an empty table of 2 or 4 seats.
func NewGame(seatCount int, opts ...Option) (*Game, error) {
	if seatCount != 2 && seatCount != ColorCount {
		return nil, ErrInvalidSeatCount
	}
	o := newOptions(opts)
	return &Game{
		topo:      o.topo,
		rules:     o.rules,
		log:       log.NewHelper(log.With(o.logger, "module", "ludo/model")),
		seatCount: seatCount,
		players:   make([]*Player, 0, seatCount),
	}, nil
}

// SeatPlayer takes the seat of color c. Filling the last seat makes the game Ready.
func (g *Game) SeatPlayer(c Color) error {
	if !c.Valid() {
		return ErrInvalidColor
	}
	if g.status != StatusWaitingForPlayers && g.status != StatusReady {
		return ErrGameNotActive
	}
	if g.Player(c) != nil {
		return ErrSeatTaken
	}
	if len(g.players) >= g.seatCount {
		return ErrGameFull
	}
	g.players = append(g.players, newPlayer(c))
	sort.Slice(g.players, func(i, j int) bool { return g.players[i].color < g.players[j].color })
	if len(g.players) == g.seatCount {
		g.status = StatusReady
	}
	return nil
}

// Start begins play with the lowest seated color.
func (g *Game) Start() error {
	switch g.status {
	case StatusReady:
	case StatusWaitingForPlayers:
		return ErrNotEnoughSeats
	default:
		return ErrGameNotActive
	}
	g.status = StatusPlaying
	g.current = 0
	g.turn++
	g.log.Debugf("game started seats=%d first=%s", g.seatCount, g.players[0].color)
	return nil
}

func (g *Game) Topology() *Topology { return g.topo }
func (g *Game) Rules() Rules        { return g.rules }
func (g *Game) SeatCount() int      { return g.seatCount }
func (g *Game) Status() Status      { return g.status }
func (g *Game) Dice() int32         { return g.dice }
func (g *Game) SixStreak() int32    { return g.sixStreak }

// Turn is bumped by every accepted state change; schedulers compare it to drop stale timers.
func (g *Game) Turn() int64 { return g.turn }

// Winner is set once the game is Finished.
func (g *Game) Winner() (Color, bool) { return g.winner, g.hasWinner }

// Players returns the seated players in turn order.
func (g *Game) Players() []*Player { return g.players }

// Player looks a seat up by color.
func (g *Game) Player(c Color) *Player {
	p, _ := lo.Find(g.players, func(p *Player) bool { return p.color == c })
	return p
}

func (g *Game) seatOf(c Color) int {
	_, idx, _ := lo.FindIndexOf(g.players, func(p *Player) bool { return p.color == c })
	return idx
}

// CurrentIndex is the seat index of the player to act.
func (g *Game) CurrentIndex() int { return g.current }

// Current is the player to act, nil before the game starts.
func (g *Game) Current() *Player {
	if g.status != StatusPlaying && g.status != StatusFinished {
		return nil
	}
	return g.players[g.current]
}

// ActivePlayers returns the players still eligible for turns.
func (g *Game) ActivePlayers() []*Player {
	return lo.Filter(g.players, func(p *Player, _ int) bool { return p.active })
}

// PieceAt returns every piece standing on a ring cell.
func (g *Game) PieceAt(cell int32) []*Piece {
	var out []*Piece
	for _, p := range g.players {
		for _, pc := range p.pieces {
			if pc.pos.IsOnRing() && pc.pos.Cell() == cell {
				out = append(out, pc)
			}
		}
	}
	return out
}

// PhaseKind names the state of the turn machine.
type PhaseKind int8

const (
	PhaseNotStarted PhaseKind = iota
	PhaseAwaitingRoll
	PhaseAwaitingMove
	PhaseFinished
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseNotStarted:
		return "notStarted"
	case PhaseAwaitingRoll:
		return "awaitingRoll"
	case PhaseAwaitingMove:
		return "awaitingMove"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("PhaseKind(%d)", int8(k))
	}
}

// Phase is a read-only view of the turn machine.
type Phase struct {
	Kind   PhaseKind
	Player int
	Color  Color
	Dice   int32
	Legal  []PieceID
	Winner Color // only for PhaseFinished
}

func (g *Game) Phase() Phase {
	switch g.status {
	case StatusPlaying:
		ph := Phase{Kind: PhaseAwaitingRoll, Player: g.current, Color: g.players[g.current].color}
		if g.dice != 0 {
			ph.Kind = PhaseAwaitingMove
			ph.Dice = g.dice
			ph.Legal = append([]PieceID(nil), g.legal...)
		}
		return ph
	case StatusFinished:
		return Phase{Kind: PhaseFinished, Player: g.seatOf(g.winner), Color: g.winner, Winner: g.winner}
	default:
		return Phase{Kind: PhaseNotStarted}
	}
}

func (g *Game) Desc() string {
	return fmt.Sprintf("status:%s current:%d dice:%d streak:%d turn:%d players:%v",
		g.status, g.current, g.dice, g.sixStreak, g.turn,
		lo.Map(g.players, func(p *Player, _ int) string { return p.Desc() }))
}
