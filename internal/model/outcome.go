package model

import "fmt"

// RollOutcome describes what a single roll did to the game.
type RollOutcome struct {
	Turn      int64        `json:"turn"`
	Player    int          `json:"player"` // seat index of the roller
	Color     Color        `json:"color"`
	Dice      int32        `json:"dice"`
	SixStreak int32        `json:"sixStreak"`
	Legal     []PieceID    `json:"legal,omitempty"`
	Forfeited bool         `json:"forfeited,omitempty"` // third six in a row
	Passed    bool         `json:"passed,omitempty"`    // no legal move for the value
	AutoMove  *MoveOutcome `json:"autoMove,omitempty"`  // the single legal move, applied for the player
	Next      int          `json:"next"`
	Finished  bool         `json:"finished,omitempty"`
}

// AwaitingMove reports whether the roller still has to pick a piece.
func (o *RollOutcome) AwaitingMove() bool {
	return !o.Forfeited && !o.Passed && o.AutoMove == nil
}

// MoveOutcome is the before/after record of one applied move.
type MoveOutcome struct {
	Turn      int64           `json:"turn"`
	Player    int             `json:"player"`
	Piece     PieceID         `json:"piece"`
	Dice      int32           `json:"dice"`
	From      TrackPosition   `json:"from"`
	To        TrackPosition   `json:"to"`
	Path      []TrackPosition `json:"path"`
	Captured  []Captured      `json:"captured,omitempty"`
	ExtraRoll bool            `json:"extraRoll,omitempty"` // same player rolls again
	Next      int             `json:"next"`
	Won       bool            `json:"won,omitempty"`
}

func (o *MoveOutcome) String() string {
	return fmt.Sprintf("%s %d: %s -> %s captured=%d next=%d won=%v",
		o.Piece, o.Dice, o.From, o.To, len(o.Captured), o.Next, o.Won)
}

// PassOutcome is the result of a missed deadline.
type PassOutcome struct {
	Turn    int64 `json:"turn"`
	Player  int   `json:"player"`
	Color   Color `json:"color"`
	Missed  int32 `json:"missed"`
	Dropped bool  `json:"dropped,omitempty"` // reached the missed-deadline limit
	Next    int   `json:"next"`
	Won     bool  `json:"won,omitempty"` // attrition left one player
}

// EventKind classifies activity history entries.
type EventKind int8

const (
	EventDice EventKind = iota + 1
	EventMove
	EventTurnPassed
	EventTurnForfeited
	EventDeadlineMissed
	EventPlayerDropped
	EventPlayerResigned
	EventPlayerWon
)

var eventKindNames = map[EventKind]string{
	EventDice:           "dice",
	EventMove:           "move",
	EventTurnPassed:     "turnPassed",
	EventTurnForfeited:  "turnForfeited",
	EventDeadlineMissed: "deadlineMissed",
	EventPlayerDropped:  "playerDropped",
	EventPlayerResigned: "playerResigned",
	EventPlayerWon:      "playerWon",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int8(k))
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is one discrete fact of the game, enough to render an activity line.
type Event struct {
	Seq      int64         `json:"seq"`
	Turn     int64         `json:"turn"`
	Kind     EventKind     `json:"kind"`
	Color    Color         `json:"color"`
	Dice     int32         `json:"dice,omitempty"`
	Piece    PieceID       `json:"piece"`
	From     TrackPosition `json:"from"`
	To       TrackPosition `json:"to"`
	Captured []Captured    `json:"captured,omitempty"`
	Missed   int32         `json:"missed,omitempty"`
}

const maxEvents = 64

func (g *Game) record(e Event) {
	g.seq++
	e.Seq = g.seq
	e.Turn = g.turn
	if len(g.events) == maxEvents {
		copy(g.events, g.events[1:])
		g.events = g.events[:maxEvents-1]
	}
	g.events = append(g.events, e)
	g.log.Debugf("event seq=%d kind=%s color=%s dice=%d piece=%s %s->%s",
		e.Seq, e.Kind, e.Color, e.Dice, e.Piece, e.From, e.To)
}

// Events returns a copy of the bounded activity history, oldest first.
func (g *Game) Events() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

// EventsSince returns the recorded events with Seq greater than seq.
func (g *Game) EventsSince(seq int64) []Event {
	var out []Event
	for _, e := range g.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}
