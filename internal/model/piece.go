package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PieceID is the stable identity of a piece: its color and index 0..3.
type PieceID struct {
	Color Color `json:"color"`
	Index int32 `json:"index"`
}

func (id PieceID) Valid() bool {
	return id.Color.Valid() && id.Index >= 0 && id.Index < PiecesPerPlayer
}

func (id PieceID) String() string { return fmt.Sprintf("%s-%d", id.Color, id.Index) }

// ParsePieceID parses the "red-2" form.
func ParsePieceID(s string) (PieceID, error) {
	name, idx, ok := strings.Cut(s, "-")
	if !ok {
		return PieceID{}, ErrIllegalMove
	}
	c, err := ParseColor(name)
	if err != nil {
		return PieceID{}, err
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return PieceID{}, ErrIllegalMove
	}
	id := PieceID{Color: c, Index: int32(n)}
	if !id.Valid() {
		return PieceID{}, ErrIllegalMove
	}
	return id, nil
}

// Piece is a single token with a stable identity.
type Piece struct {
	id  PieceID
	pos TrackPosition
}

// newPiece starts in its own yard slot.
func newPiece(c Color, index int32) *Piece {
	return &Piece{id: PieceID{Color: c, Index: index}, pos: AtHome(index)}
}

func (p *Piece) ID() PieceID             { return p.id }
func (p *Piece) Color() Color            { return p.id.Color }
func (p *Piece) Index() int32            { return p.id.Index }
func (p *Piece) Position() TrackPosition { return p.pos }
func (p *Piece) IsFinished() bool        { return p.pos.IsFinished() }

func (p *Piece) Desc() string {
	return fmt.Sprintf("[%s pos:%s]", p.id, p.pos)
}

// setPos keeps the stretch owner in line with the piece color.
func (p *Piece) setPos(pos TrackPosition) {
	if pos.IsInStretch() && pos.StretchColor() != p.id.Color {
		panic(fmt.Sprintf("piece %s placed on %s stretch", p.id, pos.StretchColor()))
	}
	p.pos = pos
}

// sendHome resets a captured piece into the yard slot matching its index.
func (p *Piece) sendHome() { p.pos = AtHome(p.id.Index) }

func (p *Piece) clone() *Piece {
	cp := *p
	return &cp
}
