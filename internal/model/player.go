package model

import (
	"fmt"

	"github.com/samber/lo"
)

// Player is one seat: a color, its 4 pieces and the attrition state.
type Player struct {
	color    Color
	pieces   [PiecesPerPlayer]*Piece
	active   bool
	resigned bool
	missed   int32 // missed deadlines
}

func newPlayer(c Color) *Player {
	p := &Player{color: c, active: true}
	for i := range p.pieces {
		p.pieces[i] = newPiece(c, int32(i))
	}
	return p
}

func (p *Player) Color() Color           { return p.color }
func (p *Player) Active() bool           { return p.active }
func (p *Player) Resigned() bool         { return p.resigned }
func (p *Player) MissedDeadlines() int32 { return p.missed }

// Pieces returns the player's pieces ordered by index.
func (p *Player) Pieces() []*Piece { return p.pieces[:] }

func (p *Player) Piece(index int32) *Piece {
	if index < 0 || index >= PiecesPerPlayer {
		return nil
	}
	return p.pieces[index]
}

// FinishedCount is the number of pieces that reached the centre.
func (p *Player) FinishedCount() int {
	return lo.CountBy(p.pieces[:], func(pc *Piece) bool { return pc.IsFinished() })
}

// AllFinished is the win condition.
func (p *Player) AllFinished() bool { return p.FinishedCount() == PiecesPerPlayer }

func (p *Player) Desc() string {
	return fmt.Sprintf("(%s active:%v missed:%d pieces:%v)", p.color, p.active, p.missed,
		lo.Map(p.pieces[:], func(pc *Piece, _ int) string { return pc.pos.String() }))
}

func (p *Player) clone() *Player {
	cp := *p
	for i, pc := range p.pieces {
		cp.pieces[i] = pc.clone()
	}
	return &cp
}
