package model

import "math"

var (
	_threatenedDis = int32(6)
	_dangerousDis  = int32(6)
)

// BestMove picks the pending legal piece with the highest heuristic score. Ties keep
// the lower piece, so the choice is deterministic.
func (g *Game) BestMove() (PieceID, bool) {
	if g.status != StatusPlaying || g.dice == 0 || len(g.legal) == 0 {
		return PieceID{}, false
	}
	if len(g.legal) == 1 {
		return g.legal[0], true
	}

	best, pick := int32(math.MinInt32), g.legal[0]
	for _, id := range g.legal {
		roster := make([]*Player, len(g.players))
		for i, p := range g.players {
			roster[i] = p.clone()
		}
		mover := roster[g.current]
		pc := mover.Piece(id.Index)
		res, err := g.topo.Resolve(pc, g.dice)
		if err != nil {
			continue
		}
		from := pc.pos
		pc.setPos(res.Final)
		captured := g.topo.ApplyCapture(res.Final, mover.color, roster)

		if s := g.topo.evaluateMove(mover, roster, from, pc, g.dice, captured); s > best {
			best, pick = s, id
		}
	}
	return pick, true
}

// evaluateMove scores the board after one move: kills, progress, leaving the yard,
// finishing, then danger and threat of every own piece against enemies on the ring.
func (t *Topology) evaluateMove(mover *Player, roster []*Player, from TrackPosition, moved *Piece, x int32, captured []Captured) int32 {
	score := x * 2

	for _, k := range captured {
		score += t.StepsTravelled(k.Piece.Color, k.From)*2 + 20
	}
	if from.IsHome() {
		score += 60
	}
	if moved.IsFinished() {
		score += 80
	}

	for _, p := range mover.pieces {
		pos := p.pos
		if pos.IsInStretch() {
			score += 2
			continue
		}
		if !pos.IsOnRing() {
			continue
		}
		score += t.StepsTravelled(mover.color, pos) / 5
		if t.IsSafe(pos.Cell()) {
			score += 15
			continue
		}

		for _, e := range roster {
			if e.color == mover.color {
				continue
			}
			for _, ep := range e.pieces {
				if !ep.pos.IsOnRing() {
					continue
				}
				forwardDist := (ep.pos.Cell() - pos.Cell() + RingSize) % RingSize
				backwardDist := (pos.Cell() - ep.pos.Cell() + RingSize) % RingSize

				// enemy behind can reach us
				if backwardDist > 0 && backwardDist <= _dangerousDis {
					score -= (_dangerousDis - backwardDist + 1) * 2
				}
				// we can reach an enemy ahead
				if forwardDist > 0 && forwardDist <= _threatenedDis && !t.IsSafe(ep.pos.Cell()) {
					score += (_threatenedDis - forwardDist + 1) / 2
				}
			}
		}
	}
	return score
}
