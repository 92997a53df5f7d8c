package model

// Captured records one piece sent back to its yard.
type Captured struct {
	Piece PieceID       `json:"piece"`
	From  TrackPosition `json:"from"`
	To    TrackPosition `json:"to"`
}

// CaptureTargets lists the opposing pieces a mover of color mover would capture by
// landing on final. Only unsafe ring cells capture; friendly stacking never does.
func (t *Topology) CaptureTargets(final TrackPosition, mover Color, roster []*Player) []*Piece {
	if !final.IsOnRing() || t.IsSafe(final.Cell()) {
		return nil
	}
	var kills []*Piece
	for _, pl := range roster {
		if pl == nil || pl.color == mover {
			continue
		}
		for _, pc := range pl.pieces {
			if pc.pos.IsOnRing() && pc.pos.Cell() == final.Cell() {
				kills = append(kills, pc)
			}
		}
	}
	return kills
}

// ApplyCapture sends every target home, each into the yard slot of its own index.
func (t *Topology) ApplyCapture(final TrackPosition, mover Color, roster []*Player) []Captured {
	targets := t.CaptureTargets(final, mover, roster)
	if len(targets) == 0 {
		return nil
	}
	out := make([]Captured, 0, len(targets))
	for _, pc := range targets {
		from := pc.pos
		pc.sendHome()
		out = append(out, Captured{Piece: pc.id, From: from, To: pc.pos})
	}
	return out
}
