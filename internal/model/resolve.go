package model

// Resolution is the outcome of moving a piece by one dice value.
type Resolution struct {
	Path  []TrackPosition // every intermediate position, the last one equals Final
	Final TrackPosition
}

func validDice(x int32) bool { return x >= 1 && x <= 6 }

// Resolve computes where p ends after x steps without mutating anything.
//
//	AtHome        -> OnRing(entry) on a six only
//	InHomeStretch -> step+x must not pass the finish
//	OnRing        -> stays on the ring up to distance 46, then enters the stretch
//	Finished      -> never moves
func (t *Topology) Resolve(p *Piece, x int32) (*Resolution, error) {
	if !validDice(x) {
		return nil, ErrInvalidDice
	}

	c := p.Color()
	pos := p.Position()

	switch pos.Kind() {
	case KindHome:
		if x != 6 {
			return nil, ErrNeedSix
		}
		final := OnRing(t.EntryCell(c))
		return &Resolution{Path: []TrackPosition{final}, Final: final}, nil

	case KindStretch:
		step := pos.Step()
		if step+x > FinishStep {
			return nil, ErrOvershoot
		}
		path := make([]TrackPosition, 0, x)
		for s := step + 1; s <= step+x; s++ {
			path = append(path, stretchOrFinish(c, s))
		}
		return &Resolution{Path: path, Final: path[len(path)-1]}, nil

	case KindRing:
		dist := t.DistanceFromEntry(c, pos.Cell())
		if dist+x > HomeEntryThreshold+StretchLen {
			return nil, ErrOvershoot
		}
		path := make([]TrackPosition, 0, x)
		for s := int32(1); s <= x; s++ {
			if d := dist + s; d <= HomeEntryThreshold {
				path = append(path, OnRing(t.RingCellOf(c, d)))
			} else {
				path = append(path, stretchOrFinish(c, d-HomeEntryThreshold-1))
			}
		}
		return &Resolution{Path: path, Final: path[len(path)-1]}, nil

	default:
		return nil, ErrPieceFinished
	}
}

// Destination is Resolve for callers that only need the end state.
func (t *Topology) Destination(p *Piece, x int32) (TrackPosition, error) {
	r, err := t.Resolve(p, x)
	if err != nil {
		return TrackPosition{}, err
	}
	return r.Final, nil
}

// IsLegal reports whether p has a path for dice value x.
func (t *Topology) IsLegal(p *Piece, x int32) bool {
	_, err := t.Resolve(p, x)
	return err == nil
}

// LegalPieces is the subset of pieces that can move x.
func (t *Topology) LegalPieces(pieces []*Piece, x int32) []PieceID {
	var out []PieceID
	for _, p := range pieces {
		if t.IsLegal(p, x) {
			out = append(out, p.ID())
		}
	}
	return out
}

// StepsTravelled is the progress of a position counted from the entry cell:
// 0 in the yard or on the entry, 47..51 on the stretch, 52 at the finish.
func (t *Topology) StepsTravelled(c Color, pos TrackPosition) int32 {
	switch pos.Kind() {
	case KindRing:
		return t.DistanceFromEntry(c, pos.Cell())
	case KindStretch:
		return HomeEntryThreshold + 1 + pos.Step()
	case KindFinished:
		return HomeEntryThreshold + StretchLen
	default:
		return 0
	}
}

func stretchOrFinish(c Color, step int32) TrackPosition {
	if step == FinishStep {
		return Finished()
	}
	return InHomeStretch(c, step)
}
