package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionKind is the active tag of a TrackPosition.
type PositionKind int8

const (
	KindHome     PositionKind = iota // in the yard, waiting for a six
	KindRing                         // on the shared ring
	KindStretch                      // on the color-private home stretch
	KindFinished                     // reached the centre
)

func (k PositionKind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindRing:
		return "ring"
	case KindStretch:
		return "stretch"
	case KindFinished:
		return "finished"
	default:
		return fmt.Sprintf("PositionKind(%d)", int8(k))
	}
}

// TrackPosition is a tagged value: exactly one of AtHome, OnRing, InHomeStretch, Finished.
// The zero value is AtHome(0).
type TrackPosition struct {
	kind  PositionKind
	index int32 // yard slot, ring cell or stretch step depending on kind
	color Color // stretch owner, only meaningful for KindStretch
}

func AtHome(slot int32) TrackPosition {
	if slot < 0 || slot >= PiecesPerPlayer {
		panic(fmt.Sprintf("yard slot %d out of range", slot))
	}
	return TrackPosition{kind: KindHome, index: slot}
}

func OnRing(cell int32) TrackPosition {
	if cell < 0 || cell >= RingSize {
		panic(fmt.Sprintf("ring cell %d out of range", cell))
	}
	return TrackPosition{kind: KindRing, index: cell}
}

func InHomeStretch(c Color, step int32) TrackPosition {
	if step < 0 || step >= FinishStep || !c.Valid() {
		panic(fmt.Sprintf("stretch step %s/%d out of range", c, step))
	}
	return TrackPosition{kind: KindStretch, index: step, color: c}
}

func Finished() TrackPosition { return TrackPosition{kind: KindFinished} }

func (p TrackPosition) Kind() PositionKind { return p.kind }
func (p TrackPosition) IsHome() bool       { return p.kind == KindHome }
func (p TrackPosition) IsOnRing() bool     { return p.kind == KindRing }
func (p TrackPosition) IsInStretch() bool  { return p.kind == KindStretch }
func (p TrackPosition) IsFinished() bool   { return p.kind == KindFinished }

// Slot is the yard slot of an AtHome position, -1 otherwise.
func (p TrackPosition) Slot() int32 { return p.indexIf(KindHome) }

// Cell is the ring cell of an OnRing position, -1 otherwise.
func (p TrackPosition) Cell() int32 { return p.indexIf(KindRing) }

// Step is the stretch step of an InHomeStretch position, -1 otherwise.
func (p TrackPosition) Step() int32 { return p.indexIf(KindStretch) }

// StretchColor is the owner of an InHomeStretch position.
func (p TrackPosition) StretchColor() Color { return p.color }

func (p TrackPosition) indexIf(k PositionKind) int32 {
	if p.kind != k {
		return -1
	}
	return p.index
}

// String renders the compact persisted form: home:2, ring:17, stretch:green:3, finished.
func (p TrackPosition) String() string {
	switch p.kind {
	case KindHome, KindRing:
		return p.kind.String() + ":" + strconv.Itoa(int(p.index))
	case KindStretch:
		return fmt.Sprintf("%s:%s:%d", p.kind, p.color, p.index)
	default:
		return p.kind.String()
	}
}

// ParsePosition is the inverse of TrackPosition.String.
func ParsePosition(s string) (TrackPosition, error) {
	parts := strings.Split(s, ":")
	bad := func() (TrackPosition, error) { return TrackPosition{}, invalidSnapshot("bad position %q", s) }
	atoi := func(v string, lo, hi int) (int32, bool) {
		n, err := strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			return 0, false
		}
		return int32(n), true
	}

	switch {
	case len(parts) == 1 && parts[0] == KindFinished.String():
		return Finished(), nil
	case len(parts) == 2 && parts[0] == KindHome.String():
		if n, ok := atoi(parts[1], 0, PiecesPerPlayer-1); ok {
			return AtHome(n), nil
		}
	case len(parts) == 2 && parts[0] == KindRing.String():
		if n, ok := atoi(parts[1], 0, RingSize-1); ok {
			return OnRing(n), nil
		}
	case len(parts) == 3 && parts[0] == KindStretch.String():
		c, err := ParseColor(parts[1])
		if err != nil {
			return bad()
		}
		if n, ok := atoi(parts[2], 0, FinishStep-1); ok {
			return InHomeStretch(c, n), nil
		}
	}
	return bad()
}

func (p TrackPosition) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *TrackPosition) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
