package model

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

/*
	Board topology

	- 52 shared ring cells (0..51), clockwise
	- entry cells: Red 0, Blue 13, Green 26, Yellow 39
	- 8 safe cells: the 4 entries + 8, 21, 34, 47
	- per color a private stretch of 6 cells, the 6th is the shared centre (finish)
	- a ring piece leaves the ring after 46 steps from its entry
*/

const (
	RingSize           = 52                    // shared ring length
	StretchLen         = 6                     // home stretch incl. finish
	FinishStep         = StretchLen - 1        // stretch index that means Finished
	HomeEntryThreshold = RingSize - StretchLen // 46
	PiecesPerPlayer    = 4
	SafeCellCount      = 8
)

// Coord is a 2-D board coordinate.
type Coord struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Topology is the immutable board geometry shared by every game.
type Topology struct {
	entry   [ColorCount]int32
	safe    map[int32]struct{}
	ring    [RingSize]Coord
	stretch [ColorCount][StretchLen]Coord
	yard    [ColorCount][PiecesPerPlayer]Coord
	center  Coord
}

//go:embed topology.yaml
var defaultTopologyYAML []byte

var (
	defaultTopology     *Topology
	defaultTopologyOnce sync.Once
)

// DefaultTopology returns the canonical board. It panics if the embedded table is broken.
func DefaultTopology() *Topology {
	defaultTopologyOnce.Do(func() {
		t, err := LoadTopology(defaultTopologyYAML)
		if err != nil {
			panic(fmt.Errorf("embedded topology invalid: %w", err))
		}
		defaultTopology = t
	})
	return defaultTopology
}

type topologyFile struct {
	Center  [2]int32              `yaml:"center"`
	Entry   map[string]int32      `yaml:"entry"`
	Safe    []int32               `yaml:"safe"`
	Ring    [][2]int32            `yaml:"ring"`
	Stretch map[string][][2]int32 `yaml:"stretch"`
	Yard    map[string][][2]int32 `yaml:"yard"`
}

// LoadTopology parses and validates a YAML geometry table.
func LoadTopology(data []byte) (*Topology, error) {
	var f topologyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, ErrInvalidTopology.WithCause(err)
	}
	t, err := f.build()
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *topologyFile) build() (*Topology, error) {
	t := &Topology{
		center: toCoord(f.Center),
		safe:   make(map[int32]struct{}, len(f.Safe)),
	}
	if len(f.Ring) != RingSize {
		return nil, invalidTopology("ring has %d cells, want %d", len(f.Ring), RingSize)
	}
	for i, xy := range f.Ring {
		t.ring[i] = toCoord(xy)
	}
	for _, c := range f.Safe {
		if _, dup := t.safe[c]; dup {
			return nil, invalidTopology("duplicate safe cell %d", c)
		}
		t.safe[c] = struct{}{}
	}
	for _, color := range AllColors {
		name := color.String()
		cell, ok := f.Entry[name]
		if !ok {
			return nil, invalidTopology("missing entry cell for %s", name)
		}
		t.entry[color] = cell

		stretch := f.Stretch[name]
		if len(stretch) != StretchLen {
			return nil, invalidTopology("%s stretch has %d cells, want %d", name, len(stretch), StretchLen)
		}
		for i, xy := range stretch {
			t.stretch[color][i] = toCoord(xy)
		}

		yard := f.Yard[name]
		if len(yard) != PiecesPerPlayer {
			return nil, invalidTopology("%s yard has %d slots, want %d", name, len(yard), PiecesPerPlayer)
		}
		for i, xy := range yard {
			t.yard[color][i] = toCoord(xy)
		}
	}
	return t, nil
}

// Validate checks the geometry once; afterwards every lookup is total.
func (t *Topology) Validate() error {
	seenEntry := make(map[int32]struct{}, ColorCount)
	for _, color := range AllColors {
		e := t.entry[color]
		if e < 0 || e >= RingSize {
			return invalidTopology("%s entry cell %d out of range", color, e)
		}
		if _, dup := seenEntry[e]; dup {
			return invalidTopology("entry cell %d shared by two colors", e)
		}
		seenEntry[e] = struct{}{}
		if _, ok := t.safe[e]; !ok {
			return invalidTopology("%s entry cell %d is not safe", color, e)
		}
		if t.stretch[color][FinishStep] != t.center {
			return invalidTopology("%s stretch does not end at the centre", color)
		}
	}
	if len(t.safe) != SafeCellCount {
		return invalidTopology("%d safe cells, want %d", len(t.safe), SafeCellCount)
	}
	for c := range t.safe {
		if c < 0 || c >= RingSize {
			return invalidTopology("safe cell %d out of range", c)
		}
	}
	seenRing := make(map[Coord]int, RingSize)
	for i, c := range t.ring {
		if j, dup := seenRing[c]; dup {
			return invalidTopology("ring cells %d and %d share coordinate %v", j, i, c)
		}
		seenRing[c] = i
	}
	return nil
}

// EntryCell is the ring cell a piece of color c lands on when leaving the yard.
func (t *Topology) EntryCell(c Color) int32 { return t.entry[c] }

// RingCellOf maps steps counted from the color's entry onto the ring.
func (t *Topology) RingCellOf(c Color, stepsFromEntry int32) int32 {
	return ((t.entry[c]+stepsFromEntry)%RingSize + RingSize) % RingSize
}

// DistanceFromEntry is how far cell lies ahead of the color's entry.
func (t *Topology) DistanceFromEntry(c Color, cell int32) int32 {
	return (cell - t.entry[c] + RingSize) % RingSize
}

// IsSafe reports whether cell suppresses capture.
func (t *Topology) IsSafe(cell int32) bool {
	_, ok := t.safe[cell]
	return ok
}

// SafeCells returns the safe ring cells in ascending order.
func (t *Topology) SafeCells() []int32 {
	out := make([]int32, 0, len(t.safe))
	for i := int32(0); i < RingSize; i++ {
		if t.IsSafe(i) {
			out = append(out, i)
		}
	}
	return out
}

// RingCoord is the board coordinate of a ring cell.
func (t *Topology) RingCoord(cell int32) Coord { return t.ring[cell] }

// HomeStretchCellOf is the coordinate of stretch step 0..5; step 5 is the centre.
func (t *Topology) HomeStretchCellOf(c Color, step int32) Coord {
	if step >= FinishStep {
		return t.center
	}
	return t.stretch[c][step]
}

// YardCoord is the coordinate of a yard slot.
func (t *Topology) YardCoord(c Color, slot int32) Coord { return t.yard[c][slot] }

// Center is the shared finish coordinate.
func (t *Topology) Center() Coord { return t.center }

// CoordOf projects a track position of color c onto the board.
func (t *Topology) CoordOf(c Color, pos TrackPosition) Coord {
	switch pos.Kind() {
	case KindHome:
		return t.YardCoord(c, pos.Slot())
	case KindRing:
		return t.RingCoord(pos.Cell())
	case KindStretch:
		return t.HomeStretchCellOf(c, pos.Step())
	default:
		return t.center
	}
}

func toCoord(xy [2]int32) Coord { return Coord{X: xy[0], Y: xy[1]} }
