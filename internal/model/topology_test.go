package model

import (
	"os"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLogger(log.NewStdLogger(os.Stdout))
}

func TestDefaultTopology(t *testing.T) {
	topo := DefaultTopology()
	require.NoError(t, topo.Validate())

	require.Equal(t, int32(0), topo.EntryCell(Red))
	require.Equal(t, int32(13), topo.EntryCell(Blue))
	require.Equal(t, int32(26), topo.EntryCell(Green))
	require.Equal(t, int32(39), topo.EntryCell(Yellow))
	require.Equal(t, []int32{0, 8, 13, 21, 26, 34, 39, 47}, topo.SafeCells())

	for _, c := range AllColors {
		require.True(t, topo.IsSafe(topo.EntryCell(c)), c.String())
		require.Equal(t, topo.Center(), topo.HomeStretchCellOf(c, FinishStep))
		require.Equal(t, topo.Center(), topo.CoordOf(c, Finished()))
	}
	require.Equal(t, Coord{X: 7, Y: 7}, topo.Center())
	require.Equal(t, Coord{X: 1, Y: 6}, topo.RingCoord(0))
}

func TestRingCellOf(t *testing.T) {
	topo := DefaultTopology()
	tests := []struct {
		name  string
		color Color
		steps int32
		want  int32
	}{
		{"red_entry", Red, 0, 0},
		{"red_last_ring_cell", Red, HomeEntryThreshold, 46},
		{"blue_entry", Blue, 0, 13},
		{"green_wraps", Green, 30, 4},
		{"yellow_wraps", Yellow, 13, 0},
		{"yellow_threshold", Yellow, HomeEntryThreshold, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topo.RingCellOf(tt.color, tt.steps)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.steps%RingSize, topo.DistanceFromEntry(tt.color, got))
		})
	}
}

func TestCoordOf(t *testing.T) {
	topo := DefaultTopology()
	seen := map[Coord]string{}
	for cell := int32(0); cell < RingSize; cell++ {
		c := topo.CoordOf(Red, OnRing(cell))
		require.True(t, c.X >= 0 && c.X < 15 && c.Y >= 0 && c.Y < 15, c.String())
		seen[c] = OnRing(cell).String()
	}
	for _, color := range AllColors {
		for step := int32(0); step < FinishStep; step++ {
			c := topo.CoordOf(color, InHomeStretch(color, step))
			_, onRing := seen[c]
			require.False(t, onRing, "stretch %s/%d overlaps the ring", color, step)
		}
		for slot := int32(0); slot < PiecesPerPlayer; slot++ {
			require.Equal(t, topo.YardCoord(color, slot), topo.CoordOf(color, AtHome(slot)))
		}
	}
}

func TestLoadTopologyRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{"bad_yaml", func(string) string { return "ring: [" }},
		{"duplicate_entry", func(s string) string { return strings.Replace(s, "blue: 13", "blue: 0", 1) }},
		{"unsafe_entry", func(s string) string {
			return strings.Replace(s, "safe: [0, 8, 13, 21, 26, 34, 39, 47]", "safe: [0, 8, 14, 21, 26, 34, 39, 47]", 1)
		}},
		{"missing_safe_cell", func(s string) string {
			return strings.Replace(s, "safe: [0, 8, 13, 21, 26, 34, 39, 47]", "safe: [0, 8, 13, 21, 26, 34, 39]", 1)
		}},
	}
	base := string(defaultTopologyYAML)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.mutate(base)
			require.NotEqual(t, base, src)
			_, err := LoadTopology([]byte(src))
			require.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}
