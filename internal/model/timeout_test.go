package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeadlinePassed(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Second
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just_started", start, false},
		{"inside_window", start.Add(14 * time.Second), false},
		{"at_deadline", start.Add(window), true},
		{"after_deadline", start.Add(time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeadlinePassed(start, tt.now, window))
		})
	}
}

func TestReportDeadlineMissed(t *testing.T) {
	t.Run("forced pass clears the pending roll", func(t *testing.T) {
		g := newStarted(t, 4, WithAutoMoveSingle(false))
		place(g, Red, 0, OnRing(10))
		_, err := g.Roll(FixedDice(4))
		require.NoError(t, err)

		out, err := g.ReportDeadlineMissed()
		require.NoError(t, err)
		require.Equal(t, int32(1), out.Missed)
		require.False(t, out.Dropped)
		require.Equal(t, 1, out.Next)
		require.Equal(t, int32(0), g.Dice())
		require.Empty(t, g.LegalMoves())
		require.Equal(t, OnRing(10), g.Player(Red).Piece(0).Position())
	})

	t.Run("third miss drops and the last player wins", func(t *testing.T) {
		g := newStarted(t, 2)
		for i := 1; i <= 3; i++ {
			out, err := g.ReportDeadlineMissed()
			require.NoError(t, err)
			require.Equal(t, Red, out.Color)
			require.Equal(t, int32(i), out.Missed)
			if i < 3 {
				require.False(t, out.Dropped)
				pass, err := g.Roll(FixedDice(3))
				require.NoError(t, err)
				require.Equal(t, Green, pass.Color)
				continue
			}
			require.True(t, out.Dropped)
			require.True(t, out.Won)
		}
		require.Equal(t, StatusFinished, g.Status())
		winner, _ := g.Winner()
		require.Equal(t, Green, winner)
		require.False(t, g.Player(Red).Active())
		require.Equal(t, []EventKind{
			EventDeadlineMissed, EventDice, EventTurnPassed,
			EventDeadlineMissed, EventDice, EventTurnPassed,
			EventDeadlineMissed, EventPlayerDropped, EventPlayerWon,
		}, eventKinds(g))
	})

	t.Run("dropped seat is skipped", func(t *testing.T) {
		g := newStarted(t, 4, WithMissedDeadlineLimit(1))
		place(g, Red, 0, OnRing(20))

		out, err := g.ReportDeadlineMissed()
		require.NoError(t, err)
		require.True(t, out.Dropped)
		require.False(t, out.Won)
		require.Equal(t, StatusPlaying, g.Status())

		for _, c := range []Color{Blue, Green, Yellow} {
			r, err := g.Roll(FixedDice(2))
			require.NoError(t, err)
			require.Equal(t, c, r.Color)
		}
		require.Equal(t, Blue, g.Current().Color())
		require.Equal(t, OnRing(20), g.Player(Red).Piece(0).Position(), "pieces of a dropped player stay put")
	})

	t.Run("zero limit never drops", func(t *testing.T) {
		g := newStarted(t, 2, WithMissedDeadlineLimit(0))
		for i := 0; i < 10; i++ {
			out, err := g.ReportDeadlineMissed()
			require.NoError(t, err)
			require.False(t, out.Dropped)
		}
		require.Equal(t, StatusPlaying, g.Status())
	})
}

func TestResign(t *testing.T) {
	t.Run("before start frees the seat", func(t *testing.T) {
		g, err := NewGame(2)
		require.NoError(t, err)
		require.NoError(t, g.SeatPlayer(Red))
		require.NoError(t, g.SeatPlayer(Green))
		require.Equal(t, StatusReady, g.Status())

		require.ErrorIs(t, g.Resign(Blue), ErrNotSeated)
		require.NoError(t, g.Resign(Green))
		require.Equal(t, StatusWaitingForPlayers, g.Status())
		require.NoError(t, g.SeatPlayer(Blue))
		require.Equal(t, StatusReady, g.Status())
	})

	t.Run("attrition to one player", func(t *testing.T) {
		g := newStarted(t, 4)

		require.NoError(t, g.Resign(Red))
		require.Equal(t, Blue, g.Current().Color())
		require.ErrorIs(t, g.Resign(Red), ErrPlayerInactive)
		require.True(t, g.Player(Red).Resigned())

		require.NoError(t, g.Resign(Green))
		require.Equal(t, Blue, g.Current().Color())
		require.Equal(t, StatusPlaying, g.Status())

		require.NoError(t, g.Resign(Yellow))
		require.Equal(t, StatusFinished, g.Status())
		winner, ok := g.Winner()
		require.True(t, ok)
		require.Equal(t, Blue, winner)
		require.ErrorIs(t, g.Resign(Blue), ErrGameNotActive)
	})
}
