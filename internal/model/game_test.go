package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newStarted(t *testing.T, seats int, opts ...Option) *Game {
	t.Helper()
	g, err := NewGame(seats, opts...)
	require.NoError(t, err)
	colors := []Color{Red, Green}
	if seats == ColorCount {
		colors = AllColors[:]
	}
	for _, c := range colors {
		require.NoError(t, g.SeatPlayer(c))
	}
	require.NoError(t, g.Start())
	return g
}

func place(g *Game, c Color, index int32, pos TrackPosition) {
	g.Player(c).Piece(index).setPos(pos)
}

func eventKinds(g *Game) []EventKind {
	return lo.Map(g.Events(), func(e Event, _ int) EventKind { return e.Kind })
}

func TestSeating(t *testing.T) {
	_, err := NewGame(3)
	require.ErrorIs(t, err, ErrInvalidSeatCount)

	g, err := NewGame(2)
	require.NoError(t, err)
	require.Equal(t, StatusWaitingForPlayers, g.Status())

	_, err = g.Roll(FixedDice(6))
	require.ErrorIs(t, err, ErrGameNotActive)

	require.ErrorIs(t, g.SeatPlayer(Color(9)), ErrInvalidColor)
	require.NoError(t, g.SeatPlayer(Green))
	require.ErrorIs(t, g.SeatPlayer(Green), ErrSeatTaken)
	require.ErrorIs(t, g.Start(), ErrNotEnoughSeats)

	require.NoError(t, g.SeatPlayer(Red))
	require.Equal(t, StatusReady, g.Status())
	require.ErrorIs(t, g.SeatPlayer(Blue), ErrGameFull)

	require.NoError(t, g.Start())
	require.Equal(t, StatusPlaying, g.Status())
	require.ErrorIs(t, g.Start(), ErrGameNotActive)
	require.ErrorIs(t, g.SeatPlayer(Blue), ErrGameNotActive)

	ph := g.Phase()
	require.Equal(t, PhaseAwaitingRoll, ph.Kind)
	require.Equal(t, Red, ph.Color, "turn order follows the ring")
}

func TestThreeSixesForfeit(t *testing.T) {
	g := newStarted(t, 4)

	out, err := g.Roll(FixedDice(6))
	require.NoError(t, err)
	require.True(t, out.AwaitingMove())
	require.Len(t, out.Legal, 4)
	mv, err := g.Move(PieceID{Red, 0})
	require.NoError(t, err)
	require.Equal(t, OnRing(0), mv.To)
	require.True(t, mv.ExtraRoll)
	require.Equal(t, 0, mv.Next)

	out, err = g.Roll(FixedDice(6))
	require.NoError(t, err)
	require.Equal(t, int32(2), out.SixStreak)
	mv, err = g.Move(PieceID{Red, 0})
	require.NoError(t, err)
	require.Equal(t, OnRing(6), mv.To)
	require.Equal(t, 0, mv.Next)

	out, err = g.Roll(FixedDice(6))
	require.NoError(t, err)
	require.True(t, out.Forfeited)
	require.Nil(t, out.AutoMove)
	require.Equal(t, 1, out.Next)
	require.Equal(t, OnRing(6), g.Player(Red).Piece(0).Position())
	require.Equal(t, int32(0), g.SixStreak())
	require.Equal(t, Blue, g.Phase().Color)

	require.Equal(t, []EventKind{
		EventDice, EventMove, EventDice, EventMove, EventDice, EventTurnForfeited,
	}, eventKinds(g))
}

func TestNoLegalMove(t *testing.T) {
	t.Run("non six passes the turn", func(t *testing.T) {
		g := newStarted(t, 4)
		out, err := g.Roll(FixedDice(3))
		require.NoError(t, err)
		require.True(t, out.Passed)
		require.Equal(t, 1, out.Next)
		require.Empty(t, g.LegalMoves())
	})

	t.Run("six keeps the roller", func(t *testing.T) {
		g := newStarted(t, 4)
		for i := int32(0); i < 3; i++ {
			place(g, Red, i, Finished())
		}
		place(g, Red, 3, InHomeStretch(Red, 2))

		out, err := g.Roll(FixedDice(6))
		require.NoError(t, err)
		require.True(t, out.Passed)
		require.Equal(t, 0, out.Next)
		require.Equal(t, int32(1), g.SixStreak())

		out, err = g.Roll(FixedDice(4))
		require.NoError(t, err)
		require.True(t, out.Passed)
		require.Equal(t, 1, out.Next)
		require.Equal(t, int32(0), g.SixStreak())
	})

	t.Run("inactive seats are skipped", func(t *testing.T) {
		g := newStarted(t, 4)
		g.Player(Blue).active = false
		out, err := g.Roll(FixedDice(2))
		require.NoError(t, err)
		require.Equal(t, 2, out.Next)
		require.Equal(t, Green, g.Current().Color())
	})
}

func TestAutoMoveSingle(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		g := newStarted(t, 4)
		place(g, Red, 0, OnRing(10))
		out, err := g.Roll(FixedDice(4))
		require.NoError(t, err)
		require.NotNil(t, out.AutoMove)
		require.Equal(t, OnRing(14), out.AutoMove.To)
		require.Equal(t, 1, out.Next)
		require.Empty(t, g.LegalMoves())
	})

	t.Run("disabled", func(t *testing.T) {
		g := newStarted(t, 4, WithAutoMoveSingle(false))
		place(g, Red, 0, OnRing(10))
		out, err := g.Roll(FixedDice(4))
		require.NoError(t, err)
		require.True(t, out.AwaitingMove())
		require.Equal(t, []PieceID{{Red, 0}}, g.LegalMoves())
		require.Equal(t, PhaseAwaitingMove, g.Phase().Kind)

		before := g.Snapshot()
		_, err = g.Roll(FixedDice(4))
		require.ErrorIs(t, err, ErrRollAlreadyPending)
		_, err = g.Move(PieceID{Red, 1})
		require.ErrorIs(t, err, ErrIllegalMove)
		_, err = g.Move(PieceID{Blue, 0})
		require.ErrorIs(t, err, ErrIllegalMove)
		require.Equal(t, before, g.Snapshot(), "rejected calls leave the game untouched")

		mv, err := g.Move(PieceID{Red, 0})
		require.NoError(t, err)
		require.Equal(t, OnRing(14), mv.To)
		require.Equal(t, 1, mv.Next)
	})
}

func TestInvalidDice(t *testing.T) {
	g := newStarted(t, 2)
	before := g.Snapshot()
	for _, v := range []int32{0, 7, -1} {
		_, err := g.Roll(FixedDice(v))
		require.ErrorIs(t, err, ErrInvalidDice)
	}
	require.Equal(t, before, g.Snapshot())
	require.Empty(t, g.Events())
}

func TestMoveOntoSafeCell(t *testing.T) {
	tests := []struct {
		name  string
		enemy Color
		cell  int32
		from  int32
	}{
		{"blue_on_21", Blue, 21, 18},
		{"green_on_8", Green, 8, 5},
		{"yellow_on_39", Yellow, 39, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newStarted(t, 4)
			place(g, tt.enemy, 0, OnRing(tt.cell))
			place(g, Red, 0, OnRing(tt.from))

			out, err := g.Roll(FixedDice(tt.cell - tt.from))
			require.NoError(t, err)
			require.NotNil(t, out.AutoMove)
			require.Empty(t, out.AutoMove.Captured)
			require.Len(t, g.PieceAt(tt.cell), 2)
			require.Equal(t, OnRing(tt.cell), g.Player(tt.enemy).Piece(0).Position())
		})
	}
}

func TestPieceAt(t *testing.T) {
	g := newStarted(t, 4)
	require.Empty(t, g.PieceAt(-1), "yard pieces are not on the ring")
	require.Empty(t, g.PieceAt(0))

	place(g, Red, 2, OnRing(0))
	place(g, Blue, 1, InHomeStretch(Blue, 3))
	require.Len(t, g.PieceAt(0), 1)
	require.Empty(t, g.PieceAt(-1))
	require.Empty(t, g.PieceAt(3))
}

func TestMoveCaptures(t *testing.T) {
	setup := func(t *testing.T, opts ...Option) *Game {
		g := newStarted(t, 4, opts...)
		place(g, Green, 2, OnRing(9))
		place(g, Red, 0, OnRing(5))
		return g
	}

	t.Run("capture passes the turn", func(t *testing.T) {
		g := setup(t)
		out, err := g.Roll(FixedDice(4))
		require.NoError(t, err)
		mv := out.AutoMove
		require.NotNil(t, mv)
		require.Equal(t, []Captured{{Piece: PieceID{Green, 2}, From: OnRing(9), To: AtHome(2)}}, mv.Captured)
		require.Equal(t, AtHome(2), g.Player(Green).Piece(2).Position())
		require.False(t, mv.ExtraRoll)
		require.Equal(t, 1, mv.Next)
	})

	t.Run("bonus roll", func(t *testing.T) {
		g := setup(t, WithBonusRoll(true))
		out, err := g.Roll(FixedDice(4))
		require.NoError(t, err)
		require.True(t, out.AutoMove.ExtraRoll)
		require.Equal(t, 0, out.Next)
		require.Equal(t, int32(0), g.SixStreak())
	})
}

func TestWin(t *testing.T) {
	g := newStarted(t, 2)
	for i := int32(0); i < 3; i++ {
		place(g, Red, i, Finished())
	}
	place(g, Red, 3, InHomeStretch(Red, 2))

	out, err := g.Roll(FixedDice(3))
	require.NoError(t, err)
	require.True(t, out.Finished)
	require.True(t, out.AutoMove.Won)
	require.Equal(t, Finished(), out.AutoMove.To)

	require.Equal(t, StatusFinished, g.Status())
	winner, ok := g.Winner()
	require.True(t, ok)
	require.Equal(t, Red, winner)
	require.Equal(t, PhaseFinished, g.Phase().Kind)

	_, err = g.Roll(FixedDice(6))
	require.ErrorIs(t, err, ErrGameNotActive)
	_, err = g.ReportDeadlineMissed()
	require.ErrorIs(t, err, ErrGameNotActive)
	require.Equal(t, EventPlayerWon, g.Events()[len(g.Events())-1].Kind)
}

func TestTurnCounter(t *testing.T) {
	g := newStarted(t, 2)
	turn := g.Turn()
	_, err := g.Roll(FixedDice(2))
	require.NoError(t, err)
	require.Greater(t, g.Turn(), turn)

	turn = g.Turn()
	_, err = g.Roll(FixedDice(0))
	require.Error(t, err)
	require.Equal(t, turn, g.Turn())
}

func TestEventsBounded(t *testing.T) {
	g := newStarted(t, 2)
	for i := 0; i < 100; i++ {
		_, err := g.Roll(FixedDice(1))
		require.NoError(t, err)
	}
	events := g.Events()
	require.Len(t, events, maxEvents)
	require.Equal(t, int64(200), events[len(events)-1].Seq)
	require.Len(t, g.EventsSince(198), 2)
}
