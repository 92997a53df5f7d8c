package table

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/conf"
	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/work"
)

// manualTimer is a virtual-clock scheduler; tasks run only when the test fires them.
type manualTimer struct {
	now    time.Duration
	nextID int64
	tasks  map[int64]*manualTask
}

type manualTask struct {
	id int64
	at time.Duration
	f  func()
}

func newManualTimer() *manualTimer {
	return &manualTimer{tasks: map[int64]*manualTask{}}
}

func (m *manualTimer) Len() int       { return len(m.tasks) }
func (m *manualTimer) Running() int32 { return 0 }
func (m *manualTimer) Stop()          {}
func (m *manualTimer) CancelAll()     { m.tasks = map[int64]*manualTask{} }

func (m *manualTimer) Once(delay time.Duration, f func()) int64 {
	m.nextID++
	m.tasks[m.nextID] = &manualTask{id: m.nextID, at: m.now + delay, f: f}
	return m.nextID
}

func (m *manualTimer) Forever(interval time.Duration, f func()) int64 {
	panic("not used by tables")
}

func (m *manualTimer) Cancel(id int64) { delete(m.tasks, id) }

// fireNext runs the earliest pending task and advances the clock to it.
func (m *manualTimer) fireNext() bool {
	if len(m.tasks) == 0 {
		return false
	}
	pending := lo.Values(m.tasks)
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].at != pending[j].at {
			return pending[i].at < pending[j].at
		}
		return pending[i].id < pending[j].id
	})
	next := pending[0]
	delete(m.tasks, next.id)
	m.now = next.at
	next.f()
	return true
}

type inlineLoop struct{}

func (inlineLoop) Start() error                          { return nil }
func (inlineLoop) Stop()                                 {}
func (inlineLoop) Status() work.LoopStatus               { return work.LoopStatus{} }
func (inlineLoop) Post(job func())                       { job() }
func (inlineLoop) PostCtx(_ context.Context, job func()) { job() }
func (inlineLoop) PostAndWait(job func() ([]byte, error)) ([]byte, error) {
	return job()
}
func (inlineLoop) PostAndWaitCtx(_ context.Context, job func() ([]byte, error)) ([]byte, error) {
	return job()
}

type fakeRepo struct {
	room   *conf.Room
	timer  *manualTimer
	saved  []*Record
	logout []int64
}

func newFakeRepo(chairs int32, mutate ...func(*conf.Room)) *fakeRepo {
	room := &conf.Room{
		Table: &conf.Table{TableNum: 2, ChairNum: chairs},
		Game: &conf.Game{
			TurnTimeoutMs:       15000,
			MissedDeadlineLimit: 3,
			AutoMoveSingle:      true,
		},
		Robot:    &conf.Robot{MinThinkMs: 100, MaxThinkMs: 100},
		LogCache: &conf.LogCache{},
	}
	for _, f := range mutate {
		f(room)
	}
	return &fakeRepo{room: room, timer: newManualTimer()}
}

func (r *fakeRepo) GetLoop() work.Loop           { return inlineLoop{} }
func (r *fakeRepo) GetTimer() work.Scheduler     { return r.timer }
func (r *fakeRepo) GetRoomConfig() *conf.Room    { return r.room }
func (r *fakeRepo) GetTopology() *model.Topology { return model.DefaultTopology() }

func (r *fakeRepo) SaveSnapshot(_ context.Context, rec *Record) error {
	r.saved = append(r.saved, rec)
	return nil
}

func (r *fakeRepo) LogoutGame(p *player.Player, _ int32, _ string) {
	r.logout = append(r.logout, p.GetPlayerID())
}

func newPlayer(id int64, robot bool) *player.Player {
	return player.New(&player.Raw{ID: id, IsRobot: robot})
}

// startedTable seats two humans and fires the ready countdown.
func startedTable(t *testing.T, repo *fakeRepo) (*Table, *player.Player, *player.Player) {
	t.Helper()
	tb := NewTable(1, repo.room, repo)
	p1, p2 := newPlayer(1, false), newPlayer(2, false)

	require.True(t, tb.ThrowInto(p1))
	require.Equal(t, StWait, tb.GetStage())
	require.True(t, tb.ThrowInto(p2))
	require.Equal(t, StReady, tb.GetStage())
	require.False(t, tb.ThrowInto(newPlayer(3, false)), "table is full")

	require.True(t, repo.timer.fireNext())
	require.Equal(t, StDice, tb.GetStage())
	require.NotEmpty(t, tb.GameID())
	return tb, p1, p2
}

// fourSeats fills a four-chair table and starts the round. With redRobot the
// red chair is taken by a robot.
func fourSeats(t *testing.T, repo *fakeRepo, redRobot bool) (*Table, []*player.Player) {
	t.Helper()
	tb := NewTable(1, repo.room, repo)
	ps := lo.Map([]int64{1, 2, 3, 4}, func(id int64, i int) *player.Player { return newPlayer(id, redRobot && i == 0) })
	for _, p := range ps {
		require.True(t, tb.ThrowInto(p))
	}
	require.True(t, repo.timer.fireNext())
	require.Equal(t, model.Red, tb.Phase().Color)
	return tb, ps
}

func TestChairColor(t *testing.T) {
	require.Equal(t, []model.Color{model.Red, model.Green}, []model.Color{ChairColor(2, 0), ChairColor(2, 1)})
	require.Equal(t, model.AllColors[:], lo.Map([]int32{0, 1, 2, 3}, func(c int32, _ int) model.Color { return ChairColor(4, c) }))
}

func TestTableRound(t *testing.T) {
	repo := newFakeRepo(2)
	tb, p1, p2 := startedTable(t, repo)

	c1, _ := p1.GetColor()
	c2, _ := p2.GetColor()
	require.Equal(t, model.Red, c1)
	require.Equal(t, model.Green, c2)
	require.True(t, p1.IsGaming())

	tb.SetDiceSource(model.ScriptedDice(3, 6, 4))

	require.False(t, tb.OnDiceReq(p2), "not p2's turn")
	require.True(t, tb.OnDiceReq(p1))
	require.Equal(t, StDice, tb.GetStage(), "no grace delay, next turn starts at once")
	require.Equal(t, model.Green, tb.Phase().Color)

	require.True(t, tb.OnDiceReq(p2))
	require.Equal(t, StMove, tb.GetStage())
	require.Len(t, tb.Phase().Legal, 4)

	require.False(t, tb.OnMoveReq(p1, 0))
	require.False(t, tb.OnMoveReq(p2, 9))
	require.True(t, tb.OnMoveReq(p2, 0))
	require.Equal(t, StDice, tb.GetStage())
	require.Equal(t, model.Green, tb.Phase().Color, "a six rolls again")

	feed := tb.Activity()
	require.Equal(t, "p1 rolled a 3.", feed[0])
	require.Equal(t, "p1's turn auto-passed.", feed[1])
	require.Equal(t, "p2 rolled a 6.", feed[2])
	require.Contains(t, feed[3], "p2 moved piece #1 from home:0 to ring:")

	snap := tb.Snapshot()
	require.NotNil(t, snap)
	require.Equal(t, tb.Phase().Color.String(), snap.Players[snap.Current].Color)

	require.False(t, tb.ThrowOff(p1), "players stay seated while the round runs")
}

func TestTableGracePause(t *testing.T) {
	repo := newFakeRepo(2, func(c *conf.Room) { c.Game.GraceDelayMs = 1000 })
	tb, p1, p2 := startedTable(t, repo)
	tb.SetDiceSource(model.FixedDice(3))

	require.True(t, tb.OnDiceReq(p1))
	require.Equal(t, StPass, tb.GetStage())
	require.False(t, tb.OnDiceReq(p2), "no roll during the pause")

	require.True(t, repo.timer.fireNext())
	require.Equal(t, StDice, tb.GetStage())
	require.True(t, tb.OnDiceReq(p2))
}

func TestTableDeadline(t *testing.T) {
	t.Run("miss passes the turn", func(t *testing.T) {
		repo := newFakeRepo(2)
		tb, p1, _ := startedTable(t, repo)

		require.True(t, repo.timer.fireNext())
		require.Equal(t, StDice, tb.GetStage())
		require.Equal(t, model.Green, tb.Phase().Color)
		require.Equal(t, int32(1), p1.GetTimeoutCnt())
		require.True(t, p1.IsGaming())
		require.Contains(t, tb.Activity(), "p1 missed the deadline (1).")
	})

	t.Run("limit drops and the other player wins", func(t *testing.T) {
		repo := newFakeRepo(2, func(c *conf.Room) { c.Game.MissedDeadlineLimit = 1 })
		tb, p1, p2 := startedTable(t, repo)

		require.True(t, repo.timer.fireNext())
		require.Equal(t, StResult, tb.GetStage())
		require.Equal(t, player.StDropped, p1.GetStatus())
		require.Contains(t, tb.Activity(), "p1 was dropped due to inactivity.")
		require.Contains(t, tb.Activity(), "p2 won the game!")

		require.Len(t, repo.saved, 1)
		rec := repo.saved[0]
		require.Equal(t, p2.GetPlayerID(), rec.Winner)
		require.Equal(t, map[string]int64{"red": 1, "green": 2}, rec.Players)
		require.Equal(t, tb.GameID(), rec.GameID)
		require.Equal(t, model.StatusFinished, rec.Snapshot.Status)
	})

	t.Run("stale timer is dropped", func(t *testing.T) {
		repo := newFakeRepo(2)
		tb, p1, _ := startedTable(t, repo)
		turn := tb.game.Turn()

		tb.OnTimer(StDice, tb.GameID(), turn+1)
		tb.OnTimer(StMove, tb.GameID(), turn)
		tb.OnTimer(StDice, "another-round", turn)
		require.Equal(t, int32(0), p1.GetTimeoutCnt())
		require.Equal(t, model.Red, tb.Phase().Color)

		tb.OnTimer(StDice, tb.GameID(), turn)
		require.Equal(t, int32(1), p1.GetTimeoutCnt())
	})
}

func TestTableResign(t *testing.T) {
	t.Run("last standing wins", func(t *testing.T) {
		repo := newFakeRepo(2)
		tb, p1, p2 := startedTable(t, repo)

		require.True(t, tb.OnResign(p2), "resigning out of turn")
		require.False(t, tb.OnResign(p2))
		require.Equal(t, StResult, tb.GetStage())
		require.Equal(t, player.StResigned, p2.GetStatus())
		require.Equal(t, model.PhaseFinished, tb.Phase().Kind)
		require.Equal(t, model.Red, tb.Phase().Winner)
		require.Equal(t, []string{"p2 resigned.", "p1 won the game!"}, tb.Activity())
		require.Equal(t, p1.GetPlayerID(), repo.saved[0].Winner)

		require.True(t, repo.timer.fireNext())
		require.Equal(t, StReady, tb.GetStage(), "both seats are ready for the next round")
		require.True(t, p2.IsReady())
	})

	t.Run("four seats keep playing", func(t *testing.T) {
		repo := newFakeRepo(4)
		tb, ps := fourSeats(t, repo, false)

		require.True(t, tb.OnResign(ps[0]))
		require.Equal(t, StDice, tb.GetStage())
		require.Equal(t, model.Blue, tb.Phase().Color)
		require.Empty(t, repo.saved)
	})

	t.Run("resign out of turn keeps the deadline", func(t *testing.T) {
		repo := newFakeRepo(4)
		tb, ps := fourSeats(t, repo, false)

		require.True(t, tb.OnResign(ps[2]))
		require.Equal(t, StDice, tb.GetStage())
		require.Equal(t, model.Red, tb.Phase().Color)

		require.True(t, repo.timer.fireNext())
		require.Equal(t, int32(1), ps[0].GetTimeoutCnt())
		require.Equal(t, model.Blue, tb.Phase().Color)
	})

	t.Run("robot on turn still acts after another seat resigns", func(t *testing.T) {
		repo := newFakeRepo(4)
		tb, ps := fourSeats(t, repo, true)
		tb.SetDiceSource(model.FixedDice(3))

		require.True(t, tb.OnResign(ps[2]))
		for i := 0; i < 3 && tb.Phase().Color == model.Red; i++ {
			require.True(t, repo.timer.fireNext())
		}
		require.Equal(t, model.Blue, tb.Phase().Color)
		require.Zero(t, ps[0].GetTimeoutCnt())
	})

	t.Run("exit resigns and leaves", func(t *testing.T) {
		repo := newFakeRepo(2)
		tb, p1, p2 := startedTable(t, repo)

		require.True(t, tb.OnExitGame(p1, 0, "bye"))
		require.Equal(t, []int64{1}, repo.logout)
		require.Equal(t, int32(-1), p1.GetTableID())
		require.Equal(t, int32(1), tb.GetSitCnt())
		require.Equal(t, p2.GetPlayerID(), repo.saved[0].Winner)

		require.True(t, repo.timer.fireNext())
		require.Equal(t, StWait, tb.GetStage())
	})
}

func TestTableExitDuringRound(t *testing.T) {
	repo := newFakeRepo(4)
	tb, ps := fourSeats(t, repo, false)

	require.True(t, tb.OnExitGame(ps[2], 0, "logout"))
	require.True(t, tb.OnExitGame(ps[2], 0, "logout"), "asking twice is fine")
	require.True(t, tb.Leaving(ps[2]))
	require.Equal(t, player.StResigned, ps[2].GetStatus())
	require.Equal(t, int32(4), tb.GetSitCnt(), "the chair is held until the round ends")
	require.Empty(t, repo.logout)

	require.True(t, tb.OnResign(ps[1]))
	require.True(t, tb.OnResign(ps[3]))
	require.Equal(t, StResult, tb.GetStage())

	require.True(t, repo.timer.fireNext())
	require.Equal(t, StWait, tb.GetStage())
	require.Equal(t, []int64{3}, repo.logout)
	require.Equal(t, int32(-1), ps[2].GetTableID())
	require.Equal(t, int32(3), tb.GetSitCnt())
	require.False(t, tb.Leaving(ps[2]))
	require.True(t, ps[0].IsReady())
}

func TestTableLeaveBeforeStart(t *testing.T) {
	repo := newFakeRepo(2)
	tb := NewTable(1, repo.room, repo)
	p1, p2 := newPlayer(1, false), newPlayer(2, false)
	require.True(t, tb.ThrowInto(p1))
	require.True(t, tb.ThrowInto(p2))
	require.Equal(t, StReady, tb.GetStage())

	require.True(t, tb.ThrowOff(p2))
	require.Equal(t, StWait, tb.GetStage())
	require.Nil(t, tb.GetPlayerByChair(1))
	require.False(t, repo.timer.fireNext(), "the countdown was cancelled")
}

func TestRobotsPlayToTheEnd(t *testing.T) {
	repo := newFakeRepo(2, func(c *conf.Room) { c.Robot.Open = true })
	tb := NewTable(1, repo.room, repo)
	r1, r2 := newPlayer(900001, true), newPlayer(900002, true)

	require.True(t, tb.CanEnterRobot(r1))
	require.True(t, tb.ThrowInto(r1))
	require.True(t, tb.ThrowInto(r2))

	for i := 0; i < 100000 && tb.GetStage() != StResult; i++ {
		require.True(t, repo.timer.fireNext())
	}
	require.Equal(t, StResult, tb.GetStage())
	require.Zero(t, r1.GetTimeoutCnt(), "robots act before the deadline")
	require.Zero(t, r2.GetTimeoutCnt())

	require.Len(t, repo.saved, 1)
	require.Contains(t, []int64{r1.GetPlayerID(), r2.GetPlayerID()}, repo.saved[0].Winner)
}

func TestRenderEvent(t *testing.T) {
	name := func(c model.Color) string { return "alice" }
	tests := []struct {
		e    model.Event
		want string
	}{
		{model.Event{Kind: model.EventDice, Dice: 5}, "alice rolled a 5."},
		{model.Event{Kind: model.EventMove, Piece: model.PieceID{Index: 2}, From: model.OnRing(3), To: model.OnRing(7),
			Captured: []model.Captured{{}}}, "alice moved piece #3 from ring:3 to ring:7 and captured!"},
		{model.Event{Kind: model.EventTurnPassed}, "alice's turn auto-passed."},
		{model.Event{Kind: model.EventTurnForfeited}, "alice forfeited the turn."},
		{model.Event{Kind: model.EventPlayerDropped}, "alice was dropped due to inactivity."},
		{model.Event{Kind: model.EventPlayerResigned}, "alice resigned."},
		{model.Event{Kind: model.EventPlayerWon}, "alice won the game!"},
	}
	for _, tt := range tests {
		t.Run(tt.e.Kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, RenderEvent(tt.e, name))
		})
	}
}

func TestManager(t *testing.T) {
	repo := newFakeRepo(2)
	m := NewManager(repo.room, repo)
	defer m.Close()

	require.Len(t, m.GetTableList(), 2)
	require.ErrorIs(t, m.ThrowInto(nil), ErrPlayerInvalid)

	p1, p2, p3 := newPlayer(1, false), newPlayer(2, false), newPlayer(3, false)
	require.NoError(t, m.ThrowInto(p1))
	require.NoError(t, m.ThrowInto(p2))
	require.Equal(t, p1.GetTableID(), p2.GetTableID(), "company is preferred")
	require.NoError(t, m.ThrowInto(p3))
	require.NotEqual(t, p1.GetTableID(), p3.GetTableID())

	require.Len(t, m.GetTableListWith(NoEmpty), 2)
	require.Len(t, m.GetTableListWith(NoFull), 1)
	require.NoError(t, m.ThrowInto(newPlayer(4, false)))
	require.Empty(t, m.GetTableListWith(NoFull))
	require.ErrorIs(t, m.ThrowInto(newPlayer(5, false)), ErrNoTable)

	require.NoError(t, m.ExitTable(p3, 0, ""))
	require.ErrorIs(t, m.ExitTable(p3, 0, ""), ErrTableNotFound)
}
