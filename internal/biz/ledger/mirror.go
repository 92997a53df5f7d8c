// Package ledger mirrors a game whose transactions are finalized by an external
// ledger. Each ledger event maps onto one engine entry point, in ledger order.
package ledger

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/r3labs/diff/v3"

	"github.com/yola1107/ludo/internal/model"
	"github.com/yola1107/ludo/library/ext"
)

type Kind int8

const (
	Joined Kind = iota + 1
	Resigned
	Rolled
	Moved
	ForcePassed
)

var kindNames = map[Kind]string{
	Joined:      "joinGame",
	Resigned:    "resign",
	Rolled:      "rollDice",
	Moved:       "movePiece",
	ForcePassed: "forcePass",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int8(k))
}

// Event is one finalized ledger transaction. Seq numbers are contiguous from 1.
type Event struct {
	Seq   int64       `json:"seq"`
	Kind  Kind        `json:"kind"`
	Color model.Color `json:"color"`
	Dice  int32       `json:"dice,omitempty"`  // Rolled
	Piece int32       `json:"piece,omitempty"` // Moved
}

// Mirror replays ledger events onto a local Game. It is not safe for concurrent use.
type Mirror struct {
	seatCount int
	opts      []model.Option
	game      *model.Game
	seq       int64
	autoMoved *model.PieceID // applied by the engine on the last roll, not yet seen on the ledger
	log       *log.Helper
}

func NewMirror(seatCount int, logger log.Logger, opts ...model.Option) (*Mirror, error) {
	g, err := model.NewGame(seatCount, opts...)
	if err != nil {
		return nil, err
	}
	return &Mirror{
		seatCount: seatCount,
		opts:      opts,
		game:      g,
		log:       log.NewHelper(log.With(logger, "module", "ledger")),
	}, nil
}

func (m *Mirror) Game() *model.Game { return m.game }

// Seq is the last applied ledger sequence number.
func (m *Mirror) Seq() int64 { return m.seq }

func desync(format string, args ...any) error {
	return model.ErrStateDesync.WithCause(fmt.Errorf(format, args...))
}

// Apply replays e. Events at or below Seq were already applied and are ignored.
// A gap, an event for the wrong player, or an engine rejection is ErrStateDesync;
// the caller recovers with Resync.
func (m *Mirror) Apply(e Event) error {
	if e.Seq <= m.seq {
		m.log.Debugf("duplicate ledger event seq=%d kind=%v", e.Seq, e.Kind)
		return nil
	}
	if e.Seq != m.seq+1 {
		return desync("ledger seq gap: have %d, got %d", m.seq, e.Seq)
	}
	if err := m.apply(e); err != nil {
		m.log.Warnf("ledger event rejected. seq=%d kind=%v color=%v err=%v", e.Seq, e.Kind, e.Color, err)
		return err
	}
	m.seq = e.Seq
	return nil
}

func (m *Mirror) apply(e Event) error {
	autoMoved := m.autoMoved
	m.autoMoved = nil

	switch e.Kind {
	case Joined:
		if err := m.game.SeatPlayer(e.Color); err != nil {
			return model.ErrStateDesync.WithCause(err)
		}
		if m.game.Status() == model.StatusReady {
			if err := m.game.Start(); err != nil {
				return model.ErrStateDesync.WithCause(err)
			}
		}

	case Resigned:
		if err := m.game.Resign(e.Color); err != nil {
			return model.ErrStateDesync.WithCause(err)
		}

	case Rolled:
		if err := m.expectCurrent(e); err != nil {
			return err
		}
		out, err := m.game.Roll(model.FixedDice(e.Dice))
		if err != nil {
			return model.ErrStateDesync.WithCause(err)
		}
		if out.AutoMove != nil {
			id := out.AutoMove.Piece
			m.autoMoved = &id
		}

	case Moved:
		id := model.PieceID{Color: e.Color, Index: e.Piece}
		if autoMoved != nil && *autoMoved == id {
			return nil
		}
		if err := m.expectCurrent(e); err != nil {
			return err
		}
		if _, err := m.game.Move(id); err != nil {
			return model.ErrStateDesync.WithCause(err)
		}

	case ForcePassed:
		if err := m.expectCurrent(e); err != nil {
			return err
		}
		if _, err := m.game.ReportDeadlineMissed(); err != nil {
			return model.ErrStateDesync.WithCause(err)
		}

	default:
		return desync("unknown ledger event kind %v", e.Kind)
	}
	return nil
}

func (m *Mirror) expectCurrent(e Event) error {
	if m.game.Status() != model.StatusPlaying {
		return model.ErrStateDesync.WithCause(model.ErrGameNotActive)
	}
	if cur := m.game.Current().Color(); cur != e.Color {
		return desync("%v by %v, but it is %v's turn", e.Kind, e.Color, cur)
	}
	return nil
}

// Verify compares the local game with an authoritative snapshot. The local event
// counter is not part of the comparison.
func (m *Mirror) Verify(auth *model.Snapshot) error {
	if auth == nil {
		return desync("nil authoritative snapshot")
	}
	local, remote := m.game.Snapshot(), auth.Clone()
	local.Seq, remote.Seq = 0, 0

	changes, err := ext.Diff(local, remote, diff.SliceOrdering(true))
	if err != nil {
		return err
	}
	if len(changes) > 0 {
		return desync("local state differs at seq %d:\n%s", m.seq, ext.FormatChangelog(changes))
	}
	return nil
}

// Resync replaces the local game with auth, taken at ledger sequence ledgerSeq.
func (m *Mirror) Resync(auth *model.Snapshot, ledgerSeq int64) error {
	g, err := model.Restore(auth, m.opts...)
	if err != nil {
		return err
	}
	if g.SeatCount() != m.seatCount {
		return desync("snapshot has %d seats, mirror %d", g.SeatCount(), m.seatCount)
	}
	m.log.Infof("resync at seq=%d (was %d)", ledgerSeq, m.seq)
	m.game, m.seq, m.autoMoved = g, ledgerSeq, nil
	return nil
}
