package table

import (
	"sync"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/conf"
)

var (
	ErrPlayerInvalid = errors.New(400, "PLAYER_INVALID", "player is nil")
	ErrNoTable       = errors.New(503, "NOT_ENOUGH_TABLE", "no table can take the player")
	ErrTableNotFound = errors.New(404, "TABLE_NOT_FOUND", "player is not at a table")
	ErrExitTable     = errors.New(409, "EXIT_TABLE_FAIL", "table does not allow leaving now")
)

type KindTableList int32

const (
	All KindTableList = iota
	NoEmpty
	NoFull
)

type Manager struct {
	repo     Repo
	tableMap sync.Map // map[int32]*Table
}

func NewManager(c *conf.Room, repo Repo) *Manager {
	m := &Manager{repo: repo}
	for i := int32(1); i <= c.Table.TableNum; i++ {
		m.tableMap.Store(i, NewTable(i, c, repo))
	}
	return m
}

// Close releases the table log files.
func (m *Manager) Close() {
	for _, t := range m.GetTableList() {
		if err := t.mLog.Close(); err != nil {
			log.Warnf("close table log. tb=%d err=%v", t.ID, err)
		}
	}
}

func (m *Manager) GetTable(id int32) *Table {
	if v, ok := m.tableMap.Load(id); ok {
		return v.(*Table)
	}
	return nil
}

func (m *Manager) GetTableList() []*Table {
	return m.GetTableListWith(All)
}

func (m *Manager) GetTableListWith(kind KindTableList) []*Table {
	tc := m.repo.GetRoomConfig().Table
	tables := make([]*Table, 0, tc.TableNum)
	for i := int32(1); i <= tc.TableNum; i++ {
		t := m.GetTable(i)
		if t == nil {
			continue
		}
		switch kind {
		case NoEmpty:
			if !t.Empty() {
				tables = append(tables, t)
			}
		case NoFull:
			if !t.IsFull() {
				tables = append(tables, t)
			}
		case All:
			tables = append(tables, t)
		}
	}
	return tables
}

// ThrowInto seats p at a table, filling tables that already have company first.
func (m *Manager) ThrowInto(p *player.Player) error {
	if p == nil {
		return ErrPlayerInvalid
	}
	if m.tryFindAndEnter(p, false) || m.tryFindAndEnter(p, true) {
		return nil
	}
	return ErrNoTable
}

// ExitTable resigns p from a running round if needed and frees its chair.
func (m *Manager) ExitTable(p *player.Player, code int32, msg string) error {
	if p == nil {
		return ErrPlayerInvalid
	}
	t := m.GetTable(p.GetTableID())
	if t == nil {
		return ErrTableNotFound
	}
	if !t.OnExitGame(p, code, msg) {
		return ErrExitTable
	}
	return nil
}

func (m *Manager) tryFindAndEnter(p *player.Player, allowEmpty bool) bool {
	tc := m.repo.GetRoomConfig().Table
	for i := int32(1); i <= tc.TableNum; i++ {
		t := m.GetTable(i)
		if t == nil || t.IsFull() || !t.CanEnter(p) {
			continue
		}
		if !allowEmpty && t.Empty() {
			continue
		}
		if t.ThrowInto(p) {
			return true
		}
	}
	return false
}
