package player

import (
	"sync"
)

type Manager struct {
	players sync.Map // key: playerID, value: *Player
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(p *Player) {
	m.players.Store(p.GetPlayerID(), p)
}

func (m *Manager) Has(id int64) bool {
	_, ok := m.players.Load(id)
	return ok
}

func (m *Manager) GetByID(id int64) *Player {
	if p, ok := m.players.Load(id); ok {
		return p.(*Player)
	}
	return nil
}

func (m *Manager) Remove(id int64) {
	m.players.Delete(id)
}

func (m *Manager) All() []*Player {
	var result []*Player
	m.players.Range(func(_, value any) bool {
		result = append(result, value.(*Player))
		return true
	})
	return result
}

func (m *Manager) Count() int {
	count := 0
	m.players.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
