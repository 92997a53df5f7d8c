package robot

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/internal/biz/player"
	"github.com/yola1107/ludo/internal/biz/table"
	"github.com/yola1107/ludo/internal/conf"
)

const (
	defaultMaxBatchCnt   = 100
	defaultLoadInterval  = 5 * time.Second
	defaultLoginInterval = 5 * time.Second
)

// Manager keeps a pool of robot players and seats free ones at tables.
type Manager struct {
	repo       Repo
	all        sync.Map // key: playerID, value: *Player
	free       sync.Map // key: playerID, value: *Player
	nextID     int64
	timerIDMap sync.Map // map[int64]int64
}

func NewManager(c *conf.Room, repo Repo) *Manager {
	return &Manager{
		repo:   repo,
		nextID: c.Robot.IdBegin,
	}
}

func (m *Manager) Start() error {
	timer := m.repo.GetTimer()
	loadID := timer.Forever(defaultLoadInterval, m.Load)
	loginID := timer.Forever(defaultLoginInterval, m.Login)
	m.timerIDMap.Store(loadID, loadID)
	m.timerIDMap.Store(loginID, loginID)
	return nil
}

func (m *Manager) Stop() {
	timer := m.repo.GetTimer()
	m.timerIDMap.Range(func(key, value any) bool {
		if id, ok := value.(int64); ok && timer != nil {
			timer.Cancel(id)
		}
		m.timerIDMap.Delete(key)
		return true
	})
}

// Load tops the pool up to robot.num, at most defaultMaxBatchCnt per call. Ids run
// from robot.idBegin and are never reused.
func (m *Manager) Load() {
	cfg := m.repo.GetRoomConfig().Robot
	if !cfg.Open {
		return
	}

	remain := cfg.Num - int32(m.countAll())
	idEnd := cfg.IdBegin + int64(cfg.Num*2)
	if remain <= 0 || m.nextID > idEnd {
		return
	}

	for i := int32(0); i < min(defaultMaxBatchCnt, remain); i++ {
		id := m.nextID
		m.nextID++
		rob, err := m.repo.CreateRobot(&player.Raw{ID: id, IsRobot: true})
		if err != nil {
			log.Errorf("create robot %d: %v", id, err)
			continue
		}
		if rob == nil {
			log.Debugf("robot %d is nil", id)
			continue
		}
		m.all.Store(id, rob)
		m.free.Store(id, rob)
	}
}

// Login offers the free robots, lowest id first, to the tables in order.
func (m *Manager) Login() {
	if !m.repo.GetRoomConfig().Robot.Open {
		return
	}

	tables := m.repo.GetTableList()
	if len(tables) == 0 {
		return
	}

	for _, p := range m.freeList() {
		for _, tb := range tables {
			if m.Enter(p, tb) {
				break
			}
		}
	}
}

func (m *Manager) freeList() []*player.Player {
	var list []*player.Player
	m.free.Range(func(_, val any) bool {
		if p, ok := val.(*player.Player); ok {
			list = append(list, p)
		}
		return true
	})
	slices.SortFunc(list, func(a, b *player.Player) int {
		return cmp.Compare(a.GetPlayerID(), b.GetPlayerID())
	})
	return list
}

func (m *Manager) Enter(p *player.Player, tb *table.Table) bool {
	if p.GetTableID() > 0 || tb.IsFull() {
		return false
	}
	if !tb.CanEnterRobot(p) || !tb.ThrowInto(p) {
		return false
	}
	m.free.Delete(p.GetPlayerID())
	return true
}

// Leave returns a robot that left its table to the free pool.
func (m *Manager) Leave(uid int64) bool {
	val, ok := m.all.Load(uid)
	if !ok {
		return false
	}
	p, ok := val.(*player.Player)
	if !ok {
		m.all.Delete(uid)
		m.free.Delete(uid)
		return false
	}
	m.free.Store(uid, p)
	return true
}

func (m *Manager) Counter() (all, free, gaming int) {
	if c := m.repo.GetRoomConfig().Robot; !c.Open || c.Num <= 0 {
		return
	}
	all = m.countAll()
	free = m.countFree()
	return all, free, all - free
}

func (m *Manager) countAll() int {
	count := 0
	m.all.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (m *Manager) countFree() int {
	count := 0
	m.free.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
