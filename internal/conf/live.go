package conf

import (
	"sync/atomic"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/yola1107/ludo/library/event"
)

// Live holds the room config that is in force. A reload swaps in a new *Room,
// so a *Room obtained from Load never changes underneath its reader.
type Live struct {
	p atomic.Pointer[Room]
}

func NewLive(c *Room) *Live {
	l := &Live{}
	l.p.Store(c)
	return l
}

func (l *Live) Load() *Room {
	return l.p.Load()
}

// Follow applies the room sections published on bus.
func (l *Live) Follow(bus *event.Bus) {
	bus.Subscribe("room.game", func(val any) {
		if v, ok := val.(*Game); ok {
			l.swap(func(r *Room) { r.Game = v })
		}
	})
	bus.Subscribe("room.robot", func(val any) {
		if v, ok := val.(*Robot); ok {
			l.swap(func(r *Room) { r.Robot = v })
		}
	})
	bus.Subscribe("room.logCache", func(val any) {
		if v, ok := val.(*LogCache); ok {
			l.swap(func(r *Room) { r.LogCache = v })
		}
	})
}

func (l *Live) swap(set func(*Room)) {
	for {
		old := l.p.Load()
		next := *old
		set(&next)
		if l.p.CompareAndSwap(old, &next) {
			log.Infof("[config] room config swapped")
			return
		}
	}
}
