package event

import (
	"sync"

	"github.com/go-kratos/kratos/v2/log"
)

type Handler func(val any)

// Bus is an in-process topic fan-out. Handlers run synchronously on the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewEventBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish returns the number of handlers reached.
func (b *Bus) Publish(topic string, val any) int {
	b.mu.RLock()
	hs := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range hs {
		func() {
			defer func() {
				if e := recover(); e != nil {
					log.Errorf("[event] handler panic. topic=%q err=%v", topic, e)
				}
			}()
			h(val)
		}()
	}
	return len(hs)
}
