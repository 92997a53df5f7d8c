package work

import (
	"context"
	"time"
)

const defaultPoolSize = 100

// Store bundles a worker pool with a scheduler whose callbacks run on that pool.
type Store interface {
	Loop
	Scheduler
}

type store struct {
	Loop
	timer Scheduler
}

// NewStore creates a Store with a pool of size workers (default 100).
func NewStore(ctx context.Context, size int, opts ...WheelOption) Store {
	if size <= 0 {
		size = defaultPoolSize
	}
	l := NewAntsLoop(size)
	opts = append([]WheelOption{WithContext(ctx), WithExecutor(l)}, opts...)
	return &store{
		Loop:  l,
		timer: NewWheelScheduler(opts...),
	}
}

// Stop shuts the scheduler down before the pool it posts to.
func (w *store) Stop() {
	w.timer.Stop()
	w.Loop.Stop()
}

func (w *store) Len() int                                       { return w.timer.Len() }
func (w *store) Running() int32                                 { return w.timer.Running() }
func (w *store) Once(delay time.Duration, f func()) int64       { return w.timer.Once(delay, f) }
func (w *store) Forever(interval time.Duration, f func()) int64 { return w.timer.Forever(interval, f) }
func (w *store) Cancel(taskID int64)                            { w.timer.Cancel(taskID) }
func (w *store) CancelAll()                                     { w.timer.CancelAll() }
