package work

import (
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// Scheduler registers delayed and periodic callbacks.
type Scheduler interface {
	Len() int                                       // registered tasks
	Running() int32                                 // tasks executing right now
	Once(delay time.Duration, f func()) int64       // one-shot task, returns its id
	Forever(interval time.Duration, f func()) int64 // periodic task
	Cancel(taskID int64)
	CancelAll()
	Stop()
}

// Executor runs scheduled callbacks, typically a Loop.
type Executor interface {
	Post(job func())
}

const maxIntervalJumps = 10000

// RecoverFromError logs a recovered panic with its stack and hands it to cb.
func RecoverFromError(cb func(e any)) {
	if e := recover(); e != nil {
		log.Errorf("Recover => %v\n%s\n", e, debug.Stack())
		if cb != nil {
			cb(e)
		}
	}
}

// ExecuteAsync runs f on executor, or on a fresh goroutine without one.
func ExecuteAsync(executor Executor, f func()) {
	run := func() {
		defer RecoverFromError(nil)
		f()
	}
	if executor != nil {
		executor.Post(run)
	} else {
		go run()
	}
}

type baseScheduler struct {
	executor Executor
	running  atomic.Int32
}

func (s *baseScheduler) executeAsync(f func()) { ExecuteAsync(s.executor, f) }
func (s *baseScheduler) incrementRunning()     { s.running.Add(1) }
func (s *baseScheduler) decrementRunning()     { s.running.Add(-1) }
func (s *baseScheduler) getRunning() int32     { return s.running.Load() }
