package work

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RussellLuo/timingwheel"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultWheelTick  = 50 * time.Millisecond
	defaultWheelSize  = 128
	defaultStopExpire = 3 * time.Second
)

// wheelEvery is a drift-free periodic schedule for timingwheel.ScheduleFunc.
type wheelEvery struct {
	interval time.Duration
	last     atomic.Value // time.Time
}

func (p *wheelEvery) Next(t time.Time) time.Time {
	last, _ := p.last.Load().(time.Time)
	if last.IsZero() {
		last = t
	}
	next := last.Add(p.interval)
	for steps := 0; !next.After(t); steps++ {
		if steps > maxIntervalJumps {
			log.Warnf("[wheelScheduler] skipped %d periods", steps)
			break
		}
		next = next.Add(p.interval)
	}
	p.last.Store(next)
	return next
}

type WheelOption func(*wheelScheduler)

// WithTick sets the wheel precision.
func WithTick(d time.Duration) WheelOption {
	return func(s *wheelScheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithWheelSize(size int64) WheelOption {
	return func(s *wheelScheduler) {
		if size > 0 {
			s.wheelSize = size
		}
	}
}

func WithContext(ctx context.Context) WheelOption {
	return func(s *wheelScheduler) { s.ctx = ctx }
}

// WithExecutor runs fired callbacks on exec instead of bare goroutines.
func WithExecutor(exec Executor) WheelOption {
	return func(s *wheelScheduler) { s.executor = exec }
}

func WithStopTimeout(d time.Duration) WheelOption {
	return func(s *wheelScheduler) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

type wheelScheduler struct {
	baseScheduler
	tick        time.Duration
	wheelSize   int64
	stopTimeout time.Duration
	tw          *timingwheel.TimingWheel
	tasks       sync.Map // map[int64]*wheelTask
	nextID      atomic.Int64
	shutdown    atomic.Bool
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	once        sync.Once
}

type wheelTask struct {
	timer     *timingwheel.Timer
	cancelled atomic.Bool
	executing atomic.Bool
}

// NewWheelScheduler starts a timing wheel that lives until Stop or ctx is done.
func NewWheelScheduler(opts ...WheelOption) Scheduler {
	s := &wheelScheduler{
		tick:        defaultWheelTick,
		wheelSize:   defaultWheelSize,
		stopTimeout: defaultStopExpire,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.executor == nil {
		log.Warn("[wheelScheduler] no executor, tasks run on their own goroutines")
	}

	s.ctx, s.cancel = context.WithCancel(s.ctx)
	s.tw = timingwheel.NewTimingWheel(s.tick, s.wheelSize)
	s.tw.Start()
	go func() {
		<-s.ctx.Done()
		s.tw.Stop()
	}()
	return s
}

func (s *wheelScheduler) Len() int {
	n := 0
	s.tasks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *wheelScheduler) Running() int32 { return s.getRunning() }

func (s *wheelScheduler) Once(delay time.Duration, f func()) int64 {
	return s.schedule(delay, false, f)
}

func (s *wheelScheduler) Forever(interval time.Duration, f func()) int64 {
	return s.schedule(interval, true, f)
}

// Cancel is a no-op for unknown or already fired ids.
func (s *wheelScheduler) Cancel(taskID int64) {
	s.remove(taskID)
}

func (s *wheelScheduler) CancelAll() {
	s.tasks.Range(func(key, _ any) bool {
		s.remove(key.(int64))
		return true
	})
}

// Stop cancels every task and waits up to the stop timeout for running callbacks.
func (s *wheelScheduler) Stop() {
	s.once.Do(func() {
		s.shutdown.Store(true)
		s.CancelAll()
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			log.Info("[wheelScheduler] stopped")
		case <-time.After(s.stopTimeout):
			log.Warnf("[wheelScheduler] stop timed out after %v", s.stopTimeout)
		}
	})
}

func (s *wheelScheduler) remove(taskID int64) {
	val, ok := s.tasks.LoadAndDelete(taskID)
	if !ok {
		return
	}
	task := val.(*wheelTask)
	if task.cancelled.CompareAndSwap(false, true) && task.timer != nil {
		task.timer.Stop()
	}
}

func (s *wheelScheduler) schedule(delay time.Duration, repeated bool, f func()) int64 {
	if s.shutdown.Load() || s.ctx.Err() != nil {
		log.Warn("[wheelScheduler] shut down, task rejected")
		return -1
	}

	taskID := s.nextID.Add(1)
	task := &wheelTask{}
	s.tasks.Store(taskID, task)
	startAt := time.Now()

	fire := func() {
		if task.cancelled.Load() {
			return
		}
		if !repeated && !task.executing.CompareAndSwap(false, true) {
			return
		}
		s.incrementRunning()
		s.wg.Add(1)
		s.executeAsync(func() {
			defer func() {
				s.wg.Done()
				s.decrementRunning()
				if !repeated {
					s.tasks.Delete(taskID)
					s.lag(taskID, delay, startAt)
				}
			}()
			if task.cancelled.Load() {
				return
			}
			f()
		})
	}

	if repeated {
		task.timer = s.tw.ScheduleFunc(&wheelEvery{interval: delay}, fire)
	} else {
		task.timer = s.tw.AfterFunc(delay, fire)
	}
	return taskID
}

func (s *wheelScheduler) lag(taskID int64, delay time.Duration, startAt time.Time) {
	if late := time.Since(startAt) - delay; late >= 4*s.tick {
		log.Warnf("[wheelScheduler] task %d fired %v late (delay=%v tick=%v)", taskID, late, delay, s.tick)
	}
}
