package work

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/panjf2000/ants/v2"
)

type asyncResult struct {
	data []byte
	err  error
}

// LoopStatus is a point-in-time view of the pool.
type LoopStatus struct {
	Capacity int
	Running  int
	Free     int
}

// Loop runs jobs on a bounded goroutine pool.
type Loop interface {
	Start() error
	Stop()
	Status() LoopStatus
	Post(job func())
	PostCtx(ctx context.Context, job func())
	PostAndWait(job func() ([]byte, error)) ([]byte, error)
	PostAndWaitCtx(ctx context.Context, job func() ([]byte, error)) ([]byte, error)
}

type Option func(*antsLoop)

// WithFallback replaces the handler used when the pool rejects a job.
func WithFallback(fallback func(ctx context.Context, fn func())) Option {
	return func(l *antsLoop) {
		l.fallback = fallback
	}
}

func WithPoolOptions(opts ...ants.Option) Option {
	return func(l *antsLoop) {
		l.poolOptions = append(l.poolOptions, opts...)
	}
}

type antsLoop struct {
	mu          sync.RWMutex
	pool        *ants.Pool
	size        int
	fallback    func(context.Context, func())
	poolOptions []ants.Option
}

// NewAntsLoop creates a pool of size workers. Call Start before posting.
func NewAntsLoop(size int, opts ...Option) Loop {
	l := &antsLoop{
		size: size,
		fallback: func(ctx context.Context, fn func()) {
			go safeRun(ctx, fn)
		},
		poolOptions: []ants.Option{
			ants.WithExpiryDuration(60 * time.Second),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *antsLoop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pool != nil {
		log.Warnf("antsLoop already started")
		return nil
	}

	pool, err := ants.NewPool(l.size, l.poolOptions...)
	if err != nil {
		return fmt.Errorf("pool init failed: %w", err)
	}
	l.pool = pool
	log.Infof("antsLoop started [size:%d]", l.size)
	return nil
}

func (l *antsLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pool == nil {
		return
	}
	p := l.pool
	l.pool = nil
	p.Release()
	log.Infof("antsLoop stopped [running:%d]", p.Running())
}

func (l *antsLoop) Status() LoopStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.pool == nil {
		return LoopStatus{}
	}
	capacity, running := l.pool.Cap(), l.pool.Running()
	return LoopStatus{
		Capacity: capacity,
		Running:  running,
		Free:     max(capacity-running, 0),
	}
}

func (l *antsLoop) Post(job func()) {
	l.PostCtx(context.Background(), job)
}

// PostCtx drops the job if ctx is already done.
func (l *antsLoop) PostCtx(ctx context.Context, job func()) {
	if ctx.Err() == nil {
		l.submit(ctx, job)
	}
}

func (l *antsLoop) PostAndWait(job func() ([]byte, error)) ([]byte, error) {
	return l.PostAndWaitCtx(context.Background(), job)
}

// PostAndWaitCtx runs job on the pool and blocks until it returns or ctx is done.
// A panic inside job is reported as an error.
func (l *antsLoop) PostAndWaitCtx(ctx context.Context, job func() ([]byte, error)) ([]byte, error) {
	ch := make(chan asyncResult, 1)

	l.submit(ctx, func() {
		defer RecoverFromError(func(e any) {
			select {
			case ch <- asyncResult{err: fmt.Errorf("panic: %v", e)}:
			default:
			}
		})
		data, err := job()
		ch <- asyncResult{data: data, err: err}
	})

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("canceled: %w", ctx.Err())
	}
}

func (l *antsLoop) submit(ctx context.Context, fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.pool == nil || l.pool.IsClosed() {
		l.triggerFallback(ctx, fn, "loop not started or closed")
		return
	}
	if err := l.pool.Submit(func() { safeRun(ctx, fn) }); err != nil {
		l.triggerFallback(ctx, fn, err.Error())
	}
}

func (l *antsLoop) triggerFallback(ctx context.Context, fn func(), reason string) {
	log.Warnf("antsLoop fallback. reason=%s", reason)
	l.fallback(ctx, fn)
}

func safeRun(ctx context.Context, fn func()) {
	defer RecoverFromError(nil)
	if ctx.Err() == nil {
		fn()
	}
}
