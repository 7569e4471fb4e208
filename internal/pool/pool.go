// Package pool runs submitted tasks on a fixed number of workers fed from an
// unbounded FIFO queue. Submit never blocks the caller.
package pool

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/wb-go/wbf/zlog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Submit once Close has been called.
var ErrClosed = errors.Base("pool is closed")

// Task is one unit of work. A panic inside a task is recovered and logged.
type Task func(ctx context.Context)

// Pool is a fixed-size worker pool.
type Pool struct {
	ctx context.Context
	g   *errgroup.Group

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	closed  bool
	dropped int
}

// New starts size workers, at least one. Once ctx is canceled, queued tasks
// are dropped instead of run; tasks already running are not interrupted by
// the pool.
func New(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{ctx: ctx, g: &errgroup.Group{}}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < size; i++ {
		p.g.Go(p.worker)
	}

	return p
}

// Submit enqueues t and returns immediately.
func (p *Pool) Submit(t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.queue = append(p.queue, t)
	p.cond.Signal()

	return nil
}

// Close signals that no more tasks will be submitted. Queued tasks still run.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
}

// Wait closes the pool and blocks until every worker has drained the queue.
// It returns the number of tasks dropped because the context was canceled.
func (p *Pool) Wait() int {
	p.Close()
	_ = p.g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.dropped
}

func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}

	t := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]

	if p.ctx.Err() != nil {
		p.dropped++
		return func(context.Context) {}, true
	}

	return t, true
}

func (p *Pool) worker() error {
	for {
		t, ok := p.next()
		if !ok {
			return nil
		}
		p.run(t)
	}
}

func (p *Pool) run(t Task) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("task panicked")
		}
	}()

	t(p.ctx)
}
