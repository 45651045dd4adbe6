// Package runloop bridges synchronous callers onto a single background
// worker. All browser I/O in searchbridge is funneled through one Loop so
// that the shared Playwright session is only ever touched from one
// goroutine, mirroring a single-threaded event loop.
package runloop

import (
	"context"
	"fmt"
	"sync"
)

// Task is a unit of work executed on the loop worker. The context is the
// submitting caller's context.
type Task func(ctx context.Context) (interface{}, error)

type submission struct {
	ctx  context.Context
	task Task
	done chan outcome
}

type outcome struct {
	value interface{}
	err   error
}

// Loop owns the worker goroutine. The zero value is not usable; use New.
type Loop struct {
	tasks     chan submission
	quit      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a Loop. The worker goroutine is started lazily on first
// Submit and runs until Stop.
func New() *Loop {
	return &Loop{
		tasks: make(chan submission),
		quit:  make(chan struct{}),
	}
}

// start launches the worker exactly once.
func (l *Loop) start() {
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go l.run()
	})
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case sub := <-l.tasks:
			value, err := l.execute(sub)
			sub.done <- outcome{value: value, err: err}
		case <-l.quit:
			return
		}
	}
}

// execute runs one task, converting a panic into an error so a misbehaving
// task cannot kill the worker that every caller depends on.
func (l *Loop) execute(sub submission) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return sub.task(sub.ctx)
}

// Submit schedules task onto the loop and blocks until it completes or ctx
// is done. Tasks from concurrent callers are interleaved one at a time in
// submission order; each caller blocks independently. If ctx expires while
// the task is queued or running, Submit returns ctx.Err() and the task's
// eventual result is discarded.
func (l *Loop) Submit(ctx context.Context, task Task) (interface{}, error) {
	l.start()

	sub := submission{
		ctx:  ctx,
		task: task,
		done: make(chan outcome, 1),
	}

	select {
	case l.tasks <- sub:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.quit:
		return nil, fmt.Errorf("run loop stopped")
	}

	select {
	case out := <-sub.done:
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the worker down. Queued callers that have not been picked up
// receive an error. Stopping twice is a no-op.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.start() // a never-used loop still stops cleanly
		close(l.quit)
		l.wg.Wait()
	})
}
