// Package mainloop provides the single-threaded cooperative event loop the
// engine runs on. Events run in post order; idle tasks run only when the
// event queue is drained, and are coalesced by id so that many triggering
// events collapse into one deferred pass over the latest state.
package mainloop

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("main loop is closed")

type idleTask struct {
	id string
	fn func()
}

// Loop dispatches posted functions on one goroutine. All engine state must
// be touched only from functions running on the loop.
type Loop struct {
	mu      sync.Mutex
	events  []func()
	idle    []idleTask
	idleIDs map[string]struct{}
	closed  bool

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates and starts a loop.
func New() *Loop {
	l := &Loop{
		idleIDs: make(map[string]struct{}),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

// Post schedules fn as an event. It reports false when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.events = append(l.events, fn)
	l.mu.Unlock()
	l.wake()
	return true
}

// PostIdle schedules fn to run once the event queue is drained. A second
// PostIdle with the same id before the task has run is a no-op, so the task
// observes the latest state exactly once.
func (l *Loop) PostIdle(id string, fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	if _, pending := l.idleIDs[id]; !pending {
		l.idleIDs[id] = struct{}{}
		l.idle = append(l.idle, idleTask{id: id, fn: fn})
	}
	l.mu.Unlock()
	l.wake()
	return true
}

// IdlePending reports whether an idle task with the id is still queued.
func (l *Loop) IdlePending(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, pending := l.idleIDs[id]
	return pending
}

// Call runs fn on the loop and waits for it to finish. Used by the control
// API to read or mutate engine state without racing the event handlers.
func (l *Loop) Call(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(ran)
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Close stops the loop and drops every pending event and idle task. It
// waits for the loop goroutine to exit.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.wg.Wait()
		return
	}
	l.closed = true
	l.events = nil
	l.idle = nil
	l.idleIDs = make(map[string]struct{})
	l.mu.Unlock()
	close(l.done)
	l.wg.Wait()
}

func (l *Loop) wake() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		fn := l.next()
		if fn == nil {
			return
		}
		fn()
	}
}

// next returns the next runnable function: pending events first, then idle
// tasks, blocking when both queues are empty. nil means the loop is closed.
func (l *Loop) next() func() {
	for {
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return nil
		}
		if len(l.events) > 0 {
			fn := l.events[0]
			l.events = l.events[1:]
			l.mu.Unlock()
			return fn
		}
		if len(l.idle) > 0 {
			task := l.idle[0]
			l.idle = l.idle[1:]
			delete(l.idleIDs, task.id)
			l.mu.Unlock()
			return task.fn
		}
		l.mu.Unlock()

		select {
		case <-l.kick:
		case <-l.done:
		}
	}
}
