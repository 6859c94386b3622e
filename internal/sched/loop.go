package sched

import (
	"context"
	"sync"
	"time"
)

// Loop is a Scheduler backed by a real clock. Timers fire on runtime goroutines
// but only post their callbacks, so all work still runs wherever RunPending or
// Run is called.
type Loop struct {
	mu         sync.Mutex
	queue      []func()
	frames     []func(time.Duration)
	frameArmed bool
	timers     map[*loopTimer]struct{}
	closed     bool

	wake          chan struct{}
	start         time.Time
	frameInterval time.Duration
}

// NewLoop creates a new Loop.
func NewLoop() *Loop {
	return &Loop{
		timers:        make(map[*loopTimer]struct{}),
		wake:          make(chan struct{}, 1),
		start:         time.Now(),
		frameInterval: DefaultFrameInterval,
	}
}

// Post queues fn to run on the loop goroutine. Posting after Close is a no-op.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Wake is signalled whenever work is queued.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

// RunPending runs the tasks queued so far and returns how many ran. Tasks they
// post are left for the next turn so other events can interleave.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.RunPending()
		}
	}
}

// Now reports the time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

// AfterFunc runs fn on the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{loop: l}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		t.stopped = true
		return t
	}
	l.timers[t] = struct{}{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			l.mu.Lock()
			skip := t.stopped
			t.fired = true
			delete(l.timers, t)
			l.mu.Unlock()
			if !skip {
				fn()
			}
		})
	})
	return t
}

// RequestFrame schedules fn for the next frame tick. All callbacks requested
// before a tick share its timestamp.
func (l *Loop) RequestFrame(fn func(now time.Duration)) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	armed := l.frameArmed
	l.frameArmed = true
	l.mu.Unlock()

	if !armed {
		l.AfterFunc(l.frameInterval, l.runFrames)
	}
}

func (l *Loop) runFrames() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.frameArmed = false
	l.mu.Unlock()

	now := l.Now()
	for _, fn := range frames {
		fn(now)
	}
}

// Close stops every pending timer and drops queued work.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for t := range l.timers {
		t.stopped = true
		t.timer.Stop()
	}
	l.timers = make(map[*loopTimer]struct{})
	l.queue = nil
	l.frames = nil
}

type loopTimer struct {
	loop    *Loop
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	delete(t.loop.timers, t)
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}
