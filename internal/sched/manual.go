package sched

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing happens until the
// caller flushes or advances it, which makes traversal and animation timing
// deterministic in tests and in headless runs.
type Manual struct {
	FrameInterval time.Duration

	now        time.Duration
	queue      []func()
	timers     []*manualTimer
	frames     []func(time.Duration)
	frameArmed bool
	seq        int
}

// NewManual creates a new Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{FrameInterval: DefaultFrameInterval}
}

func (m *Manual) Post(fn func()) {
	m.queue = append(m.queue, fn)
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *Manual) RequestFrame(fn func(now time.Duration)) {
	m.frames = append(m.frames, fn)
	if m.frameArmed {
		return
	}
	m.frameArmed = true
	m.AfterFunc(m.FrameInterval, func() {
		frames := m.frames
		m.frames = nil
		m.frameArmed = false
		for _, f := range frames {
			f(m.now)
		}
	})
}

// Now returns the virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Wake never fires; a Manual scheduler is only driven explicitly.
func (m *Manual) Wake() <-chan struct{} {
	return nil
}

// RunPending runs the tasks queued so far, leaving newly posted ones queued.
func (m *Manual) RunPending() int {
	batch := m.queue
	m.queue = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Flush runs queued tasks, including the ones they post, until the queue is empty.
func (m *Manual) Flush() int {
	total := 0
	for len(m.queue) > 0 {
		total += m.RunPending()
	}
	return total
}

// Advance moves the clock forward by d, firing due timers in order and
// flushing the queue after each.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	m.runUntil(target)
	m.now = target
	m.Flush()
}

// Settle keeps firing timers for at most limit of virtual time, stopping as
// soon as nothing is left to do. The clock rests at the last fired timer.
func (m *Manual) Settle(limit time.Duration) {
	m.runUntil(m.now + limit)
	m.Flush()
}

// Pending reports whether any task or live timer remains.
func (m *Manual) Pending() bool {
	if len(m.queue) > 0 {
		return true
	}
	for _, t := range m.timers {
		if !t.done {
			return true
		}
	}
	return false
}

func (m *Manual) runUntil(deadline time.Duration) {
	for {
		m.Flush()
		t := m.nextTimer(deadline)
		if t == nil {
			return
		}
		if t.due > m.now {
			m.now = t.due
		}
		t.done = true
		t.fn()
	}
}

func (m *Manual) nextTimer(deadline time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	m.timers = live
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].due != live[j].due {
			return live[i].due < live[j].due
		}
		return live[i].seq < live[j].seq
	})
	if live[0].due > deadline {
		return nil
	}
	return live[0]
}

type manualTimer struct {
	due  time.Duration
	seq  int
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}
