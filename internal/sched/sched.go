// Package sched provides the host loop that all find-engine work runs on.
// Everything posted to a scheduler runs on one goroutine, one task at a time.
package sched

import "time"

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it had already fired or been stopped.
	Stop() bool
}

// Scheduler is the cooperative host the engine yields to.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Post(fn func())
	RequestFrame(fn func(now time.Duration))
}

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond
