package find

import (
	"time"

	"github.com/kk-code-lab/rfind/internal/sched"
)

const (
	DefaultChunkSize  = 100
	DefaultStartDelay = 50 * time.Millisecond
)

// WalkOptions tunes a chunked traversal.
type WalkOptions struct {
	ChunkSize  int
	StartDelay time.Duration
}

// Walk visits the items produced by next in batches of ChunkSize, yielding to
// s between batches. The first batch waits StartDelay so rapid restarts cost
// nothing. The traversal ends and completes the returned operation when next is
// exhausted, visit returns false, or the operation is cancelled; in the last
// case completion is suppressed.
func Walk[T any](s sched.Scheduler, next func() (T, bool), visit func(T) bool, opts WalkOptions) *Operation {
	op := NewOperation()
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	var step func()
	step = func() {
		for i := 0; i < chunk; i++ {
			if op.Cancelled() {
				op.Complete()
				return
			}
			item, ok := next()
			if !ok || !visit(item) {
				op.Complete()
				return
			}
		}
		s.Post(step)
	}

	timer := s.AfterFunc(opts.StartDelay, step)
	op.OnCancel(func() {
		timer.Stop()
	})
	return op
}
