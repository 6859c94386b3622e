package find

// OperationState is the lifecycle of an Operation. An operation leaves
// Running exactly once.
type OperationState int

const (
	Running OperationState = iota
	Cancelled
	Completed
)

func (s OperationState) String() string {
	switch s {
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Operation is a handle on background work with one terminal outcome.
// Callbacks run synchronously on the goroutine that triggers them.
type Operation struct {
	state      OperationState
	finished   bool
	onCancel   func()
	onComplete func()
}

// NewOperation creates a new running Operation.
func NewOperation() *Operation {
	return &Operation{state: Running}
}

// OnCancel registers fn to run when the operation is cancelled. Only the first
// registration counts.
func (o *Operation) OnCancel(fn func()) {
	if o.onCancel == nil {
		o.onCancel = fn
	}
}

// OnComplete registers fn to run when the operation completes without having
// been cancelled. Only the first registration counts.
func (o *Operation) OnComplete(fn func()) {
	if o.onComplete == nil {
		o.onComplete = fn
	}
}

// Cancel moves a running operation to Cancelled. Later calls do nothing.
func (o *Operation) Cancel() {
	if o.state != Running {
		return
	}
	o.state = Cancelled
	if fn := o.onCancel; fn != nil {
		o.onCancel = nil
		fn()
	}
}

// Complete records that the work has stopped. The completion callback only
// runs if the operation was still running.
func (o *Operation) Complete() {
	o.finished = true
	if o.state != Running {
		return
	}
	o.state = Completed
	if fn := o.onComplete; fn != nil {
		o.onComplete = nil
		fn()
	}
}

func (o *Operation) State() OperationState {
	return o.state
}

func (o *Operation) Cancelled() bool {
	return o.state == Cancelled
}

// Finished reports whether the underlying work has stopped, whatever the outcome.
func (o *Operation) Finished() bool {
	return o.finished
}
