package find

// Message is a notification for the host. Absent fields are omitted on the wire.
type Message struct {
	CurrentResult *int `json:"currentResult,omitempty"`
	TotalResults  *int `json:"totalResults,omitempty"`
}

// TotalMessage reports how many highlights a search produced.
func TotalMessage(total int) Message {
	return Message{TotalResults: &total}
}

// CurrentMessage reports the 1-based active position, 0 for none.
func CurrentMessage(current int) Message {
	return Message{CurrentResult: &current}
}

// NoResultsMessage answers blank and repeated queries.
func NoResultsMessage() Message {
	current, total := 0, 0
	return Message{CurrentResult: &current, TotalResults: &total}
}

// HostChannel receives session notifications in order.
type HostChannel interface {
	Post(Message)
}

// HostFunc adapts a function to HostChannel.
type HostFunc func(Message)

func (f HostFunc) Post(m Message) {
	f(m)
}

// Recorder keeps every posted message.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Post(m Message) {
	r.Messages = append(r.Messages, m)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// Reset forgets recorded messages.
func (r *Recorder) Reset() {
	r.Messages = nil
}

type discardHost struct{}

func (discardHost) Post(Message) {}
