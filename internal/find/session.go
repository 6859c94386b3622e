// Package find implements incremental in-page search over a live document
// tree: a cancellable chunked traversal plans highlight spans, a commit splices
// them in, and the session steps through them keeping the active one in view.
package find

import (
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/debuglog"
	"github.com/kk-code-lab/rfind/internal/dom"
)

// Phase is the session state visible to the host.
type Phase int

const (
	Idle Phase = iota
	Searching
	Ready
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

// Immediate, used as StartDelay or ScrollDuration, starts the walk or moves
// the viewport without waiting.
const Immediate time.Duration = -1

// Options are the engine tunables. Zero fields fall back to the defaults, so a
// zero ScrollOffsetY always means the stock bias.
type Options struct {
	MaxHighlights  int
	ChunkSize      int
	StartDelay     time.Duration
	ScrollDuration time.Duration
	ScrollOffsetY  float64
}

// DefaultOptions returns the stock tunables.
func DefaultOptions() Options {
	return Options{
		MaxHighlights:  DefaultMaxHighlights,
		ChunkSize:      DefaultChunkSize,
		StartDelay:     DefaultStartDelay,
		ScrollDuration: DefaultScrollDuration,
		ScrollOffsetY:  DefaultScrollOffsetY,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxHighlights <= 0 {
		o.MaxHighlights = def.MaxHighlights
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = def.ChunkSize
	}
	switch {
	case o.StartDelay == 0:
		o.StartDelay = def.StartDelay
	case o.StartDelay < 0:
		o.StartDelay = 0
	}
	switch {
	case o.ScrollDuration == 0:
		o.ScrollDuration = def.ScrollDuration
	case o.ScrollDuration < 0:
		o.ScrollDuration = 0
	}
	if o.ScrollOffsetY == 0 {
		o.ScrollOffsetY = def.ScrollOffsetY
	}
	return o
}

// Session is the find state of one document. All methods must be called from
// the scheduler's goroutine.
type Session struct {
	doc  *dom.Document
	env  Environment
	opts Options
	host HostChannel

	query       Query
	lastEscaped string
	op          *Operation
	highlights  []*html.Node
	activeIndex int
	limited     bool
	phase       Phase
	active      *activeController
	searchStart time.Time
}

// NewSession creates a new Session over doc.
func NewSession(doc *dom.Document, env Environment, opts Options) *Session {
	opts = opts.withDefaults()
	host := env.Host
	if host == nil {
		host = discardHost{}
	}
	return &Session{
		doc:         doc,
		env:         env,
		opts:        opts,
		host:        host,
		activeIndex: -1,
		active: &activeController{
			styles: env.Styles,
			host:   host,
			scroller: &ScrollAnimator{
				Viewport:  env.Viewport,
				Scheduler: env.Scheduler,
				Duration:  opts.ScrollDuration,
				OffsetY:   opts.ScrollOffsetY,
			},
		},
	}
}

// Find starts a search for raw, replacing any previous one. Repeating the
// current query only re-posts an empty result.
func (s *Session) Find(raw string) {
	q := ParseQuery(raw)
	if q.Escaped == s.lastEscaped {
		s.host.Post(NoResultsMessage())
		return
	}

	s.cancel()
	s.clear()
	s.limited = false
	s.lastEscaped = q.Escaped
	s.query = q

	if q.Empty() {
		s.phase = Idle
		s.host.Post(NoResultsMessage())
		return
	}

	s.phase = Searching
	s.searchStart = time.Now()
	f := newFinder(q.Pattern(), s.env.Viewport, s.opts.MaxHighlights)
	walker := dom.NewTextWalker(s.doc.Body())
	op := Walk(s.env.Scheduler, walker.Next, f.visit, WalkOptions{
		ChunkSize:  s.opts.ChunkSize,
		StartDelay: s.opts.StartDelay,
	})
	op.OnComplete(func() {
		if s.op != op {
			return
		}
		s.op = nil
		s.commit(f)
	})
	s.op = op
	debuglog.Printf("find: start %q", q.Trimmed)
}

// FindNext activates the following highlight, wrapping to the first.
func (s *Session) FindNext() {
	n := len(s.highlights)
	if n == 0 {
		return
	}
	s.activeIndex = (s.activeIndex + 1) % n
	s.active.activate(s.highlights, s.activeIndex)
}

// FindPrevious activates the preceding highlight, wrapping to the last.
func (s *Session) FindPrevious() {
	n := len(s.highlights)
	if n == 0 {
		return
	}
	if s.activeIndex < 0 {
		s.activeIndex = n - 1
	} else {
		s.activeIndex = (s.activeIndex - 1 + n) % n
	}
	s.active.activate(s.highlights, s.activeIndex)
}

// FindDone abandons any running search, removes all highlights and returns
// the session to idle.
func (s *Session) FindDone() {
	s.cancel()
	s.active.detach()
	s.clear()
	s.lastEscaped = ""
	s.limited = false
	s.query = Query{}
	s.phase = Idle
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Query() Query {
	return s.query
}

// ActiveIndex returns the 0-based active position, -1 for none.
func (s *Session) ActiveIndex() int {
	return s.activeIndex
}

// Limited reports whether the last search stopped at the highlight ceiling.
func (s *Session) Limited() bool {
	return s.limited
}

// Highlights returns the committed highlights in document order.
func (s *Session) Highlights() []Highlight {
	out := make([]Highlight, len(s.highlights))
	for i, h := range s.highlights {
		out[i] = Highlight{Node: h, Index: i}
	}
	return out
}

func (s *Session) cancel() {
	if s.op != nil {
		s.op.Cancel()
		s.op = nil
	}
}

func (s *Session) commit(f *finder) {
	var highlights []*html.Node
	for _, r := range f.replacements {
		if !dom.ReplaceWith(r.Original, r.Fragment) {
			continue
		}
		for _, h := range r.Highlights {
			dom.SetAttr(h, HighlightIndexAttr, strconv.Itoa(len(highlights)))
			highlights = append(highlights, h)
		}
	}
	if len(highlights) > 0 {
		s.doc.Touch()
	}

	s.highlights = highlights
	s.activeIndex = -1
	s.limited = f.limited
	s.phase = Ready
	debuglog.Printf("find: %q committed %d highlights in %d nodes (limited=%t) after %s",
		s.query.Trimmed, len(highlights), len(f.replacements), f.limited, time.Since(s.searchStart))

	s.host.Post(TotalMessage(len(highlights)))
	if len(highlights) == 0 {
		s.active.activate(nil, -1)
		return
	}
	s.FindNext()
}

// clear unwraps every highlight and merges the split text back together.
func (s *Session) clear() {
	if len(s.highlights) == 0 {
		s.highlights = nil
		s.activeIndex = -1
		return
	}
	s.active.forget()

	var parents []*html.Node
	seen := make(map[*html.Node]struct{})
	for _, h := range s.highlights {
		parent := dom.Unwrap(h)
		if parent == nil {
			continue
		}
		if _, ok := seen[parent]; !ok {
			seen[parent] = struct{}{}
			parents = append(parents, parent)
		}
	}
	for _, p := range parents {
		dom.Normalize(p)
	}

	s.highlights = nil
	s.activeIndex = -1
	s.doc.Touch()
}
