package find

import (
	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/sched"
)

// Rect is a box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Viewport answers layout questions about the document being searched.
type Viewport interface {
	// HasBox reports whether el produces any rendered box.
	HasBox(el *html.Node) bool
	// BoundingRect returns n's box relative to the current scroll position.
	BoundingRect(n *html.Node) Rect
	ScrollPosition() (x, y float64)
	ScrollTo(x, y float64)
	ViewportSize() (w, h float64)
	MaxScroll() (x, y float64)
}

// Stylesheet controls whether highlight styling applies. It is attached on the
// first activation and detached by FindDone.
type Stylesheet interface {
	Attach()
	Detach()
	Attached() bool
}

// Environment bundles a session's collaborators. Host and Styles may be nil.
type Environment struct {
	Viewport  Viewport
	Scheduler sched.Scheduler
	Host      HostChannel
	Styles    Stylesheet
}
