package find

import (
	"math"
	"time"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/sched"
)

const (
	DefaultScrollDuration = 400 * time.Millisecond
	DefaultScrollOffsetY  = 60
)

// ScrollAnimator eases the viewport so a node sits near the middle of it.
// Animations are fire-and-forget: a newer one simply races an older one and
// the last write wins.
type ScrollAnimator struct {
	Viewport  Viewport
	Scheduler sched.Scheduler
	Duration  time.Duration
	OffsetY   float64
}

// Target returns the clamped scroll destination that centres n, biased
// downward by OffsetY.
func (a *ScrollAnimator) Target(n *html.Node) (x, y float64) {
	rect := a.Viewport.BoundingRect(n)
	sx, sy := a.Viewport.ScrollPosition()
	vw, vh := a.Viewport.ViewportSize()
	mx, my := a.Viewport.MaxScroll()

	x = clamp(rect.X+sx-vw/2, 0, mx)
	y = clamp(a.OffsetY+rect.Y+sy-vh/2, 0, my)
	return x, y
}

// ScrollTo starts an animation towards n.
func (a *ScrollAnimator) ScrollTo(n *html.Node) {
	if a.Viewport == nil {
		return
	}
	tx, ty := a.Target(n)
	sx, sy := a.Viewport.ScrollPosition()
	if a.Duration <= 0 || a.Scheduler == nil {
		a.Viewport.ScrollTo(tx, ty)
		return
	}

	dx, dy := tx-sx, ty-sy
	d := a.Duration
	var start time.Duration
	started := false

	var step func(now time.Duration)
	step = func(now time.Duration) {
		if !started {
			start = now
			started = true
		}
		elapsed := now - start
		if elapsed > d {
			elapsed = d
		}
		a.Viewport.ScrollTo(easeOutCubic(elapsed, sx, dx, d), easeOutCubic(elapsed, sy, dy, d))
		if elapsed < d {
			a.Scheduler.RequestFrame(step)
		}
	}
	a.Scheduler.RequestFrame(step)
}

// easeOutCubic is c·((t/d − 1)³ + 1) + b.
func easeOutCubic(t time.Duration, b, c float64, d time.Duration) float64 {
	p := float64(t)/float64(d) - 1
	return c*(p*p*p+1) + b
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
