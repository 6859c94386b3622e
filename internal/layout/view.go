package layout

import (
	"math"

	"golang.org/x/net/html"

	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
)

// Metrics convert cells to the point units the find engine works in.
type Metrics struct {
	ColumnWidth float64
	RowHeight   float64
}

// DefaultMetrics approximates a terminal cell as 10x20 points.
func DefaultMetrics() Metrics {
	return Metrics{ColumnWidth: 10, RowHeight: 20}
}

// View is a scrollable window onto a laid-out document. It reflows lazily when
// the document version, width or wrap mode changes.
type View struct {
	doc     *dom.Document
	metrics Metrics
	wrap    bool
	tabs    int

	cols, rows       int
	scrollX, scrollY float64

	result     *Result
	laidOut    uint64
	laidWidth  int
	laidWrap   bool
	haveLayout bool
}

var _ find.Viewport = (*View)(nil)

// NewView creates a new View.
func NewView(doc *dom.Document, metrics Metrics, wrap bool, tabWidth int) *View {
	if metrics.ColumnWidth <= 0 || metrics.RowHeight <= 0 {
		metrics = DefaultMetrics()
	}
	return &View{
		doc:     doc,
		metrics: metrics,
		wrap:    wrap,
		tabs:    tabWidth,
		cols:    DefaultWidth,
		rows:    24,
	}
}

// Resize sets the viewport size in cells.
func (v *View) Resize(cols, rows int) {
	v.cols = max(cols, 1)
	v.rows = max(rows, 1)
	v.ScrollTo(v.scrollX, v.scrollY)
}

func (v *View) Size() (cols, rows int) {
	return v.cols, v.rows
}

func (v *View) Wrap() bool {
	return v.wrap
}

// SetWrap switches soft wrapping; the next access reflows.
func (v *View) SetWrap(wrap bool) {
	v.wrap = wrap
	v.ScrollTo(v.scrollX, v.scrollY)
}

func (v *View) Document() *dom.Document {
	return v.doc
}

func (v *View) Metrics() Metrics {
	return v.metrics
}

// Layout returns an up-to-date layout.
func (v *View) Layout() *Result {
	width := 0
	if v.wrap {
		width = v.cols
	}
	if v.haveLayout && v.laidOut == v.doc.Version() && v.laidWidth == width && v.laidWrap == v.wrap {
		return v.result
	}
	v.result = Flow(v.doc.Body(), Options{Width: width, Wrap: v.wrap, TabWidth: v.tabs})
	v.laidOut = v.doc.Version()
	v.laidWidth = width
	v.laidWrap = v.wrap
	v.haveLayout = true
	return v.result
}

func (v *View) HasBox(el *html.Node) bool {
	return v.Layout().HasBox(el)
}

// BoundingRect returns n's box in points relative to the scroll position.
func (v *View) BoundingRect(n *html.Node) find.Rect {
	box, ok := v.Layout().BoxOf(n)
	if !ok {
		return find.Rect{}
	}
	return find.Rect{
		X: float64(box.X)*v.metrics.ColumnWidth - v.scrollX,
		Y: float64(box.Y)*v.metrics.RowHeight - v.scrollY,
		W: float64(box.W) * v.metrics.ColumnWidth,
		H: float64(box.H) * v.metrics.RowHeight,
	}
}

func (v *View) ScrollPosition() (float64, float64) {
	return v.scrollX, v.scrollY
}

// ScrollTo moves the viewport, clamped to the scrollable range.
func (v *View) ScrollTo(x, y float64) {
	mx, my := v.MaxScroll()
	v.scrollX = math.Max(0, math.Min(x, mx))
	v.scrollY = math.Max(0, math.Min(y, my))
}

func (v *View) ViewportSize() (float64, float64) {
	return float64(v.cols) * v.metrics.ColumnWidth, float64(v.rows) * v.metrics.RowHeight
}

func (v *View) MaxScroll() (float64, float64) {
	r := v.Layout()
	cols := max(r.Width-v.cols, 0)
	rows := max(len(r.Lines)-v.rows, 0)
	return float64(cols) * v.metrics.ColumnWidth, float64(rows) * v.metrics.RowHeight
}

// ScrollBy moves the viewport by whole cells.
func (v *View) ScrollBy(cols, rows int) {
	v.ScrollTo(v.scrollX+float64(cols)*v.metrics.ColumnWidth, v.scrollY+float64(rows)*v.metrics.RowHeight)
}

// Origin returns the first visible column and line.
func (v *View) Origin() (col, line int) {
	return int(math.Round(v.scrollX / v.metrics.ColumnWidth)), int(math.Round(v.scrollY / v.metrics.RowHeight))
}
