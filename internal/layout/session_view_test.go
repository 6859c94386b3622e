package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/sched"
)

func TestSessionOverView(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<p>cat</p><p style="display:none">cat</p>`)
	for i := 0; i < 100; i++ {
		b.WriteString("<p>filler</p>")
	}
	b.WriteString("<p>last cat</p>")
	doc := parseBody(t, b.String())
	before := Flow(doc.Body(), Options{}).Text()

	view := NewView(doc, DefaultMetrics(), true, 4)
	view.Resize(40, 20)
	clock := sched.NewManual()
	host := &find.Recorder{}
	session := find.NewSession(doc, find.Environment{Viewport: view, Scheduler: clock, Host: host}, find.DefaultOptions())

	session.Find("cat")
	clock.Settle(5 * time.Second)
	if got := len(session.Highlights()); got != 2 {
		t.Fatalf("highlights = %d, want 2 (hidden text skipped)", got)
	}
	if _, y := view.ScrollPosition(); y != 0 {
		t.Fatalf("first match near the top should not scroll, got %v", y)
	}

	session.FindNext()
	clock.Settle(5 * time.Second)
	_, y := view.ScrollPosition()
	rect := view.BoundingRect(session.Highlights()[1].Node)
	_, h := view.ViewportSize()
	if rect.Y < 0 || rect.Y+rect.H > h {
		t.Fatalf("active match not visible: rect=%+v scrollY=%v", rect, y)
	}

	session.FindDone()
	if after := Flow(doc.Body(), Options{}).Text(); after != before {
		t.Fatal("layout changed after FindDone")
	}
}
