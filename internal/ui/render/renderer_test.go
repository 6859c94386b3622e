package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/layout"
	"github.com/kk-code-lab/rfind/internal/sched"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func newTestView(t *testing.T, name, source string, w, h int) *layout.View {
	t.Helper()
	doc, err := dom.Parse(name, []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	view := layout.NewView(doc, layout.DefaultMetrics(), true, 4)
	view.Resize(BodySize(w, h))
	return view
}

func rowText(screen tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, combc, _, _ := screen.GetContent(x, y)
		b.WriteRune(mainc)
		for _, c := range combc {
			b.WriteRune(c)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func findCell(t *testing.T, screen tcell.SimulationScreen, y, w int, want string) int {
	t.Helper()
	row := rowText(screen, y, w)
	idx := strings.Index(row, want)
	if idx < 0 {
		t.Fatalf("row %d = %q, want it to contain %q", y, row, want)
	}
	return len([]rune(row[:idx]))
}

func TestRenderDrawsHeaderBodyAndStatus(t *testing.T) {
	const w, h = 80, 6
	screen := newTestScreen(t, w, h)
	view := newTestView(t, "page.html", "<h1>Title</h1><p>hello world</p>", w, h)
	r := NewRenderer(screen, GetColorTheme())

	r.Render(view, Status{Path: "docs/page.html", Kind: "html", Wrap: true})

	if got := rowText(screen, 0, w); !strings.Contains(got, "docs/page.html") {
		t.Fatalf("header = %q", got)
	}
	if got := rowText(screen, 1, w); got != "Title" {
		t.Fatalf("first body row = %q, want Title", got)
	}
	if got := rowText(screen, 3, w); got != "hello world" {
		t.Fatalf("third body row = %q, want hello world", got)
	}
	_, _, style, _ := screen.GetContent(0, 1)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrBold == 0 {
		t.Fatal("heading should render bold")
	}
	if got := rowText(screen, h-1, w); !strings.Contains(got, "/: find") {
		t.Fatalf("status row = %q, want idle hints", got)
	}
}

func TestRenderPromptShowsCountsWithCursorAfterQuery(t *testing.T) {
	const w, h = 60, 6
	screen := newTestScreen(t, w, h)
	view := newTestView(t, "page.html", "<p>cat hat cat</p>", w, h)
	r := NewRenderer(screen, GetColorTheme())

	r.Render(view, Status{Prompt: true, Query: "cat", Phase: find.Ready, Current: 1, Total: 2})

	if got := rowText(screen, h-1, w); !strings.HasPrefix(got, " /cat  1/2") {
		t.Fatalf("status row = %q, want prompt with counts", got)
	}
	x, y, visible := screen.GetCursor()
	if !visible || x != len(" /cat") || y != h-1 {
		t.Fatalf("cursor = (%d,%d,%v), want end of query", x, y, visible)
	}
}

func TestRenderHighlightsFollowStylesheet(t *testing.T) {
	const w, h = 40, 6
	screen := newTestScreen(t, w, h)
	view := newTestView(t, "page.html", "<p>one cat two cat</p>", w, h)
	r := NewRenderer(screen, GetColorTheme())
	clock := sched.NewManual()
	session := find.NewSession(view.Document(), find.Environment{
		Viewport:  view,
		Scheduler: clock,
		Styles:    r,
	}, find.DefaultOptions())

	session.Find("cat")
	clock.Settle(time.Second)
	if !r.Attached() {
		t.Fatal("activation should attach the stylesheet")
	}
	r.Render(view, Status{})

	first := findCell(t, screen, 1, w, "cat")
	_, _, style, _ := screen.GetContent(first, 1)
	if _, bg, _ := style.Decompose(); bg != r.theme.ActiveMatchBg {
		t.Fatalf("first match bg = %v, want active %v", bg, r.theme.ActiveMatchBg)
	}
	_, _, style, _ = screen.GetContent(first+8, 1)
	if _, bg, _ := style.Decompose(); bg != r.theme.MatchBg {
		t.Fatalf("second match bg = %v, want %v", bg, r.theme.MatchBg)
	}

	r.Detach()
	r.Render(view, Status{})
	_, _, style, _ = screen.GetContent(first, 1)
	if _, bg, _ := style.Decompose(); bg == r.theme.ActiveMatchBg {
		t.Fatal("detached stylesheet should not paint matches")
	}
}

func TestRenderClipsToOrigin(t *testing.T) {
	const w, h = 10, 4
	screen := newTestScreen(t, w, h)
	doc, err := dom.Parse("notes.txt", []byte("abcdefghijklmnopqrstuvwxyz\nsecond"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	view := layout.NewView(doc, layout.DefaultMetrics(), false, 4)
	view.Resize(BodySize(w, h))
	view.ScrollBy(5, 0)
	r := NewRenderer(screen, GetColorTheme())

	r.Render(view, Status{Kind: "text"})

	if got := rowText(screen, 1, w); got != "fghijklmno" {
		t.Fatalf("clipped row = %q", got)
	}
	if got := rowText(screen, 2, w); got != "d" {
		t.Fatalf("second row = %q, want d", got)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	const w, h = 50, 20
	screen := newTestScreen(t, w, h)
	r := NewRenderer(screen, GetColorTheme())

	r.Render(nil, Status{HelpVisible: true})

	if got := rowText(screen, 0, w); !strings.Contains(got, "Help") {
		t.Fatalf("overlay title = %q", got)
	}
	found := false
	for y := 1; y < h; y++ {
		if strings.Contains(rowText(screen, y, w), "Find in page") {
			found = true
		}
	}
	if !found {
		t.Fatal("overlay should list the find key")
	}
}

func TestFormatSearchStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{name: "idle", status: Status{}, want: ""},
		{name: "prompt", status: Status{Prompt: true, Query: "ca"}, want: "/ca"},
		{name: "searching", status: Status{Query: "cat", Phase: find.Searching}, want: "/cat  searching…"},
		{name: "none", status: Status{Query: "cat", Phase: find.Ready}, want: "/cat  no matches"},
		{name: "counted", status: Status{Query: "cat", Phase: find.Ready, Current: 2, Total: 7}, want: "/cat  2/7"},
		{name: "limited", status: Status{Query: "a", Phase: find.Ready, Current: 1, Total: 30000, Limited: true}, want: "/a  1/30000+"},
		{name: "control chars", status: Status{Prompt: true, Query: "a\x1bb"}, want: "/a?b"},
		{name: "prompt empty", status: Status{Prompt: true}, want: "/"},
		{name: "prompt searching", status: Status{Prompt: true, Query: "cat", Phase: find.Searching}, want: "/cat  searching…"},
		{name: "prompt counted", status: Status{Prompt: true, Query: "cat", Phase: find.Ready, Current: 1, Total: 2}, want: "/cat  1/2"},
		{name: "prompt none", status: Status{Prompt: true, Query: "dog", Phase: find.Ready}, want: "/dog  no matches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSearchStatus(tt.status); got != tt.want {
				t.Fatalf("formatSearchStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFooterHelpSegments(t *testing.T) {
	idle := buildFooterHelpText(Status{Wrap: true})
	if !strings.HasPrefix(idle, " /: find") || !strings.Contains(idle, "w: wrap on") {
		t.Fatalf("idle footer = %q", idle)
	}
	prompt := buildFooterHelpSegments(Status{Prompt: true})
	for _, seg := range prompt {
		if strings.HasPrefix(seg, "w:") {
			t.Fatalf("prompt footer should omit wrap toggle: %v", prompt)
		}
	}
	ready := buildFooterHelpSegments(Status{Phase: find.Ready})
	if ready[0] != "n/N: next/prev" {
		t.Fatalf("ready footer = %v", ready)
	}
}

func TestThemeOverrides(t *testing.T) {
	theme := GetColorTheme().WithOverrides(map[string]string{
		"match_bg": "red",
		"link_fg":  "#00ff00",
		"bogus":    "blue",
		"code_fg":  "not-a-color",
	})
	if theme.MatchBg != tcell.ColorRed {
		t.Fatalf("match_bg = %v", theme.MatchBg)
	}
	if theme.LinkFg != tcell.NewHexColor(0x00ff00) {
		t.Fatalf("link_fg = %v", theme.LinkFg)
	}
	if theme.CodeFg != GetColorTheme().CodeFg {
		t.Fatal("unparsable color should keep default")
	}
}
