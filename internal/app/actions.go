package app

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/ui/input"
	renderui "github.com/kk-code-lab/rfind/internal/ui/render"
)

// handleAction applies one user action and reports whether the screen needs
// redrawing.
func (app *Application) handleAction(action input.Action) bool {
	if action == nil {
		return false
	}
	defer func() { app.input.SetMode(app.mode()) }()

	switch a := action.(type) {
	case input.QuitAction:
		app.shouldQuit = true
		return false
	case input.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case input.ResizeAction:
		app.view.Resize(renderui.BodySize(a.Width, a.Height))
		app.screen.Sync()
		return true
	case input.HelpToggleAction:
		app.helpVisible = !app.helpVisible
		return true
	case input.HelpHideAction:
		app.helpVisible = false
		return true
	case input.EditAction:
		return app.handleEditorOpen()
	}

	app.message = ""
	if app.handleFindAction(action) {
		return true
	}
	return app.handleScrollAction(action)
}

func (app *Application) handleFindAction(action input.Action) bool {
	switch a := action.(type) {
	case input.FindStartAction:
		app.prompt = true
	case input.FindCharAction:
		app.setQuery(app.query + string(a.Char))
	case input.FindBackspaceAction:
		if app.query == "" {
			return true
		}
		_, size := utf8.DecodeLastRuneInString(app.query)
		app.setQuery(app.query[:len(app.query)-size])
	case input.FindDeleteWordAction:
		app.setQuery(deleteLastWord(app.query))
	case input.FindAcceptAction:
		app.prompt = false
		if strings.TrimSpace(app.query) == "" {
			app.finish()
		}
	case input.FindNextAction:
		app.session.FindNext()
	case input.FindPreviousAction:
		app.session.FindPrevious()
	case input.FindDoneAction:
		app.finish()
	default:
		return false
	}
	return true
}

// setQuery runs a search for every edit; the session's start delay absorbs
// fast typing.
func (app *Application) setQuery(query string) {
	app.query = query
	if find.ParseQuery(query).Escaped == app.session.Query().Escaped {
		// Whitespace-only edits keep the current results and counts.
		return
	}
	app.session.Find(query)
}

func (app *Application) finish() {
	app.session.FindDone()
	app.prompt = false
	app.query = ""
	app.current, app.total = 0, 0
}

func (app *Application) handleScrollAction(action input.Action) bool {
	_, rows := app.view.Size()
	switch a := action.(type) {
	case input.ScrollAction:
		app.view.ScrollBy(a.Cols, a.Rows)
	case input.ScrollPageAction:
		app.view.ScrollBy(0, a.Direction*max(rows-1, 1))
	case input.ScrollToStartAction:
		x, _ := app.view.ScrollPosition()
		app.view.ScrollTo(x, 0)
	case input.ScrollToEndAction:
		x, _ := app.view.ScrollPosition()
		_, maxY := app.view.MaxScroll()
		app.view.ScrollTo(x, maxY)
	case input.ToggleWrapAction:
		app.view.SetWrap(!app.view.Wrap())
	default:
		return false
	}
	return true
}

func deleteLastWord(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return s[:idx+1]
}
