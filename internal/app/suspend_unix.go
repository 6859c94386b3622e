//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"

	renderui "github.com/kk-code-lab/rfind/internal/ui/render"
)

func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Stop only this process, not the whole group, so job control in the
	// launching shell keeps working.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.view.Resize(renderui.BodySize(w, h))
	}
	return true
}
