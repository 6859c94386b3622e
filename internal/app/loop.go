package app

import (
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
)

// Run processes terminal events, scheduler work and file changes until the
// user quits.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	files := app.fileFeed()

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-app.loop.Wake():
			if app.loop.RunPending() > 0 {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case ev, ok := <-files.events:
			files.onEvent(app, ev, ok)
		case err, ok := <-files.errors:
			files.onError(err, ok)
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}
