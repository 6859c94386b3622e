package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/kk-code-lab/rfind/internal/debuglog"
	"github.com/kk-code-lab/rfind/internal/dom"
)

// watch observes the file's directory, since editors often save by replacing
// the file rather than writing to it.
func (app *Application) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := watcher.Add(filepath.Dir(app.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(app.path), err)
	}
	app.watcher = watcher
	return nil
}

// fileFeed is the watcher's side of the event loop. A channel that closes is
// set to nil so its select case blocks instead of yielding zero values.
type fileFeed struct {
	events <-chan fsnotify.Event
	errors <-chan error
}

func (app *Application) fileFeed() fileFeed {
	if app.watcher == nil {
		return fileFeed{}
	}
	return fileFeed{events: app.watcher.Events, errors: app.watcher.Errors}
}

func (f *fileFeed) onEvent(app *Application, ev fsnotify.Event, ok bool) {
	if !ok {
		debuglog.Printf("watch: event channel closed")
		f.events = nil
		return
	}
	app.handleFileEvent(ev)
}

func (f *fileFeed) onError(err error, ok bool) {
	if !ok {
		f.errors = nil
		return
	}
	debuglog.Printf("watch: %v", err)
}

func (app *Application) handleFileEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != app.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	app.scheduleReload()
}

// scheduleReload restarts the settle timer; the reload runs once events stop.
func (app *Application) scheduleReload() {
	if app.reloadTimer != nil {
		app.reloadTimer.Stop()
	}
	app.reloadTimer = app.loop.AfterFunc(app.cfg.ReloadDebounce(), func() {
		app.reloadTimer = nil
		app.reload()
	})
}

// reload re-reads the file and, when its content changed, swaps in the new
// document and re-runs the current query against it.
func (app *Application) reload() {
	data, err := os.ReadFile(app.path)
	if err != nil {
		debuglog.Printf("reload: %v", err)
		app.message = fmt.Sprintf("reload failed: %v", err)
		return
	}
	sum := xxhash.Sum64(data)
	if sum == app.hash {
		return
	}
	doc, err := dom.Parse(app.path, data)
	if err != nil {
		debuglog.Printf("reload: %v", err)
		app.message = fmt.Sprintf("reload failed: %v", err)
		return
	}

	query := app.query
	x, y := app.view.ScrollPosition()
	wrap := app.view.Wrap()
	app.session.FindDone()

	app.hash = sum
	app.install(doc, wrap)
	app.view.ScrollTo(x, y)
	app.query = query
	if query != "" {
		app.session.Find(query)
	}
	app.message = "reloaded"
	debuglog.Printf("reload: %s (%d bytes)", app.path, len(data))
}
