// Package app runs the interactive viewer: one document, its find session
// and the terminal, all driven from a single goroutine.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rfind/internal/config"
	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/layout"
	"github.com/kk-code-lab/rfind/internal/sched"
	"github.com/kk-code-lab/rfind/internal/ui/input"
	renderui "github.com/kk-code-lab/rfind/internal/ui/render"
)

// eventLoop is the scheduler the application drains between terminal events.
type eventLoop interface {
	sched.Scheduler
	Wake() <-chan struct{}
	RunPending() int
}

// Options configure a new Application. Screen and Loop are created when nil.
type Options struct {
	Path   string
	Config config.Config
	Screen tcell.Screen
	Loop   eventLoop
	// Watch enables live reload.
	Watch bool
}

// Application represents the running viewer.
type Application struct {
	screen   tcell.Screen
	renderer *renderui.Renderer
	input    *input.InputHandler
	actionCh chan input.Action
	loop     eventLoop
	ownLoop  *sched.Loop
	cfg      config.Config

	path    string
	doc     *dom.Document
	view    *layout.View
	session *find.Session
	hash    uint64

	watcher     *fsnotify.Watcher
	reloadTimer sched.Timer

	prompt      bool
	query       string
	current     int
	total       int
	helpVisible bool
	message     string

	editorCmd  []string
	shouldQuit bool
}

// New loads path and prepares the viewer.
func New(opts Options) (*Application, error) {
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", opts.Path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.Path, err)
	}
	doc, err := dom.Parse(path, data)
	if err != nil {
		return nil, err
	}

	screen := opts.Screen
	if screen == nil {
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	app := &Application{
		screen:   screen,
		actionCh: make(chan input.Action, 16),
		loop:     opts.Loop,
		cfg:      opts.Config,
		path:     path,
		hash:     xxhash.Sum64(data),
	}
	if app.loop == nil {
		app.ownLoop = sched.NewLoop()
		app.loop = app.ownLoop
	}
	app.renderer = renderui.NewRenderer(screen, renderui.GetColorTheme().WithOverrides(opts.Config.Theme))
	app.input = input.NewInputHandler(app.actionCh)
	app.editorCmd, _ = detectEditorCommand()
	app.install(doc, opts.Config.View.Wrap)

	if opts.Watch {
		if err := app.watch(); err != nil {
			app.message = err.Error()
		}
	}
	return app, nil
}

// install makes doc the current document with a fresh view and session.
func (app *Application) install(doc *dom.Document, wrap bool) {
	app.doc = doc
	app.view = layout.NewView(doc, layout.DefaultMetrics(), wrap, app.cfg.View.TabWidth)
	app.view.Resize(renderui.BodySize(app.screen.Size()))
	app.session = find.NewSession(doc, find.Environment{
		Viewport:  app.view,
		Scheduler: app.loop,
		Host:      find.HostFunc(app.onMessage),
		Styles:    app.renderer,
	}, app.cfg.FindOptions())
	app.current, app.total = 0, 0
}

// onMessage records what the session reports for the status line.
func (app *Application) onMessage(m find.Message) {
	if m.TotalResults != nil {
		app.total = *m.TotalResults
		app.current = 0
	}
	if m.CurrentResult != nil {
		app.current = *m.CurrentResult
	}
}

func (app *Application) status() renderui.Status {
	return renderui.Status{
		Path:        app.path,
		Kind:        app.doc.Kind.String(),
		Prompt:      app.prompt,
		Query:       app.query,
		Phase:       app.session.Phase(),
		Current:     app.current,
		Total:       app.total,
		Limited:     app.session.Limited(),
		Wrap:        app.view.Wrap(),
		Message:     app.message,
		HelpVisible: app.helpVisible,
	}
}

func (app *Application) mode() input.Mode {
	return input.Mode{
		Prompt:      app.prompt,
		HelpVisible: app.helpVisible,
		Finding:     app.session.Phase() != find.Idle,
	}
}

func (app *Application) render() {
	app.input.SetMode(app.mode())
	app.renderer.Render(app.view, app.status())
}

// Close cleans up resources.
func (app *Application) Close() error {
	if app.reloadTimer != nil {
		app.reloadTimer.Stop()
	}
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	if app.ownLoop != nil {
		app.ownLoop.Close()
	}
	app.screen.Fini()
	return err
}
