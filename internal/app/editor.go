package app

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

var errNoEditor = errors.New("no editor configured (set $EDITOR)")

func (app *Application) handleEditorOpen() bool {
	if err := app.openFileInEditor(app.path); err != nil {
		app.message = err.Error()
		return true
	}
	// The watcher may miss a save made while the terminal was handed over.
	app.scheduleReload()
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return errNoEditor
	}
	args := append(append([]string(nil), app.editorCmd...), filePath)

	var tty *os.File
	if runtime.GOOS != "windows" {
		var err error
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			tty = nil
		} else {
			defer func() {
				_ = tty.Close()
			}()
		}
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	cmd := commandBuilder(args[0], args[1:]...)
	if tty != nil {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	} else {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	}
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", args[0], runErr)
	}
	return nil
}
