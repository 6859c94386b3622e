package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/kk-code-lab/rfind/internal/app"
	"github.com/kk-code-lab/rfind/internal/batch"
	"github.com/kk-code-lab/rfind/internal/config"
	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/layout"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	flag := c.String("config")
	return config.Load(config.Path(flag), flag != "")
}

func singleFile(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

func viewCommand(c *cli.Context) error {
	path, err := singleFile(c)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("view needs a terminal; use dump or find for pipes")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	viewer, err := app.New(app.Options{
		Path:   path,
		Config: cfg,
		Watch:  cfg.View.Watch && !c.Bool("no-watch"),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = viewer.Close()
	}()
	viewer.Run()
	return nil
}

func findCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("find: expected at least one GLOB argument")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	paths, err := batch.ExpandPatterns(c.Args().Slice(), c.StringSlice("exclude"))
	if err != nil {
		return err
	}

	results, err := batch.Run(c.Context, paths, batch.Options{
		Query:       c.String("query"),
		Find:        cfg.FindOptions(),
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		Wrap:        cfg.View.Wrap,
		TabWidth:    cfg.View.TabWidth,
		Concurrency: c.Int("jobs"),
	})
	if err != nil {
		return err
	}
	return batch.WriteJSONLines(c.App.Writer, results)
}

func dumpCommand(c *cli.Context) error {
	path, err := singleFile(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	doc, err := dom.LoadFile(path)
	if err != nil {
		return err
	}

	width := c.Int("width")
	if width < 0 {
		width = terminalWidth()
	}
	result := layout.Flow(doc.Body(), layout.Options{
		Width:    width,
		Wrap:     width > 0 && cfg.View.Wrap,
		TabWidth: cfg.View.TabWidth,
	})
	_, err = fmt.Fprintln(c.App.Writer, result.Text())
	return err
}

// terminalWidth returns stdout's width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
