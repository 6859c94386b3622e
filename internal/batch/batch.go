// Package batch runs one find query over many files without a terminal. Each
// file gets its own document, layout and scheduler loop, so files are
// searched in parallel while every session stays single-threaded.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kk-code-lab/rfind/internal/debuglog"
	"github.com/kk-code-lab/rfind/internal/dom"
	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/layout"
	"github.com/kk-code-lab/rfind/internal/sched"
)

// Options control a batch run.
type Options struct {
	Query string
	Find  find.Options
	// Width and Height size each file's virtual viewport in cells.
	Width    int
	Height   int
	Wrap     bool
	TabWidth int
	// Concurrency bounds how many files are searched at once.
	Concurrency int
}

// Result is everything one file's session reported.
type Result struct {
	Path     string
	Messages []find.Message
	Err      error
}

// Line is one JSON output record.
type Line struct {
	Path string `json:"path"`
	find.Message
	Error string `json:"error,omitempty"`
}

// Run searches every path and returns the results in input order. A file
// that cannot be loaded records its error; only cancellation aborts the run.
func Run(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			messages, err := SearchFile(ctx, path, opts)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			results[i] = Result{Path: path, Messages: messages, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchFile loads path and runs opts.Query over it to completion, returning
// the messages the session posted.
func SearchFile(ctx context.Context, path string, opts Options) ([]find.Message, error) {
	doc, err := dom.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Search(ctx, doc, opts)
}

// Search runs opts.Query over doc on a private loop.
func Search(ctx context.Context, doc *dom.Document, opts Options) ([]find.Message, error) {
	view := layout.NewView(doc, layout.DefaultMetrics(), opts.Wrap, opts.TabWidth)
	if opts.Width > 0 && opts.Height > 0 {
		view.Resize(opts.Width, opts.Height)
	}
	loop := sched.NewLoop()
	defer loop.Close()

	findOpts := opts.Find
	// Nobody watches the scroll, so jump straight to each match.
	findOpts.ScrollDuration = find.Immediate
	host := &find.Recorder{}
	session := find.NewSession(doc, find.Environment{
		Viewport:  view,
		Scheduler: loop,
		Host:      host,
	}, findOpts)

	session.Find(opts.Query)
	for session.Phase() == find.Searching {
		if err := ctx.Err(); err != nil {
			session.FindDone()
			return nil, err
		}
		select {
		case <-ctx.Done():
		case <-loop.Wake():
			loop.RunPending()
		}
	}
	debuglog.Printf("batch: %s: %d highlights", doc.Path, len(session.Highlights()))
	return host.Messages, nil
}

// WriteJSONLines writes one line per message, grouped by file in result
// order. Failed files produce a single line carrying the error.
func WriteJSONLines(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if r.Err != nil {
			if err := enc.Encode(Line{Path: r.Path, Error: r.Err.Error()}); err != nil {
				return fmt.Errorf("write %s: %w", r.Path, err)
			}
			continue
		}
		for _, m := range r.Messages {
			if err := enc.Encode(Line{Path: r.Path, Message: m}); err != nil {
				return fmt.Errorf("write %s: %w", r.Path, err)
			}
		}
	}
	return nil
}
