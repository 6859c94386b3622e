package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "rfind",
		Usage:     "View HTML, Markdown and text documents with find-in-page",
		Version:   Version,
		ArgsUsage: "[FILE]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default $RFIND_CONFIG or the user config dir)",
			},
		},
		// A bare file argument opens the viewer.
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			return viewCommand(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "view",
				Usage:     "Open a document in the full-screen viewer",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-watch",
						Usage: "Do not reload the document when the file changes",
					},
				},
				Action: viewCommand,
			},
			{
				Name:      "find",
				Usage:     "Search files and print one JSON line per result message",
				ArgsUsage: "GLOB...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Text to find (case-insensitive, literal)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "width",
						Usage: "Virtual viewport width in cells",
						Value: 80,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "Virtual viewport height in cells",
						Value: 24,
					},
					&cli.StringSliceFlag{
						Name:    "exclude",
						Aliases: []string{"x"},
						Usage:   "Skip files matching a glob (repeatable, e.g. --exclude '**/vendor/**')",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Files searched concurrently (default GOMAXPROCS)",
					},
				},
				Action: findCommand,
			},
			{
				Name:      "dump",
				Usage:     "Print the laid-out text of a document",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "width",
						Usage: "Wrap width in cells (default terminal width, 0 disables wrapping)",
						Value: -1,
					},
				},
				Action: dumpCommand,
			},
		},
	}
}
