// Command xdtree prints the artboard trees of an XD container.
//
//	xdtree [--no-color] [--resources] [--log-level L] FILE.xd
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"xdapi/internal/logging"
	"xdapi/internal/tree"
	"xdapi/internal/xd"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type renderOptions struct {
	resources bool
	palette   palette
}

type palette struct {
	container func(a ...any) string
	artboard  func(a ...any) string
	kind      func(a ...any) string
	missing   func(a ...any) string
}

func newPalette() palette {
	return palette{
		container: color.New(color.Bold).SprintFunc(),
		artboard:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		kind:      color.New(color.FgYellow).SprintFunc(),
		missing:   color.New(color.FgRed).SprintFunc(),
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("xdtree", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	noColor := fs.Bool("no-color", false, "disable coloured output")
	resources := fs.Bool("resources", false, "resolve pattern resources and print their size")
	level := fs.String("log-level", "warn", "log level for diagnostics on stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: xdtree [flags] FILE.xd")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if *noColor {
		color.NoColor = true
	}

	log, err := logging.NewConsole(*level)
	if err != nil {
		fmt.Fprintf(stderr, "xdtree: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	path := fs.Arg(0)
	doc, err := xd.Load(context.Background(), path, xd.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "xdtree: %v\n", err)
		return 1
	}
	defer doc.Close()

	opts := renderOptions{resources: *resources, palette: newPalette()}
	if err := render(stdout, path, doc, opts); err != nil {
		log.Error("render failed", zap.Error(err))
		return 1
	}
	return 0
}

// render writes the container line, one line per artboard and one per node
// below each artboard's top-level node, each level indented four spaces.
func render(w io.Writer, name string, doc *xd.Document, opts renderOptions) error {
	p := opts.palette
	if _, err := fmt.Fprintf(w, "- %s(%s)\n", p.container(name), p.kind("Xd")); err != nil {
		return err
	}
	for _, ab := range doc.Artboards {
		if _, err := fmt.Fprintf(w, "    - %s(%s)\n", p.artboard(ab.Name()), p.kind("Artboard")); err != nil {
			return err
		}
		for v := range tree.Walk(ab.Nodes()) {
			// Top-level nodes only wrap the artboard's content.
			if v.Depth == 0 {
				continue
			}
			line := fmt.Sprintf("%s- %s(%s) / %s, %s",
				strings.Repeat("    ", v.Depth+1), v.Name, p.kind(v.Type), v.ResourceUID, v.SymbolID)
			if opts.resources && v.ResourceUID != "" {
				line += " " + resourceNote(doc, v, p)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func resourceNote(doc *xd.Document, v tree.Visit, p palette) string {
	data, _, err := doc.StyleResource(v.Node.NodeStyle())
	if err != nil {
		return p.missing("[missing]")
	}
	return fmt.Sprintf("[%d bytes]", len(data))
}
