// cmd/gomrsh/output.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/creativeyann17/go-mrsh/internal/progress"
	"github.com/creativeyann17/go-mrsh/internal/scan"
	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// buildAll fingerprints every collected file into a new collection.
// Progress bars are drawn on stderr when it is a terminal. Per-file
// failures are reported on stderr and do not abort the batch.
func (a *app) buildAll(ctx context.Context, files *scan.Result) (*mrsh.Collection, error) {
	c := a.engine.NewCollection()

	var progressCb mrsh.ProgressCallback
	wait := func() {}
	if !flags.quiet && isTerminal(os.Stderr) {
		cb, bars := progress.Bars(os.Stderr)
		progressCb, wait = cb, bars.Wait
	}

	err := c.AddAll(ctx, files.Sources(), progressCb)
	wait()

	var batchErr *mrsh.BatchError
	if errors.As(err, &batchErr) {
		for _, f := range batchErr.Failures {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", f.Label, f.Err)
		}
		return c, nil
	}
	return c, err
}

// collect expands command arguments into files, reporting unreadable paths on stderr
func collect(paths []string, opts scan.Options) (*scan.Result, error) {
	files, err := scan.Collect(paths, opts)
	if files != nil {
		for _, e := range files.Errors {
			fmt.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	}
	return files, err
}

func renderResults(w io.Writer, results []mrsh.ComparisonResult, csv bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"A", "B", "Score"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.LabelA, r.LabelB, strconv.Itoa(int(r.Score))})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	if csv {
		tw.RenderCSV()
		return
	}
	tw.Render()
}

func status(format string, args ...any) {
	if !flags.quiet {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
