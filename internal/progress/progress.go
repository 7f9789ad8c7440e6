// internal/progress/progress.go
package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

// Bars returns a callback rendering one bar per input being fingerprinted
// plus an overall bar. Call Wait on the returned container once the batch
// is done.
func Bars(out io.Writer) (mrsh.ProgressCallback, *mpb.Progress) {
	progress := mpb.New(
		mpb.WithOutput(out),
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	var overall *mpb.Bar
	var inputs sync.Map // index -> *mpb.Bar

	callback := func(event mrsh.ProgressEvent) {
		switch event.Type {
		case mrsh.EventStart:
			overall = progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name("Total", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarPriority(1000),
			)
			if event.Total == 0 {
				overall.SetTotal(0, true)
			}

		case mrsh.EventFileStart:
			// unknown or empty sizes finish instantly, no bar
			if event.TotalBytes == 0 {
				return
			}
			bar := progress.AddBar(int64(event.TotalBytes),
				mpb.PrependDecorators(
					decor.Name(TruncateLeft(event.Label, 30), decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarRemoveOnComplete(),
			)
			inputs.Store(event.Index, bar)

		case mrsh.EventFileProgress:
			if bar, ok := inputs.Load(event.Index); ok {
				bar.(*mpb.Bar).SetCurrent(int64(event.CurrentBytes))
			}

		case mrsh.EventFileComplete:
			if bar, ok := inputs.LoadAndDelete(event.Index); ok {
				b := bar.(*mpb.Bar)
				// size may have changed since Stat
				b.SetTotal(int64(event.CurrentBytes), true)
			}
			if overall != nil {
				overall.Increment()
			}

		case mrsh.EventError:
			if bar, ok := inputs.LoadAndDelete(event.Index); ok {
				bar.(*mpb.Bar).Abort(true)
			}
			if overall != nil {
				overall.Increment()
			}

		case mrsh.EventComplete:
			// cancelled batches stop short of Total
			if overall != nil && !overall.Completed() {
				overall.Abort(false)
			}
		}
	}

	return callback, progress
}

// FormatSize formats bytes into human-readable string
func FormatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// TruncateLeft truncates a path from the left to fit maxLen, preserving the filename
func TruncateLeft(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	filename := filepath.Base(path)
	if len(filename) >= maxLen-3 {
		return "..." + filename[len(filename)-(maxLen-3):]
	}
	return "..." + path[len(path)-(maxLen-3):]
}
