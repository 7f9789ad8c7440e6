// pkg/mrsh/collection.go
package mrsh

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/creativeyann17/go-mrsh/internal/logging"
)

// Collection is an insertion-ordered list of fingerprints.
// It is not safe for concurrent mutation; AddAll parallelises internally.
type Collection struct {
	engine *Engine
	fps    []*Fingerprint
}

// NewCollection creates an empty collection whose Add methods use e.
func (e *Engine) NewCollection() *Collection {
	return &Collection{engine: e}
}

// NewCollection creates an empty collection backed by the default engine.
func NewCollection() *Collection {
	return DefaultEngine().NewCollection()
}

// Engine returns the engine used by the Add methods.
func (c *Collection) Engine() *Engine {
	return c.engine
}

// Len returns the number of fingerprints.
func (c *Collection) Len() int {
	return len(c.fps)
}

// At returns the i-th fingerprint in insertion order.
func (c *Collection) At(i int) *Fingerprint {
	return c.fps[i]
}

// Fingerprints returns the fingerprints in insertion order.
// The slice is a copy; the fingerprints are shared read-only.
func (c *Collection) Fingerprints() []*Fingerprint {
	out := make([]*Fingerprint, len(c.fps))
	copy(out, c.fps)
	return out
}

// Add builds a fingerprint from r and appends it.
// On error the collection is unchanged.
func (c *Collection) Add(r io.Reader, label string) error {
	fp, err := c.engine.Build(r, label)
	if err != nil {
		return err
	}
	c.fps = append(c.fps, fp)
	return nil
}

// AddBytes builds a fingerprint from data and appends it.
func (c *Collection) AddBytes(data []byte, label string) error {
	fp, err := c.engine.BuildBytes(data, label)
	if err != nil {
		return err
	}
	c.fps = append(c.fps, fp)
	return nil
}

// AddFile builds a fingerprint from the file at path and appends it.
func (c *Collection) AddFile(path, label string) error {
	fp, err := c.engine.BuildFile(path, label)
	if err != nil {
		return err
	}
	c.fps = append(c.fps, fp)
	return nil
}

// AddFingerprint appends an already built fingerprint.
func (c *Collection) AddFingerprint(fp *Fingerprint) error {
	if err := fp.valid(); err != nil {
		return newError(KindProgramming, "add", "", err)
	}
	c.fps = append(c.fps, fp)
	return nil
}

// Source is one input of a batch
type Source struct {
	Label string
	Open  func() (io.ReadCloser, error)
}

// FileSource reads the file at path. An empty label becomes the path.
func FileSource(path, label string) Source {
	if label == "" {
		label = path
	}
	return Source{
		Label: label,
		Open:  func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource reads an in-memory buffer.
func BytesSource(data []byte, label string) Source {
	return Source{
		Label: label,
		Open:  func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// AddAll builds every source concurrently (bounded by the engine's Workers)
// and appends the results in source order. Sources that fail are skipped and
// reported in a *BatchError; the others are still added. If ctx is cancelled
// nothing is added and ctx's error is returned. progressCb may be nil.
func (c *Collection) AddAll(ctx context.Context, sources []Source, progressCb ProgressCallback) error {
	total := int64(len(sources))
	emit := func(ev ProgressEvent) {
		if progressCb != nil {
			ev.Total = total
			progressCb(ev)
		}
	}
	emit(ProgressEvent{Type: EventStart})

	results := make([]*Fingerprint, len(sources))
	failures := make([]error, len(sources))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.engine.workers)
	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := c.engine.buildSource(gctx, i, src, emit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures[i] = err
				emit(ProgressEvent{Type: EventError, Index: i, Label: src.Label, Current: done.Add(1), Err: err})
				return nil
			}
			results[i] = fp
			emit(ProgressEvent{
				Type:         EventFileComplete,
				Index:        i,
				Label:        fp.label,
				Current:      done.Add(1),
				CurrentBytes: fp.size,
				TotalBytes:   fp.size,
			})
			return nil
		})
	}
	err := g.Wait()
	emit(ProgressEvent{Type: EventComplete, Current: done.Load()})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var batchErr *BatchError
	for i, fp := range results {
		if fp != nil {
			c.fps = append(c.fps, fp)
			continue
		}
		if batchErr == nil {
			batchErr = &BatchError{}
		}
		batchErr.Failures = append(batchErr.Failures, BatchFailure{Index: i, Label: sources[i].Label, Err: failures[i]})
		c.engine.logger.Warn("input skipped",
			slog.String(logging.FieldLabel, sources[i].Label),
			logging.Error(failures[i]))
	}
	if batchErr != nil {
		return batchErr
	}
	return nil
}

type statter interface {
	Stat() (os.FileInfo, error)
}

// buildSource opens and fingerprints one batch input.
// Reads fail with ctx's error once ctx is cancelled.
func (e *Engine) buildSource(ctx context.Context, index int, src Source, emit func(ProgressEvent)) (*Fingerprint, error) {
	if src.Open == nil {
		return nil, newError(KindProgramming, "build", src.Label, errNilOpen)
	}
	rc, err := src.Open()
	if err != nil {
		return nil, newError(KindIO, "build", src.Label, err)
	}
	defer rc.Close()

	var size uint64
	if st, ok := rc.(statter); ok {
		if info, err := st.Stat(); err == nil && info.Mode().IsRegular() {
			size = uint64(info.Size())
		}
	}
	emit(ProgressEvent{Type: EventFileStart, Index: index, Label: src.Label, TotalBytes: size})

	var read uint64
	onRead := func(n int) {
		read += uint64(n)
		emit(ProgressEvent{Type: EventFileProgress, Index: index, Label: src.Label, CurrentBytes: read, TotalBytes: size})
	}
	return e.build(&ctxReader{ctx: ctx, r: rc}, src.Label, onRead)
}

// ctxReader stops a build between reads once its context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
