// pkg/mrsh/engine.go
package mrsh

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/creativeyann17/go-mrsh/internal/bloom"
	"github.com/creativeyann17/go-mrsh/internal/chunker"
	"github.com/creativeyann17/go-mrsh/internal/logging"
)

// Engine builds fingerprints with one profile. It holds no per-build state
// and is safe for concurrent use.
type Engine struct {
	profile Profile
	chunker *chunker.Chunker
	params  bloom.Params
	workers int
	logger  *slog.Logger
}

// New validates opts and creates an Engine
func New(opts *Options) (*Engine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if err := o.Validate(); err != nil {
		return nil, err
	}
	p, _ := LookupProfile(o.Profile)
	c, err := p.newChunker()
	if err != nil {
		return nil, err
	}
	return &Engine{
		profile: p,
		chunker: c,
		params:  p.params(),
		workers: o.Workers,
		logger:  logging.NewComponentLogger(o.Logger, "mrsh").With(slog.String(logging.FieldProfile, p.Name)),
	}, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	e, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return e
})

// DefaultEngine returns the shared Engine built from DefaultOptions.
func DefaultEngine() *Engine {
	return defaultEngine()
}

// Profile returns the engine's profile.
func (e *Engine) Profile() Profile {
	return e.profile
}

// Workers returns the configured concurrency.
func (e *Engine) Workers() int {
	return e.workers
}

// Build consumes r to its end and returns its fingerprint.
// An empty label becomes DefaultLabel.
func (e *Engine) Build(r io.Reader, label string) (*Fingerprint, error) {
	return e.build(r, label, nil)
}

// BuildBytes fingerprints an in-memory buffer.
func (e *Engine) BuildBytes(data []byte, label string) (*Fingerprint, error) {
	return e.build(bytes.NewReader(data), label, nil)
}

// BuildFile fingerprints the file at path. An empty label becomes the path.
func (e *Engine) BuildFile(path, label string) (*Fingerprint, error) {
	return e.buildFile(path, label, nil)
}

func (e *Engine) buildFile(path, label string, onRead func(int)) (*Fingerprint, error) {
	if label == "" {
		label = path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindIO, "build", label, err)
	}
	defer f.Close()
	return e.build(f, label, onRead)
}

func (e *Engine) build(r io.Reader, label string, onRead func(int)) (*Fingerprint, error) {
	if r == nil {
		return nil, newError(KindProgramming, "build", label, fmt.Errorf("nil reader"))
	}
	name, truncated, err := normalizeLabel(label)
	if err != nil {
		return nil, newError(KindInvalidLabel, "build", label, err)
	}
	if truncated {
		e.logger.Warn("label truncated",
			slog.String(logging.FieldLabel, name),
			slog.Int("max_bytes", MaxLabelBytes))
	}

	bank := bloom.NewBank(e.params)
	cr := &countingReader{r: r, onRead: onRead}
	err = e.chunker.SplitWithCallback(cr, func(c chunker.Chunk) error {
		bank.Insert(c.Digest)
		return nil
	})
	if err != nil {
		return nil, newError(KindIO, "build", name, err)
	}

	fp := &Fingerprint{
		label:   name,
		size:    cr.n,
		profile: e.profile.Name,
		chain:   bank.Finalize(),
	}
	e.logger.Debug("fingerprint built",
		slog.String(logging.FieldLabel, name),
		slog.Uint64("bytes", fp.size),
		slog.Int("bit_sets", fp.chain.Len()))
	return fp, nil
}

// Build fingerprints r with the default engine.
func Build(r io.Reader, label string) (*Fingerprint, error) {
	return DefaultEngine().Build(r, label)
}

// BuildBytes fingerprints data with the default engine.
func BuildBytes(data []byte, label string) (*Fingerprint, error) {
	return DefaultEngine().BuildBytes(data, label)
}

// BuildFile fingerprints the file at path with the default engine.
func BuildFile(path, label string) (*Fingerprint, error) {
	return DefaultEngine().BuildFile(path, label)
}
