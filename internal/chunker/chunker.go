// internal/chunker/chunker.go
package chunker

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jotfs/fastcdc-go"

	"github.com/creativeyann17/go-mrsh/internal/digest"
	"github.com/creativeyann17/go-mrsh/internal/rollhash"
)

// Strategy selects how chunk boundaries are found
type Strategy string

const (
	// StrategyRolling closes a chunk when the rolling value hits value%avg == avg-1
	StrategyRolling Strategy = "rolling"

	// StrategyFastCDC delegates boundary detection to FastCDC (gear hash, normalized chunking)
	StrategyFastCDC Strategy = "fastcdc"
)

const (
	fastcdcMinSize = 64
	fastcdcMinAvg  = 256
	fastcdcMaxSize = 1024 * 1024 * 1024
)

var (
	// ErrInvalidSizes is returned when min/avg/max chunk sizes are inconsistent
	ErrInvalidSizes = errors.New("chunker: invalid chunk size bounds")

	// ErrUnknownStrategy is returned for an unsupported boundary strategy
	ErrUnknownStrategy = errors.New("chunker: unknown strategy")
)

// Options configures a Chunker
type Options struct {
	Strategy Strategy
	MinSize  uint64
	AvgSize  uint64 // mean chunk size M, a power of two for the rolling strategy
	MaxSize  uint64
	Digest   digest.Func // defaults to BLAKE3
}

// Chunker splits a byte stream into content-defined chunks and digests each one
type Chunker struct {
	strategy Strategy
	minSize  uint64
	avgSize  uint64
	maxSize  uint64
	digest   digest.Func
}

// New creates a rolling chunker with the given mean chunk size.
// Bounds default to avgSize/4 and avgSize*16; avgSize must be a power of two.
func New(avgSize uint64) *Chunker {
	return &Chunker{
		strategy: StrategyRolling,
		minSize:  avgSize / 4,
		avgSize:  avgSize,
		maxSize:  avgSize * 16,
		digest:   digest.BLAKE3,
	}
}

// NewWithOptions validates opts and creates a chunker
func NewWithOptions(opts Options) (*Chunker, error) {
	if opts.Strategy == "" {
		opts.Strategy = StrategyRolling
	}
	if opts.Digest == nil {
		opts.Digest = digest.BLAKE3
	}

	if opts.MaxSize == 0 || opts.MinSize >= opts.MaxSize ||
		opts.AvgSize < opts.MinSize || opts.AvgSize > opts.MaxSize {
		return nil, fmt.Errorf("%w: min=%d avg=%d max=%d", ErrInvalidSizes, opts.MinSize, opts.AvgSize, opts.MaxSize)
	}

	switch opts.Strategy {
	case StrategyRolling:
		if opts.AvgSize < 2 || opts.AvgSize&(opts.AvgSize-1) != 0 || opts.AvgSize > 1<<31 {
			return nil, fmt.Errorf("%w: avg %d must be a power of two", ErrInvalidSizes, opts.AvgSize)
		}
	case StrategyFastCDC:
		if opts.MinSize < fastcdcMinSize || opts.AvgSize < fastcdcMinAvg || opts.MaxSize > fastcdcMaxSize ||
			opts.MinSize >= opts.AvgSize || opts.AvgSize >= opts.MaxSize {
			return nil, fmt.Errorf("%w: fastcdc needs %d <= min < avg < max <= %d and avg >= %d",
				ErrInvalidSizes, fastcdcMinSize, fastcdcMaxSize, fastcdcMinAvg)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}

	return &Chunker{
		strategy: opts.Strategy,
		minSize:  opts.MinSize,
		avgSize:  opts.AvgSize,
		maxSize:  opts.MaxSize,
		digest:   opts.Digest,
	}, nil
}

// Chunk represents a piece of the input with its digest
type Chunk struct {
	Offset   uint64
	Data     []byte
	Digest   uint64
	OrigSize uint64
}

// Split reads from reader and returns every chunk with a private copy of its data
func (c *Chunker) Split(reader io.Reader) ([]Chunk, error) {
	chunks := make([]Chunk, 0, 8)
	err := c.SplitWithCallback(reader, func(chunk Chunk) error {
		chunk.Data = bytes.Clone(chunk.Data)
		if chunk.Data == nil {
			chunk.Data = []byte{}
		}
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// SplitWithCallback streams chunks to fn in input order.
// Chunk.Data is only valid until fn returns.
// The end of the stream always closes the current chunk, and an input that
// produced no chunk yields a single zero-length one.
func (c *Chunker) SplitWithCallback(reader io.Reader, fn func(Chunk) error) error {
	emitted := false
	emit := func(chunk Chunk) error {
		emitted = true
		return fn(chunk)
	}

	var err error
	switch c.strategy {
	case StrategyFastCDC:
		err = c.splitFastCDC(reader, emit)
	default:
		err = c.splitRolling(reader, emit)
	}
	if err != nil {
		return err
	}

	if !emitted {
		return fn(Chunk{Data: []byte{}, Digest: c.digest(nil)})
	}
	return nil
}

func (c *Chunker) splitRolling(reader io.Reader, emit func(Chunk) error) error {
	buf := getReadBuffer()
	defer putReadBuffer(buf)

	cur := make([]byte, 0, c.maxSize)
	h := rollhash.New()
	mask := uint32(c.avgSize - 1)
	var offset uint64

	flush := func() error {
		chunk := Chunk{
			Offset:   offset,
			Data:     cur,
			Digest:   c.digest(cur),
			OrigSize: uint64(len(cur)),
		}
		offset += chunk.OrigSize
		if err := emit(chunk); err != nil {
			return err
		}
		cur = cur[:0]
		return nil
	}

	for {
		n, readErr := reader.Read(buf)
		for _, b := range buf[:n] {
			v := h.Roll(b)
			cur = append(cur, b)

			size := uint64(len(cur))
			if (size >= c.minSize && v&mask == mask) || size >= c.maxSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read: %w", readErr)
		}
	}

	if len(cur) > 0 {
		return flush()
	}
	return nil
}

func (c *Chunker) splitFastCDC(reader io.Reader, emit func(Chunk) error) error {
	cdc, err := fastcdc.NewChunker(reader, fastcdc.Options{
		MinSize:     int(c.minSize),
		AverageSize: int(c.avgSize),
		MaxSize:     int(c.maxSize),
	})
	if err != nil {
		return fmt.Errorf("fastcdc: %w", err)
	}

	for {
		next, err := cdc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		if err := emit(Chunk{
			Offset:   uint64(next.Offset),
			Data:     next.Data,
			Digest:   c.digest(next.Data),
			OrigSize: uint64(next.Length),
		}); err != nil {
			return err
		}
	}
}

// Boundaries returns the end offset of every chunk of data
func (c *Chunker) Boundaries(data []byte) []uint64 {
	var ends []uint64
	// bytes.Reader never fails and the callback never errors
	_ = c.SplitWithCallback(bytes.NewReader(data), func(chunk Chunk) error {
		ends = append(ends, chunk.Offset+chunk.OrigSize)
		return nil
	})
	return ends
}

// ChunkSize returns the configured mean chunk size
func (c *Chunker) ChunkSize() uint64 {
	return c.avgSize
}

// MinSize returns the smallest chunk closed by a boundary trigger
func (c *Chunker) MinSize() uint64 {
	return c.minSize
}

// MaxSize returns the size at which a chunk is force-closed
func (c *Chunker) MaxSize() uint64 {
	return c.maxSize
}

// Strategy returns the boundary strategy
func (c *Chunker) Strategy() Strategy {
	return c.strategy
}
