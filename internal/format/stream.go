// internal/format/stream.go
package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// DefaultZstdLevel balances speed and ratio for hex-heavy digest text
const DefaultZstdLevel = 9

// NewWriter wraps w with the requested container. Close flushes the
// container but does not close w.
func NewWriter(w io.Writer, c Compression, level int) (io.WriteCloser, error) {
	switch c {
	case CompressionZstd:
		if level <= 0 {
			level = DefaultZstdLevel
		}
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
			zstd.WithZeroFrames(true),
		)
		if err != nil {
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		return enc, nil

	case CompressionXZ:
		if level <= 0 {
			level = 1
		}
		cfg := xz.WriterConfig{
			DictCap: 1 << (20 + level), // Scale dictionary with level
		}
		if level >= 7 {
			cfg.DictCap = 1 << 26
		}
		xzw, err := cfg.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create xz writer: %w", err)
		}
		return xzw, nil

	default:
		return nopWriteCloser{w}, nil
	}
}

// NewReader detects the container of r from its magic bytes and returns a
// reader over the decompressed collection text.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(magicSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, CompressionNone, fmt.Errorf("read magic: %w", err)
	}

	c := DetectCompression(magic)
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("create zstd reader: %w", err)
		}
		return dec.IOReadCloser(), c, nil

	case CompressionXZ:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("create xz reader: %w", err)
		}
		return io.NopCloser(xzr), c, nil

	default:
		return io.NopCloser(br), c, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
