// pkg/mrsh/codec.go
package mrsh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creativeyann17/go-mrsh/internal/bloom"
	"github.com/creativeyann17/go-mrsh/internal/format"
)

// Compression selects the container of a saved collection
type Compression = format.Compression

const (
	CompressionNone = format.CompressionNone
	CompressionZstd = format.CompressionZstd
	CompressionXZ   = format.CompressionXZ
)

// ParseCompression maps "none", "zstd" or "xz" to a Compression.
func ParseCompression(name string) (Compression, bool) {
	return format.ParseCompression(name)
}

// Encode returns the printable digest of fp as a single line:
//
//	mrsh1.<profile>:<label>:<byte length>:<bit-set count>:<HEX>
func Encode(fp *Fingerprint) string {
	return string(appendEncoded(nil, fp))
}

func appendEncoded(dst []byte, fp *Fingerprint) []byte {
	chain := fp.mustChain("encode")
	sets := make([][]byte, chain.Len())
	for i := range sets {
		sets[i] = chain.Bytes(i)
	}
	return format.AppendRecord(dst, format.Record{
		Profile:    fp.profile,
		Label:      fp.label,
		ByteLength: fp.size,
		Sets:       sets,
	})
}

// Decode parses a digest produced by Encode. Surrounding whitespace is
// ignored. Any defect fails with a KindMalformedDigest Error and no result.
func Decode(text string) (*Fingerprint, error) {
	fp, err := decodeLine(strings.TrimSpace(text))
	if err != nil {
		return nil, newError(KindMalformedDigest, "decode", "", err)
	}
	return fp, nil
}

func decodeLine(line string) (*Fingerprint, error) {
	rec, err := format.ParseRecord(line, setBytes)
	if err != nil {
		return nil, err
	}
	if rec.Label == "" || len(rec.Label) > MaxLabelBytes {
		return nil, fmt.Errorf("label must hold 1 to %d bytes", MaxLabelBytes)
	}
	if err := checkLabel(rec.Label); err != nil {
		return nil, err
	}
	p, _ := LookupProfile(rec.Profile)
	chain, err := bloom.FromBytes(p.params(), rec.Sets)
	if err != nil {
		return nil, err
	}
	return &Fingerprint{
		label:   rec.Label,
		size:    rec.ByteLength,
		profile: rec.Profile,
		chain:   chain,
	}, nil
}

// EncodeCollection encodes every fingerprint of c, one line each, joined by
// newlines, in insertion order.
func EncodeCollection(c *Collection) string {
	var buf []byte
	for i, fp := range c.fps {
		if i > 0 {
			buf = append(buf, format.RecordSeparator...)
		}
		buf = appendEncoded(buf, fp)
	}
	return string(buf)
}

// DecodeCollection parses the output of EncodeCollection into a collection
// backed by the default engine. Blank lines are skipped.
func DecodeCollection(text string) (*Collection, error) {
	return DefaultEngine().ReadCollection(strings.NewReader(text))
}

// WriteCollection writes c as newline-terminated digest lines.
func WriteCollection(w io.Writer, c *Collection) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, fp := range c.fps {
		line = appendEncoded(line[:0], fp)
		line = append(line, format.RecordSeparator...)
		if _, err := bw.Write(line); err != nil {
			return newError(KindIO, "write", fp.label, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return newError(KindIO, "write", "", err)
	}
	return nil
}

// ReadCollection reads digest lines from r into a new collection whose Add
// methods use e. A malformed line fails the whole read.
func (e *Engine) ReadCollection(r io.Reader) (*Collection, error) {
	c := e.NewCollection()
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, newError(KindIO, "decode", "", err)
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fp, derr := decodeLine(trimmed)
			if derr != nil {
				return nil, newError(KindMalformedDigest, "decode", "", fmt.Errorf("line %d: %w", lineNo, derr))
			}
			c.fps = append(c.fps, fp)
		}
		if err != nil {
			return c, nil
		}
	}
}

// SaveCollection writes c to w inside the requested container.
// level is the zstd (1-22) or xz (1-9) level; 0 picks the default.
func SaveCollection(w io.Writer, c *Collection, compression Compression, level int) error {
	cw, err := format.NewWriter(w, compression, level)
	if err != nil {
		return newError(KindIO, "save", "", err)
	}
	if err := WriteCollection(cw, c); err != nil {
		cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return newError(KindIO, "save", "", err)
	}
	return nil
}

// LoadCollection reads a collection written by SaveCollection or
// WriteCollection; the container is detected from its magic bytes.
func LoadCollection(r io.Reader) (*Collection, error) {
	return DefaultEngine().LoadCollection(r)
}

// LoadCollection is the package-level LoadCollection with e backing the result.
func (e *Engine) LoadCollection(r io.Reader) (*Collection, error) {
	rc, _, err := format.NewReader(r)
	if err != nil {
		return nil, newError(KindIO, "load", "", err)
	}
	defer rc.Close()
	return e.ReadCollection(rc)
}

// CompareDigests decodes two encoded digests and compares them.
func CompareDigests(a, b string) (uint8, error) {
	fa, err := Decode(a)
	if err != nil {
		return 0, err
	}
	fb, err := Decode(b)
	if err != nil {
		return 0, err
	}
	return Compare(fa, fb), nil
}
