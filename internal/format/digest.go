// internal/format/digest.go
package format

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DigestVersion prefixes every encoded fingerprint. Bump it when the line
	// layout changes; profile changes are carried by the profile name.
	DigestVersion = "mrsh1"

	// FieldSeparator splits the fields of a digest line.
	FieldSeparator = ":"

	// RecordSeparator splits digest lines in a collection.
	RecordSeparator = "\n"

	recordFields = 5
)

// ErrMalformedRecord is returned for any structural violation of a digest line.
var ErrMalformedRecord = errors.New("format: malformed digest record")

// Record is the wire form of one fingerprint.
//
// Layout (fields in this fixed order, separated by ':'):
//
//	mrsh1.<profile> : label : byte length : bit-set count : HEX
//
// HEX is the upper-case hex of every bit-set, concatenated in chain order.
type Record struct {
	Profile    string
	Label      string
	ByteLength uint64
	Sets       [][]byte
}

// AppendRecord appends the encoded record to dst.
func AppendRecord(dst []byte, rec Record) []byte {
	dst = append(dst, DigestVersion...)
	dst = append(dst, '.')
	dst = append(dst, rec.Profile...)
	dst = append(dst, FieldSeparator...)
	dst = append(dst, rec.Label...)
	dst = append(dst, FieldSeparator...)
	dst = strconv.AppendUint(dst, rec.ByteLength, 10)
	dst = append(dst, FieldSeparator...)
	dst = strconv.AppendInt(dst, int64(len(rec.Sets)), 10)
	dst = append(dst, FieldSeparator...)

	for _, set := range rec.Sets {
		start := len(dst)
		dst = hex.AppendEncode(dst, set)
		upper := bytes.ToUpper(dst[start:])
		copy(dst[start:], upper)
	}
	return dst
}

// EncodeRecord returns the record as a single line without a trailing newline.
func EncodeRecord(rec Record) string {
	return string(AppendRecord(nil, rec))
}

// ParseRecord parses one digest line. setBytes reports the bit-set size of a
// profile, or false when the profile is unknown.
func ParseRecord(line string, setBytes func(profile string) (int, bool)) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, FieldSeparator)
	if len(fields) != recordFields {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, recordFields, len(fields))
	}

	version, profile, ok := strings.Cut(fields[0], ".")
	if !ok || version != DigestVersion {
		return Record{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedRecord, fields[0])
	}
	size, known := setBytes(profile)
	if !known {
		return Record{}, fmt.Errorf("%w: unknown profile %q", ErrMalformedRecord, profile)
	}

	byteLength, err := parseDecimal(fields[2])
	if err != nil {
		return Record{}, fmt.Errorf("%w: byte length: %v", ErrMalformedRecord, err)
	}
	count, err := parseDecimal(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bit-set count: %v", ErrMalformedRecord, err)
	}
	if count == 0 {
		return Record{}, fmt.Errorf("%w: bit-set count must be positive", ErrMalformedRecord)
	}

	payload := fields[4]
	if count > uint64(len(payload)) {
		return Record{}, fmt.Errorf("%w: %d bit-sets cannot fit in %d hex digits", ErrMalformedRecord, count, len(payload))
	}
	if uint64(len(payload)) != count*uint64(size)*2 {
		return Record{}, fmt.Errorf("%w: payload has %d hex digits, want %d", ErrMalformedRecord, len(payload), count*uint64(size)*2)
	}
	raw, err := hex.DecodeString(payload)
	if err != nil {
		return Record{}, fmt.Errorf("%w: payload: %v", ErrMalformedRecord, err)
	}

	sets := make([][]byte, count)
	for i := range sets {
		sets[i] = raw[i*size : (i+1)*size : (i+1)*size]
	}

	return Record{
		Profile:    profile,
		Label:      fields[1],
		ByteLength: byteLength,
		Sets:       sets,
	}, nil
}

// parseDecimal accepts only plain ASCII digits.
func parseDecimal(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid number %q", s)
		}
	}
	return strconv.ParseUint(s, 10, 64)
}
