package format

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func knownProfile(profile string) (int, bool) {
	if profile == "test" {
		return 4, true
	}
	return 0, false
}

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{
		Profile:    "test",
		Label:      "sample.bin",
		ByteLength: 1234,
		Sets:       [][]byte{{0x01, 0xAB, 0x00, 0xFF}, {0x10, 0x20, 0x30, 0x40}},
	}

	line := EncodeRecord(rec)
	require.Equal(t, "mrsh1.test:sample.bin:1234:2:01AB00FF10203040", line)

	parsed, err := ParseRecord(line, knownProfile)
	require.NoError(t, err)
	require.Equal(t, rec, parsed)
}

func TestParseRecordAcceptsLowerCaseAndCRLF(t *testing.T) {
	parsed, err := ParseRecord("mrsh1.test:x:0:1:01ab00ff\r\n", knownProfile)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0xAB, 0x00, 0xFF}, parsed.Sets[0])
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing fields": "mrsh1.test:x:0:1",
		"extra field":    "mrsh1.test:x:y:0:1:01AB00FF",
		"no version":     "test:x:0:1:01AB00FF",
		"old version":    "mrsh0.test:x:0:1:01AB00FF",
		"unknown prof":   "mrsh1.other:x:0:1:01AB00FF",
		"signed length":  "mrsh1.test:x:-1:1:01AB00FF",
		"empty length":   "mrsh1.test:x::1:01AB00FF",
		"zero count":     "mrsh1.test:x:0:0:",
		"short payload":  "mrsh1.test:x:0:2:01AB00FF",
		"long payload":   "mrsh1.test:x:0:1:01AB00FF00",
		"bad hex":        "mrsh1.test:x:0:1:01AB00FG",
		"huge count":     "mrsh1.test:x:0:99999999999999999999:00",
	}

	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecord(line, knownProfile)
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestDetectCompression(t *testing.T) {
	require.Equal(t, CompressionZstd, DetectCompression([]byte{0x28, 0xB5, 0x2F, 0xFD, 0, 0}))
	require.Equal(t, CompressionXZ, DetectCompression([]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}))
	require.Equal(t, CompressionNone, DetectCompression([]byte("mrsh1.")))
	require.Equal(t, CompressionNone, DetectCompression(nil))

	c, ok := ParseCompression("zst")
	require.True(t, ok)
	require.Equal(t, CompressionZstd, c)
	_, ok = ParseCompression("gzip")
	require.False(t, ok)
}

func TestStreamRoundTrip(t *testing.T) {
	payload := strings.Repeat("mrsh1.test:x:0:1:01AB00FF\n", 200)

	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionXZ} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c, 0)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, detected, err := NewReader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			defer r.Close()
			require.Equal(t, c, detected)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, payload, string(got))
		})
	}
}

func TestNewReaderEmptyInput(t *testing.T) {
	r, c, err := NewReader(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, CompressionNone, c)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Empty(t, got)
}
