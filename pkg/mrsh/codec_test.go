package mrsh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5000, 1 << 20} {
		fp := mustBuild(t, randomBytes(uint64(100+n), n), "file name.bin")
		text := Encode(fp)
		assert.NotContains(t, text, "\n")

		back, err := Decode(text)
		require.NoError(t, err, "len %d", n)
		assert.True(t, fp.Equal(back), "len %d", n)
		assert.Equal(t, fp.Size(), back.Size())
		assert.Equal(t, fp.BitSetCount(), back.BitSetCount())
		assert.Equal(t, uint8(MaxScore), Compare(fp, back))
		assert.Equal(t, text, Encode(back))
	}
}

func TestEncodeLayout(t *testing.T) {
	fp := mustBuild(t, []byte("hello"), "greeting")
	text := fp.String()

	fields := strings.Split(text, ":")
	require.Len(t, fields, 5)
	assert.Equal(t, "mrsh1.default", fields[0])
	assert.Equal(t, "greeting", fields[1])
	assert.Equal(t, "5", fields[2])
	assert.Equal(t, "1", fields[3])
	assert.Len(t, fields[4], int(DefaultProfile().WidthBits/4))
	assert.Equal(t, strings.ToUpper(fields[4]), fields[4])
}

func TestDecodeAcceptsLowercaseAndWhitespace(t *testing.T) {
	fp := mustBuild(t, randomBytes(7, 3000), "lower")
	text := Encode(fp)
	head := text[:strings.LastIndex(text, ":")+1]
	lower := head + strings.ToLower(text[len(head):])

	back, err := Decode("  " + lower + "\r\n")
	require.NoError(t, err)
	assert.True(t, fp.Equal(back))
}

func TestDecodeMalformed(t *testing.T) {
	good := Encode(mustBuild(t, []byte("abc"), "abc"))
	fields := strings.Split(good, ":")
	join := func(f ...string) string { return strings.Join(f, ":") }

	tests := map[string]string{
		"empty":          "",
		"too few fields": join(fields[0], fields[1], fields[2], fields[4]),
		"extra field":    join(fields[0], "a", "b", fields[2], fields[3], fields[4]),
		"bad version":    join("mrsh9.default", fields[1], fields[2], fields[3], fields[4]),
		"no version":     join("default", fields[1], fields[2], fields[3], fields[4]),
		"bad profile":    join("mrsh1.nope", fields[1], fields[2], fields[3], fields[4]),
		"empty label":    join(fields[0], "", fields[2], fields[3], fields[4]),
		"long label":     join(fields[0], strings.Repeat("x", MaxLabelBytes+1), fields[2], fields[3], fields[4]),
		"signed size":    join(fields[0], fields[1], "-3", fields[3], fields[4]),
		"hex size":       join(fields[0], fields[1], "0x3", fields[3], fields[4]),
		"zero count":     join(fields[0], fields[1], fields[2], "0", fields[4]),
		"count mismatch": join(fields[0], fields[1], fields[2], "2", fields[4]),
		"huge count":     join(fields[0], fields[1], fields[2], "18446744073709551615", fields[4]),
		"short payload":  join(fields[0], fields[1], fields[2], fields[3], fields[4][:len(fields[4])-2]),
		"bad hex":        join(fields[0], fields[1], fields[2], fields[3], "ZZ"+fields[4][2:]),
		"two lines":      good + "\n" + good,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			fp, err := Decode(text)
			require.Error(t, err)
			assert.Nil(t, fp)
			assert.ErrorIs(t, err, ErrMalformedDigest)
		})
	}
}

func TestCompareDigests(t *testing.T) {
	data := randomBytes(8, 80_000)
	a := Encode(mustBuild(t, data, "a"))
	b := Encode(mustBuild(t, data[:60_000], "b"))

	score, err := CompareDigests(a, b)
	require.NoError(t, err)
	assert.Equal(t, Compare(mustBuild(t, data, "a"), mustBuild(t, data[:60_000], "b")), score)

	_, err = CompareDigests(a, "garbage")
	assert.ErrorIs(t, err, ErrMalformedDigest)
}

func buildCollection(t *testing.T) *Collection {
	t.Helper()
	c := NewCollection()
	for i := 0; i < 4; i++ {
		require.NoError(t, c.AddBytes(randomBytes(uint64(200+i), 10_000*(i+1)), "item-"+string(rune('0'+i))))
	}
	return c
}

func assertSameCollection(t *testing.T, want, got *Collection) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.True(t, want.At(i).Equal(got.At(i)), "index %d", i)
	}
}

func TestEncodeCollectionRoundTrip(t *testing.T) {
	c := buildCollection(t)
	text := EncodeCollection(c)
	assert.Len(t, strings.Split(text, "\n"), c.Len())

	back, err := DecodeCollection(text + "\n\n")
	require.NoError(t, err)
	assertSameCollection(t, c, back)
	assert.Equal(t, CompareAll(c, 0), CompareAll(back, 0))

	empty, err := DecodeCollection("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "", EncodeCollection(empty))
}

func TestDecodeCollectionRejectsBadLine(t *testing.T) {
	c := buildCollection(t)
	lines := strings.Split(EncodeCollection(c), "\n")
	lines[2] = "mrsh1.default:broken"

	back, err := DecodeCollection(strings.Join(lines, "\n"))
	require.Error(t, err)
	assert.Nil(t, back)
	assert.ErrorIs(t, err, ErrMalformedDigest)
	assert.Contains(t, err.Error(), "line 3")
}

func TestSaveLoadCollection(t *testing.T) {
	c := buildCollection(t)
	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionXZ} {
		t.Run(comp.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, SaveCollection(&buf, c, comp, 0))
			if comp == CompressionNone {
				assert.Equal(t, EncodeCollection(c)+"\n", buf.String())
			}

			back, err := LoadCollection(&buf)
			require.NoError(t, err)
			assertSameCollection(t, c, back)
		})
	}
}

func TestLoadCollectionEmpty(t *testing.T) {
	back, err := LoadCollection(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, back.Len())
}

func TestParseCompression(t *testing.T) {
	c, ok := ParseCompression("zstd")
	assert.True(t, ok)
	assert.Equal(t, CompressionZstd, c)
	_, ok = ParseCompression("rar")
	assert.False(t, ok)
}
