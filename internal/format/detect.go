// internal/format/detect.go
package format

// Compression represents the container wrapped around a collection stream
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionXZ
)

// String returns the string representation of the compression
func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

// ParseCompression maps a user-facing name to a Compression
func ParseCompression(name string) (Compression, bool) {
	switch name {
	case "", "none", "text":
		return CompressionNone, true
	case "zstd", "zst":
		return CompressionZstd, true
	case "xz":
		return CompressionXZ, true
	default:
		return CompressionNone, false
	}
}

// magicSize is enough bytes to tell every supported container apart
const magicSize = 6

// DetectCompression detects the container from magic bytes.
// Anything unrecognised is treated as plain text.
func DetectCompression(magic []byte) Compression {
	if IsZstd(magic) {
		return CompressionZstd
	}
	if IsXZ(magic) {
		return CompressionXZ
	}
	return CompressionNone
}

// IsZstd returns true if the magic bytes indicate a zstd frame
func IsZstd(magic []byte) bool {
	return len(magic) >= 4 &&
		magic[0] == 0x28 && magic[1] == 0xB5 && magic[2] == 0x2F && magic[3] == 0xFD
}

// IsXZ returns true if the magic bytes indicate an XZ file
func IsXZ(magic []byte) bool {
	return len(magic) >= 6 &&
		magic[0] == 0xFD && magic[1] == '7' && magic[2] == 'z' &&
		magic[3] == 'X' && magic[4] == 'Z' && magic[5] == 0x00
}
