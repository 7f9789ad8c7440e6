// internal/digest/digest.go

// Package digest maps chunk bytes to the 64-bit values that index bit-sets.
// Only bit dispersion matters here; none of the functions is used for
// integrity or authentication.
package digest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/blake3"
)

// Algorithm names a chunk digest function.
type Algorithm string

const (
	// AlgorithmBLAKE3 uses the first 8 bytes of BLAKE3-256 (little endian)
	AlgorithmBLAKE3 Algorithm = "blake3"

	// AlgorithmXXHash uses xxHash64
	AlgorithmXXHash Algorithm = "xxhash64"

	// AlgorithmMurmur3 uses the 64-bit half of murmur3 x64-128
	AlgorithmMurmur3 Algorithm = "murmur3"

	// AlgorithmFNV uses FNV-1a 64
	AlgorithmFNV Algorithm = "fnv1a64"
)

// ErrUnknownAlgorithm is returned by For when the name is not registered.
var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

// Func digests one chunk.
type Func func(p []byte) uint64

// For returns the digest function for alg.
func For(alg Algorithm) (Func, error) {
	switch alg {
	case AlgorithmBLAKE3:
		return BLAKE3, nil
	case AlgorithmXXHash:
		return XXHash, nil
	case AlgorithmMurmur3:
		return Murmur3, nil
	case AlgorithmFNV:
		return FNV, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmBLAKE3, AlgorithmXXHash, AlgorithmMurmur3, AlgorithmFNV}
}

func BLAKE3(p []byte) uint64 {
	sum := blake3.Sum256(p)
	return binary.LittleEndian.Uint64(sum[:8])
}

func XXHash(p []byte) uint64 {
	return xxhash.Sum64(p)
}

func Murmur3(p []byte) uint64 {
	return murmur3.Sum64(p)
}

func FNV(p []byte) uint64 {
	h := fnv.New64a()
	h.Write(p)
	return h.Sum64()
}
