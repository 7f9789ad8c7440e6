// pkg/mrsh/fingerprint.go
package mrsh

import (
	"errors"

	"github.com/creativeyann17/go-mrsh/internal/bloom"
)

var (
	errUnbuilt = errors.New("fingerprint was not built by an Engine or decoded")
	errNilOpen = errors.New("source has no Open function")
)

// Fingerprint is the similarity digest of one input.
// It is immutable once returned and safe for concurrent reads.
type Fingerprint struct {
	label   string
	size    uint64
	profile string
	chain   *bloom.Chain
}

// Label returns the (possibly truncated) label.
func (f *Fingerprint) Label() string {
	return f.label
}

// Size returns the number of input bytes consumed.
func (f *Fingerprint) Size() uint64 {
	return f.size
}

// Profile returns the name of the profile the fingerprint was built with.
func (f *Fingerprint) Profile() string {
	return f.profile
}

// BitSetCount returns the length of the bit-set chain (always >= 1).
func (f *Fingerprint) BitSetCount() int {
	return f.mustChain("bitsets").Len()
}

// BitSet returns a copy of bit-set i in serialized form:
// W/8 bytes, bit j of the set is bit j%8 of byte j/8.
func (f *Fingerprint) BitSet(i int) []byte {
	return f.mustChain("bitsets").Bytes(i)
}

// Popcount returns the number of set bits in bit-set i.
func (f *Fingerprint) Popcount(i int) int {
	return int(f.mustChain("bitsets").Popcount(i))
}

// Equal reports whether both fingerprints carry the same profile, label,
// size and bit-set chain.
func (f *Fingerprint) Equal(other *Fingerprint) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.chain == nil || other.chain == nil {
		return f.chain == other.chain
	}
	return f.profile == other.profile &&
		f.label == other.label &&
		f.size == other.size &&
		f.chain.Equal(other.chain)
}

// String returns the encoded digest.
func (f *Fingerprint) String() string {
	if f == nil || f.chain == nil {
		return "<unbuilt fingerprint>"
	}
	return Encode(f)
}

// mustChain panics with a programming error when f was not built.
func (f *Fingerprint) mustChain(op string) *bloom.Chain {
	if f == nil || f.chain == nil {
		panic(newError(KindProgramming, op, "", errUnbuilt))
	}
	return f.chain
}

func (f *Fingerprint) valid() error {
	if f == nil || f.chain == nil {
		return errUnbuilt
	}
	return nil
}
