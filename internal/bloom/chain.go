package bloom

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Chain is the finalized, read-only sequence of bit-sets of one fingerprint.
// A Chain is never mutated and may be shared between goroutines.
type Chain struct {
	params Params
	words  []uint64
	pops   []uint32
	chunks []uint32 // digests absorbed per bit-set, zero when decoded
}

// FromBytes rebuilds a chain from serialized bit-sets (LSB0, little endian).
func FromBytes(params Params, sets [][]byte) (*Chain, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, ErrEmptyChain
	}

	w := params.setWords()
	c := &Chain{
		params: params,
		words:  make([]uint64, 0, w*len(sets)),
		pops:   make([]uint32, len(sets)),
		chunks: make([]uint32, len(sets)),
	}
	for i, raw := range sets {
		if len(raw) != params.SetBytes() {
			return nil, fmt.Errorf("%w: set %d has %d bytes, want %d", ErrBadSetSize, i, len(raw), params.SetBytes())
		}
		for j := 0; j < w; j++ {
			c.words = append(c.words, binary.LittleEndian.Uint64(raw[j*8:]))
		}
		c.pops[i] = uint32(c.view(i).Count())
	}
	return c, nil
}

// Params returns the geometry shared by every bit-set.
func (c *Chain) Params() Params {
	return c.params
}

// Len returns the number of bit-sets.
func (c *Chain) Len() int {
	return len(c.pops)
}

// Popcount returns the number of set bits of bit-set i.
func (c *Chain) Popcount(i int) uint32 {
	return c.pops[i]
}

// Chunks returns how many digests bit-set i absorbed, or 0 for decoded chains.
func (c *Chain) Chunks(i int) uint32 {
	return c.chunks[i]
}

// Bytes returns a copy of bit-set i serialized LSB0, little endian.
func (c *Chain) Bytes(i int) []byte {
	w := c.params.setWords()
	out := make([]byte, c.params.SetBytes())
	for j, word := range c.words[i*w : (i+1)*w] {
		binary.LittleEndian.PutUint64(out[j*8:], word)
	}
	return out
}

// Test reports whether bit pos of bit-set i is set.
func (c *Chain) Test(i int, pos uint) bool {
	return c.view(i).Test(pos)
}

// Overlap returns the number of bits set in both c[i] and other[j].
// Both chains must share the same width.
func (c *Chain) Overlap(i int, other *Chain, j int) uint32 {
	return uint32(c.view(i).IntersectionCardinality(other.view(j)))
}

// Equal reports whether both chains hold identical bit-sets.
func (c *Chain) Equal(other *Chain) bool {
	if c.params.WidthBits != other.params.WidthBits || len(c.words) != len(other.words) {
		return false
	}
	for i := range c.words {
		if c.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// view wraps the words of bit-set i without copying. Callers must not mutate it.
func (c *Chain) view(i int) *bitset.BitSet {
	w := c.params.setWords()
	return bitset.From(c.words[i*w : (i+1)*w : (i+1)*w])
}
