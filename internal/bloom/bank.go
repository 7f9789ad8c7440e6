package bloom

import "github.com/bits-and-blooms/bitset"

// Bank is the mutable accumulator for one fingerprint. It is not safe for
// concurrent use; each build owns its Bank.
type Bank struct {
	params    Params
	words     []uint64 // arena, the last setWords() words are the active set
	pops      []uint32
	chunks    []uint32
	active    *bitset.BitSet
	scratch   []uint
	finalized bool
	chain     *Chain
}

// NewBank opens a bank with one empty active bit-set.
// The caller validates params beforehand.
func NewBank(params Params) *Bank {
	b := &Bank{
		params:  params,
		scratch: make([]uint, 0, params.K),
	}
	b.open()
	return b
}

// open appends a fresh bit-set to the arena and points the active view at it.
func (b *Bank) open() {
	w := b.params.setWords()
	off := len(b.words)
	b.words = append(b.words, make([]uint64, w)...)
	b.pops = append(b.pops, 0)
	b.chunks = append(b.chunks, 0)
	b.active = bitset.From(b.words[off : off+w : off+w])
}

// Insert sets the K positions of digest in the active bit-set, sealing it
// first when the insertion would push its set-bit count past SaturationBits.
// Insert panics with ErrFinalized once Finalize has been called.
func (b *Bank) Insert(digest uint64) {
	if b.finalized {
		panic(ErrFinalized)
	}

	pos := b.params.Positions(digest, b.scratch[:0])
	b.scratch = pos

	distinct, fresh := 0, 0
	for i, p := range pos {
		if repeated(pos[:i], p) {
			continue
		}
		distinct++
		if !b.active.Test(p) {
			fresh++
		}
	}

	cur := len(b.pops) - 1
	if b.pops[cur] > 0 && b.pops[cur]+uint32(fresh) > b.params.SaturationBits {
		b.open()
		cur++
		fresh = distinct
	}

	for _, p := range pos {
		b.active.Set(p)
	}
	b.pops[cur] += uint32(fresh)
	b.chunks[cur]++
}

func repeated(seen []uint, p uint) bool {
	for _, s := range seen {
		if s == p {
			return true
		}
	}
	return false
}

// Len returns the number of bit-sets, the active one included.
func (b *Bank) Len() int {
	return len(b.pops)
}

// Finalize seals the active bit-set, even if under-full, and returns the
// immutable chain. Later calls return the same chain.
func (b *Bank) Finalize() *Chain {
	if b.finalized {
		return b.chain
	}
	b.finalized = true
	b.active = nil
	b.chain = &Chain{
		params: b.params,
		words:  b.words[:len(b.words):len(b.words)],
		pops:   b.pops,
		chunks: b.chunks,
	}
	return b.chain
}
