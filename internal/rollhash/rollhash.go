// internal/rollhash/rollhash.go

// Package rollhash implements the small-window rolling checksum used to find
// content-defined chunk boundaries.
//
// The value combines three parts over the last WindowSize bytes: a plain sum,
// a position-weighted sum and a shift/xor mix. Each Roll updates all three in
// constant time from the entering and leaving byte only, so the value after a
// Roll depends on the last WindowSize bytes and nothing earlier.
package rollhash

// WindowSize is the number of trailing bytes that determine the rolling value.
const WindowSize = 7

// h3 keeps 5 bits per byte; after WindowSize shifts the oldest byte is gone.
const shiftBits = 5

// Hasher maintains the rolling state. The zero value is ready to use.
type Hasher struct {
	window [WindowSize]byte
	h1     uint32 // sum of window bytes
	h2     uint32 // weighted sum, newest byte weighs WindowSize
	h3     uint32 // shift/xor mix
	n      uint32
}

// New returns a Hasher with an all-zero window.
func New() *Hasher {
	return &Hasher{}
}

// Roll pushes b into the window and returns the updated value.
func (h *Hasher) Roll(b byte) uint32 {
	c := uint32(b)

	h.h2 -= h.h1
	h.h2 += WindowSize * c

	h.h1 += c
	h.h1 -= uint32(h.window[h.n%WindowSize])

	h.window[h.n%WindowSize] = b
	h.n++

	h.h3 <<= shiftBits
	h.h3 ^= c

	return h.Sum()
}

// Sum returns the current rolling value.
func (h *Hasher) Sum() uint32 {
	return h.h1 + h.h2 + h.h3
}

// Reset clears the window.
func (h *Hasher) Reset() {
	*h = Hasher{}
}
