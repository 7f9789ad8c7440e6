package bloom

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// MinWidthBits is the smallest supported bit-set width (one word).
	MinWidthBits = 64

	// MaxWidthBits is the largest supported bit-set width.
	MaxWidthBits = 1 << 16
)

var (
	ErrBadWidth      = errors.New("bloom: width must be a power of two in [64, 65536]")
	ErrBadK          = errors.New("bloom: k invalid")
	ErrBadSaturation = errors.New("bloom: saturation threshold invalid")
	ErrBadSetSize    = errors.New("bloom: bit-set has wrong byte length")
	ErrEmptyChain    = errors.New("bloom: chain must hold at least one bit-set")

	// ErrFinalized is the panic value of Insert on a finalized Bank.
	ErrFinalized = errors.New("bloom: insert after finalize")
)

// Params fixes the geometry of every bit-set in a chain.
type Params struct {
	WidthBits      uint32 // W
	K              uint8  // positions set per digest
	SaturationBits uint32 // T, seal before the set-bit count would exceed it
}

// Validate checks that the parameters describe a usable bank.
func (p Params) Validate() error {
	if p.WidthBits < MinWidthBits || p.WidthBits > MaxWidthBits || p.WidthBits&(p.WidthBits-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrBadWidth, p.WidthBits)
	}
	if p.K == 0 || uint(p.K)*p.indexBits() > 64 {
		return fmt.Errorf("%w: k=%d needs %d digest bits", ErrBadK, p.K, uint(p.K)*p.indexBits())
	}
	if p.SaturationBits < uint32(p.K) || p.SaturationBits >= p.WidthBits {
		return fmt.Errorf("%w: need k <= T < W, got T=%d", ErrBadSaturation, p.SaturationBits)
	}
	return nil
}

// SetBytes returns the serialized size of one bit-set.
func (p Params) SetBytes() int {
	return int(p.WidthBits / 8)
}

func (p Params) setWords() int {
	return int(p.WidthBits / 64)
}

func (p Params) indexBits() uint {
	return uint(bits.TrailingZeros32(p.WidthBits))
}

// Positions appends the K bit positions derived from digest to dst.
func (p Params) Positions(digest uint64, dst []uint) []uint {
	shift := p.indexBits()
	mask := uint64(p.WidthBits - 1)
	for i := uint8(0); i < p.K; i++ {
		dst = append(dst, uint(digest&mask))
		digest >>= shift
	}
	return dst
}
