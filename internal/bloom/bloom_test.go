package bloom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var testParams = Params{WidthBits: 2048, K: 5, SaturationBits: 640}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, testParams.Validate())

	require.ErrorIs(t, Params{WidthBits: 1000, K: 5, SaturationBits: 100}.Validate(), ErrBadWidth)
	require.ErrorIs(t, Params{WidthBits: 32, K: 1, SaturationBits: 10}.Validate(), ErrBadWidth)
	require.ErrorIs(t, Params{WidthBits: 2048, K: 0, SaturationBits: 100}.Validate(), ErrBadK)
	// 6 fields of 11 bits do not fit in 64 digest bits
	require.ErrorIs(t, Params{WidthBits: 2048, K: 6, SaturationBits: 100}.Validate(), ErrBadK)
	require.ErrorIs(t, Params{WidthBits: 2048, K: 5, SaturationBits: 4}.Validate(), ErrBadSaturation)
	require.ErrorIs(t, Params{WidthBits: 2048, K: 5, SaturationBits: 2048}.Validate(), ErrBadSaturation)
}

func TestPositions(t *testing.T) {
	// fields of 11 bits, lowest first
	digest := uint64(3) | uint64(7)<<11 | uint64(2047)<<22 | uint64(0)<<33 | uint64(1024)<<44
	pos := testParams.Positions(digest, nil)
	require.Equal(t, []uint{3, 7, 2047, 0, 1024}, pos)
}

func TestBankInsertSetsPositions(t *testing.T) {
	b := NewBank(testParams)
	digest := uint64(0x0123456789abcdef)
	b.Insert(digest)

	chain := b.Finalize()
	require.Equal(t, 1, chain.Len())
	require.Equal(t, uint32(1), chain.Chunks(0))

	for _, p := range testParams.Positions(digest, nil) {
		require.True(t, chain.Test(0, p), "position %d not set", p)
	}
	require.LessOrEqual(t, chain.Popcount(0), uint32(testParams.K))
	require.NotZero(t, chain.Popcount(0))
}

func TestBankRepeatedPositionsCountedOnce(t *testing.T) {
	b := NewBank(testParams)
	b.Insert(0) // all five fields are position 0

	chain := b.Finalize()
	require.Equal(t, uint32(1), chain.Popcount(0))
}

func TestBankSealsAtSaturation(t *testing.T) {
	b := NewBank(testParams)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		b.Insert(rng.Uint64())
	}
	chain := b.Finalize()

	require.Greater(t, chain.Len(), 1)
	var chunks uint32
	for i := 0; i < chain.Len(); i++ {
		require.LessOrEqual(t, chain.Popcount(i), testParams.SaturationBits)
		require.Equal(t, uint32(chain.view(i).Count()), chain.Popcount(i))
		chunks += chain.Chunks(i)
		if i < chain.Len()-1 {
			// a sealed set could not take one more digest
			require.Greater(t, chain.Popcount(i)+uint32(testParams.K), testParams.SaturationBits)
		}
	}
	require.Equal(t, uint32(2000), chunks)
}

func TestBankFinalizeEmptyKeepsOneSet(t *testing.T) {
	chain := NewBank(testParams).Finalize()
	require.Equal(t, 1, chain.Len())
	require.Zero(t, chain.Popcount(0))
}

func TestBankInsertAfterFinalizePanics(t *testing.T) {
	b := NewBank(testParams)
	b.Insert(42)
	first := b.Finalize()
	require.Same(t, first, b.Finalize())

	require.PanicsWithError(t, ErrFinalized.Error(), func() {
		b.Insert(43)
	})
}

func TestChainBytesRoundTrip(t *testing.T) {
	b := NewBank(testParams)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		b.Insert(rng.Uint64())
	}
	chain := b.Finalize()

	sets := make([][]byte, chain.Len())
	for i := range sets {
		sets[i] = chain.Bytes(i)
		require.Len(t, sets[i], testParams.SetBytes())
	}

	decoded, err := FromBytes(testParams, sets)
	require.NoError(t, err)
	require.True(t, chain.Equal(decoded))
	for i := 0; i < chain.Len(); i++ {
		require.Equal(t, chain.Popcount(i), decoded.Popcount(i))
	}
}

func TestChainBytesLSB0(t *testing.T) {
	b := NewBank(Params{WidthBits: 64, K: 1, SaturationBits: 32})
	b.Insert(9) // bit 9 -> byte 1, bit 1
	raw := b.Finalize().Bytes(0)
	require.Equal(t, byte(0x02), raw[1])
	require.Equal(t, byte(0x00), raw[0])
}

func TestFromBytesRejectsBadInput(t *testing.T) {
	_, err := FromBytes(testParams, nil)
	require.ErrorIs(t, err, ErrEmptyChain)

	_, err = FromBytes(testParams, [][]byte{make([]byte, 10)})
	require.ErrorIs(t, err, ErrBadSetSize)

	_, err = FromBytes(Params{WidthBits: 3}, [][]byte{{0}})
	require.ErrorIs(t, err, ErrBadWidth)
}

func TestOverlap(t *testing.T) {
	a := NewBank(testParams)
	b := NewBank(testParams)
	a.Insert(1)
	a.Insert(2)
	b.Insert(2)
	ca, cb := a.Finalize(), b.Finalize()

	require.Equal(t, cb.Popcount(0), ca.Overlap(0, cb, 0))
	require.Equal(t, ca.Overlap(0, cb, 0), cb.Overlap(0, ca, 0))
}
