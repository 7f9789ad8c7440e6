/*
Package bloom accumulates chunk digests into a chain of fixed-width bit-sets.

# Layout

A chain is one contiguous arena of uint64 words. Bit-set i owns the words
[i*W/64, (i+1)*W/64). Bit j of a bit-set lives in word j/64 at bit j%64, which
serializes to little-endian bytes with bit 0 as the least-significant bit of
byte 0 (LSB0).

	+-------------------+  words [0, W/64)
	| bit-set 0 (sealed)|
	+-------------------+  words [W/64, 2*W/64)
	| bit-set 1 (sealed)|
	+-------------------+
	| ...               |
	+-------------------+
	| bit-set n-1       |  active until Finalize
	+-------------------+

# Positions

A 64-bit digest yields K positions: K consecutive log2(W)-bit fields, lowest
bits first. Params.Validate rejects K*log2(W) > 64.

# Sealing

The active bit-set is sealed, and a fresh one opened, when inserting a digest
would push its set-bit count past SaturationBits. Sealing on saturation rather
than on a chunk count keeps the false-positive rate of every bit-set in a
chain roughly equal regardless of how many chunks it absorbed.
*/
package bloom
