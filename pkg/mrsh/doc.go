// Package mrsh builds and compares similarity digests ("fuzzy hashes").
//
// A Fingerprint is derived in one pass over its input: the bytes are split
// into content-defined chunks, each chunk digest sets K bits in the current
// bit-set of a chain, and a bit-set is sealed before its population would
// exceed the profile's saturation threshold. Inputs that share content share
// chunks, so their chains overlap.
//
// Scores range from 0 (unrelated) to MaxScore (identical); higher means more
// similar. Batch comparisons keep a result when its score is >= the threshold.
//
// Fingerprints encode to a single printable line (see Encode) that records the
// profile, so digests from different profiles are rejected as incomparable
// rather than silently mis-scored.
//
// Basic use:
//
//	a, _ := mrsh.BuildFile("a.bin", "")
//	b, _ := mrsh.BuildFile("b.bin", "")
//	fmt.Println(mrsh.Compare(a, b))
//
// This is not a cryptographic hash.
package mrsh
