package digest

import (
	"errors"
	"testing"
)

func TestEmptyInputVectors(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want uint64
	}{
		{AlgorithmBLAKE3, 0xa6a1f9f5b94913af},
		{AlgorithmXXHash, 0xef46db3751d8e999},
		{AlgorithmFNV, 0xcbf29ce484222325},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			fn, err := For(tt.alg)
			if err != nil {
				t.Fatalf("For(%q) failed: %v", tt.alg, err)
			}
			if got := fn(nil); got != tt.want {
				t.Errorf("digest of empty input = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestDigestsAreDeterministicAndDistinct(t *testing.T) {
	a := []byte("the quick brown fox")
	b := []byte("the quick brown fax")

	for _, alg := range Algorithms() {
		fn, err := For(alg)
		if err != nil {
			t.Fatalf("For(%q) failed: %v", alg, err)
		}
		if fn(a) != fn(a) {
			t.Errorf("%s: digest not deterministic", alg)
		}
		if fn(a) == fn(b) {
			t.Errorf("%s: one-byte change produced the same digest", alg)
		}
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := For("md5")
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}
