package rollhash

import (
	"math/rand"
	"testing"
)

func rollAll(h *Hasher, data []byte) uint32 {
	var v uint32
	for _, b := range data {
		v = h.Roll(b)
	}
	return v
}

func TestRollDeterministic(t *testing.T) {
	data := []byte("content defined chunking needs a deterministic rolling value")

	a := rollAll(New(), data)
	b := rollAll(New(), data)
	if a != b {
		t.Errorf("Expected identical values, got %d and %d", a, b)
	}
}

func TestRollDependsOnlyOnWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	suffix := make([]byte, WindowSize)
	rng.Read(suffix)

	for i := 0; i < 50; i++ {
		prefixA := make([]byte, rng.Intn(500))
		prefixB := make([]byte, rng.Intn(500))
		rng.Read(prefixA)
		rng.Read(prefixB)

		ha, hb := New(), New()
		rollAll(ha, prefixA)
		rollAll(hb, prefixB)
		va := rollAll(ha, suffix)
		vb := rollAll(hb, suffix)

		if va != vb {
			t.Fatalf("Iteration %d: values differ after a shared %d-byte suffix: %d vs %d", i, WindowSize, va, vb)
		}
	}
}

func TestRollSensitiveToWindowContent(t *testing.T) {
	a := rollAll(New(), []byte("abcdefg"))
	b := rollAll(New(), []byte("abcdefh"))
	if a == b {
		t.Error("Expected different values for different windows")
	}
}

func TestReset(t *testing.T) {
	h := New()
	rollAll(h, []byte("some bytes"))
	h.Reset()

	if h.Sum() != 0 {
		t.Errorf("Expected zero sum after reset, got %d", h.Sum())
	}
	if rollAll(h, []byte("xyz")) != rollAll(New(), []byte("xyz")) {
		t.Error("Reset hasher does not behave like a fresh one")
	}
}
