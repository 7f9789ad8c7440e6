// pkg/mrsh/profile.go
package mrsh

import (
	"fmt"
	"sort"
	"strings"

	"github.com/creativeyann17/go-mrsh/internal/bloom"
	"github.com/creativeyann17/go-mrsh/internal/chunker"
	"github.com/creativeyann17/go-mrsh/internal/digest"
)

// DefaultProfileName is the profile used when Options leave it empty
const DefaultProfileName = "default"

// Profile fixes every constant that affects fingerprint bits.
// Its name is written into each encoded digest; fingerprints from different
// profiles are never comparable.
type Profile struct {
	Name string

	// Chunking
	Strategy     chunker.Strategy
	MinChunkSize uint64
	ChunkSize    uint64 // mean chunk size M
	MaxChunkSize uint64
	Digest       digest.Algorithm

	// Bit-set geometry
	WidthBits      uint32 // W
	K              uint8  // bits set per chunk
	SaturationBits uint32 // T
}

func baseProfile(name string, strategy chunker.Strategy, alg digest.Algorithm) Profile {
	return Profile{
		Name:           name,
		Strategy:       strategy,
		MinChunkSize:   64,
		ChunkSize:      256,
		MaxChunkSize:   4096,
		Digest:         alg,
		WidthBits:      2048,
		K:              5,
		SaturationBits: 640,
	}
}

var profiles = map[string]Profile{
	DefaultProfileName: baseProfile(DefaultProfileName, chunker.StrategyRolling, digest.AlgorithmBLAKE3),
	"classic":          baseProfile("classic", chunker.StrategyRolling, digest.AlgorithmFNV),
	"fast":             baseProfile("fast", chunker.StrategyRolling, digest.AlgorithmXXHash),
	"murmur":           baseProfile("murmur", chunker.StrategyRolling, digest.AlgorithmMurmur3),
	"fastcdc":          baseProfile("fastcdc", chunker.StrategyFastCDC, digest.AlgorithmBLAKE3),
}

// LookupProfile returns the registered profile with the given name.
func LookupProfile(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// DefaultProfile returns the profile used by DefaultOptions.
func DefaultProfile() Profile {
	return profiles[DefaultProfileName]
}

// ProfileNames lists the registered profiles in lexical order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the profile describes a usable chunker and bank.
func (p Profile) Validate() error {
	if p.Name == "" || strings.ContainsAny(p.Name, ":\r\n") {
		return fmt.Errorf("profile name %q is not encodable", p.Name)
	}
	if _, err := p.newChunker(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if err := p.params().Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return nil
}

func (p Profile) params() bloom.Params {
	return bloom.Params{WidthBits: p.WidthBits, K: p.K, SaturationBits: p.SaturationBits}
}

func (p Profile) newChunker() (*chunker.Chunker, error) {
	fn, err := digest.For(p.Digest)
	if err != nil {
		return nil, err
	}
	return chunker.NewWithOptions(chunker.Options{
		Strategy: p.Strategy,
		MinSize:  p.MinChunkSize,
		AvgSize:  p.ChunkSize,
		MaxSize:  p.MaxChunkSize,
		Digest:   fn,
	})
}

// setBytes resolves the serialized bit-set size of a registered profile.
func setBytes(name string) (int, bool) {
	p, ok := profiles[name]
	if !ok {
		return 0, false
	}
	return p.params().SetBytes(), true
}
