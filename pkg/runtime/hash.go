package runtime

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher computes the 64-bit overload keys native functions are
// registered and dispatched under. The key mixes a four-word seed, the
// function name, and the ordered parameter type fingerprints, so two
// functions sharing a name but not a signature never collide on
// purpose. Hashers with equal seeds agree across processes; the
// default seed is fixed at build time or randomized per process (see
// config.go).
type Hasher struct {
	seed [4]uint64
}

// NewHasher returns a hasher using the build-wide seed configuration.
func NewHasher() Hasher {
	return Hasher{seed: buildSeed()}
}

// NewHasherWithSeed returns a hasher with an explicit seed. Embedders
// that need dispatch hashes stable across runs pass the same words on
// every run.
func NewHasherWithSeed(seed [4]uint64) Hasher {
	return Hasher{seed: seed}
}

// Seed returns the seed words in use.
func (h Hasher) Seed() [4]uint64 {
	return h.seed
}

// FnHash computes the overload key for a function name and its ordered
// parameter type fingerprints.
func (h Hasher) FnHash(name string, paramTypes []string) uint64 {
	d := xxhash.NewWithSeed(h.seed[0])
	var word [8]byte
	for i := 1; i < len(h.seed); i++ {
		binary.LittleEndian.PutUint64(word[:], h.seed[i])
		d.Write(word[:])
	}
	d.WriteString(name)
	d.Write([]byte{0})
	for _, t := range paramTypes {
		d.WriteString(t)
		d.Write([]byte{0})
	}
	return d.Sum64()
}
