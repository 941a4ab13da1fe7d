package runtime

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// fixedSeedHex optionally pins the hash seed for the whole build. Set
// it to 64 hex characters (four little-endian words) at link time:
//
//	go build -ldflags "-X rhai/interpreter-go/pkg/runtime.fixedSeedHex=<hex>"
//
// When unset, every process draws a random seed once at startup, so
// hashes are stable within a run but differ between runs.
var fixedSeedHex string

var (
	fixedSeed   *[4]uint64
	processSeed [4]uint64
)

func init() {
	if fixedSeedHex != "" {
		seed, err := ParseSeed(fixedSeedHex)
		if err != nil {
			panic(fmt.Sprintf("runtime: bad fixed hash seed %q: %v", fixedSeedHex, err))
		}
		fixedSeed = &seed
		return
	}
	var raw [32]byte
	if _, err := crand.Read(raw[:]); err != nil {
		panic(fmt.Sprintf("runtime: seeding hasher: %v", err))
	}
	for i := range processSeed {
		processSeed[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
}

// FixedSeed returns the build-wide pinned seed, or nil when hashing is
// randomized per process.
func FixedSeed() *[4]uint64 {
	if fixedSeed == nil {
		return nil
	}
	seed := *fixedSeed
	return &seed
}

// ParseSeed decodes a 64-character hex string into seed words.
func ParseSeed(s string) ([4]uint64, error) {
	var seed [4]uint64
	raw, err := hex.DecodeString(s)
	if err != nil {
		return seed, err
	}
	if len(raw) != 32 {
		return seed, fmt.Errorf("want 32 bytes, have %d", len(raw))
	}
	for i := range seed {
		seed[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return seed, nil
}

func buildSeed() [4]uint64 {
	if fixedSeed != nil {
		return *fixedSeed
	}
	return processSeed
}
