// Package random provides seed helpers for the pseudo-random generators that
// drive encounter generation.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
)

// MaxDrawnSeed bounds seeds from NewSeed, leaving room for Derive offsets.
const MaxDrawnSeed = math.MaxInt64 >> 2

// NewSeed generates a random seed in [1, MaxDrawnSeed] using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 3)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}

// ResolveSeed returns configured when non-zero and a fresh seed otherwise.
func ResolveSeed(configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	return NewSeed()
}

// Derive returns the seed of the index-th item of a batch.
func Derive(batchSeed int64, index int) int64 {
	return batchSeed + int64(index)
}

// New returns a generator seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
