// Package entropy provides seed material and deterministic per-system
// random streams. A fixed seed reproduces the whole world; a zero seed
// draws fresh entropy from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Stream offsets keep each subsystem's randomness independent so one
// system drawing more values never perturbs another.
const (
	StreamLayout   int64 = 100
	StreamWear     int64 = 200
	StreamSpawner  int64 = 300
	StreamBehavior int64 = 500
)

// Seed returns the given seed, or a fresh random one when zero.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return RandomSeed()
}

// RandomSeed draws a positive seed from crypto/rand.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to something serviceable rather than panicking.
		return 1
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}

// Stream returns a deterministic rand.Rand for one subsystem.
func Stream(seed, offset int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed + offset))
}
