package dataset

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// DropPolicy randomly discards records to keep an oversized corpus in check.
// Each call to Keep is an independent draw.
type DropPolicy struct {
	percent int
	rng     *rand.Rand
}

// NewDropPolicy drops percent out of every 100 records on average.
func NewDropPolicy(percent int, seed uint64) *DropPolicy {
	return &DropPolicy{
		percent: percent,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Keep draws uniformly from 0-99 and keeps the record iff the draw is at
// least the drop percentage.
func (d *DropPolicy) Keep() bool {
	if d.percent <= 0 {
		return true
	}
	return d.rng.IntN(100) >= d.percent
}

// SeedFor derives a per-recording seed so concurrent workers get
// independent, reproducible streams. A zero base seed means "random": the
// clock is mixed in and runs are not reproducible.
func SeedFor(base uint64, path string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	seed := base ^ h.Sum64()
	if base == 0 {
		seed ^= uint64(time.Now().UnixNano())
	}
	return seed
}
