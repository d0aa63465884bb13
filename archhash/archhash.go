// Package archhash implements the archive's hashing and bucket-assignment
// capability set: a stable 64-bit digest plus the load-factor math that
// decides how many buckets an archive gets and which bucket a given hash
// falls into.
package archhash

import (
	"math"

	"github.com/spaolacci/murmur3"
)

// Hasher is the capability set the archive core requires of a hash
// implementation. It is pure and total: no call can fail.
type Hasher interface {
	// Hash computes a deterministic 64-bit digest of data, stable across
	// runs and across the machines that build and read a given archive.
	Hash(data []byte) uint64

	// BucketsFor returns the desired bucket table length for an expected
	// item count n. Always returns at least 1.
	BucketsFor(n int) int

	// BucketOf maps a hash into [0, bucketCount).
	BucketOf(hash uint64, bucketCount int) int
}

// DefaultLoadFactor is the desired ratio of items to buckets used when a
// caller does not specify one (spec default: 0.75).
const DefaultLoadFactor = 0.75

// Murmur3Hasher is the archive's default Hasher. It was ported from a
// reference implementation that hashed with CityHash64; this port instead
// reuses the teacher's own hashing dependency (murmur3), since the only
// hard requirement on the default hasher is a stable 64-bit digest, not a
// specific algorithm — build and read both go through the same Hasher
// value, so the digest need not match any particular upstream algorithm.
type Murmur3Hasher struct {
	// LoadFactor is the desired items:buckets ratio. Zero means
	// DefaultLoadFactor.
	LoadFactor float64
}

// NewMurmur3Hasher constructs a Murmur3Hasher with the given load factor.
// A non-positive loadFactor falls back to DefaultLoadFactor.
func NewMurmur3Hasher(loadFactor float64) Murmur3Hasher {
	if loadFactor <= 0 {
		loadFactor = DefaultLoadFactor
	}
	return Murmur3Hasher{LoadFactor: loadFactor}
}

// Hash implements Hasher.
func (h Murmur3Hasher) Hash(data []byte) uint64 {
	return murmur3.Sum64(data)
}

// BucketsFor implements Hasher: ceil(n / loadFactor), minimum 1.
func (h Murmur3Hasher) BucketsFor(n int) int {
	lf := h.LoadFactor
	if lf <= 0 {
		lf = DefaultLoadFactor
	}
	count := int(math.Ceil(float64(n) / lf))
	if count < 1 {
		count = 1
	}
	return count
}

// BucketOf implements Hasher: treats hash/2^64 as a value in [0,1), scales
// it by bucketCount, and rounds to nearest (ties to even), clamped to
// bucketCount-1. The exact tie-break is unobservable from outside — the
// only contract is determinism — but matching round-half-to-even keeps
// this implementation's bucket assignment reproducible against itself.
func (h Murmur3Hasher) BucketOf(hash uint64, bucketCount int) int {
	if bucketCount <= 0 {
		return 0
	}
	val := float64(hash) / math.Pow(2, 64)
	scaled := val * float64(bucketCount)
	rounded := math.RoundToEven(scaled)
	idx := int(rounded)
	if idx >= bucketCount {
		idx = bucketCount - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
