package archive

import (
	"hash"
	"math"

	"github.com/spaolacci/murmur3"
)

// nameFilter is a probabilistic pre-check for "have I seen this relative
// path before", used during a directory walk to skip the exact set lookup
// for the overwhelming majority of names that are obviously new. A
// positive from the filter still falls back to the exact set before
// reporting a duplicate, since false positives are expected.
type nameFilter struct {
	bits    []bool
	hashFns []hash.Hash32
}

// newNameFilter sizes a filter for n expected names at false-positive rate
// p, following the standard bit-count/hash-count formulas. Returns nil if
// n is non-positive; callers should treat a nil filter as "always
// possibly present" and rely solely on the exact check.
func newNameFilter(n int, p float64) *nameFilter {
	if n <= 0 || p <= 0 || p >= 1 {
		return nil
	}
	m := int(math.Ceil(-float64(n) * math.Log(p) / math.Pow(math.Log(2), 2)))
	k := int(math.Round((float64(m) / float64(n)) * math.Log(2)))
	if m == 0 || k == 0 {
		return nil
	}
	fns := make([]hash.Hash32, k)
	for i := range fns {
		fns[i] = murmur3.New32WithSeed(uint32(i))
	}
	return &nameFilter{bits: make([]bool, m), hashFns: fns}
}

// addAndCheck records name in the filter and reports whether it was
// already possibly present beforehand.
func (f *nameFilter) addAndCheck(name string) bool {
	if f == nil {
		return true
	}
	possiblyPresent := true
	for _, fn := range f.hashFns {
		fn.Reset()
		_, _ = fn.Write([]byte(name))
		idx := int(fn.Sum32()) % len(f.bits)
		if !f.bits[idx] {
			possiblyPresent = false
			f.bits[idx] = true
		}
	}
	return possiblyPresent
}
