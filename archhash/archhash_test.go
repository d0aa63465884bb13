package archhash

import "testing"

func TestBucketsForMinimumOne(t *testing.T) {
	h := NewMurmur3Hasher(DefaultLoadFactor)
	if got := h.BucketsFor(0); got != 1 {
		t.Fatalf("BucketsFor(0) = %d, want 1", got)
	}
}

func TestBucketsForLoadFactor(t *testing.T) {
	h := NewMurmur3Hasher(0.75)
	if got := h.BucketsFor(100); got != 134 {
		t.Fatalf("BucketsFor(100) = %d, want 134", got)
	}
}

func TestBucketOfDeterministic(t *testing.T) {
	h := NewMurmur3Hasher(DefaultLoadFactor)
	hash := h.Hash([]byte("a/b/c.bin"))
	first := h.BucketOf(hash, 16)
	for i := 0; i < 10; i++ {
		if got := h.BucketOf(hash, 16); got != first {
			t.Fatalf("BucketOf not deterministic: got %d, want %d", got, first)
		}
	}
}

func TestBucketOfInRange(t *testing.T) {
	h := NewMurmur3Hasher(DefaultLoadFactor)
	for _, name := range []string{"a", "bb", "ccc", "dddd", "e/f/g.bin"} {
		hash := h.Hash([]byte(name))
		idx := h.BucketOf(hash, 7)
		if idx < 0 || idx >= 7 {
			t.Fatalf("BucketOf(%q) = %d, out of range [0,7)", name, idx)
		}
	}
}

func TestHashStability(t *testing.T) {
	h := NewMurmur3Hasher(DefaultLoadFactor)
	a := h.Hash([]byte("stable"))
	b := h.Hash([]byte("stable"))
	if a != b {
		t.Fatalf("Hash not stable: %d != %d", a, b)
	}
}
