package archive

import (
	"bytes"

	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/wordio"
)

// Bucket is a view over one hash bucket's run of entries: zero or more
// populated entries followed by a terminator entry (size=0, empty name).
// Like Entry, it holds no bytes of its own — data is a window into the
// archive's mapping starting at this bucket's first entry.
type Bucket[W wordio.Word] struct {
	data   []byte
	comp   codec.Compressor
	decomp codec.Decompressor
}

func openBucket[W wordio.Word](data []byte, decomp codec.Decompressor) Bucket[W] {
	return Bucket[W]{data: data, decomp: decomp}
}

func createBucket[W wordio.Word](data []byte, comp codec.Compressor) Bucket[W] {
	return Bucket[W]{data: data, comp: comp}
}

// isEmpty reports whether this bucket has no backing data at all — the
// state of a bucket that never had a source file assigned to it.
func (b Bucket[W]) isEmpty() bool {
	return b.data == nil
}

// firstEntry returns a view of this bucket's first entry, whether or not
// it is a terminator.
func (b Bucket[W]) firstEntry() Entry[W] {
	if b.comp != nil {
		return newWriteEntry[W](b.data, b.comp)
	}
	return newReadEntry[W](b.data, b.decomp)
}

// Find scans the bucket linearly for an entry with the given name and
// returns it. The second return value is false if no such entry exists
// before the terminator.
func (b Bucket[W]) Find(name string) (Entry[W], bool) {
	if b.isEmpty() {
		return Entry[W]{}, false
	}
	target := []byte(name)
	for e := b.firstEntry(); ; e = e.advance() {
		if e.isTerminator() {
			return Entry[W]{}, false
		}
		if bytes.Equal(e.Name(), target) {
			return e, true
		}
	}
}

// Append writes name and its compressed payload into the next free slot in
// this bucket — the slot currently occupied by the terminator — then
// writes a fresh terminator immediately after it. It returns the number of
// bytes consumed by the new entry (not including the new terminator).
//
// Append does not check for an existing entry with the same name; callers
// that must reject duplicates do so before build time, since a build
// visits each source file exactly once.
func (b Bucket[W]) Append(name string, src []byte) (int, error) {
	if b.comp == nil {
		return 0, usageErrorf("Append called on a read-mode bucket")
	}
	slot := b.firstEntry()
	for !slot.isTerminator() {
		slot = slot.advance()
	}
	n, err := slot.Populate(name, src)
	if err != nil {
		return 0, err
	}
	slot.advance().MakeNull()
	return n, nil
}

// Entries returns every populated entry in this bucket, in on-disk order,
// stopping at the terminator.
func (b Bucket[W]) Entries() []Entry[W] {
	if b.isEmpty() {
		return nil
	}
	var out []Entry[W]
	for e := b.firstEntry(); !e.isTerminator(); e = e.advance() {
		out = append(out, e)
	}
	return out
}

// Len returns the number of populated entries in this bucket.
func (b Bucket[W]) Len() int {
	if b.isEmpty() {
		return 0
	}
	n := 0
	for e := b.firstEntry(); !e.isTerminator(); e = e.advance() {
		n++
	}
	return n
}
