package archive

import (
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/wordio"
)

// Entry is a view into a single (size, name, data[, pad]) record in the
// archive's data region. It holds no bytes of its own: data is a window
// into the backing mapping starting at this entry's size word and running
// to the end of the mapping, so every read and write goes straight through
// to the mapped file. An Entry must not be used after its mapping is
// resized or closed.
type Entry[W wordio.Word] struct {
	data   []byte
	comp   codec.Compressor
	decomp codec.Decompressor
}

func newWriteEntry[W wordio.Word](data []byte, comp codec.Compressor) Entry[W] {
	return Entry[W]{data: data, comp: comp}
}

func newReadEntry[W wordio.Word](data []byte, decomp codec.Decompressor) Entry[W] {
	return Entry[W]{data: data, decomp: decomp}
}

// FileSize returns the compressed payload length in bytes, read from this
// entry's size word.
func (e Entry[W]) FileSize() W {
	return wordio.Get[W](e.data)
}

func (e Entry[W]) setFileSize(size W) {
	wordio.Put[W](e.data, size)
}

// Name returns the entry's NUL-terminated relative path, without the NUL.
func (e Entry[W]) Name() []byte {
	start := wordio.Size[W]()
	end := start
	for end < len(e.data) && e.data[end] != 0 {
		end++
	}
	return e.data[start:end]
}

func (e Entry[W]) setName(name []byte) {
	start := wordio.Size[W]()
	n := copy(e.data[start:], name)
	e.data[start+n] = 0
}

// InMemorySize returns this entry's total on-disk footprint: size word,
// name, NUL, compressed data, and alignment padding, rounded up to a
// multiple of W.
func (e Entry[W]) InMemorySize() int {
	wordSize := wordio.Size[W]()
	size := wordSize + len(e.Name()) + 1 + int(e.FileSize())
	if mod := size % wordSize; mod != 0 {
		size += wordSize - mod
	}
	return size
}

func (e Entry[W]) fileData() []byte {
	off := wordio.Size[W]() + len(e.Name()) + 1
	return e.data[off:]
}

// DecompressedSize forwards to the decompressor to determine how many
// bytes a Retrieve of this entry would produce, without decompressing.
func (e Entry[W]) DecompressedSize() (int, error) {
	if e.decomp == nil {
		return 0, usageErrorf("DecompressedSize called on a write-mode entry")
	}
	size, err := e.decomp.DecompressedSize(e.fileData()[:e.FileSize()])
	if err != nil {
		return 0, codecErrorf(err, "reading decompressed size for %q", e.Name())
	}
	return size, nil
}

// Populate writes name, compresses src into the entry's payload region,
// and records the resulting length. It returns the entry's new
// InMemorySize. Trailing bytes between the compressed payload and the next
// aligned boundary — up to W+1 of them — are zeroed so a subsequent name
// scan can never read stale bytes left over from a previous build.
func (e Entry[W]) Populate(name string, src []byte) (int, error) {
	if e.comp == nil {
		return 0, usageErrorf("Populate called on a read-mode entry")
	}
	e.setName([]byte(name))

	bound := e.comp.CompressBound(len(src))
	dst := e.fileData()[:bound]
	n, err := e.comp.Compress(src, dst)
	if err != nil {
		return 0, codecErrorf(err, "compressing %q", name)
	}
	e.setFileSize(W(n))

	memSize := e.InMemorySize()
	zeroLen := wordio.Size[W]() + 1
	if rest := bound - n; zeroLen > rest {
		zeroLen = rest
	}
	zeroBegin := wordio.Size[W]() + len(name) + 1 + n
	for i := 0; i < zeroLen && zeroBegin+i < len(e.data); i++ {
		e.data[zeroBegin+i] = 0
	}
	return memSize, nil
}

// MakeNull writes a terminator entry (size=0, empty name) at this
// position and returns its InMemorySize (always W+1 padded up to a
// multiple of W, i.e. 2W).
func (e Entry[W]) MakeNull() int {
	e.setName(nil)
	e.setFileSize(0)
	return e.InMemorySize()
}

// Retrieve decompresses this entry's payload into dst and returns the
// number of bytes written.
func (e Entry[W]) Retrieve(dst []byte) (int, error) {
	if e.decomp == nil {
		return 0, usageErrorf("Retrieve called on a write-mode entry")
	}
	n, err := e.decomp.Decompress(e.fileData()[:e.FileSize()], dst)
	if err != nil {
		return 0, codecErrorf(err, "decompressing %q", e.Name())
	}
	return n, nil
}

// Valid reports whether this is a real (non-terminator, non-nil) entry.
func (e Entry[W]) Valid() bool {
	return e.data != nil && len(e.Name()) > 0
}

// isTerminator reports whether this entry is a bucket's terminator
// sentinel (size=0, empty name).
func (e Entry[W]) isTerminator() bool {
	return len(e.Name()) == 0
}

// advance returns a view of the entry immediately following this one.
func (e Entry[W]) advance() Entry[W] {
	off := e.InMemorySize()
	return Entry[W]{data: e.data[off:], comp: e.comp, decomp: e.decomp}
}
