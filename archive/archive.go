package archive

import (
	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
	"github.com/quillbyte/assetmap/wordio"
)

// Archive is the top-level handle onto a mapped archive file. A read-mode
// Archive (opened with Open) is safe for concurrent use across goroutines
// provided each goroutine supplies its own Decompressor, since codec state
// and dictionary references are not reentrant. A build-mode Archive
// (created with Build) is single-owner and must not be shared.
type Archive[W wordio.Word] struct {
	mapper memmap.Mapper
	hasher archhash.Hasher
	comp   codec.Compressor
	decomp codec.Decompressor
}

// Open maps an existing archive file for reading. decomp is used to
// satisfy every Entry.Retrieve and Entry.DecompressedSize call made
// through the returned Archive; if the file carries a dictionary trailer,
// it is loaded into decomp automatically.
func Open[W wordio.Word](mapper memmap.Mapper, hasher archhash.Hasher, decomp codec.Decompressor) (*Archive[W], error) {
	data := mapper.Bytes()
	if len(data) == 0 {
		return nil, formatErrorf("archive file is empty")
	}

	flag := data[len(data)-1]
	switch flag {
	case 0:
		// no dictionary
	case 1:
		dict, err := dictionaryBytes[W](data)
		if err != nil {
			return nil, err
		}
		decomp.UseDictionary(dict)
	default:
		return nil, formatErrorf("archive trailer flag %d indicates a future, unsupported version", flag)
	}

	return &Archive[W]{mapper: mapper, hasher: hasher, decomp: decomp}, nil
}

// dictionaryBytes locates the dictionary payload in an archive's trailer,
// given that its flag byte indicates one is present.
func dictionaryBytes[W wordio.Word](data []byte) ([]byte, error) {
	wordSize := wordio.Size[W]()
	lenFieldStart := len(data) - 1 - wordSize
	if lenFieldStart < 0 {
		return nil, formatErrorf("archive trailer is too small to hold a dictionary length")
	}
	dictLen := int(wordio.Get[W](data[lenFieldStart:]))
	dictStart := lenFieldStart - dictLen
	if dictStart < 0 {
		return nil, formatErrorf("archive dictionary length %d exceeds file size", dictLen)
	}
	return data[dictStart:lenFieldStart], nil
}

// hasDictionary reports whether the archive's trailer flag byte is 1.
func hasDictionary(data []byte) bool {
	return len(data) > 0 && data[len(data)-1] == 1
}

// Build scans sourceDir, compresses every regular file it finds with comp,
// and writes a complete archive into mapper: bucket count, bucket offset
// table, packed buckets of entries, an optional dictionary trailer, and
// the trailing flag byte. mapper is resized twice — once up front to the
// worst-case total, and once at the end down to the exact bytes used — so
// no entry's backing slice is ever invalidated mid-write.
//
// If decomp is non-nil, the returned Archive is immediately usable for
// reads against the data it just wrote; a dictionary written to the
// trailer is installed on decomp.
func Build[W wordio.Word](mapper memmap.Mapper, hasher archhash.Hasher, comp codec.Compressor, decomp codec.Decompressor, sourceDir string) (*Archive[W], error) {
	meta, err := NewDirectoryMetadata[W](hasher, comp, sourceDir)
	if err != nil {
		return nil, err
	}

	m, err := mapper.Resize(meta.TotalRequiredSpace())
	if err != nil {
		return nil, ioErrorf(err, "allocating worst-case archive space")
	}
	mapper = m

	data := mapper.WritableBytes()
	wordSize := wordio.Size[W]()
	buckets := meta.Buckets()

	wordio.Put[W](data, W(len(buckets)))
	tableStart := wordSize
	cursor := meta.DataStart()

	for id, files := range buckets {
		if len(files) == 0 {
			continue
		}
		wordio.Put[W](data[tableStart+id*wordSize:], W(cursor))

		bucket := createBucket[W](data[cursor:], comp)
		for _, f := range files {
			src, err := readSourceFile(f)
			if err != nil {
				return nil, ioErrorf(err, "reading source file for %q", f.relPath)
			}
			n, err := bucket.Append(f.relPath, src)
			if err != nil {
				return nil, err
			}
			cursor += n
			bucket = Bucket[W]{data: data[cursor:], comp: comp}
		}
		term := Entry[W]{data: data[cursor:], comp: comp}.MakeNull()
		cursor += term
	}

	if dict := comp.Dictionary(); len(dict) > 0 {
		copy(data[cursor:], dict)
		cursor += len(dict)
		wordio.Put[W](data[cursor:], W(len(dict)))
		cursor += wordSize
		data[cursor] = 1
	} else {
		data[cursor] = 0
	}
	cursor++

	m, err = mapper.Resize(cursor)
	if err != nil {
		return nil, ioErrorf(err, "shrinking archive to final size %d", cursor)
	}
	mapper = m

	if decomp != nil && hasDictionary(mapper.Bytes()) {
		dict, err := dictionaryBytes[W](mapper.Bytes())
		if err != nil {
			return nil, err
		}
		decomp.UseDictionary(dict)
	}

	return &Archive[W]{mapper: mapper, hasher: hasher, comp: comp, decomp: decomp}, nil
}

// BucketCount returns the number of hash buckets in this archive.
func (a *Archive[W]) BucketCount() int {
	return int(wordio.Get[W](a.mapper.Bytes()))
}

// EmptyBuckets returns the number of buckets with no entries.
func (a *Archive[W]) EmptyBuckets() int {
	n := 0
	for i := 0; i < a.BucketCount(); i++ {
		if a.Bucket(i).Len() == 0 {
			n++
		}
	}
	return n
}

// DictionarySize returns the size in bytes of the archive's embedded
// dictionary, or 0 if it has none.
func (a *Archive[W]) DictionarySize() int {
	data := a.mapper.Bytes()
	if !hasDictionary(data) {
		return 0
	}
	dict, err := dictionaryBytes[W](data)
	if err != nil {
		return 0
	}
	return len(dict)
}

// Bucket returns a view of the bucket at idx, which must satisfy
// 0 <= idx < BucketCount().
func (a *Archive[W]) Bucket(idx int) Bucket[W] {
	data := a.mapper.Bytes()
	wordSize := wordio.Size[W]()
	offset := int(wordio.Get[W](data[wordSize*(1+idx):]))
	if offset == 0 {
		return Bucket[W]{}
	}
	return openBucket[W](data[offset:], a.decomp)
}

// Lookup finds the entry with the given name, hashing it to determine
// which bucket to scan. The second return value is false if no entry with
// that name exists in the archive.
func (a *Archive[W]) Lookup(name string) (Entry[W], bool) {
	hash := a.hasher.Hash([]byte(name))
	idx := a.hasher.BucketOf(hash, a.BucketCount())
	return a.Bucket(idx).Find(name)
}

// Buckets returns a range-over-func iterator over every bucket in the
// archive, in index order.
func (a *Archive[W]) Buckets() func(func(int, Bucket[W]) bool) {
	return func(yield func(int, Bucket[W]) bool) {
		for i := 0; i < a.BucketCount(); i++ {
			if !yield(i, a.Bucket(i)) {
				return
			}
		}
	}
}

// Close releases the archive's backing mapping.
func (a *Archive[W]) Close() error {
	return a.mapper.Close()
}
