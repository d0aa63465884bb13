package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/wordio"
)

// sourceFile describes one regular file discovered under a build's source
// directory: its archive-relative, forward-slash path and where to read
// its bytes from during Build.
type sourceFile struct {
	relPath       string
	absPath       string
	size          int64
	compressBound int
}

// DirectoryMetadata scans a source tree once and precomputes everything a
// build needs to know before it can size and write the archive file:
// which bucket each file lands in, and the worst-case total space the
// archive will require.
type DirectoryMetadata[W wordio.Word] struct {
	buckets [][]sourceFile

	totalNumFiles         int
	totalFileNameSize     int
	totalCompressBound    int
	totalAlignmentPadding int
	dictionarySize        int
}

// NewDirectoryMetadata walks sourceDir recursively, retaining only regular
// files, and assigns each to a bucket using hasher. comp is only consulted
// for CompressBound (to size the worst case) and Dictionary (to size the
// trailer) — it is never invoked to actually compress anything here.
func NewDirectoryMetadata[W wordio.Word](hasher archhash.Hasher, comp codec.Compressor, sourceDir string) (*DirectoryMetadata[W], error) {
	wordSize := wordio.Size[W]()

	var files []sourceFile
	meta := &DirectoryMetadata[W]{dictionarySize: len(comp.Dictionary())}

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		bound := comp.CompressBound(int(info.Size()))
		meta.totalCompressBound += bound

		nameSize := len(relPath) + 1 // + NUL
		meta.totalFileNameSize += nameSize

		unaligned := wordSize + nameSize + bound
		if mod := unaligned % wordSize; mod != 0 {
			meta.totalAlignmentPadding += wordSize - mod
		}

		files = append(files, sourceFile{
			relPath:       relPath,
			absPath:       path,
			size:          info.Size(),
			compressBound: bound,
		})
		return nil
	})
	if err != nil {
		return nil, ioErrorf(err, "walking source directory %s", sourceDir)
	}

	meta.totalNumFiles = len(files)
	bucketTarget := hasher.BucketsFor(meta.totalNumFiles)
	meta.buckets = make([][]sourceFile, bucketTarget)

	seen := make(map[string]struct{}, len(files))
	filter := newNameFilter(len(files), 0.01)
	for _, f := range files {
		if filter.addAndCheck(f.relPath) {
			if _, dup := seen[f.relPath]; dup {
				return nil, usageErrorf("duplicate entry name %q in source tree", f.relPath)
			}
		}
		seen[f.relPath] = struct{}{}

		id := hasher.BucketOf(hasher.Hash([]byte(f.relPath)), bucketTarget)
		meta.buckets[id] = append(meta.buckets[id], f)
	}

	return meta, nil
}

// TotalRequiredSpace returns the worst-case total size, in bytes, that the
// resulting archive file will need: header, bucket table, every entry's
// size-prefix/name/compress-bound/alignment padding, one terminator entry
// per bucket, and the optional dictionary trailer.
func (m *DirectoryMetadata[W]) TotalRequiredSpace() int {
	wordSize := wordio.Size[W]()

	total := wordSize                        // bucket count
	total += wordSize * len(m.buckets)       // bucket offset table
	total += wordSize * m.totalNumFiles      // size-word prefix per entry
	total += m.totalFileNameSize             // names (incl. NUL)
	total += m.totalCompressBound            // worst-case payload bytes
	total += m.totalAlignmentPadding         // worst-case alignment padding
	total += (wordSize * 2) * len(m.buckets) // terminator entry per bucket
	if m.dictionarySize > 0 {
		total += m.dictionarySize // dictionary bytes
		total += wordSize         // dictionary length word
	}
	total++ // flag byte
	return total
}

// DataStart returns the offset of the first byte after the bucket offset
// table — where the data region begins.
func (m *DirectoryMetadata[W]) DataStart() int {
	return wordio.Size[W]() * (len(m.buckets) + 1)
}

// Buckets returns the bucket assignment: one ordered slice of source files
// per bucket index, in the order they were encountered during the walk.
func (m *DirectoryMetadata[W]) Buckets() [][]sourceFile {
	return m.buckets
}

// readSourceFile reads the full contents of a source file discovered by
// the walk. The reference implementation opened a fresh memory mapping per
// source file; this substitutes a single buffered read, which spec.md
// explicitly allows without changing the on-disk format.
func readSourceFile(f sourceFile) ([]byte, error) {
	data, err := os.ReadFile(f.absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.absPath, err)
	}
	return data, nil
}
