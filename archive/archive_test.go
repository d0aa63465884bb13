package archive

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
)

func mustCompressor(t *testing.T) *codec.ZstdCodec {
	t.Helper()
	c, err := codec.NewCompressor(codec.DefaultCompressLevel(), 0, codec.DefaultDictionaryRatio)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	return c
}

func mustDecompressor(t *testing.T) *codec.ZstdCodec {
	t.Helper()
	d, err := codec.NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}
	return d
}

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for rel, data := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

func buildArchive(t *testing.T, srcDir, archivePath string) {
	t.Helper()
	m, err := memmap.Open(archivePath)
	if err != nil {
		t.Fatalf("memmap.Open: %v", err)
	}
	hasher := archhash.NewMurmur3Hasher(archhash.DefaultLoadFactor)
	comp := mustCompressor(t)
	if _, err := Build[uint32](m, hasher, comp, nil, srcDir); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func openArchive(t *testing.T, archivePath string) *Archive[uint32] {
	t.Helper()
	m, err := memmap.Open(archivePath)
	if err != nil {
		t.Fatalf("memmap.Open: %v", err)
	}
	hasher := archhash.NewMurmur3Hasher(archhash.DefaultLoadFactor)
	decomp := mustDecompressor(t)
	a, err := Open[uint32](m, hasher, decomp)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return a
}

// S1 — small three-file archive, no dictionary.
func TestScenarioS1ThreeFileArchive(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"file1.txt": []byte("This is a test string"),
		"file2.txt": []byte("This is \xBD binary"),
		"file3.txt": []byte("Another string"),
	}
	writeFiles(t, dir, files)

	archivePath := filepath.Join(t.TempDir(), "out.asm")
	buildArchive(t, dir, archivePath)

	a := openArchive(t, archivePath)
	defer a.Close()

	for name, want := range files {
		entry, ok := a.Lookup(name)
		if !ok {
			t.Fatalf("lookup(%q) not found", name)
		}
		size, err := entry.DecompressedSize()
		if err != nil {
			t.Fatalf("DecompressedSize(%q): %v", name, err)
		}
		got := make([]byte, size)
		n, err := entry.Retrieve(got)
		if err != nil {
			t.Fatalf("Retrieve(%q): %v", name, err)
		}
		if n != len(want) || !bytes.Equal(got[:n], want) {
			t.Fatalf("Retrieve(%q) = %q, want %q", name, got[:n], want)
		}
	}

	if _, ok := a.Lookup("no_such"); ok {
		t.Fatalf("lookup(\"no_such\") unexpectedly found")
	}
}

// S2 — archive with dictionary over 100 repetitive files, and S5 — info
// statistics against it.
func TestScenarioS2AndS5DictionaryArchive(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(1))
	want := make(map[string][]byte, 100)
	for i := 0; i < 100; i++ {
		var buf bytes.Buffer
		buf.WriteString(strings.Repeat("repeated string", 10000))
		for j := 0; j < 100; j++ {
			var word [4]byte
			rng.Read(word[:])
			buf.Write(word[:])
		}
		name := filepath.Join(dir, "f"+strconv.Itoa(i)+".bin")
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		relName := "f" + strconv.Itoa(i) + ".bin"
		want[relName] = buf.Bytes()
	}

	comp := mustCompressor(t)
	if ok, err := comp.TrainDictionary(dir); err != nil {
		t.Fatalf("TrainDictionary: %v", err)
	} else if !ok {
		t.Fatalf("TrainDictionary reported no dictionary trained")
	}

	archivePath := filepath.Join(t.TempDir(), "out.asm")
	m, err := memmap.Open(archivePath)
	if err != nil {
		t.Fatalf("memmap.Open: %v", err)
	}
	hasher := archhash.NewMurmur3Hasher(archhash.DefaultLoadFactor)
	if _, err := Build[uint32](m, hasher, comp, nil, dir); err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := openArchive(t, archivePath)
	defer a.Close()

	wantBuckets := int(math.Ceil(100 / archhash.DefaultLoadFactor))
	if got := a.BucketCount(); got != wantBuckets {
		t.Fatalf("BucketCount() = %d, want %d", got, wantBuckets)
	}
	used := 0
	total := 0
	a.Buckets()(func(i int, b Bucket[uint32]) bool {
		if b.Len() > 0 {
			used++
		}
		total += b.Len()
		return true
	})
	if used+a.EmptyBuckets() != wantBuckets {
		t.Fatalf("used(%d) + empty(%d) != %d", used, a.EmptyBuckets(), wantBuckets)
	}
	if total != 100 {
		t.Fatalf("total entries = %d, want 100", total)
	}
	if a.DictionarySize() <= 0 {
		t.Fatalf("DictionarySize() = %d, want > 0", a.DictionarySize())
	}

	for name, wantData := range want {
		entry, ok := a.Lookup(name)
		if !ok {
			t.Fatalf("lookup(%q) not found", name)
		}
		got := make([]byte, len(wantData))
		n, err := entry.Retrieve(got)
		if err != nil {
			t.Fatalf("Retrieve(%q): %v", name, err)
		}
		if n != len(wantData) || !bytes.Equal(got[:n], wantData) {
			t.Fatalf("Retrieve(%q) mismatched", name)
		}
	}
}

// S3 — alignment property, W=4.
func TestScenarioS3Alignment(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{
		"file1.txt": []byte("This is a test string"),
		"file2.txt": []byte("This is \xBD binary"),
		"file3.txt": []byte("Another string"),
	})
	archivePath := filepath.Join(t.TempDir(), "out.asm")
	buildArchive(t, dir, archivePath)

	a := openArchive(t, archivePath)
	defer a.Close()

	for i := 0; i < a.BucketCount(); i++ {
		b := a.Bucket(i)
		if b.isEmpty() {
			continue
		}
		for _, e := range b.Entries() {
			nameLen := len(e.Name())
			size := int(e.FileSize())
			padStart := 4 + nameLen + 1 + size
			memSize := e.InMemorySize()
			if memSize%4 != 0 {
				t.Fatalf("entry in-memory size %d not aligned to 4", memSize)
			}
			for off := padStart; off < memSize; off++ {
				if e.data[off] != 0 {
					t.Fatalf("padding byte at relative offset %d is non-zero", off)
				}
			}
		}
	}
}

// S4 — future-version rejection.
func TestScenarioS4FutureVersionRejection(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{"a.txt": []byte("hello")})
	archivePath := filepath.Join(t.TempDir(), "out.asm")
	buildArchive(t, dir, archivePath)

	raw, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[len(raw)-1] = 2
	if err := os.WriteFile(archivePath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := memmap.Open(archivePath)
	if err != nil {
		t.Fatalf("memmap.Open: %v", err)
	}
	hasher := archhash.NewMurmur3Hasher(archhash.DefaultLoadFactor)
	decomp := mustDecompressor(t)
	if _, err := Open[uint32](m, hasher, decomp); err == nil {
		t.Fatalf("Open succeeded on a future-version archive")
	} else {
		var aerr *Error
		if !errors.As(err, &aerr) || aerr.Kind != FormatError {
			t.Fatalf("Open error = %v, want FormatError", err)
		}
	}

	raw[len(raw)-1] = 0
	if err := os.WriteFile(archivePath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m2, err := memmap.Open(archivePath)
	if err != nil {
		t.Fatalf("memmap.Open: %v", err)
	}
	if _, err := Open[uint32](m2, hasher, mustDecompressor(t)); err != nil {
		t.Fatalf("Open failed after restoring flag byte: %v", err)
	}
}

// S6 — path with subdirectory.
func TestScenarioS6SubdirectoryPath(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{
		"a/b/c.bin": {0x00, 0x01, 0x02},
	})
	archivePath := filepath.Join(t.TempDir(), "out.asm")
	buildArchive(t, dir, archivePath)

	a := openArchive(t, archivePath)
	defer a.Close()

	entry, ok := a.Lookup("a/b/c.bin")
	if !ok {
		t.Fatalf("lookup(\"a/b/c.bin\") not found")
	}
	got := make([]byte, 3)
	n, err := entry.Retrieve(got)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	want := []byte{0x00, 0x01, 0x02}
	if n != 3 || !bytes.Equal(got, want) {
		t.Fatalf("Retrieve() = %v, want %v", got[:n], want)
	}
}

func TestBucketCountDeterminism(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string][]byte{
		"a.txt": []byte("aaa"),
		"b.txt": []byte("bbb"),
		"c.txt": []byte("ccc"),
	})
	p1 := filepath.Join(t.TempDir(), "one.asm")
	p2 := filepath.Join(t.TempDir(), "two.asm")
	buildArchive(t, dir, p1)
	buildArchive(t, dir, p2)

	a1 := openArchive(t, p1)
	defer a1.Close()
	a2 := openArchive(t, p2)
	defer a2.Close()

	if a1.BucketCount() != a2.BucketCount() {
		t.Fatalf("bucket counts differ: %d vs %d", a1.BucketCount(), a2.BucketCount())
	}
}

