package codec

import (
	"bytes"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	comp, err := NewCompressor(DefaultCompressLevel(), 0, DefaultDictionaryRatio)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	decomp, err := NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}

	src := bytes.Repeat([]byte("hello world "), 100)
	dst := make([]byte, comp.CompressBound(len(src)))
	n, err := comp.Compress(src, dst)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	size, err := decomp.DecompressedSize(dst[:n])
	if err != nil {
		t.Fatalf("DecompressedSize: %v", err)
	}
	if size != len(src) {
		t.Fatalf("DecompressedSize = %d, want %d", size, len(src))
	}

	got := make([]byte, size)
	rn, err := decomp.Decompress(dst[:n], got)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if rn != len(src) || !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestTrainDictionaryTooSmall(t *testing.T) {
	comp, err := NewCompressor(DefaultCompressLevel(), 0, DefaultDictionaryRatio)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	ok, err := comp.TrainDictionary(t.TempDir())
	if err != nil {
		t.Fatalf("TrainDictionary: %v", err)
	}
	if ok {
		t.Fatalf("TrainDictionary succeeded on an empty directory")
	}
}

func TestUseDictionaryRoundTrip(t *testing.T) {
	comp, err := NewCompressor(DefaultCompressLevel(), 0, DefaultDictionaryRatio)
	if err != nil {
		t.Fatalf("NewCompressor: %v", err)
	}
	decomp, err := NewDecompressor()
	if err != nil {
		t.Fatalf("NewDecompressor: %v", err)
	}

	dict := bytes.Repeat([]byte("dictionary-content "), 20)
	comp.UseDictionary(dict)
	decomp.UseDictionary(dict)
	if !bytes.Equal(comp.Dictionary(), dict) {
		t.Fatalf("Dictionary() did not return the installed dictionary")
	}

	src := []byte("dictionary-content should compress well")
	dst := make([]byte, comp.CompressBound(len(src)))
	n, err := comp.Compress(src, dst)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got := make([]byte, len(src))
	rn, err := decomp.Decompress(dst[:n], got)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if rn != len(src) || !bytes.Equal(got, src) {
		t.Fatalf("round trip with dictionary mismatch")
	}
}
