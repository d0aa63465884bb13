package main

import (
	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/archive"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
)

// word is the archive size-word width this binary is built with. The core
// archive package is generic over word width; the CLI fixes it to the
// spec's default of 32 bits.
type word = uint32

func buildArchive(m memmap.Mapper, hasher archhash.Hasher, comp codec.Compressor, sourceDir string) (*archive.Archive[word], error) {
	return archive.Build[word](m, hasher, comp, nil, sourceDir)
}

func openArchive(m memmap.Mapper, hasher archhash.Hasher, decomp codec.Decompressor) (*archive.Archive[word], error) {
	return archive.Open[word](m, hasher, decomp)
}
