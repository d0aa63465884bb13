package archive

import (
	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/codec"
)

// BuildOptions groups the tunables a build needs, following the teacher's
// SSTableConfig struct-literal convention (sstable.SSTableConfig in
// AmrMurad1/Go-Store) rather than a config-file format the underlying
// system never had.
type BuildOptions struct {
	// LoadFactor is the desired items:buckets ratio (spec default 0.75).
	LoadFactor float64
	// CompressionLevel is passed straight to the zstd encoder.
	CompressionLevel int
	// Strategy is accepted for CLI parity with the reference
	// implementation; see codec.NewCompressor.
	Strategy int
	// DictionaryRatio controls how large a trained dictionary should be,
	// relative to the total sample bytes (spec default 0.01).
	DictionaryRatio float64
}

// DefaultBuildOptions returns the spec's defaults: 0.75 load factor, zstd's
// default compression level, and a 1% dictionary ratio.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		LoadFactor:       archhash.DefaultLoadFactor,
		CompressionLevel: codec.DefaultCompressLevel(),
		DictionaryRatio:  codec.DefaultDictionaryRatio,
	}
}
