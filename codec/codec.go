// Package codec defines the archive's compression/decompression capability
// set and a default implementation backed by klauspost/compress/zstd.
package codec

// Compressor is the capability set the archive core requires to produce
// compressed entry payloads.
type Compressor interface {
	// CompressBound returns the worst-case output length for an input of
	// length n.
	CompressBound(n int) int

	// Compress writes a self-contained frame compressing src into dst and
	// returns the number of bytes written. The frame must carry its own
	// decompressed length, since readers call DecompressedSize without
	// any external metadata.
	Compress(src, dst []byte) (int, error)

	// TrainDictionary attempts to build a dictionary from the regular
	// files under sampleDir. Failure to produce a usable dictionary is
	// not an error — it simply means none is available — so this
	// returns (false, nil) in that case rather than an error. On
	// success it installs the dictionary on this Compressor and returns
	// (true, nil).
	TrainDictionary(sampleDir string) (bool, error)

	// Dictionary returns the currently installed dictionary bytes, or
	// nil if none is installed.
	Dictionary() []byte

	// UseDictionary installs a borrowed dictionary blob for subsequent
	// Compress calls. The caller must keep dict alive for as long as
	// Compress may be called.
	UseDictionary(dict []byte)
}

// Decompressor is the capability set the archive core requires to read
// compressed entry payloads back out.
type Decompressor interface {
	// DecompressedSize reads the self-describing frame header of src and
	// returns the number of bytes a full Decompress would produce,
	// without actually decompressing the payload.
	DecompressedSize(src []byte) (int, error)

	// Decompress decompresses src into dst and returns the number of
	// bytes written.
	Decompress(src, dst []byte) (int, error)

	// UseDictionary installs a dictionary for subsequent Decompress
	// calls. The caller must keep dict alive for as long as Decompress
	// may be called.
	UseDictionary(dict []byte)
}
