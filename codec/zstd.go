package codec

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// DefaultDictionaryRatio is the fraction of total sample bytes a trained
// dictionary targets, matching the reference CLI's default
// --dictionary-ratio of 1%.
const DefaultDictionaryRatio = 0.01

// minDictionarySize is the floor on the dictionary size TrainDictionary
// aims for, mirroring ZDICT_CONTENTSIZE_MIN. It is a target, not a
// guarantee: when the sample files hold fewer bytes than this, the
// dictionary is as large as those bytes and no larger.
const minDictionarySize = 256

// ZstdCodec is the archive's default Compressor and Decompressor,
// implemented on top of klauspost/compress/zstd — the compression library
// already depended on by the teacher (AmrMurad1/Go-Store) and by
// SnellerInc/sneller and bureau-foundation/bureau elsewhere in the pack.
//
// A ZstdCodec is not safe for concurrent use; per the archive's
// concurrency model, each reading goroutine must hold its own
// Decompressor (construct one ZstdCodec per goroutine).
type ZstdCodec struct {
	level      zstd.EncoderLevel
	strategy   int
	dictRatio  float64
	dictionary []byte
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
}

// NewCompressor builds a ZstdCodec configured for compression at the given
// level with the given dictionary-size ratio. strategy is accepted for
// CLI-surface parity with the reference implementation's --strategy flag;
// klauspost/compress/zstd does not expose a matching strategy knob, so it
// is recorded but otherwise unused.
func NewCompressor(level int, strategy int, dictRatio float64) (*ZstdCodec, error) {
	if dictRatio <= 0 {
		dictRatio = DefaultDictionaryRatio
	}
	c := &ZstdCodec{
		level:     zstd.EncoderLevel(level),
		strategy:  strategy,
		dictRatio: dictRatio,
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(c.level),
		zstd.WithEncoderConcurrency(1),
		zstd.WithSingleSegment(true),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return nil, fmt.Errorf("codec: creating zstd encoder: %w", err)
	}
	c.encoder = enc
	return c, nil
}

// NewDecompressor builds a ZstdCodec configured for decompression only.
func NewDecompressor() (*ZstdCodec, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("codec: creating zstd decoder: %w", err)
	}
	return &ZstdCodec{decoder: dec}, nil
}

// MinCompressLevel reports the lowest compression level zstd accepts.
func MinCompressLevel() int { return int(zstd.SpeedFastest) }

// MaxCompressLevel reports the highest compression level zstd accepts.
func MaxCompressLevel() int { return int(zstd.SpeedBestCompression) }

// DefaultCompressLevel reports zstd's default compression level.
func DefaultCompressLevel() int { return int(zstd.SpeedDefault) }

// CompressBound implements Compressor using the standard zstd worst-case
// formula (mirroring ZSTD_compressBound: input size plus ~1/256th plus a
// small fixed frame overhead).
func (c *ZstdCodec) CompressBound(n int) int {
	return n + (n >> 8) + 128
}

// Compress implements Compressor.
func (c *ZstdCodec) Compress(src, dst []byte) (int, error) {
	if c.encoder == nil {
		return 0, fmt.Errorf("codec: Compress called on a decompress-only ZstdCodec")
	}
	out := c.encoder.EncodeAll(src, dst[:0])
	if len(out) > len(dst) {
		return 0, fmt.Errorf("codec: compressed size %d exceeds destination capacity %d", len(out), len(dst))
	}
	n := copy(dst, out)
	return n, nil
}

// DecompressedSize implements Decompressor.
func (c *ZstdCodec) DecompressedSize(src []byte) (int, error) {
	size, err := frameContentSize(src)
	if err != nil {
		return 0, fmt.Errorf("codec: %w", err)
	}
	return int(size), nil
}

// Decompress implements Decompressor.
func (c *ZstdCodec) Decompress(src, dst []byte) (int, error) {
	if c.decoder == nil {
		return 0, fmt.Errorf("codec: Decompress called on a compress-only ZstdCodec")
	}
	out, err := c.decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, fmt.Errorf("codec: decompress: %w", err)
	}
	n := copy(dst, out)
	return n, nil
}

// Dictionary implements Compressor/Decompressor.
func (c *ZstdCodec) Dictionary() []byte {
	return c.dictionary
}

// UseDictionary implements Compressor/Decompressor.
func (c *ZstdCodec) UseDictionary(dict []byte) {
	c.dictionary = dict
	if len(dict) == 0 {
		return
	}
	if c.encoder != nil {
		_ = c.encoder.Close()
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(c.level),
			zstd.WithEncoderConcurrency(1),
			zstd.WithSingleSegment(true),
			zstd.WithZeroFrames(true),
			zstd.WithEncoderDictRaw(0, dict),
		)
		if err == nil {
			c.encoder = enc
		}
	}
	if c.decoder != nil {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderDictRaw(0, dict),
		)
		if err == nil {
			c.decoder.Close()
			c.decoder = dec
		}
	}
}

// TrainDictionary implements Compressor.
//
// klauspost/compress has no binding for ZDICT_trainFromBuffer (no repo in
// the retrieval pack binds one either), so this builds a raw-content
// dictionary instead: zstd accepts any byte string as a "raw content"
// dictionary (one without the magic/entropy-table header a trained
// dictionary carries), so a representative sample of the source tree is a
// valid, if less optimal, dictionary. Files are walked in sorted order for
// determinism and a bounded prefix of each is collected until the target
// size (sampleBytes * dictRatio, floored at minDictionarySize) is reached.
func (c *ZstdCodec) TrainDictionary(sampleDir string) (bool, error) {
	var paths []string
	err := filepath.WalkDir(sampleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("codec: walking sample directory: %w", err)
	}
	if len(paths) == 0 {
		return false, nil
	}
	sort.Strings(paths)

	var totalSampleBytes int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		totalSampleBytes += info.Size()
	}
	if totalSampleBytes == 0 {
		return false, nil
	}

	target := int64(float64(totalSampleBytes) * c.dictRatio)
	if target < minDictionarySize {
		target = minDictionarySize
	}

	dict := make([]byte, 0, target)
	perFile := target / int64(len(paths))
	if perFile < 1 {
		perFile = 1
	}
	for _, p := range paths {
		if int64(len(dict)) >= target {
			break
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		remaining := target - int64(len(dict))
		take := perFile
		if take > remaining {
			take = remaining
		}
		chunk := make([]byte, take)
		n, _ := io.ReadFull(f, chunk)
		f.Close()
		dict = append(dict, chunk[:n]...)
	}
	if len(dict) == 0 {
		return false, nil
	}

	c.UseDictionary(dict)
	return true, nil
}
