package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/quillbyte/assetmap/archive"
)

type mode int

const (
	modeCompress mode = iota
	modeDecompress
	modeInfo
)

type options struct {
	mode mode

	file string
	dir  string

	build archive.BuildOptions

	force        bool
	skipExisting bool
	rebuildDict  bool
	dictionary   string
	oneFile      string
}

var errHelpRequested = errors.New("assetmap: help requested")

func parseFlags(args []string) (options, error) {
	fs := pflag.NewFlagSet("assetmap", pflag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	decompress := fs.BoolP("decompress", "x", false, "Decompress. If this option is absent, compress.")
	info := fs.BoolP("info", "i", false, "Print statistics about an archive. No other operation is performed.")
	force := fs.BoolP("force", "f", false, "Overwrite the target archive on compress, or existing files on extract.")
	skipExisting := fs.BoolP("skip-existing", "e", false, "On extract, skip files that already exist instead of aborting. Requires -x.")
	oneFile := fs.StringP("onefile", "o", "", "Extract a single entry by name into [dir]. Requires -x.")
	dictionary := fs.StringP("dictionary", "d", "", "Read/write a dictionary file alongside the archive.")
	rebuildDict := fs.BoolP("rebuild-dictionary", "r", false, "Force regeneration of the dictionary named by --dictionary.")
	defaults := archive.DefaultBuildOptions()
	level := fs.IntP("level", "l", defaults.CompressionLevel, "Compression level.")
	strategy := fs.IntP("strategy", "s", defaults.Strategy, "Codec-defined compression strategy.")
	dictRatio := fs.Float64P("dictionary-ratio", "t", defaults.DictionaryRatio, "Desired dictionary size as a fraction of total sample bytes.")
	bucketFactor := fs.Float64P("bucket-factor", "b", defaults.LoadFactor, "Desired items:buckets load factor.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return options{}, errHelpRequested
		}
		return options{}, fmt.Errorf("assetmap: %w", err)
	}

	positional := fs.Args()
	if len(positional) < 1 {
		return options{}, errors.New("assetmap: missing required argument: file")
	}

	opts := options{
		file: positional[0],
		build: archive.BuildOptions{
			LoadFactor:       *bucketFactor,
			CompressionLevel: *level,
			Strategy:         *strategy,
			DictionaryRatio:  *dictRatio,
		},
		force:        *force,
		skipExisting: *skipExisting,
		rebuildDict:  *rebuildDict,
		dictionary:   *dictionary,
		oneFile:      *oneFile,
	}
	if len(positional) > 1 {
		opts.dir = positional[1]
	}

	switch {
	case *info:
		opts.mode = modeInfo
	case *decompress:
		opts.mode = modeDecompress
	default:
		opts.mode = modeCompress
	}

	if opts.mode != modeDecompress {
		if *skipExisting {
			return options{}, errors.New("assetmap: --skip-existing requires --decompress")
		}
		if *oneFile != "" {
			return options{}, errors.New("assetmap: --onefile requires --decompress")
		}
	}
	if *rebuildDict && *dictionary == "" {
		return options{}, errors.New("assetmap: --rebuild-dictionary requires --dictionary")
	}
	// dir is optional for info (size-reduction stats are skipped without it)
	// but required for compress and decompress.
	if opts.mode != modeInfo && opts.dir == "" {
		return options{}, errors.New("assetmap: missing required argument: dir")
	}

	return opts, nil
}
