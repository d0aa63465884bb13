package main

import (
	"fmt"
	"log"
	"os"

	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
)

func setupDictionary(opts options, comp *codec.ZstdCodec) error {
	if opts.dictionary == "" {
		return nil
	}
	_, statErr := os.Stat(opts.dictionary)
	needsTraining := opts.rebuildDict || statErr != nil

	if needsTraining {
		log.Printf("training dictionary from %s...\n", opts.dir)
		ok, err := comp.TrainDictionary(opts.dir)
		if err != nil {
			return fmt.Errorf("training dictionary: %w", err)
		}
		if ok {
			if err := os.WriteFile(opts.dictionary, comp.Dictionary(), 0o644); err != nil {
				return fmt.Errorf("writing dictionary file %s: %w", opts.dictionary, err)
			}
			log.Printf("dictionary written: %s (%d bytes)\n", opts.dictionary, len(comp.Dictionary()))
			return nil
		}
		log.Println("source tree too small to train a dictionary, skipping")
		if statErr != nil {
			return nil
		}
	}

	dict, err := os.ReadFile(opts.dictionary)
	if err != nil {
		return fmt.Errorf("reading dictionary file %s: %w", opts.dictionary, err)
	}
	comp.UseDictionary(dict)
	return nil
}

func runCompress(opts options) error {
	if _, err := os.Stat(opts.file); err == nil {
		if !opts.force {
			return fmt.Errorf("%s already exists. use -f to force overwriting", opts.file)
		}
		if err := os.Remove(opts.file); err != nil {
			return fmt.Errorf("removing existing archive %s: %w", opts.file, err)
		}
	}

	comp, err := codec.NewCompressor(opts.build.CompressionLevel, opts.build.Strategy, opts.build.DictionaryRatio)
	if err != nil {
		return fmt.Errorf("initializing compressor: %w", err)
	}
	if err := setupDictionary(opts, comp); err != nil {
		return err
	}

	m, err := memmap.Open(opts.file)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", opts.file, err)
	}

	log.Printf("building archive from %s -> %s...\n", opts.dir, opts.file)
	hasher := archhash.NewMurmur3Hasher(opts.build.LoadFactor)
	archive, err := buildArchive(m, hasher, comp, opts.dir)
	if err != nil {
		return err
	}
	log.Println("build done")
	return archive.Close()
}
