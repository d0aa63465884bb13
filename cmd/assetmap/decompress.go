package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/archive"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
)

func extractEntry(dir string, entry archive.Entry[word], force, skip bool) error {
	name := string(entry.Name())
	target := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if _, err := os.Stat(target); err == nil {
		if skip {
			return nil
		}
		if !force {
			return fmt.Errorf("%s already exists and neither -f nor -e specified", target)
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("removing %s: %w", target, err)
		}
	}

	size, err := entry.DecompressedSize()
	if err != nil {
		return fmt.Errorf("sizing %s: %w", name, err)
	}
	buf := make([]byte, size)
	n, err := entry.Retrieve(buf)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", name, err)
	}
	if err := os.WriteFile(target, buf[:n], 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

func runDecompress(opts options) error {
	m, err := memmap.Open(opts.file)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", opts.file, err)
	}
	decomp, err := codec.NewDecompressor()
	if err != nil {
		return fmt.Errorf("initializing decompressor: %w", err)
	}
	hasher := archhash.NewMurmur3Hasher(opts.build.LoadFactor)
	a, err := openArchive(m, hasher, decomp)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.oneFile != "" {
		entry, ok := a.Lookup(opts.oneFile)
		if !ok {
			return fmt.Errorf("%s not found in the archive", opts.oneFile)
		}
		log.Printf("extracting %s -> %s...\n", opts.oneFile, opts.dir)
		return extractEntry(opts.dir, entry, opts.force, opts.skipExisting)
	}

	log.Printf("extracting %s -> %s...\n", opts.file, opts.dir)
	extracted := 0
	var extractErr error
	a.Buckets()(func(_ int, b archive.Bucket[word]) bool {
		for _, e := range b.Entries() {
			if err := extractEntry(opts.dir, e, opts.force, opts.skipExisting); err != nil {
				extractErr = err
				return false
			}
			extracted++
		}
		return true
	})
	if extractErr != nil {
		return extractErr
	}
	log.Printf("extracted %d files\n", extracted)
	return nil
}
