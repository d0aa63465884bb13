package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/quillbyte/assetmap/archhash"
	"github.com/quillbyte/assetmap/archive"
	"github.com/quillbyte/assetmap/codec"
	"github.com/quillbyte/assetmap/memmap"
	"github.com/quillbyte/assetmap/wordio"
)

func runInfo(opts options) error {
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

	totalBuckets := a.BucketCount()
	emptyBuckets := a.EmptyBuckets()
	usedBuckets := totalBuckets - emptyBuckets

	smallest := -1
	largest := 0
	distribution := make(map[int]int)
	totalFiles := 0

	a.Buckets()(func(_ int, b archive.Bucket[word]) bool {
		size := b.Len()
		if size > 0 {
			if smallest == -1 || size < smallest {
				smallest = size
			}
			if size > largest {
				largest = size
			}
			distribution[size]++
		}
		totalFiles += size
		return true
	})
	if smallest == -1 {
		smallest = 0
	}

	fmt.Printf("Total Buckets: %d\n", totalBuckets)
	fmt.Printf("Total Unused: %d\n", emptyBuckets)
	fmt.Printf("Total Used: %d\n", usedBuckets)
	fmt.Printf("Dictionary Bytes: %d\n", a.DictionarySize())
	fmt.Printf("Total Files: %d\n", totalFiles)
	fmt.Printf("Smallest Bucket: %d\n", smallest)
	fmt.Printf("Largest Bucket: %d\n", largest)
	if totalBuckets > 0 {
		fmt.Printf("Usage Ratio: %.2f%%\n", 100*float64(usedBuckets)/float64(totalBuckets))
	}
	fmt.Printf("Bytes Wasted: %d\n", emptyBuckets*wordio.Size[word]())
	if usedBuckets > 0 {
		fmt.Printf("Average (Mean) Load: %.2f\n", float64(totalFiles)/float64(usedBuckets))
	}
	fmt.Println("Distribution:")
	sizes := make([]int, 0, len(distribution))
	for size := range distribution {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		count := distribution[size]
		bucketWord, elementWord := " bucket with", " element"
		if count > 1 {
			bucketWord = " buckets with"
		}
		if size > 1 {
			elementWord = " elements"
		}
		fmt.Printf("  %d%s %d%s\n", count, bucketWord, size, elementWord)
	}

	info, err := os.Stat(opts.file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", opts.file, err)
	}
	archiveBytes := info.Size()
	fmt.Printf("Total Archive Bytes: %d\n", archiveBytes)

	if opts.dir == "" {
		return nil
	}
	dirInfo, err := os.Stat(opts.dir)
	if err != nil || !dirInfo.IsDir() {
		return nil
	}
	var totalDirBytes int64
	err = filepath.WalkDir(opts.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			totalDirBytes += fi.Size()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", opts.dir, err)
	}
	fmt.Printf("Total Dir Bytes: %d\n", totalDirBytes)
	if totalDirBytes > 0 {
		fmt.Printf("Size Reduction: %.2f%%\n", 100*(1-float64(archiveBytes)/float64(totalDirBytes)))
	}
	return nil
}
