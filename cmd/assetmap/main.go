// Command assetmap builds, extracts, and inspects static asset archives.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, errHelpRequested) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var execErr error
	switch opts.mode {
	case modeInfo:
		execErr = runInfo(opts)
	case modeDecompress:
		execErr = runDecompress(opts)
	default:
		execErr = runCompress(opts)
	}
	if execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
		return 2
	}
	return 0
}
