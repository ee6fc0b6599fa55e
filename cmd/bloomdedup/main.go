// This package implements a streaming line deduplicator.
//
// It reads lines from standard input and writes each line to standard
// output the first time it is seen, within a bounded-age window
// approximated by a rotating Bloom filter ring. Lines older than the
// window may eventually be reported as new again: this is a
// memory-bounded approximation, not an exact set.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"iter"
	"log"
	"os"

	"github.com/arolson/bloomring"
)

func main() {
	var (
		capacity  = flag.Float64("capacity", 100000, "distinct lines expected per ring slot")
		errorRate = flag.Float64("fpr", 1e-4, "target false positive rate per ring slot")
		slots     = flag.Int("slots", 4, "number of ring slots (bounds the 'recently seen' window)")
		hashName  = flag.String("hash", "xxhash", "hash backend: xxhash or xxh3")
	)
	flag.Parse()

	hasher, err := resolveHasher(*hashName)
	if err != nil {
		log.Fatal(err)
	}

	r, err := bloomring.NewRotating(*capacity, *errorRate, *slots)
	if err != nil {
		log.Fatal(err)
	}

	sc := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	key := func(line string) uint64 { return hasher([]byte(line)) }

	for line := range bloomring.Dedup(r, scannerLines(sc), key) {
		fmt.Fprintln(out, line)
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}

func scannerLines(sc *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
}

func resolveHasher(name string) (bloomring.Hasher, error) {
	switch name {
	case "xxhash":
		return bloomring.HashBytes, nil
	case "xxh3":
		return bloomring.HashBytesXXH3, nil
	default:
		return nil, fmt.Errorf("unknown hash backend %q (want xxhash or xxh3)", name)
	}
}
