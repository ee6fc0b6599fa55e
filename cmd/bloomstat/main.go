// Bloomstat is a utility for estimating Bloom filter sizes.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/arolson/bloomring"
)

const usage = `usage: bloomstat capacity false-positive-rate
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	capacity := parse("capacity", os.Args[1])
	fpr := parse("false positive rate", os.Args[2])

	f, err := bloomring.New(capacity, fpr)
	if err != nil {
		log.Fatal(err)
	}

	size, unit := memsize(float64(f.ByteSize()))
	bitsPerKey := float64(f.BitCount()) / capacity

	fmt.Printf("%d bits, %.02f %s\n"+
		"%.02f bits/%.02f B per key\n"+
		"%d hashes\n",
		f.BitCount(), size, unit, bitsPerKey, bitsPerKey/8, f.HashCount())
}

const (
	kiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
)

func memsize(bytes float64) (size float64, unit string) {
	size = bytes

	switch {
	case size >= GiB:
		size /= GiB
		unit = "GiB"
	case size >= MiB:
		size /= MiB
		unit = "MiB"
	case size >= kiB:
		size /= kiB
		unit = "kiB"
	default:
		unit = "B"
	}
	return
}

func parse(name, num string) float64 {
	v, err := strconv.ParseFloat(num, 64)

	switch e := err.(type) {
	case nil:
	case *strconv.NumError:
		log.Fatalf("%s %q: %v", name, e.Num, e.Err)
	default:
		log.Fatalf("%s: %v", name, err)
	}
	if v < 0 {
		log.Fatalf("%s must be >= 0", name)
	}

	return v
}
