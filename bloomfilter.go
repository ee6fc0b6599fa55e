// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bloomring implements a Bloom filter and a rotating,
// bounded-age extension of it for approximate stream deduplication.
//
// Keys are represented exclusively as 64-bit hashes: client code is
// responsible for reducing its real keys to a uint64, using HashBytes,
// HashString, HashUint64, HashInt64, or its own hash of choice. Given
// that hash, Filter derives k bit positions via a double-hashing
// construction seeded at construction time.
//
// False positives are possible; false negatives never are.
package bloomring

import (
	"fmt"
)

// A Filter is a Bloom filter: a probabilistic set that may return a
// false positive on TestByHash but never a false negative.
//
// A Filter is not safe for concurrent use: AddByHash and Serialize
// must be externally synchronized with every other operation on the
// same Filter. Concurrent TestByHash calls with no concurrent
// AddByHash are safe.
type Filter struct {
	bits   *bitArray
	scheme hashScheme
	k      int
}

// Config holds the parameters for NewFromConfig.
type Config struct {
	// Capacity is the expected number of distinct items the filter
	// will hold. Non-integer values are accepted and rounded up
	// during sizing.
	Capacity float64

	// ErrorRate is the target false positive rate, in the open
	// interval (0, 1).
	ErrorRate float64

	// Seeds, if non-nil, fixes the two hash seeds instead of drawing
	// them from the process random source. Exists for deterministic
	// construction in tests; see also Derandomize.
	Seeds *[2]uint64

	// Hasher, if non-nil, overrides the keyed hash used to derive bit
	// indices. Defaults to HashBytes's underlying hash (xxhash).
	Hasher Hasher
}

// New constructs a Bloom filter sized for capacity distinct items at
// the given false positive rate, with fresh random seeds.
func New(capacity, errorRate float64) (*Filter, error) {
	return NewFromConfig(Config{Capacity: capacity, ErrorRate: errorRate})
}

// NewFromConfig constructs a Bloom filter from cfg. See Config for the
// meaning of each field.
func NewFromConfig(cfg Config) (*Filter, error) {
	m, k, err := size(cfg.Capacity, cfg.ErrorRate)
	if err != nil {
		return nil, err
	}

	var s0, s1 uint64
	if cfg.Seeds != nil {
		s0, s1 = cfg.Seeds[0], cfg.Seeds[1]
	} else {
		s0, s1 = nextSeeds()
	}

	return &Filter{
		bits:   newBitArray(m),
		scheme: newHashScheme(m, s0, s1, cfg.Hasher),
		k:      k,
	}, nil
}

// AddByHash inserts a value, given as its 64-bit hash, into f. It
// reports whether the value was newly added: true iff at least one
// bit flipped from 0 to 1. All k indices are computed before any bit
// is mutated, so a call either fully applies or (on no new bits)
// leaves f unchanged in effect.
func (f *Filter) AddByHash(h uint64) bool {
	idx := f.scheme.indices(h, make([]uint64, f.k))

	added := false
	for _, i := range idx {
		if !f.bits.testAndSet(i) {
			added = true
		}
	}
	return added
}

// TestByHash reports whether a value, given as its 64-bit hash, may
// have been added to f. It never returns false for a value that was
// added (no false negatives), but may return true for one that was
// not (a false positive).
func (f *Filter) TestByHash(h uint64) bool {
	idx := f.scheme.indices(h, make([]uint64, f.k))
	for _, i := range idx {
		if !f.bits.test(i) {
			return false
		}
	}
	return true
}

// BitCount returns m, the number of bits backing f. It is always odd.
func (f *Filter) BitCount() uint64 { return f.bits.nbits }

// HashCount returns k, the number of bit indices derived per value.
func (f *Filter) HashCount() int { return f.k }

// ByteSize returns ceil(BitCount()/8), the size in bytes of the
// packed bit storage.
func (f *Filter) ByteSize() uint64 { return byteSize(f.bits.nbits) }

// RawData returns the packed bit storage backing f. The returned
// slice aliases f's internal state and must not be mutated.
func (f *Filter) RawData() []byte { return f.bits.rawBytes() }

func (f *Filter) String() string {
	return fmt.Sprintf("Filter(m=%d, k=%d)", f.BitCount(), f.HashCount())
}
