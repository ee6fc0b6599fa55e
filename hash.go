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

package bloomring

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// A Hasher produces a canonical 64-bit representation of arbitrary
// bytes. It is the pre-hash step: its output is what gets passed to
// AddByHash/TestByHash, not used directly as a bit index.
type Hasher func([]byte) uint64

// HashBytes is the default Hasher. It hashes raw bytes with unseeded
// xxhash, the same hash blobloom's own benchmark suite uses.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashBytesXXH3 is an alternate Hasher backed by xxh3, the hash
// blobloom's benchmarks compare itself against. It trades a slightly
// different collision profile for higher throughput on long inputs.
func HashBytesXXH3(b []byte) uint64 {
	return xxh3.Hash(b)
}

// HashString canonicalizes text: a leading UTF-8 BOM is stripped, then
// the remaining bytes are hashed as-is. "abc" and the same bytes read
// from a BOM-prefixed file hash identically.
func HashString(s string) uint64 {
	return HashBytes(stripBOM([]byte(s)))
}

// HashUint64 canonicalizes an unsigned integer as its little-endian
// 8-byte encoding before hashing.
func HashUint64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return HashBytes(buf[:])
}

// HashInt64 canonicalizes a signed integer as the little-endian 8-byte
// encoding of its two's-complement representation before hashing.
func HashInt64(v int64) uint64 {
	return HashUint64(uint64(v))
}

const bom = '\uFEFF'

func stripBOM(b []byte) []byte {
	if len(b) >= 3 {
		if r, size := utf8.DecodeRune(b); r == bom {
			return b[size:]
		}
	}
	return b
}

// hashScheme derives k bit indices in [0,m) from a 64-bit value using
// double hashing seeded at filter construction: h0 and h1 are
// independent keyed hashes of the value, and idx_i = (h0 + i*h1) mod m.
type hashScheme struct {
	s0, s1 uint64
	m      uint64
	hash   Hasher
}

func newHashScheme(m uint64, s0, s1 uint64, hash Hasher) hashScheme {
	if hash == nil {
		hash = HashBytes
	}
	return hashScheme{s0: s0, s1: s1, m: m, hash: hash}
}

// keyedHash mixes a 64-bit seed into b before hashing, so that the
// same bytes under two different seeds produce independent values.
func (hs hashScheme) keyedHash(seed uint64, b []byte) uint64 {
	var seeded [8]byte
	binary.LittleEndian.PutUint64(seeded[:], seed)
	buf := make([]byte, 0, len(seeded)+len(b))
	buf = append(buf, seeded[:]...)
	buf = append(buf, b...)
	return hs.hash(buf)
}

// indices fills dst (which must have length k) with the bit indices
// for value h and returns dst.
func (hs hashScheme) indices(h uint64, dst []uint64) []uint64 {
	var hb [8]byte
	binary.LittleEndian.PutUint64(hb[:], h)

	h0 := hs.keyedHash(hs.s0, hb[:])
	h1 := hs.keyedHash(hs.s1, hb[:])

	for i := range dst {
		dst[i] = (h0 + uint64(i)*h1) % hs.m
	}
	return dst
}
