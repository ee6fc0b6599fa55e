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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeSeq(n int) func(yield func(uint64) bool) {
	return func(yield func(uint64) bool) {
		for i := 0; i < n; i++ {
			if !yield(uint64(i)) {
				return
			}
		}
	}
}

func drain[T any](seq func(yield func(T) bool)) []T {
	var out []T
	seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func TestRotatingNewRejectsBadCount(t *testing.T) {
	t.Parallel()

	_, err := NewRotating(100, 1e-5, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRotatingNewRejectsInfeasibleSizing(t *testing.T) {
	t.Parallel()

	_, err := NewRotating(1e10, 1e-100, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDedupNonRepeating(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(100, 1e-5, 5)
	require.NoError(t, err)

	got := drain[uint64](Dedup(r, rangeSeq(100), IdentityKey))
	want := make([]uint64, 100)
	for i := range want {
		want[i] = uint64(i)
	}
	assert.Equal(t, want, got)
}

func TestDedupRepeating(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(100, 1e-5, 5)
	require.NoError(t, err)

	cycled := func(yield func(uint64) bool) {
		for i := 0; i < 500; i++ {
			if !yield(uint64(i % 100)) {
				return
			}
		}
	}

	got := drain[uint64](Dedup(r, cycled, IdentityKey))
	want := make([]uint64, 100)
	for i := range want {
		want[i] = uint64(i)
	}
	assert.Equal(t, want, got)
}

func TestRotatingEvictsOldest(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(10, 1e-5, 5)
	require.NoError(t, err)

	drain[uint64](Dedup(r, rangeSeq(100), IdentityKey))
	assert.Len(t, r.Blooms(), 5)
}

func TestRotatingForgetsOldestWindow(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(10, 1e-5, 5)
	require.NoError(t, err)

	drain[uint64](Dedup(r, rangeSeq(100), IdentityKey))

	var included []uint64
	for i := uint64(0); i < 100; i++ {
		if r.TestByHash(i) {
			included = append(included, i)
		}
	}

	var want []uint64
	for i := uint64(60); i < 100; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, included)
}

func TestDedupWithKeyFunction(t *testing.T) {
	t.Parallel()

	type item struct{ id int }

	r, err := NewRotating(100, 1e-5, 5)
	require.NoError(t, err)

	items := make([]item, 100)
	for i := range items {
		items[i] = item{id: i}
	}
	source := func(yield func(item) bool) {
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}
	key := func(it item) uint64 { return HashInt64(int64(it.id)) }

	got := drain[item](Dedup(r, source, key))
	assert.Equal(t, items, got)
}

func TestDedupIsIdempotentOnYieldedSubsequence(t *testing.T) {
	t.Parallel()

	r1, err := NewRotating(1000, 1e-5, 5)
	require.NoError(t, err)
	r2, err := NewRotating(1000, 1e-5, 5)
	require.NoError(t, err)

	cycled := func(yield func(uint64) bool) {
		for i := 0; i < 300; i++ {
			if !yield(uint64(i % 150)) {
				return
			}
		}
	}

	once := drain[uint64](Dedup(r1, cycled, IdentityKey))

	onceSeq := func(yield func(uint64) bool) {
		for _, v := range once {
			if !yield(v) {
				return
			}
		}
	}
	twice := drain[uint64](Dedup(r2, onceSeq, IdentityKey))

	assert.Equal(t, once, twice)
}
