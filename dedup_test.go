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

func TestDedupPreservesOrder(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(1000, 1e-5, 3)
	require.NoError(t, err)

	input := []uint64{5, 1, 5, 2, 1, 3, 2, 4}
	source := func(yield func(uint64) bool) {
		for _, v := range input {
			if !yield(v) {
				return
			}
		}
	}

	got := drain[uint64](Dedup(r, source, IdentityKey))
	assert.Equal(t, []uint64{5, 1, 2, 3, 4}, got)
}

func TestDedupStopsEarlyWithoutObservingTheRest(t *testing.T) {
	t.Parallel()

	r, err := NewRotating(1000, 1e-5, 3)
	require.NoError(t, err)

	source := func(yield func(uint64) bool) {
		for i := uint64(0); i < 1000; i++ {
			if !yield(i) {
				return
			}
		}
	}

	count := 0
	Dedup(r, source, IdentityKey)(func(v uint64) bool {
		count++
		return count < 3
	})

	assert.Equal(t, 3, count)
	assert.True(t, r.TestByHash(0))
	assert.True(t, r.TestByHash(2))
	// Iteration stopped after yielding the 3rd element (value 2); later
	// values were never pulled from source, so they were never observed.
	assert.False(t, r.TestByHash(500))
}
