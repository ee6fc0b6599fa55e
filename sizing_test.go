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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeWorkedExample(t *testing.T) {
	t.Parallel()

	m, k, err := size(1000000, 1e-3)
	require.NoError(t, err)
	assert.Equal(t, uint64(14377641), m)
	assert.Equal(t, 10, k)
}

func TestSizeForcesOddBitCount(t *testing.T) {
	t.Parallel()

	for capacity := 1.0; capacity < 2000; capacity += 37 {
		m, _, err := size(capacity, 0.01)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), m%2)
	}
}

func TestSizeRejectsInfeasibleParameters(t *testing.T) {
	t.Parallel()

	_, _, err := size(1e10, 1e-100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSizeRejectsBadCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, _, err := size(capacity, 0.5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestSizeRejectsBadErrorRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []float64{0, -1, 1, 2, math.NaN()} {
		_, _, err := size(5, rate)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}
