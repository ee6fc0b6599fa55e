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
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is the sentinel wrapped by every rejected
// construction parameter: bad capacity, bad error rate, infeasible
// sizing, or a malformed deserialization header.
var ErrInvalidArgument = errors.New("bloomring: invalid argument")

// maxBits caps the bit count sizing will produce. It stands in for
// "allocation would fail": at this size the backing array alone would
// be 128GiB, which is the point where size should fail fast
// rather than let the caller discover it via an out-of-memory crash.
const maxBits = 1 << 40

// size computes the bit count m and hash count k for a Bloom filter
// holding up to capacity distinct items at the given false positive
// rate, per the formulas in spec §4.1:
//
//	mRaw = ceil(-(capacity * ln(errorRate)) / ln(2)^2)
//	m    = mRaw | 1               (forced odd)
//	k    = max(1, round((m/capacity) * ln(2)))
func size(capacity, errorRate float64) (m uint64, k int, err error) {
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity <= 0 {
		return 0, 0, fmt.Errorf("%w: capacity must be a positive finite number, got %v", ErrInvalidArgument, capacity)
	}
	if math.IsNaN(errorRate) || errorRate <= 0 || errorRate >= 1 {
		return 0, 0, fmt.Errorf("%w: error rate must be in (0, 1), got %v", ErrInvalidArgument, errorRate)
	}

	mRaw := math.Ceil(-(capacity * math.Log(errorRate)) / (math.Ln2 * math.Ln2))
	if math.IsInf(mRaw, 0) || math.IsNaN(mRaw) || mRaw > maxBits {
		return 0, 0, fmt.Errorf("%w: capacity=%v error_rate=%v would require an infeasibly large filter", ErrInvalidArgument, capacity, errorRate)
	}

	m = uint64(mRaw) | 1

	kF := math.Round((float64(m) / capacity) * math.Ln2)
	k = int(kF)
	if k < 1 {
		k = 1
	}

	return m, k, nil
}
