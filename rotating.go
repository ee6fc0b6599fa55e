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
	"fmt"
	"math"
)

// A Rotating filter approximates "seen in roughly the last
// count*capacity inserts" membership by layering count Bloom filters
// on a ring. Writes always target the newest sub-filter; reads probe
// every sub-filter; the oldest sub-filter is evicted once the ring
// would grow past count.
//
// Each sub-filter in the ring passes through three states:
// newest (the one Observe writes to), aging (displaced by a newer
// sub-filter but still read), and evicted (dropped from the head once
// len(blooms) would exceed count).
//
// Like Filter, a Rotating is not safe for concurrent use.
type Rotating struct {
	capacity  float64
	errorRate float64
	count     int

	blooms          []*Filter // oldest first, newest last
	insertsInNewest uint64
}

// NewRotating constructs a ring of up to count Bloom filters, each
// sized for capacity distinct items at errorRate false positive rate.
// The ring starts empty; sub-filters are appended lazily as Observe is
// called. Sizing infeasibility is reported immediately, by sizing a
// prototype filter, rather than lazily at the first Observe.
func NewRotating(capacity, errorRate float64, count int) (*Rotating, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidArgument, count)
	}
	if _, _, err := size(capacity, errorRate); err != nil {
		return nil, err
	}

	return &Rotating{
		capacity:  capacity,
		errorRate: errorRate,
		count:     count,
	}, nil
}

// newestCapacityReached reports whether the newest sub-filter has
// taken in capacity (rounded up) logical inserts.
func (r *Rotating) newestCapacityReached() bool {
	return r.insertsInNewest >= uint64(math.Ceil(r.capacity))
}

// rotate appends a fresh sub-filter as the newest, evicting the
// oldest if the ring would otherwise exceed count.
func (r *Rotating) rotate() error {
	nf, err := New(r.capacity, r.errorRate)
	if err != nil {
		return err
	}

	r.blooms = append(r.blooms, nf)
	r.insertsInNewest = 0

	if len(r.blooms) > r.count {
		r.blooms = r.blooms[1:]
	}
	return nil
}

// Observe is the ring's write path. It reports whether h was not
// previously seen by any sub-filter currently in the ring:
//
//  1. If the ring is empty, a sub-filter is appended to write into.
//  2. If any sub-filter already reports h present, Observe returns
//     false: h has been seen (possibly a false positive).
//  3. Otherwise h is added to the newest sub-filter and Observe
//     returns true: h is new.
//  4. If that insert brought the newest sub-filter to capacity, the
//     next sub-filter is appended right away (evicting the oldest if
//     the ring is now over count), so the ring is always ready to
//     write before the next call needs to decide where to.
//
// Preparing the next sub-filter as soon as the current one saturates,
// rather than on the following call, is what gives the ring its
// "forgets the oldest count*capacity window" behavior: len(Blooms())
// can run one ahead of ceil(total inserts/capacity) exactly at a
// capacity boundary, since the fresh shell is already in place.
//
// The only failure mode is sub-filter construction failure, which
// cannot happen after NewRotating has already sized a prototype
// successfully, but is still reported rather than panicking.
func (r *Rotating) Observe(h uint64) (bool, error) {
	if len(r.blooms) == 0 {
		if err := r.rotate(); err != nil {
			return false, err
		}
	}

	for _, bf := range r.blooms {
		if bf.TestByHash(h) {
			return false, nil
		}
	}

	newest := r.blooms[len(r.blooms)-1]
	newest.AddByHash(h)
	r.insertsInNewest++

	if r.newestCapacityReached() {
		if err := r.rotate(); err != nil {
			return false, err
		}
	}
	return true, nil
}

// TestByHash is the ring's read path: it reports whether any
// sub-filter currently in the ring may have seen h.
func (r *Rotating) TestByHash(h uint64) bool {
	for _, bf := range r.blooms {
		if bf.TestByHash(h) {
			return true
		}
	}
	return false
}

// Blooms returns the ring's current sub-filters, oldest first. The
// returned slice aliases Rotating's internal state and must not be
// mutated.
func (r *Rotating) Blooms() []*Filter {
	return r.blooms
}
