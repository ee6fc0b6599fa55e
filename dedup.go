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

import "iter"

// IdentityKey is the default key function for Dedup when the sequence
// element already is its own hash.
func IdentityKey(h uint64) uint64 { return h }

// Dedup returns a lazy sequence that yields each element of source
// whose key (as produced by key) has not yet been observed by r,
// updating r as a side effect of iteration. The output is finite iff
// source is and preserves source's order. A key is yielded the first
// time it appears while r reports it absent: a false positive in r
// suppresses it, and once the sub-filter holding it has been evicted
// from r the key is yielded again.
//
// The side effect on r happens exactly when the consumer pulls the
// next element, not eagerly: stopping iteration early (breaking out of
// a range-over-func loop) stops updating r at the same point.
//
// A construction failure inside r (sizing a fresh sub-filter) ends the
// sequence early rather than panicking; callers who need to observe
// that should call Observe directly instead of going through Dedup.
func Dedup[T any](r *Rotating, source iter.Seq[T], key func(T) uint64) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range source {
			isNew, err := r.Observe(key(v))
			if err != nil {
				return
			}
			if isNew {
				if !yield(v) {
					return
				}
			}
		}
	}
}
