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
	"math/rand"
	"sync"
	"time"
)

var (
	seedMu  sync.Mutex
	seedGen = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// nextSeeds draws a fresh (s0, s1) pair from the process random
// source: two nonzero, distinct 64-bit values.
func nextSeeds() (s0, s1 uint64) {
	seedMu.Lock()
	defer seedMu.Unlock()

	for {
		s0 = seedGen.Uint64()
		s1 = seedGen.Uint64()
		if s0 != 0 && s1 != 0 && s0 != s1 {
			return s0, s1
		}
	}
}

// Derandomize scopes the process random source used for filter seed
// generation to a fixed seed, for the duration between the call and
// the invocation of the returned restore function. It mirrors the
// Python bloomfilter library's derandomize() context manager:
//
//	restore := bloomring.Derandomize(123)
//	defer restore()
//	f1, _ := bloomring.New(10, 0.1)
//
// Callers who want reproducibility without touching global state
// should instead pass Config.Seeds explicitly to NewFromConfig.
func Derandomize(seed int64) (restore func()) {
	seedMu.Lock()
	prev := seedGen
	seedGen = rand.New(rand.NewSource(seed))
	seedMu.Unlock()

	return func() {
		seedMu.Lock()
		seedGen = prev
		seedMu.Unlock()
	}
}
