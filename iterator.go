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

package bloomap

import "math/bits"

// An Iterator yields an approximate enumeration of a Map's elements, by
// walking its Family's ghost index and filtering candidates through the
// Map's own Contains. It is lazy and single-pass: use it like
// bufio.Scanner, calling Next until it returns false, reading Value in
// between.
//
// The enumeration is approximate in one direction only: every element
// ever truly added to the map is yielded exactly once (no false
// negatives), but an Iterator may also yield elements that were never
// added to this particular map, having been recorded into the shared
// ghost index by some other Map in the family and surviving this map's
// Contains test by chance (a false positive). See Purge.
//
// An Iterator becomes invalid if its Map is mutated while iteration is
// in progress; the package makes no attempt to detect this.
type Iterator struct {
	m *Map

	// specialsLeft holds the bits of m.specials not yet yielded. These
	// are exact: every one denotes a true member, and there is no
	// filtering to do. They are drained before the ghost scan starts,
	// closing a gap present in the original project (there, specials
	// below 32 were never enumerated at all).
	specialsLeft uint32

	ghostStarted bool
	currentHash  uint32
	chi          *candidateIter
	exhausted    bool

	value uint32
}

// Iter returns an Iterator over m. m must be attached to a family; a
// detached map (see Map.SplitFamily) has no ghost index to walk.
func (m *Map) Iter() *Iterator {
	if m.family == nil {
		panic("bloomap: cannot iterate a detached map")
	}
	return &Iterator{m: m, specialsLeft: m.specials}
}

// Next advances the iterator and reports whether a value is available.
// Call Value to retrieve it.
func (it *Iterator) Next() bool {
	if it.specialsLeft != 0 {
		pos := uint32(bits.TrailingZeros32(it.specialsLeft))
		it.value = pos
		it.specialsLeft &^= uint32(1) << pos
		return true
	}

	for {
		v, ok := it.rawNext()
		if !ok {
			return false
		}
		if it.m.Contains(v) {
			it.value = v
			return true
		}
	}
}

// Value returns the element made available by the most recent call to
// Next that returned true.
func (it *Iterator) Value() uint32 {
	return it.value
}

// rawNext returns the next raw candidate from the ghost scan, unfiltered
// by Contains, or false once the scan is exhausted.
func (it *Iterator) rawNext() (uint32, bool) {
	if it.exhausted {
		return 0, false
	}

	if !it.ghostStarted {
		it.ghostStarted = true
		it.currentHash = 0
		if it.m.sideIndex[0]&1 != 0 {
			it.chi = it.m.family.candidates(0)
		} else if !it.findNextHash() {
			it.exhausted = true
			return 0, false
		}
		return it.chi.value(), true
	}

	for {
		if it.chi.advance() {
			return it.chi.value(), true
		}
		if !it.findNextHash() {
			it.exhausted = true
			return 0, false
		}
		return it.chi.value(), true
	}
}

// findNextHash advances currentHash to the next side-index bucket this
// map ever touched, opening a fresh candidateIter for it. It skips whole
// zero words of the side index at once, which matters when indexLogBits
// is large and set buckets are sparse. It reports whether another bucket
// was found.
func (it *Iterator) findNextHash() bool {
	total := uint64(1) << it.m.indexLogBits
	sideIndex := it.m.sideIndex

	for {
		it.currentHash++
		if uint64(it.currentHash) >= total {
			return false
		}

		wordIdx := it.currentHash / wordBits
		bitPos := it.currentHash % wordBits

		if bitPos == 0 && sideIndex[wordIdx] == 0 {
			// Skip the whole empty word; the loop's increment on the
			// next iteration lands us exactly on the first bit of the
			// following word.
			it.currentHash += wordBits - 1
			continue
		}

		if sideIndex[wordIdx]&(uint64(1)<<bitPos) != 0 {
			it.chi = it.m.family.candidates(it.currentHash)
			return true
		}
	}
}
