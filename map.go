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

import (
	"fmt"
	"io"
	"math/bits"
)

// specialsBits is the width of the small-integer fast path: elements
// below this value bypass hashing entirely and are stored only in
// specials, so they always test positive or negative exactly.
const specialsBits = 32

// A Map is a compartmented Bloom filter bound to a Family. It supports
// the usual Bloom filter operations (Add, Contains, Clear) plus exact
// set algebra (Union, Intersect, Equal) and approximate enumeration
// (Iter) of the elements it has been given, by consulting its Family's
// ghost index.
//
// A Map is not safe for concurrent use.
type Map struct {
	bits          *bitMatrix
	specials      uint32
	sideIndex     []uint64
	indexLogBits  uint32
	compsizeShift uint

	coeffsA []uint32
	coeffsB []uint32

	// family is nil for a detached map (see SplitFamily). A detached map
	// still supports Add and Contains, but not Iter or Purge.
	family *Family
}

// newSideIndex allocates a zeroed side index wide enough to address
// 2^indexLogBits buckets.
func newSideIndex(indexLogBits uint32) []uint64 {
	bitsLen := uint64(1) << indexLogBits
	words := (bitsLen + wordBits - 1) / wordBits
	return make([]uint64, words)
}

// hash computes h_comp(e) = (e*a_comp + b_comp) >> compsizeShift, the
// single hash function assigned to compartment comp. Overflow in the
// multiply-add is intended: it is simply modular arithmetic over the
// 32-bit hash space.
func (m *Map) hash(e uint32, comp int) uint32 {
	h := e*m.coeffsA[comp] + m.coeffsB[comp]
	return h >> m.compsizeShift
}

// Add inserts e into m and reports whether m changed as a result. If m
// is attached to a family, the family's ghost index and this map's side
// index are updated too.
func (m *Map) Add(e uint32) bool {
	if e < specialsBits {
		mask := uint32(1) << e
		changed := m.specials&mask == 0
		m.specials |= mask
		return changed
	}

	if m.family != nil {
		h := m.family.record(e)
		wordIdx := h / wordBits
		m.sideIndex[wordIdx] |= uint64(1) << (h % wordBits)
	}

	var changed bool
	for comp := 0; comp < m.bits.k; comp++ {
		if m.bits.set(comp, m.hash(e, comp)) {
			changed = true
		}
	}
	return changed
}

// Union ORs other's specials, bits and side index into m in place and
// reports whether m changed. m and other must share the same shape and,
// if both are attached, the same family.
func (m *Map) Union(other *Map) bool {
	m.checkCompatible(other)

	changed := m.specials&other.specials != other.specials
	m.specials |= other.specials

	if m.bits.orWith(other.bits) {
		changed = true
	}
	if orWords(m.sideIndex, other.sideIndex) {
		changed = true
	}
	return changed
}

// OrFrom is equivalent to Union, except that it does not bother to
// compute whether m changed — useful when the caller already knows it
// doesn't care. m and other must be distinct maps.
func (m *Map) OrFrom(other *Map) *Map {
	if m == other {
		panic("bloomap: OrFrom requires two distinct maps")
	}
	m.Union(other)
	return m
}

// Contains reports whether e may have been added to m. It never returns
// a false negative, but may return a false positive.
func (m *Map) Contains(e uint32) bool {
	if e < specialsBits {
		return m.specials&(uint32(1)<<e) != 0
	}
	for comp := 0; comp < m.bits.k; comp++ {
		if !m.bits.get(comp, m.hash(e, comp)) {
			return false
		}
	}
	return true
}

// Clear resets m to its empty state. The family and its ghost index are
// left untouched — the ghost never shrinks.
func (m *Map) Clear() {
	m.bits.clearAll()
	m.specials = 0
	for i := range m.sideIndex {
		m.sideIndex[i] = 0
	}
}

// Intersect sets m to the (approximate) intersection of m and other and
// returns m. Because both operands are probabilistic, the result may
// believe in elements neither one truly contained; see Purge.
func (m *Map) Intersect(other *Map) *Map {
	m.checkCompatible(other)

	m.specials &= other.specials
	m.bits.andWith(other.bits)
	for i := range m.sideIndex {
		m.sideIndex[i] &= other.sideIndex[i]
	}
	return m
}

// IsIntersectionEmpty optimistically tests whether m and other share no
// members, without mutating either. A true result is conservative (the
// sets are genuinely disjoint or one side's filter proves it); a false
// result may itself be a false positive.
func (m *Map) IsIntersectionEmpty(other *Map) bool {
	m.checkCompatible(other)

	if m.specials&other.specials != 0 {
		return false
	}

	wpc := m.bits.wordsPerComp
	for c := 0; c < m.bits.k; c++ {
		start := c * wpc
		empty := true
		for i := 0; i < wpc; i++ {
			if m.bits.words[start+i]&other.bits.words[start+i] != 0 {
				empty = false
				break
			}
		}
		if empty {
			return true
		}
	}
	return false
}

// IsEmpty reports whether m's represented set is provably empty: true
// iff specials is zero and at least one compartment is entirely clear.
// A single all-zero compartment is sufficient, since every compartment
// must agree for Contains to return true.
func (m *Map) IsEmpty() bool {
	if m.specials != 0 {
		return false
	}
	for c := 0; c < m.bits.k; c++ {
		if !m.bits.anySetInCompartment(c) {
			return true
		}
	}
	return false
}

// Popcount returns the number of set bits in m, across specials and
// every compartment.
func (m *Map) Popcount() uint32 {
	return uint32(bits.OnesCount32(m.specials)) + m.bits.popcount()
}

// SplitFamily detaches m from its family irreversibly. Add and Contains
// continue to work afterwards, but Iter and Purge no longer do, since
// both depend on the family's ghost index.
func (m *Map) SplitFamily() {
	m.family = nil
}

// Clone returns an independent copy of m, including its side index and
// family reference (but sharing the underlying hash coefficient arena,
// which never mutates).
func (m *Map) Clone() *Map {
	sideIndex := make([]uint64, len(m.sideIndex))
	copy(sideIndex, m.sideIndex)

	return &Map{
		bits:          m.bits.clone(),
		specials:      m.specials,
		sideIndex:     sideIndex,
		indexLogBits:  m.indexLogBits,
		compsizeShift: m.compsizeShift,
		coeffsA:       m.coeffsA,
		coeffsB:       m.coeffsB,
		family:        m.family,
	}
}

// Equal reports whether m and other are the same family, shape,
// specials and bits. Side indices are a navigational hint, not content,
// and are excluded from the comparison.
func (m *Map) Equal(other *Map) bool {
	if other == nil {
		return false
	}
	if m == other {
		return true
	}
	if m.family != other.family {
		return false
	}
	if m.specials != other.specials {
		return false
	}
	return m.bits.equal(other.bits)
}

// Purge rebuilds m from its own iterator stream: it clears m, then
// re-adds every element snapshot.Iter yields that snapshot.Contains
// still accepts. This sheds false positives inherited from a prior
// Intersect, though it cannot reduce the false positive rate to zero —
// ghost candidates that pass the filter but were never true members of
// m survive.
func (m *Map) Purge() {
	if m.family == nil {
		panic("bloomap: cannot purge a detached map")
	}

	snapshot := m.Clone()
	m.Clear()

	it := snapshot.Iter()
	for it.Next() {
		e := it.Value()
		if snapshot.Contains(e) {
			m.Add(e)
		}
	}
}

// checkCompatible panics if m and other cannot be combined: different
// shapes, or different (non-nil) families. These are all programmer
// errors, per the package's error-handling design.
func (m *Map) checkCompatible(other *Map) {
	if !m.bits.sameShape(other.bits) {
		panic("bloomap: maps have different shapes")
	}
	if m.family != nil && other.family != nil && m.family != other.family {
		panic("bloomap: maps belong to different families")
	}
}

// orWords ORs src into dst in place and reports whether any bit was
// newly introduced.
func orWords(dst, src []uint64) (changed bool) {
	for i, w := range src {
		if dst[i]&w != w {
			changed = true
			dst[i] |= w
		}
	}
	return changed
}

// Dump writes a human-readable summary of m to w, mirroring the original
// project's Bloomap::dump/dumpStats diagnostics.
func (m *Map) Dump(w io.Writer) {
	fmt.Fprintf(w, "Map: compartments=%d specials=%#x popcount=%d empty=%v\n",
		m.bits.k, m.specials, m.Popcount(), m.IsEmpty())
}
