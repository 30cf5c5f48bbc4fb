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
	"math/rand"
)

// ghostCondensedBits is the number of low-order bits of an element folded
// into a single ghost word; the ghost stores 64 such bits per major index,
// matching the 64-bit word used everywhere else in this package.
const ghostCondensedBits = 6

// A Family holds the parameters and hash coefficients shared by a group
// of related Maps, plus the ghost index: a family-wide record of every
// element ever inserted into any of its Maps, dense enough to reconstruct
// those elements during iteration.
//
// A Family must outlive every Map created from it. Maps hold a
// non-owning reference back to their Family; the Family's own maps slice
// is for bookkeeping only (Dump uses it) and never written to by a Map.
type Family struct {
	m, k         uint32
	compsize     uint32
	compsizeShift uint
	indexLogBits uint32

	coeffsA []uint32
	coeffsB []uint32
	rng     *rand.Rand

	ghost []uint64 // grows monotonically, never shrinks

	maps []*Map // informational only
}

// NewFamilyOptimized computes m and k from a target element count and
// false-positive probability and constructs the resulting Family. It is
// the equivalent of the original project's BloomapFamily::forElementsAndProb.
func NewFamilyOptimized(cfg Config) *Family {
	m, k := deriveParams(cfg)
	return NewFamily(m, k)
}

// NewFamily constructs a Family directly from a bit budget m and a
// compartment count k, the equivalent of
// BloomapFamily::forSizeAndFunctions. Both must be at least 1.
func NewFamily(m, k uint32) *Family {
	if m == 0 {
		panic("bloomap: m must be at least 1")
	}
	if k == 0 {
		panic("bloomap: k must be at least 1")
	}

	compsize := nextPow2(ceilDiv(m, k))
	if compsize == 0 {
		compsize = 1
	}

	return &Family{
		m:             m,
		k:             k,
		compsize:      compsize,
		compsizeShift: 32 - log2OfPow2(compsize),
		indexLogBits:  ceilLog2(m),
		rng:           rand.New(rand.NewSource(1)),
	}
}

// NewMap returns a fresh Map bound to f. f remembers the map for
// bookkeeping (Dump) only; f never mutates the map's own bits.
func (f *Family) NewMap() *Map {
	f.ensureCoeffs()

	m := &Map{
		bits:          newBitMatrix(int(f.k), f.compsize),
		compsizeShift: f.compsizeShift,
		coeffsA:       f.coeffsA,
		coeffsB:       f.coeffsB,
		family:        f,
		indexLogBits:  f.indexLogBits,
		sideIndex:     newSideIndex(f.indexLogBits),
	}
	f.maps = append(f.maps, m)
	return m
}

// ensureCoeffs extends the shared hash-coefficient arena, if needed, so
// that it covers k pairs (one hash function per compartment). Coefficients
// are generated once and memoized; they never shrink or change, so every
// Map created from f, past or future, hashes consistently.
func (f *Family) ensureCoeffs() {
	for uint32(len(f.coeffsA)) < f.k {
		a := uint32(f.rng.Uint32())
		for a == 0 {
			a = uint32(f.rng.Uint32())
		}
		f.coeffsA = append(f.coeffsA, a)
		f.coeffsB = append(f.coeffsB, uint32(f.rng.Uint32()))
	}
}

// record is the single point of contact between a Map insertion and the
// family: it folds e into the ghost index and returns the family hash —
// the side-index bucket the calling Map must light up.
func (f *Family) record(e uint32) uint32 {
	ip := e >> ghostCondensedBits
	minor := e & 0x3F

	if uint32(len(f.ghost)) <= ip {
		grown := make([]uint64, ip+1)
		copy(grown, f.ghost)
		f.ghost = grown
	}
	f.ghost[ip] |= uint64(1) << minor

	hashMask := uint32(1)<<f.indexLogBits - 1
	return ip & hashMask
}

// candidates returns a lazy, single-pass iterator over every element the
// family has ever recorded whose family hash equals hash. It is
// immediately exhausted if no element has ever hit that bucket.
func (f *Family) candidates(hash uint32) *candidateIter {
	it := &candidateIter{family: f, major: hash}
	it.loadWord()
	if it.word&1 == 0 {
		it.advance()
	}
	return it
}

// stride is the spacing, in major indices, between successive buckets
// that hash to the same value: buckets repeat every 2^indexLogBits major
// words.
func (f *Family) stride() uint32 {
	return uint32(1) << f.indexLogBits
}

// candidateIter walks the ghost index in strides of family.stride(),
// starting at a fixed major offset, yielding every element recorded at a
// set ghost bit.
type candidateIter struct {
	family *Family
	major  uint32
	word   uint64 // remaining bits of ghost[major], shifted so bit 0 is "next"
	minor  uint32
	atEnd  bool
}

func (it *candidateIter) loadWord() {
	g := it.family.ghost
	if it.major >= uint32(len(g)) {
		it.atEnd = true
		it.word = 0
		return
	}
	it.word = g[it.major]
	it.minor = 0
}

// advance moves to the next set bit, possibly skipping whole zero words
// of the ghost at stride granularity — critical when indexLogBits is
// large and strides are far apart. It reports whether a value is now
// available.
func (it *candidateIter) advance() bool {
	if it.atEnd {
		return false
	}

	it.word >>= 1
	it.minor++
	for it.word == 0 {
		it.major += it.family.stride()
		it.minor = 0
		if it.major >= uint32(len(it.family.ghost)) {
			it.atEnd = true
			return false
		}
		it.word = it.family.ghost[it.major]
	}

	if it.word&1 == 0 {
		shift := uint32(bits.TrailingZeros64(it.word))
		it.word >>= shift
		it.minor += shift
	}
	return true
}

// valid reports whether the iterator currently references a candidate.
func (it *candidateIter) valid() bool {
	return !it.atEnd
}

// value returns the currently referenced element. Only valid when !atEnd.
func (it *candidateIter) value() uint32 {
	return (it.major << ghostCondensedBits) | it.minor
}

// Dump writes a human-readable summary of f and its maps to w, mirroring
// the original project's dump()/dumpStats() diagnostics.
func (f *Family) Dump(w io.Writer) {
	fmt.Fprintf(w, "Family: m=%d k=%d compsize=%d index_logbits=%d maps=%d ghost_words=%d\n",
		f.m, f.k, f.compsize, f.indexLogBits, len(f.maps), len(f.ghost))
}

// Stats returns a one-line summary of f's derived parameters, for use by
// command-line tools such as cmd/bloomstat.
func (f *Family) Stats() string {
	return fmt.Sprintf(
		"m=%d k=%d compsize=%d compsize_shift=%d index_logbits=%d",
		f.m, f.k, f.compsize, f.compsizeShift, f.indexLogBits)
}
