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

// wordBits is the width of a single word of the bit matrix.
const wordBits = 64

// bitMatrix is a fixed-size k x compsize bit array, stored as k segments
// of wordsPerComp 64-bit words. It is the storage substrate shared by
// every Map in a Family: all compartments have the same size, so two
// matrices from the same Family always have matching shape and can be
// combined word-for-word with andWith/orWith.
type bitMatrix struct {
	words       []uint64
	k           int // number of compartments
	wordsPerComp int
}

// newBitMatrix allocates a zeroed matrix of k compartments of compsize
// bits each. compsize must already be a power of two (the caller derives
// it that way so that hash values need no modulo).
func newBitMatrix(k int, compsize uint32) *bitMatrix {
	wordsPerComp := int((uint64(compsize) + wordBits - 1) / wordBits)
	if wordsPerComp == 0 {
		wordsPerComp = 1
	}
	return &bitMatrix{
		words:        make([]uint64, k*wordsPerComp),
		k:            k,
		wordsPerComp: wordsPerComp,
	}
}

func (b *bitMatrix) index(comp int, bit uint32) (word int, mask uint64) {
	word = comp*b.wordsPerComp + int(bit/wordBits)
	mask = uint64(1) << (bit % wordBits)
	return
}

// set sets the given bit of the given compartment and reports whether it
// was previously clear.
func (b *bitMatrix) set(comp int, bit uint32) (changed bool) {
	w, mask := b.index(comp, bit)
	changed = b.words[w]&mask == 0
	b.words[w] |= mask
	return changed
}

// get reports whether the given bit of the given compartment is set.
func (b *bitMatrix) get(comp int, bit uint32) bool {
	w, mask := b.index(comp, bit)
	return b.words[w]&mask != 0
}

// clearAll zeroes every word of the matrix.
func (b *bitMatrix) clearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// sameShape reports whether b and c can be combined word-for-word.
func (b *bitMatrix) sameShape(c *bitMatrix) bool {
	return b.k == c.k && b.wordsPerComp == c.wordsPerComp
}

// andWith ANDs c into b in place. b and c must have the same shape.
func (b *bitMatrix) andWith(c *bitMatrix) {
	if !b.sameShape(c) {
		panic("bloomap: bit matrices have different shapes")
	}
	for i, w := range c.words {
		b.words[i] &= w
	}
}

// orWith ORs c into b in place and reports whether any bit was newly
// introduced. b and c must have the same shape.
func (b *bitMatrix) orWith(c *bitMatrix) (changed bool) {
	if !b.sameShape(c) {
		panic("bloomap: bit matrices have different shapes")
	}
	for i, w := range c.words {
		if b.words[i]&w != w {
			changed = true
			b.words[i] |= w
		}
	}
	return changed
}

// popcount returns the total number of set bits across the whole matrix.
func (b *bitMatrix) popcount() uint32 {
	var n uint32
	for _, w := range b.words {
		n += uint32(bits.OnesCount64(w))
	}
	return n
}

// anySetInCompartment reports whether compartment c has at least one bit
// set.
func (b *bitMatrix) anySetInCompartment(c int) bool {
	start := c * b.wordsPerComp
	for _, w := range b.words[start : start+b.wordsPerComp] {
		if w != 0 {
			return true
		}
	}
	return false
}

// clone returns an independent copy of b.
func (b *bitMatrix) clone() *bitMatrix {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &bitMatrix{words: words, k: b.k, wordsPerComp: b.wordsPerComp}
}

// equal reports whether b and c have the same shape and identical bits.
func (b *bitMatrix) equal(c *bitMatrix) bool {
	if !b.sameShape(c) {
		return false
	}
	for i, w := range b.words {
		if c.words[i] != w {
			return false
		}
	}
	return true
}
