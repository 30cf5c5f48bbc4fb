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

import "math"

// A Config holds parameters for NewFamilyOptimized.
type Config struct {
	// NKeys is the expected number of distinct keys in a single map of
	// the resulting family; each map's filter is sized for it.
	NKeys uint32

	// FPRate is the desired false positive probability once NKeys
	// distinct keys have been inserted into a single map.
	FPRate float64

	// Trigger the "contains filtered or unexported fields" message for
	// forward compatibility and force the caller to use named fields.
	_ struct{}
}

// deriveParams computes the total bit budget m and compartment count k
// for a family sized to hold cfg.NKeys elements at cfg.FPRate false
// positives, following the same formula as the original project's
// BloomapFamily::forElementsAndProb.
func deriveParams(cfg Config) (m, k uint32) {
	if cfg.FPRate <= 0 || cfg.FPRate >= 1 {
		panic("bloomap: false positive rate must be in (0, 1)")
	}
	n := float64(cfg.NKeys)
	if n == 0 {
		panic("bloomap: NKeys must be at least 1")
	}

	// c = -log2(p) / ln(2); m = n * ln(p) / ln(1 / 2^ln2).
	mf := math.Ceil(n * math.Log(cfg.FPRate) / math.Log(1.0/math.Pow(2.0, math.Ln2)))
	kf := math.Round(math.Ln2 * mf / n)

	if mf < 1 {
		panic("bloomap: derived bit budget m is zero; choose a larger FPRate or NKeys")
	}
	if kf < 1 {
		panic("bloomap: derived compartment count k is zero; choose a larger FPRate or NKeys")
	}

	return uint32(mf), uint32(kf)
}

// ceilDiv returns ceil(a/b) for positive a, b.
func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// nextPow2 rounds x up to the next power of two. nextPow2(0) is 1.
func nextPow2(x uint32) uint32 {
	if x <= 1 {
		return 1
	}
	p := uint32(1)
	for p < x {
		p <<= 1
	}
	return p
}

// log2OfPow2 returns log2(x) for x a power of two.
func log2OfPow2(x uint32) uint {
	var n uint
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// ceilLog2 returns the smallest il such that x <= 1<<il, matching the
// original project's round_to_log helper exactly (including its result
// of 0 for x == 0 or x == 1).
func ceilLog2(x uint32) uint32 {
	var il uint32
	for x > (uint32(1) << il) {
		il++
	}
	return il
}
