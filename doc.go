// Copyright 2016 Ladislav Láska
//
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

// Package bloomap implements a probabilistic associative set: a
// compartmented Bloom filter (a Map) bound to a Family that additionally
// tracks a family-wide "ghost index" of every element ever inserted into
// any of its maps.
//
// A plain Bloom filter can answer "have I seen this element", but cannot
// enumerate what it contains. Bloomap adds that capability at the cost of
// a shared, monotonically growing side structure: the Family's ghost index
// records, for every insertion into any sibling Map, enough bits to
// reconstruct the element exactly. A Map's own side index narrows the
// ghost scan to the buckets that map ever touched, and the Map's Bloom
// filter test (Contains) filters the ghost's candidates down to the
// elements that plausibly belong to that one Map.
//
// This makes Union, Intersect and iteration over a single Map's content
// possible without ever storing the map's true membership set. Intersect
// can introduce false positives inherited from either operand; Purge
// rebuilds a Map from its own iterator stream to shed them.
//
// Maps are not safe for concurrent use, and neither is the Family they
// share: all mutation of a Family's maps must be externally serialized by
// the caller if shared across goroutines.
package bloomap
