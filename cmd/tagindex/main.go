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

// Tagindex demonstrates a family of per-tag Bloomaps sharing one ghost
// index. It reads "tag id" pairs from standard input (one per line, id a
// uint32 document identifier) into one Map per tag, then prints each
// tag's approximate membership and the approximate union and
// intersection of the first two tags in sorted order.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Krakonos/Bloomap"
)

func main() {
	family, tags, order := loadIndex(os.Stdin)

	log.Printf("index loaded: %s, %d tags", family.Stats(), len(tags))

	for _, tag := range order {
		m := tags[tag]
		fmt.Printf("%s: %s\n", tag, approxMembers(m))
	}

	if len(order) >= 2 {
		a, b := tags[order[0]], tags[order[1]]

		union := a.Clone()
		union.Union(b)
		fmt.Printf("%s ∪ %s: %s\n", order[0], order[1], approxMembers(union))

		inter := a.Clone()
		inter.Intersect(b)
		inter.Purge()
		fmt.Printf("%s ∩ %s: %s\n", order[0], order[1], approxMembers(inter))
	}
}

// loadIndex reads "tag id" pairs from r, sizing a single Family from the
// number of lines read and returning one Map per tag along with the
// tag names sorted by name (for deterministic output).
func loadIndex(r *os.File) (*bloomap.Family, map[string]*bloomap.Map, []string) {
	lines, err := countLines(r)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := r.Seek(0, 0); err != nil {
		log.Fatal(err)
	}

	family := bloomap.NewFamilyOptimized(bloomap.Config{
		NKeys:  uint32(lines + 1),
		FPRate: 0.01,
	})

	tags := make(map[string]*bloomap.Map)
	var order []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		tag, id, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		m, seen := tags[tag]
		if !seen {
			m = family.NewMap()
			tags[tag] = m
			order = append(order, tag)
		}
		m.Add(id)
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}

	sort.Strings(order)
	return family, tags, order
}

func countLines(r *os.File) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
	}
	return n, sc.Err()
}

func parseLine(line string) (tag string, id uint32, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, false
	}
	n, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return "", 0, false
	}
	return fields[0], uint32(n), true
}

func approxMembers(m *bloomap.Map) string {
	var ids []uint32
	it := m.Iter()
	for it.Next() {
		ids = append(ids, it.Value())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
