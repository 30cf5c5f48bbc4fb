package bloomap_test

import (
	"fmt"

	"github.com/Krakonos/Bloomap"
)

// ExampleNewFamilyOptimized builds a family sized for ten thousand tags at
// a one percent false positive rate, and two maps drawn from it.
func ExampleNewFamilyOptimized() {
	family := bloomap.NewFamilyOptimized(bloomap.Config{
		NKeys:  10000,
		FPRate: 0.01,
	})

	urgent := family.NewMap()
	urgent.Add(42)

	fmt.Println(urgent.Contains(42))
	fmt.Println(urgent.Contains(43))
	// Output:
	// true
	// false
}

// Example demonstrates Union and Intersect across two maps from the same
// family.
func Example() {
	family := bloomap.NewFamily(4096, 4)

	backend := family.NewMap()
	backend.Add(1)
	backend.Add(2)

	frontend := family.NewMap()
	frontend.Add(2)
	frontend.Add(3)

	both := backend.Clone()
	both.Union(frontend)

	shared := backend.Clone()
	shared.Intersect(frontend)

	fmt.Println(both.Contains(1), both.Contains(3))
	fmt.Println(shared.Contains(2))
	// Output:
	// true true
	// true
}
