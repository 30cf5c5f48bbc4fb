// Bloomstat estimates a Bloomap family's derived parameters for a given
// element count and target false positive rate.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Krakonos/Bloomap"
)

const usage = `usage: bloomstat nkeys false-positive-rate
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	nkeys := parseUint("nkeys", os.Args[1])
	fpr := parseFloat("false positive rate", os.Args[2])

	family := bloomap.NewFamilyOptimized(bloomap.Config{
		NKeys:  uint32(nkeys),
		FPRate: fpr,
	})

	fmt.Println(family.Stats())
}

func parseUint(name, s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		log.Fatalf("%s %q: %v", name, s, err)
	}
	return v
}

func parseFloat(name, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("%s %q: %v", name, s, err)
	}
	if v <= 0 || v >= 1 {
		log.Fatalf("%s must be in (0, 1)", name)
	}
	return v
}
