package bloomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveParams(t *testing.T) {
	t.Parallel()

	m, k := deriveParams(Config{NKeys: 10000, FPRate: 0.01})
	assert.Greater(t, m, uint32(0))
	assert.Greater(t, k, uint32(0))
	// Roughly 10 bits per key at p=0.01, give or take rounding.
	assert.InDelta(t, float64(m)/10000, 9.6, 1.0)
}

func TestDeriveParamsInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { deriveParams(Config{NKeys: 100, FPRate: 0}) })
	assert.Panics(t, func() { deriveParams(Config{NKeys: 100, FPRate: 1}) })
	assert.Panics(t, func() { deriveParams(Config{NKeys: 0, FPRate: 0.01}) })
}

func TestNextPow2(t *testing.T) {
	t.Parallel()

	cases := map[uint32]uint32{
		0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024,
	}
	for in, want := range cases {
		assert.Equal(t, want, nextPow2(in), "nextPow2(%d)", in)
	}
}

func TestCeilLog2(t *testing.T) {
	t.Parallel()

	cases := map[uint32]uint32{
		0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 1024: 10, 1025: 11,
	}
	for in, want := range cases {
		assert.Equal(t, want, ceilLog2(in), "ceilLog2(%d)", in)
	}
}

func TestLog2OfPow2(t *testing.T) {
	t.Parallel()

	cases := map[uint32]uint{
		1: 0, 2: 1, 4: 2, 1024: 10,
	}
	for in, want := range cases {
		assert.Equal(t, want, log2OfPow2(in), "log2OfPow2(%d)", in)
	}
}
