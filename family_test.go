package bloomap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFamilyInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewFamily(0, 4) })
	assert.Panics(t, func() { NewFamily(100, 0) })
}

func TestNewFamilyCompsizeIsPow2(t *testing.T) {
	t.Parallel()

	f := NewFamily(1000, 3)
	// compsize = nextPow2(ceil(1000/3)) = nextPow2(334) = 512
	assert.Equal(t, uint32(512), f.compsize)
	assert.Equal(t, uint(32-9), f.compsizeShift)
}

func TestNewFamilyOptimized(t *testing.T) {
	t.Parallel()

	f := NewFamilyOptimized(Config{NKeys: 5000, FPRate: 0.001})
	require.NotNil(t, f)
	assert.Greater(t, f.m, uint32(0))
	assert.Greater(t, f.k, uint32(0))
}

func TestFamilyEnsureCoeffsMemoized(t *testing.T) {
	t.Parallel()

	f := NewFamily(1024, 4)
	m1 := f.NewMap()
	a1 := append([]uint32(nil), f.coeffsA...)

	m2 := f.NewMap()
	assert.Equal(t, a1, f.coeffsA, "coefficients are generated once and shared")
	assert.Same(t, &f.coeffsA[0], &m1.coeffsA[0])
	assert.Equal(t, m1.coeffsA, m2.coeffsA)
}

func TestFamilyRecordGrowsGhostMonotonically(t *testing.T) {
	t.Parallel()

	f := NewFamily(1024, 4)
	assert.Equal(t, 0, len(f.ghost))

	f.record(40) // ip = 40>>6 = 0
	assert.Equal(t, 1, len(f.ghost))

	f.record(1000) // ip = 1000>>6 = 15
	assert.Equal(t, 16, len(f.ghost))

	f.record(5) // ip = 0, should not shrink
	assert.Equal(t, 16, len(f.ghost))
}

func TestFamilyCandidatesRoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFamily(1024, 4)
	m := f.NewMap()

	want := []uint32{100, 228, 356, 900}
	for _, e := range want {
		m.Add(e)
	}

	got := map[uint32]bool{}
	for _, e := range want {
		h := e >> ghostCondensedBits & (uint32(1)<<f.indexLogBits - 1)
		it := f.candidates(h)
		for it.valid() {
			got[it.value()] = true
			it.advance()
		}
	}
	for _, e := range want {
		assert.True(t, got[e], "candidates should surface %d", e)
	}
}

func TestFamilyDump(t *testing.T) {
	t.Parallel()

	f := NewFamily(1024, 4)
	f.NewMap()

	var sb strings.Builder
	f.Dump(&sb)
	assert.Contains(t, sb.String(), "Family:")
	assert.Contains(t, sb.String(), "maps=1")
}
