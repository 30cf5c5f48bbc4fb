package bloomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitMatrixSetGet(t *testing.T) {
	t.Parallel()

	b := newBitMatrix(3, 128)
	assert.False(t, b.get(0, 5))

	changed := b.set(0, 5)
	assert.True(t, changed, "first set of a clear bit reports changed")
	assert.True(t, b.get(0, 5))

	changed = b.set(0, 5)
	assert.False(t, changed, "setting an already-set bit reports unchanged")

	assert.False(t, b.get(1, 5), "compartments are independent")
	assert.False(t, b.get(0, 6), "bits are independent")
}

func TestBitMatrixClearAll(t *testing.T) {
	t.Parallel()

	b := newBitMatrix(2, 64)
	b.set(0, 1)
	b.set(1, 63)
	b.clearAll()

	assert.False(t, b.get(0, 1))
	assert.False(t, b.get(1, 63))
	assert.False(t, b.anySetInCompartment(0))
	assert.False(t, b.anySetInCompartment(1))
}

func TestBitMatrixAndOrWith(t *testing.T) {
	t.Parallel()

	a := newBitMatrix(2, 64)
	b := newBitMatrix(2, 64)

	a.set(0, 1)
	a.set(0, 2)
	b.set(0, 2)
	b.set(0, 3)

	changed := a.orWith(b)
	assert.True(t, changed)
	assert.True(t, a.get(0, 1))
	assert.True(t, a.get(0, 2))
	assert.True(t, a.get(0, 3))

	c := newBitMatrix(2, 64)
	c.set(0, 2)
	c.set(0, 3)
	c.set(0, 9)

	a.andWith(c)
	assert.True(t, a.get(0, 2))
	assert.True(t, a.get(0, 3))
	assert.False(t, a.get(0, 1), "bit absent from c is cleared by andWith")
	assert.False(t, a.get(0, 9), "bit absent from a stays clear")
}

func TestBitMatrixShapeMismatchPanics(t *testing.T) {
	t.Parallel()

	a := newBitMatrix(2, 64)
	b := newBitMatrix(3, 64)

	assert.Panics(t, func() { a.andWith(b) })
	assert.Panics(t, func() { a.orWith(b) })
}

func TestBitMatrixPopcount(t *testing.T) {
	t.Parallel()

	b := newBitMatrix(2, 128)
	require.Equal(t, uint32(0), b.popcount())

	b.set(0, 1)
	b.set(0, 100)
	b.set(1, 5)
	assert.Equal(t, uint32(3), b.popcount())
}

func TestBitMatrixCloneEqual(t *testing.T) {
	t.Parallel()

	a := newBitMatrix(2, 64)
	a.set(0, 10)
	a.set(1, 20)

	clone := a.clone()
	assert.True(t, a.equal(clone))

	clone.set(0, 11)
	assert.False(t, a.equal(clone), "clone is independent of the original")
}
