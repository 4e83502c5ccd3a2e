package stdvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bytescript/value"
)

func TestUnitIsUnit(t *testing.T) {
	v, err := Factory{}.Unit()
	require.NoError(t, err)
	assert.True(t, v.IsUnit())
}

func TestToBoolCoercions(t *testing.T) {
	f := Factory{}

	unit, _ := f.Unit()
	_, err := unit.ToBool()
	assert.Error(t, err)

	trueBool, _ := f.Bool(true)
	b, err := trueBool.ToBool()
	require.NoError(t, err)
	assert.True(t, b)

	nonZero, _ := f.Integer(5)
	b, err = nonZero.ToBool()
	require.NoError(t, err)
	assert.True(t, b)

	zero, _ := f.Integer(0)
	b, err = zero.ToBool()
	require.NoError(t, err)
	assert.False(t, b)

	nan, _ := f.Float(nanValue())
	b, err = nan.ToBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestToSizeRejectsNegative(t *testing.T) {
	f := Factory{}
	neg, _ := f.Integer(-1)
	_, err := neg.ToSize()
	assert.Error(t, err)

	pos, _ := f.Integer(3)
	size, err := pos.ToSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), size)
}

func TestArrayIndexIntoSharesCellIdentity(t *testing.T) {
	f := Factory{}
	elemVal, _ := f.Integer(10)
	cell := value.NewCell(elemVal)
	arr, err := f.Array([]*value.Cell{cell})
	require.NoError(t, err)

	fetched, err := arr.IndexInto(0)
	require.NoError(t, err)
	assert.Same(t, cell, fetched)

	_, err = arr.IndexInto(1)
	assert.Error(t, err)
}

func TestRangeIterYieldsAscendingValuesThenExhausts(t *testing.T) {
	f := Factory{}
	r, err := f.Range(5, 3)
	require.NoError(t, err)

	for i, want := range []int64{5, 6, 7} {
		cell, ok, err := r.Iter(uint64(i))
		require.NoError(t, err)
		require.True(t, ok)
		got := cell.Get().(Value)
		assert.Equal(t, want, got.intVal)
	}

	_, ok, err := r.Iter(3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRangeRejectsNegativeLength(t *testing.T) {
	_, err := Factory{}.Range(0, -1)
	assert.Error(t, err)
}

func TestArrayIterStopsAtLength(t *testing.T) {
	f := Factory{}
	oneVal, _ := f.Integer(1)
	arr, err := f.Array([]*value.Cell{value.NewCell(oneVal)})
	require.NoError(t, err)

	_, ok, err := arr.Iter(0)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = arr.Iter(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
