package stdvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bytescript/value"
)

func cellInt(v int64) *value.Cell {
	val, _ := Factory{}.Integer(v)
	return value.NewCell(val)
}

func cellFloat(v float64) *value.Cell {
	val, _ := Factory{}.Float(v)
	return value.NewCell(val)
}

func asInt(t *testing.T, c *value.Cell) int64 {
	t.Helper()
	v, ok := c.Get().(Value)
	require.True(t, ok)
	require.Equal(t, KindInteger, v.kind)
	return v.intVal
}

func asFloat(t *testing.T, c *value.Cell) float64 {
	t.Helper()
	v, ok := c.Get().(Value)
	require.True(t, ok)
	require.Equal(t, KindFloat, v.kind)
	return v.floatVal
}

func asBool(t *testing.T, c *value.Cell) bool {
	t.Helper()
	v, ok := c.Get().(Value)
	require.True(t, ok)
	require.Equal(t, KindBool, v.kind)
	return v.boolVal
}

func TestAddFourWayCoercion(t *testing.T) {
	r, err := add([]*value.Cell{cellInt(2), cellInt(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), asInt(t, r))

	r, err = add([]*value.Cell{cellInt(2), cellFloat(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 2.5, asFloat(t, r))

	r, err = add([]*value.Cell{cellFloat(0.5), cellInt(2)})
	require.NoError(t, err)
	assert.Equal(t, 2.5, asFloat(t, r))

	r, err = add([]*value.Cell{cellFloat(0.5), cellFloat(0.25)})
	require.NoError(t, err)
	assert.Equal(t, 0.75, asFloat(t, r))
}

func TestAddRejectsNonNumeric(t *testing.T) {
	boolVal, _ := Factory{}.Bool(true)
	_, err := add([]*value.Cell{value.NewCell(boolVal), cellInt(1)})
	assert.Error(t, err)
}

func TestDivideByZeroIntegerFails(t *testing.T) {
	_, err := divide([]*value.Cell{cellInt(4), cellInt(0)})
	assert.Error(t, err)
}

func TestDivideFloatByZeroProducesInf(t *testing.T) {
	r, err := divide([]*value.Cell{cellFloat(4), cellFloat(0)})
	require.NoError(t, err)
	assert.True(t, asFloat(t, r) > 1e300)
}

func TestModulusRejectsFloatOperands(t *testing.T) {
	_, err := modulus([]*value.Cell{cellFloat(4), cellInt(2)})
	assert.Error(t, err)
}

func TestModulusByZeroFails(t *testing.T) {
	_, err := modulus([]*value.Cell{cellInt(4), cellInt(0)})
	assert.Error(t, err)
}

func TestPowerIntegerExponent(t *testing.T) {
	r, err := power([]*value.Cell{cellInt(2), cellInt(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), asInt(t, r))
}

func TestPowerNegativeIntegerExponentProducesFloat(t *testing.T) {
	r, err := power([]*value.Cell{cellInt(2), cellInt(-1)})
	require.NoError(t, err)
	assert.Equal(t, 0.5, asFloat(t, r))
}

func TestAssignMutatesLhsCellInPlace(t *testing.T) {
	lhs := cellInt(1)
	rhs := cellInt(9)
	result, err := assign([]*value.Cell{lhs, rhs})
	require.NoError(t, err)
	assert.Same(t, lhs, result)
	assert.Equal(t, int64(9), asInt(t, lhs))
}

func TestAddAssignMutatesAndReturnsSum(t *testing.T) {
	lhs := cellInt(1)
	addAssign := compoundAssign("+=", add)
	result, err := addAssign([]*value.Cell{lhs, cellInt(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), asInt(t, lhs))
	assert.Equal(t, int64(5), asInt(t, result))
}

func TestEqualsAcrossNumericKinds(t *testing.T) {
	r, err := equals([]*value.Cell{cellInt(2), cellFloat(2.0)})
	require.NoError(t, err)
	assert.True(t, asBool(t, r))
}

func TestNotEqualsUnitAndBoolMismatchFails(t *testing.T) {
	unitVal, _ := Factory{}.Unit()
	boolVal, _ := Factory{}.Bool(true)
	_, err := notEquals([]*value.Cell{value.NewCell(unitVal), value.NewCell(boolVal)})
	assert.Error(t, err)
}

func TestOrderingOperators(t *testing.T) {
	r, err := lessThan([]*value.Cell{cellInt(1), cellFloat(1.5)})
	require.NoError(t, err)
	assert.True(t, asBool(t, r))

	r, err = greaterEqualTo([]*value.Cell{cellFloat(2.0), cellInt(2)})
	require.NoError(t, err)
	assert.True(t, asBool(t, r))
}

func TestNotOnUnitIsTrue(t *testing.T) {
	unitVal, _ := Factory{}.Unit()
	r, err := not([]*value.Cell{value.NewCell(unitVal)})
	require.NoError(t, err)
	assert.True(t, asBool(t, r))
}

func TestNotRejectsArray(t *testing.T) {
	arrVal, _ := Factory{}.Array(nil)
	_, err := not([]*value.Cell{value.NewCell(arrVal)})
	assert.Error(t, err)
}

func TestNewArrayFillsIndependentCells(t *testing.T) {
	fill, _ := Factory{}.Integer(0)
	result, err := newArray([]*value.Cell{cellInt(3), value.NewCell(fill)})
	require.NoError(t, err)

	arrVal, ok := result.Get().(Value)
	require.True(t, ok)
	require.Len(t, arrVal.arrVal, 3)

	arrVal.arrVal[0].Set(intCellValue(7))
	assert.Equal(t, int64(0), asInt(t, arrVal.arrVal[1]))
}

func intCellValue(v int64) Value {
	return Value{kind: KindInteger, intVal: v}
}

func TestStandardRegistryResolvesEveryOperator(t *testing.T) {
	reg, _, err := StandardRegistry()
	require.NoError(t, err)

	for _, name := range []string{
		"!", "+", "-", "*", "/", "%", "^",
		"=", "+=", "-=", "*=", "/=",
		"==", "!=", "<", ">", "<=", ">=",
		"new_array",
	} {
		_, ok := reg.Resolve(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
}
