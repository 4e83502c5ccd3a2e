package stdvalue

import (
	"fmt"
	"math"
	"sync"

	"bytescript/registry"
	"bytescript/value"
)

func asValue(c *value.Cell, label string) (Value, error) {
	v, ok := c.Get().(Value)
	if !ok {
		return Value{}, fmt.Errorf("stdvalue: %s is not a stdvalue value", label)
	}
	return v, nil
}

func boolCell(v bool) *value.Cell { return value.NewCell(Value{kind: KindBool, boolVal: v}) }
func intCell(v int64) *value.Cell { return value.NewCell(Value{kind: KindInteger, intVal: v}) }
func floatCell(v float64) *value.Cell {
	return value.NewCell(Value{kind: KindFloat, floatVal: v})
}

// not implements the "!" operator: Unit negates to true, Bool flips,
// Integer/Float negate through their truthiness.
func not(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("operator \"!\" needs 1 argument, got %d", len(args))
	}
	a, err := asValue(args[0], "operand")
	if err != nil {
		return nil, err
	}
	switch a.kind {
	case KindUnit:
		return boolCell(true), nil
	case KindBool:
		return boolCell(!a.boolVal), nil
	case KindInteger:
		return boolCell(a.intVal == 0), nil
	case KindFloat:
		return boolCell(isNaN(a.floatVal) || a.floatVal == 0.0), nil
	default:
		return nil, fmt.Errorf("operator \"!\" can not be applied to %q", a.kind)
	}
}

// numericBinary dispatches a 2-argument numeric operator across the four
// Integer/Float combinations, bailing with a descriptive message for any
// other pairing.
func numericBinary(symbol string, args []*value.Cell,
	intInt func(a, b int64) (Value, error),
	mixed func(a, b float64) (Value, error),
) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator %q needs 2 arguments, got %d", symbol, len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}

	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		res, err := intInt(a.intVal, b.intVal)
		if err != nil {
			return nil, err
		}
		return value.NewCell(res), nil
	case a.kind == KindInteger && b.kind == KindFloat:
		res, err := mixed(float64(a.intVal), b.floatVal)
		if err != nil {
			return nil, err
		}
		return value.NewCell(res), nil
	case a.kind == KindFloat && b.kind == KindInteger:
		res, err := mixed(a.floatVal, float64(b.intVal))
		if err != nil {
			return nil, err
		}
		return value.NewCell(res), nil
	case a.kind == KindFloat && b.kind == KindFloat:
		res, err := mixed(a.floatVal, b.floatVal)
		if err != nil {
			return nil, err
		}
		return value.NewCell(res), nil
	default:
		return nil, fmt.Errorf("operator %q can not be applied to %q and %q", symbol, a.kind, b.kind)
	}
}

func add(args []*value.Cell) (*value.Cell, error) {
	return numericBinary("+", args,
		func(a, b int64) (Value, error) { return Value{kind: KindInteger, intVal: a + b}, nil },
		func(a, b float64) (Value, error) { return Value{kind: KindFloat, floatVal: a + b}, nil })
}

func subtract(args []*value.Cell) (*value.Cell, error) {
	return numericBinary("-", args,
		func(a, b int64) (Value, error) { return Value{kind: KindInteger, intVal: a - b}, nil },
		func(a, b float64) (Value, error) { return Value{kind: KindFloat, floatVal: a - b}, nil })
}

func multiply(args []*value.Cell) (*value.Cell, error) {
	return numericBinary("*", args,
		func(a, b int64) (Value, error) { return Value{kind: KindInteger, intVal: a * b}, nil },
		func(a, b float64) (Value, error) { return Value{kind: KindFloat, floatVal: a * b}, nil })
}

func divide(args []*value.Cell) (*value.Cell, error) {
	return numericBinary("/", args,
		func(a, b int64) (Value, error) {
			if b == 0 {
				return Value{}, fmt.Errorf("divisor can not be zero")
			}
			return Value{kind: KindInteger, intVal: a / b}, nil
		},
		func(a, b float64) (Value, error) { return Value{kind: KindFloat, floatVal: a / b}, nil })
}

// modulus only accepts Integer/Integer, matching the host language's
// definition of "%" - mixing in a Float operand is a type error rather
// than an implicit coercion.
func modulus(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator \"%%\" needs 2 arguments, got %d", len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}
	if a.kind != KindInteger || b.kind != KindInteger {
		return nil, fmt.Errorf("operator \"%%\" can not be applied to %q and %q", a.kind, b.kind)
	}
	if b.intVal == 0 {
		return nil, fmt.Errorf("divisor can not be zero")
	}
	return intCell(a.intVal % b.intVal), nil
}

func power(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator \"^\" needs 2 arguments, got %d", len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}
	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		if b.intVal >= 0 {
			return intCell(intPow(a.intVal, b.intVal)), nil
		}
		return floatCell(math.Pow(float64(a.intVal), float64(b.intVal))), nil
	case a.kind == KindInteger && b.kind == KindFloat:
		return floatCell(math.Pow(float64(a.intVal), b.floatVal)), nil
	case a.kind == KindFloat && b.kind == KindInteger:
		return floatCell(math.Pow(a.floatVal, float64(b.intVal))), nil
	case a.kind == KindFloat && b.kind == KindFloat:
		return floatCell(math.Pow(a.floatVal, b.floatVal)), nil
	default:
		return nil, fmt.Errorf("operator \"^\" can not be applied to %q and %q", a.kind, b.kind)
	}
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func assign(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator \"=\" needs 2 arguments, got %d", len(args))
	}
	args[0].Set(args[1].Get())
	return args[0], nil
}

func compoundAssign(symbol string, op func([]*value.Cell) (*value.Cell, error)) registry.Callable {
	return func(args []*value.Cell) (*value.Cell, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("operator %q needs 2 arguments, got %d", symbol, len(args))
		}
		result, err := op(args)
		if err != nil {
			return nil, err
		}
		args[0].Set(result.Get())
		return args[0], nil
	}
}

func equalValues(a, b Value) (bool, error) {
	switch {
	case a.kind == KindUnit && b.kind == KindUnit:
		return true, nil
	case a.kind == KindBool && b.kind == KindBool:
		return a.boolVal == b.boolVal, nil
	case a.kind == KindInteger && b.kind == KindInteger:
		return a.intVal == b.intVal, nil
	case a.kind == KindInteger && b.kind == KindFloat:
		return float64(a.intVal) == b.floatVal, nil
	case a.kind == KindFloat && b.kind == KindInteger:
		return a.floatVal == float64(b.intVal), nil
	case a.kind == KindFloat && b.kind == KindFloat:
		return a.floatVal == b.floatVal, nil
	case a.kind == KindChar && b.kind == KindChar:
		return a.charVal == b.charVal, nil
	case a.kind == KindString && b.kind == KindString:
		return a.strVal == b.strVal, nil
	default:
		return false, fmt.Errorf("operator \"==\" can not be applied to %q and %q", a.kind, b.kind)
	}
}

func equals(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator \"==\" needs 2 arguments, got %d", len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}
	eq, err := equalValues(a, b)
	if err != nil {
		return nil, err
	}
	return boolCell(eq), nil
}

func notEquals(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator \"!=\" needs 2 arguments, got %d", len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}
	eq, err := equalValues(a, b)
	if err != nil {
		return nil, err
	}
	return boolCell(!eq), nil
}

func ordering(symbol string, args []*value.Cell, cmp func(a, b float64) bool) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("operator %q needs 2 arguments, got %d", symbol, len(args))
	}
	a, err := asValue(args[0], "left operand")
	if err != nil {
		return nil, err
	}
	b, err := asValue(args[1], "right operand")
	if err != nil {
		return nil, err
	}
	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		return boolCell(cmp(float64(a.intVal), float64(b.intVal))), nil
	case a.kind == KindInteger && b.kind == KindFloat:
		return boolCell(cmp(float64(a.intVal), b.floatVal)), nil
	case a.kind == KindFloat && b.kind == KindInteger:
		return boolCell(cmp(a.floatVal, float64(b.intVal))), nil
	case a.kind == KindFloat && b.kind == KindFloat:
		return boolCell(cmp(a.floatVal, b.floatVal)), nil
	default:
		return nil, fmt.Errorf("operator %q can not be applied to %q and %q", symbol, a.kind, b.kind)
	}
}

func lessThan(args []*value.Cell) (*value.Cell, error) {
	return ordering("<", args, func(a, b float64) bool { return a < b })
}
func greaterThan(args []*value.Cell) (*value.Cell, error) {
	return ordering(">", args, func(a, b float64) bool { return a > b })
}
func lessEqualTo(args []*value.Cell) (*value.Cell, error) {
	return ordering("<=", args, func(a, b float64) bool { return a <= b })
}
func greaterEqualTo(args []*value.Cell) (*value.Cell, error) {
	return ordering(">=", args, func(a, b float64) bool { return a >= b })
}

// newArray builds a fresh count-element array, each slot an independently
// owned Cell holding a clone of fill so mutating one element never leaks
// into another.
func newArray(args []*value.Cell) (*value.Cell, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("function \"new_array\" needs 2 arguments, got %d", len(args))
	}
	countVal, err := asValue(args[0], "count")
	if err != nil {
		return nil, err
	}
	if countVal.kind != KindInteger || countVal.intVal < 0 {
		return nil, fmt.Errorf("function \"new_array\" needs a non-negative integer count")
	}
	fill := args[1].Get()
	elems := make([]*value.Cell, countVal.intVal)
	for i := range elems {
		elems[i] = value.NewCell(fill)
	}
	return value.NewCell(Value{kind: KindArray, arrVal: elems}), nil
}

// Register wires the standard operator and builtin-function set into reg
// under the exact symbol names the compiler resolves "&&"/"||" aside -
// those compile directly to short-circuiting jumps and never go through
// the registry.
func Register(reg *registry.Registry) error {
	entries := []struct {
		name            string
		fn              registry.Callable
		minArgs, maxArgs int
	}{
		{"!", not, 1, 1},
		{"+", add, 2, 2},
		{"-", subtract, 2, 2},
		{"*", multiply, 2, 2},
		{"/", divide, 2, 2},
		{"%", modulus, 2, 2},
		{"^", power, 2, 2},
		{"=", assign, 2, 2},
		{"+=", compoundAssign("+=", add), 2, 2},
		{"-=", compoundAssign("-=", subtract), 2, 2},
		{"*=", compoundAssign("*=", multiply), 2, 2},
		{"/=", compoundAssign("/=", divide), 2, 2},
		{"==", equals, 2, 2},
		{"!=", notEquals, 2, 2},
		{"<", lessThan, 2, 2},
		{">", greaterThan, 2, 2},
		{"<=", lessEqualTo, 2, 2},
		{">=", greaterEqualTo, 2, 2},
		{"new_array", newArray, 2, 2},
	}
	for _, e := range entries {
		if err := reg.Add(e.name, e.fn, e.minArgs, e.maxArgs); err != nil {
			return err
		}
	}
	return nil
}

var (
	standardRegistryOnce sync.Once
	standardRegistry     *registry.Registry
	standardRegistryErr  error
)

// StandardRegistry returns a Registry pre-seeded with the standard
// operator and builtin-function set, paired with this package's Factory -
// the ready-to-run combination most callers need. The registry is built
// once per process and shared across callers: Add is the only mutator it
// exposes, and nothing here calls it again after seeding, so handing out
// the same instance is safe.
func StandardRegistry() (*registry.Registry, Factory, error) {
	standardRegistryOnce.Do(func() {
		reg := registry.New()
		standardRegistryErr = Register(reg)
		standardRegistry = reg
	})
	if standardRegistryErr != nil {
		return nil, Factory{}, standardRegistryErr
	}
	return standardRegistry, Factory{}, nil
}
