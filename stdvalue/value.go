// Package stdvalue is the reference host embedding: a concrete
// value.Value/value.Factory pair covering Unit, Bool, Integer, Float,
// Char, String, Array and Range, plus the standard operator-function set
// wired into a ready-to-use registry.Registry. It is grounded in the
// SimpleDynamicValue sample embedding, generalised with String/Char/Range
// kinds and the shared-Cell compound storage the core's Value contract
// requires.
package stdvalue

import (
	"fmt"

	"bytescript/value"
)

// Kind tags the payload a Value carries.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindChar
	KindString
	KindArray
	KindRange
)

// Value is the concrete value.Value implementation stdvalue's Factory
// produces. Array elements are shared Cells, never copied, so indexing
// into an array and mutating through the returned Cell is observed by
// every other reference to that array.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	charVal  rune
	strVal   string
	arrVal   []*value.Cell

	rangeStart int64
	rangeLen   int64
}

func (v Value) IsUnit() bool { return v.kind == KindUnit }

func (v Value) ToBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.boolVal, nil
	case KindInteger:
		return v.intVal != 0, nil
	case KindFloat:
		return !isNaN(v.floatVal) && v.floatVal != 0.0, nil
	default:
		return false, fmt.Errorf("stdvalue: cannot convert %s to bool", v.kind)
	}
}

func (v Value) ToSize() (uint64, error) {
	switch v.kind {
	case KindInteger:
		if v.intVal < 0 {
			return 0, fmt.Errorf("stdvalue: cannot convert negative integer %d to size", v.intVal)
		}
		return uint64(v.intVal), nil
	default:
		return 0, fmt.Errorf("stdvalue: cannot convert %s to size", v.kind)
	}
}

func (v Value) IndexInto(i uint64) (*value.Cell, error) {
	switch v.kind {
	case KindArray:
		if i >= uint64(len(v.arrVal)) {
			return nil, fmt.Errorf("stdvalue: index %d out of bounds (len %d)", i, len(v.arrVal))
		}
		return v.arrVal[i], nil
	default:
		return nil, fmt.Errorf("stdvalue: %s does not support indexing", v.kind)
	}
}

func (v Value) Iter(i uint64) (*value.Cell, bool, error) {
	switch v.kind {
	case KindRange:
		if int64(i) >= v.rangeLen {
			return nil, false, nil
		}
		return value.NewCell(Value{kind: KindInteger, intVal: v.rangeStart + int64(i)}), true, nil
	case KindArray:
		if i >= uint64(len(v.arrVal)) {
			return nil, false, nil
		}
		return v.arrVal[i], true, nil
	default:
		return nil, false, fmt.Errorf("stdvalue: %s is not iterable", v.kind)
	}
}

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindUnit:
		return "()"
	case KindBool:
		return fmt.Sprintf("%t", v.boolVal)
	case KindInteger:
		return fmt.Sprintf("%d", v.intVal)
	case KindFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case KindChar:
		return fmt.Sprintf("%c", v.charVal)
	case KindString:
		return v.strVal
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.arrVal))
	case KindRange:
		return fmt.Sprintf("%d..%d", v.rangeStart, v.rangeStart+v.rangeLen)
	default:
		return "<unknown>"
	}
}

func isNaN(f float64) bool { return f != f }

// Factory builds stdvalue.Value instances and satisfies value.Factory.
type Factory struct{}

func (Factory) Unit() (value.Value, error) { return Value{kind: KindUnit}, nil }

func (Factory) Bool(v bool) (value.Value, error) { return Value{kind: KindBool, boolVal: v}, nil }

func (Factory) Integer(v int64) (value.Value, error) { return Value{kind: KindInteger, intVal: v}, nil }

func (Factory) Float(v float64) (value.Value, error) { return Value{kind: KindFloat, floatVal: v}, nil }

func (Factory) Char(v rune) (value.Value, error) { return Value{kind: KindChar, charVal: v}, nil }

func (Factory) String(v string) (value.Value, error) { return Value{kind: KindString, strVal: v}, nil }

func (Factory) Array(elems []*value.Cell) (value.Value, error) {
	return Value{kind: KindArray, arrVal: elems}, nil
}

func (Factory) Range(start, length int64) (value.Value, error) {
	if length < 0 {
		return nil, fmt.Errorf("stdvalue: range has negative length %d", length)
	}
	return Value{kind: KindRange, rangeStart: start, rangeLen: length}, nil
}
