// Package value defines the contract a host value type must satisfy to be
// driven by the bytecode VM, and the Cell that gives stack slots and
// variable slots their shared, interior-mutable identity.
package value

import "fmt"

// Value is the contract an embedder's concrete value type must satisfy.
// A Value is a tagged sum with at minimum Unit, Bool, Integer and Float,
// plus at least one compound kind usable with Index/Iter. Values are
// expected to be cheap to clone by convention - compound payloads should
// share storage rather than deep-copy.
type Value interface {
	// IsUnit reports whether this value is the Unit variant.
	IsUnit() bool

	// ToBool coerces this value to a boolean: Bool returns itself,
	// Integer returns v != 0, Float returns !NaN && v != 0.0. Other
	// variants may fail.
	ToBool() (bool, error)

	// ToSize coerces this value to a non-negative index. Only Integer
	// variants (or the host's integer-like kind) need succeed.
	ToSize() (uint64, error)

	// IndexInto returns the element at index i of an array-like compound,
	// as a Cell shared with the compound's own storage - mutating the
	// returned Cell mutates the container in place. Out-of-range
	// indices fail.
	IndexInto(i uint64) (*Cell, error)

	// Iter returns the element at position i of an iterable value and
	// whether one exists; false, nil means iteration is exhausted. It
	// must be deterministic across calls with the same i.
	Iter(i uint64) (*Cell, bool, error)
}

// Factory constructs host Values from the primitive and compound kinds the
// compiler's constant-bearing opcodes decode to. It is supplied to the VM
// alongside a Registry so the core never needs to know the concrete host
// value type.
type Factory interface {
	Unit() (Value, error)
	Bool(v bool) (Value, error)
	Integer(v int64) (Value, error)
	Float(v float64) (Value, error)
	Char(v rune) (Value, error)
	String(v string) (Value, error)
	Array(elems []*Cell) (Value, error)
	Range(start, length int64) (Value, error)
}

// Cell is a shared, interior-mutable container for a Value. It is the
// unit of identity that unifies "value on the operand stack" and
// "reference into a variable slot": two Cells pointers being equal means
// the same storage location, so assignment through one is observed
// through the other.
type Cell struct {
	value Value
}

// NewCell wraps v in a freshly allocated Cell.
func NewCell(v Value) *Cell {
	return &Cell{value: v}
}

// Get returns the Cell's current value.
func (c *Cell) Get() Value {
	return c.value
}

// Set overwrites the Cell's value in place - every other reference to this
// Cell observes the new value immediately.
func (c *Cell) Set(v Value) {
	c.value = v
}

// Clone returns a new, independent Cell holding the same Value, for
// callers that need a copy rather than an alias.
func (c *Cell) Clone() *Cell {
	return NewCell(c.value)
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell(%v)", c.value)
}
