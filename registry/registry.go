// Package registry implements the function registry the compiler resolves
// operator and call-site names against, and the VM invokes through.
package registry

import (
	"fmt"

	"github.com/pkg/errors"

	"bytescript/value"
)

// Callable is a registered function body: given the already-evaluated
// argument cells (which, for assignment operators, are references into
// storage rather than plain values), it returns a result cell or an
// error.
type Callable func(args []*value.Cell) (*value.Cell, error)

type entry struct {
	name     string
	fn       Callable
	minArgs  int
	maxArgs  int
}

// Registry is an add-only, read-mostly table of named callables addressed
// by index. It is built once before compilation begins and never mutated
// during a run.
type Registry struct {
	entries []entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Add registers name against fn with an inclusive [minArgs, maxArgs] arity
// range.
//
// Add rejects minArgs > maxArgs, a negative minArgs, and a name already
// registered.
func (r *Registry) Add(name string, fn Callable, minArgs, maxArgs int) error {
	if minArgs < 0 {
		return fmt.Errorf("registry: function %q has negative min arity %d", name, minArgs)
	}
	if minArgs > maxArgs {
		return fmt.Errorf("registry: function %q has min arity %d greater than max arity %d", name, minArgs, maxArgs)
	}
	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("registry: function %q already exists", name)
		}
	}
	r.entries = append(r.entries, entry{name: name, fn: fn, minArgs: minArgs, maxArgs: maxArgs})
	return nil
}

// Resolve returns the index of the entry named name, if any.
func (r *Registry) Resolve(name string) (int, bool) {
	for i, e := range r.entries {
		if e.name == name {
			return i, true
		}
	}
	return 0, false
}

// Name returns the registered name for index, for diagnostics.
func (r *Registry) Name(index int) (string, error) {
	if index < 0 || index >= len(r.entries) {
		return "", fmt.Errorf("registry: function index %d out of range", index)
	}
	return r.entries[index].name, nil
}

// ValidateCall checks that index names a registered function and that
// argc falls within its declared arity bounds. The VM calls this once per
// FnCall site during pre-flight, before execution begins, so the hot loop
// performs no arity check.
func (r *Registry) ValidateCall(index, argc int) error {
	if index < 0 || index >= len(r.entries) {
		return fmt.Errorf("registry: function index %d out of range", index)
	}
	e := r.entries[index]
	if argc < e.minArgs || argc > e.maxArgs {
		return fmt.Errorf("registry: function %q needs between %d and %d argument(s), got %d", e.name, e.minArgs, e.maxArgs, argc)
	}
	return nil
}

// Invoke calls the function at index with args. Its precondition is that
// ValidateCall already succeeded for this (index, len(args)) pair during
// pre-flight; Invoke itself does not re-check arity.
func (r *Registry) Invoke(index int, args []*value.Cell) (*value.Cell, error) {
	if index < 0 || index >= len(r.entries) {
		return nil, fmt.Errorf("registry: function index %d out of range", index)
	}
	e := r.entries[index]
	result, err := e.fn(args)
	if err != nil {
		return nil, errors.Wrapf(err, "registry: calling %q", e.name)
	}
	return result, nil
}

// Len reports how many entries are registered.
func (r *Registry) Len() int {
	return len(r.entries)
}
