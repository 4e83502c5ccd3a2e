// Package vm executes a bytecode.Program against a host value.Factory and
// registry.Registry. A fetch-decode-execute loop generalised from one
// hardcoded OP_CONSTANT/OP_END pair to the full opcode vocabulary, and
// from a bare []any stack to a Cell-based stack whose aliasing gives
// variables and stack slots shared identity.
package vm

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bytescript/bytecode"
	"bytescript/registry"
	"bytescript/value"
)

// VM is the runtime environment bytecode.Program values execute in. A VM
// is reusable across Run calls; each call starts with a fresh stack and
// variable slots.
type VM struct {
	registry *registry.Registry
	factory  value.Factory
	options  Options
	logger   zerolog.Logger
}

// New creates a VM that resolves FnCall operands against reg and builds
// host values through factory.
func New(reg *registry.Registry, factory value.Factory, opts Options) *VM {
	logger := log.Logger
	if !opts.Debug {
		logger = logger.Level(zerolog.Disabled)
	}
	return &VM{registry: reg, factory: factory, options: opts, logger: logger}
}

// Run executes prog to completion (a Return instruction, or falling off
// the end of the instruction stream) and returns its result value.
// initVars seeds the lowest-numbered variable slots; any slot prog
// references beyond len(initVars) starts out Unit.
func (vm *VM) Run(prog bytecode.Program, initVars []value.Value) (value.Value, error) {
	runID := newRunID()
	logger := vm.logger.With().Str("run_id", runID.String()).Logger()

	maxSlot, err := vm.preflight(prog)
	if err != nil {
		return nil, err
	}

	variables := make([]*value.Cell, maxSlot+1)
	for i := range variables {
		if i < len(initVars) {
			variables[i] = value.NewCell(initVars[i])
			continue
		}
		unit, err := vm.factory.Unit()
		if err != nil {
			return nil, &RuntimeError{Message: err.Error()}
		}
		variables[i] = value.NewCell(unit)
	}

	var stack Stack
	pos := 0
	executed := 0

	for pos < len(prog.Code) {
		op, operands, width, err := bytecode.ReadOperands(prog.Code, pos)
		if err != nil {
			return nil, &RuntimeError{Message: err.Error()}
		}

		executed++
		if vm.options.MaxInstructions > 0 && executed > vm.options.MaxInstructions {
			return nil, &RuntimeError{Message: "instruction budget exceeded"}
		}
		if vm.options.Debug {
			logger.Debug().Int("pos", pos).Str("op", op.String()).Msg("exec")
		}

		advance := true

		switch op {
		case bytecode.OpDynamicConstant:
			v, err := literalToValue(vm.factory, prog.Constants[operands[0]])
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpUnitConstant:
			v, err := vm.factory.Unit()
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpBoolConstant:
			v, err := vm.factory.Bool(operands[0] != 0)
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpIntegerConstant:
			v, err := vm.factory.Integer(int64(operands[0]))
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpFloatConstant:
			v, err := vm.factory.Float(math.Float64frombits(operands[0]))
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpCharConstant:
			v, err := vm.factory.Char(rune(int32(uint32(operands[0]))))
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpStringConstant:
			v, err := vm.factory.String(prog.Constants[operands[0]].Str)
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpInterpolatedString:
			return nil, &RuntimeError{Message: "string interpolation not supported yet"}

		case bytecode.OpConstructArray:
			elems := stack.PopN(int(operands[0]))
			v, err := vm.factory.Array(elems)
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack.Push(value.NewCell(v))

		case bytecode.OpVariable:
			stack.Push(variables[operands[0]])

		case bytecode.OpFnCall:
			fnID, argc := int(operands[0]), int(operands[1])
			args := stack.PopN(argc)
			result, err := vm.registry.Invoke(fnID, args)
			if err != nil {
				return nil, &RuntimeError{Message: fmt.Sprintf("[run %s] %s", runID, err.Error())}
			}
			stack.Push(result)

		case bytecode.OpJump:
			pos = int(operands[0])
			advance = false

		case bytecode.OpJumpIfTrue, bytecode.OpJumpIfFalse, bytecode.OpJumpIfNotNull:
			cell, ok := stack.Pop()
			if !ok {
				return nil, &RuntimeError{Message: "missing value to test for conditional jump"}
			}
			var branch bool
			switch op {
			case bytecode.OpJumpIfTrue:
				branch, err = cell.Get().ToBool()
			case bytecode.OpJumpIfFalse:
				var truthy bool
				truthy, err = cell.Get().ToBool()
				branch = !truthy
			case bytecode.OpJumpIfNotNull:
				branch = !cell.Get().IsUnit()
			}
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			if branch {
				pos = int(operands[0])
				advance = false
			}

		case bytecode.OpVarInit:
			cell, ok := stack.Peek()
			if !ok {
				return nil, &RuntimeError{Message: "missing value to initialise variable"}
			}
			variables[operands[0]] = cell

		case bytecode.OpIndex:
			idxCell, ok := stack.Pop()
			if !ok {
				return nil, &RuntimeError{Message: "missing index value"}
			}
			idx, err := idxCell.Get().ToSize()
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			top, ok := stack.Peek()
			if !ok {
				return nil, &RuntimeError{Message: "missing value to index into"}
			}
			elemCell, err := top.Get().IndexInto(idx)
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			stack[len(stack)-1] = elemCell

		case bytecode.OpIter:
			rangeSlot, indexSlot, varSlot, end := operands[0], operands[1], operands[2], operands[3]
			idx, err := variables[indexSlot].Get().ToSize()
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			cell, ok, err := variables[rangeSlot].Get().Iter(idx)
			if err != nil {
				return nil, &RuntimeError{Message: err.Error()}
			}
			if ok {
				variables[varSlot] = cell
				next, err := vm.factory.Integer(int64(idx) + 1)
				if err != nil {
					return nil, &RuntimeError{Message: err.Error()}
				}
				variables[indexSlot] = value.NewCell(next)
			} else {
				pos = int(end)
				advance = false
			}

		case bytecode.OpReturn:
			cell, ok := stack.Pop()
			if !ok {
				return nil, &RuntimeError{Message: "missing return value"}
			}
			return cell.Get(), nil

		case bytecode.OpPopStack:
			stack.Pop()

		default:
			return nil, &RuntimeError{Message: "unknown opcode"}
		}

		if vm.options.MaxStackDepth > 0 && len(stack) > vm.options.MaxStackDepth {
			return nil, &RuntimeError{Message: "stack depth exceeded"}
		}

		if advance {
			pos += width
		}
	}

	if cell, ok := stack.Pop(); ok {
		return cell.Get(), nil
	}
	unit, err := vm.factory.Unit()
	if err != nil {
		return nil, &RuntimeError{Message: err.Error()}
	}
	return unit, nil
}

// preflight scans the whole instruction stream once before execution,
// computing the highest variable slot referenced and validating every
// FnCall's argument count against the registry.
//
// Slot usage is derived from every instruction that addresses a slot, not
// just reads: VarInit and Iter's three slot operands count alongside
// Variable, since a for-loop's hidden index/range slots are written but
// need not ever be read back through a Variable instruction. Scanning
// reads alone would under-count them.
func (vm *VM) preflight(prog bytecode.Program) (int, error) {
	maxSlot := -1
	offset := 0
	for offset < len(prog.Code) {
		op, operands, width, err := bytecode.ReadOperands(prog.Code, offset)
		if err != nil {
			return 0, &RuntimeError{Message: err.Error()}
		}
		switch op {
		case bytecode.OpVariable, bytecode.OpVarInit:
			if slot := int(operands[0]); slot > maxSlot {
				maxSlot = slot
			}
		case bytecode.OpIter:
			for _, slot := range operands[:3] {
				if int(slot) > maxSlot {
					maxSlot = int(slot)
				}
			}
		case bytecode.OpFnCall:
			fnID, argc := int(operands[0]), int(operands[1])
			if err := vm.registry.ValidateCall(fnID, argc); err != nil {
				return 0, &RuntimeError{Message: err.Error()}
			}
		}
		offset += width
	}
	if maxSlot < 0 {
		return -1, nil
	}
	return maxSlot, nil
}

// literalToValue turns a constant-pool Literal into a host Value through
// factory, recursing into array elements.
func literalToValue(factory value.Factory, lit bytecode.Literal) (value.Value, error) {
	switch lit.Kind {
	case bytecode.LiteralUnit:
		return factory.Unit()
	case bytecode.LiteralBool:
		return factory.Bool(lit.Bool)
	case bytecode.LiteralInteger:
		return factory.Integer(lit.Int)
	case bytecode.LiteralFloat:
		return factory.Float(lit.Float)
	case bytecode.LiteralChar:
		return factory.Char(lit.Char)
	case bytecode.LiteralString:
		return factory.String(lit.Str)
	case bytecode.LiteralArray:
		elems := make([]*value.Cell, len(lit.Array))
		for i, elemLit := range lit.Array {
			v, err := literalToValue(factory, elemLit)
			if err != nil {
				return nil, err
			}
			elems[i] = value.NewCell(v)
		}
		return factory.Array(elems)
	case bytecode.LiteralRange:
		return factory.Range(lit.RangeStart, lit.RangeLen)
	default:
		return nil, &RuntimeError{Message: "unknown literal kind"}
	}
}
