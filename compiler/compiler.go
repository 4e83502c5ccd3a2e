// Package compiler lowers the AST to a flat, linear bytecode.Program: a
// single-pass visitor that emits directly, backpatching jump operands
// once their targets are known - generalised from one hardcoded operator
// set to an arbitrary function registry, and from a two-tier
// local/global variable model to a single flat stack of variable-name
// slots.
package compiler

import (
	"fmt"
	"math"

	"bytescript/ast"
	"bytescript/bytecode"
	"bytescript/registry"
)

// loopFrame accumulates the positions of break and continue jumps emitted
// inside one loop body. Each loop gets its own frame: a break or continue
// patches against the innermost enclosing loop only.
type loopFrame struct {
	breakPositions    []int
	continuePositions []int
}

// Compiler walks a statement list and produces a bytecode.Program. It is
// not safe for concurrent use, and a single instance should compile at
// most one program.
type Compiler struct {
	registry *registry.Registry

	code      bytecode.Instructions
	constants []bytecode.Literal

	// variables is the flat, single-tier stack of declared variable names.
	// A name's slot is its index in this slice at declaration time;
	// lookups scan from the end so the most recently declared shadowing
	// name wins.
	variables []string
	// maxVariableCount is the high-water mark of len(variables) ever
	// reached. Scopes truncate the slice, so a later sibling scope reuses
	// the slot indices of an earlier one. The value is not stored in the
	// Program; the VM derives its slot count from the bytecode in
	// preflight.
	maxVariableCount int

	loops []loopFrame
	// danglingBreaks/danglingContinues collect break/continue positions
	// emitted with no enclosing loop in scope; any left over once the
	// whole program has been walked is a compile error.
	danglingBreaks    []int
	danglingContinues []int
}

// New creates a Compiler that resolves operator and call-site names
// against reg.
func New(reg *registry.Registry) *Compiler {
	return &Compiler{registry: reg}
}

// Compile lowers statements into a bytecode.Program. Any SemanticError or
// DeveloperError raised while walking the tree is recovered here and
// returned as err rather than propagating as a panic.
func (c *Compiler) Compile(statements []ast.Stmt) (prog bytecode.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *SemanticError:
				err = v
			case *DeveloperError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	for _, stmt := range statements {
		c.emitStmt(stmt)
	}

	if len(c.danglingBreaks) > 0 || len(c.danglingContinues) > 0 {
		c.fail("break or continue statement outside of a loop")
	}

	// Strip the single trailing PopStack, unless it is the PopStack a Var
	// declaration always emits after its VarInit: VarInit only peeks the
	// stack (so a variable slot and its initializing stack cell can share
	// identity), so if this PopStack were stripped too, the initializer's
	// value would be left dangling on top of the stack with nothing left
	// to pop it - and the VM's end-of-program fallback would return that
	// leftover cell instead of Unit. Leaving this particular PopStack in
	// place keeps a trailing Var declaration's result Unit, as it must be.
	if last, prev := lastTwoInstructionStarts(c.code); last >= 0 && bytecode.Opcode(c.code[last]) == bytecode.OpPopStack {
		precededByVarInit := prev >= 0 && bytecode.Opcode(c.code[prev]) == bytecode.OpVarInit
		if !precededByVarInit {
			c.code = c.code[:last]
		}
	}

	c.foldJumps()

	return bytecode.Program{Code: c.code, Constants: c.constants}, nil
}

// emitStmt and emitExpr just dispatch through Accept; Compiler implements
// both ast.StmtVisitor and ast.ExpressionVisitor.
func (c *Compiler) emitStmt(s ast.Stmt) { s.Accept(c) }
func (c *Compiler) emitExpr(e ast.Expression) { e.Accept(c) }

func (c *Compiler) fail(format string, args ...any) {
	panic(&SemanticError{Message: fmt.Sprintf(format, args...)})
}

func (c *Compiler) devFail(format string, args ...any) {
	panic(&DeveloperError{Message: fmt.Sprintf(format, args...)})
}

func (c *Compiler) currentPos() int { return len(c.code) }

// emit appends one instruction and returns the position it starts at.
func (c *Compiler) emit(op bytecode.Opcode, operands ...uint64) int {
	pos := c.currentPos()
	ins, err := bytecode.MakeInstruction(op, operands...)
	if err != nil {
		c.devFail("%s", err)
	}
	c.code = append(c.code, ins...)
	return pos
}

// emitPlaceholder emits a jump-family instruction with operand 0, to be
// backpatched once its real target is known.
func (c *Compiler) emitPlaceholder(op bytecode.Opcode) int {
	return c.emit(op, 0)
}

func (c *Compiler) patch(pos int, target int) {
	if err := bytecode.PatchOperandAt(c.code, pos, 0, uint64(target)); err != nil {
		c.devFail("%s", err)
	}
}

func (c *Compiler) patchOperand(pos int, operandIndex int, target int) {
	if err := bytecode.PatchOperandAt(c.code, pos, operandIndex, uint64(target)); err != nil {
		c.devFail("%s", err)
	}
}

func (c *Compiler) addConstant(lit bytecode.Literal) int {
	c.constants = append(c.constants, lit)
	return len(c.constants) - 1
}

// declareVariable appends name to the flat variable stack and returns its
// slot, bumping the watermark used for the VM's slot count.
func (c *Compiler) declareVariable(name string) int {
	c.variables = append(c.variables, name)
	slot := len(c.variables) - 1
	if len(c.variables) > c.maxVariableCount {
		c.maxVariableCount = len(c.variables)
	}
	return slot
}

// resolveVariable scans from the most recently declared name backwards,
// so an inner shadowing declaration wins over an outer one with the same
// name.
func (c *Compiler) resolveVariable(name string) (int, bool) {
	for i := len(c.variables) - 1; i >= 0; i-- {
		if c.variables[i] == name {
			return i, true
		}
	}
	return 0, false
}

// beginScope returns a mark that endScope truncates back to once the
// scope's statements have been emitted, dropping any variables the scope
// declared.
func (c *Compiler) beginScope() int { return len(c.variables) }

func (c *Compiler) endScope(mark int) { c.variables = c.variables[:mark] }

func (c *Compiler) resolveFunction(name string) (int, bool) {
	return c.registry.Resolve(name)
}

func (c *Compiler) pushLoop() { c.loops = append(c.loops, loopFrame{}) }

func (c *Compiler) popLoop() loopFrame {
	n := len(c.loops)
	frame := c.loops[n-1]
	c.loops = c.loops[:n-1]
	return frame
}

// recordBreakOrContinue files pos against the innermost loop frame, or the
// dangling list when no loop is currently open.
func (c *Compiler) recordBreakOrContinue(pos int, isBreak bool) {
	if len(c.loops) == 0 {
		if isBreak {
			c.danglingBreaks = append(c.danglingBreaks, pos)
		} else {
			c.danglingContinues = append(c.danglingContinues, pos)
		}
		return
	}
	top := &c.loops[len(c.loops)-1]
	if isBreak {
		top.breakPositions = append(top.breakPositions, pos)
	} else {
		top.continuePositions = append(top.continuePositions, pos)
	}
}

// validateLiteral rejects a range literal with negative length, including
// inside nested arrays, at compile time rather than deferring to the VM.
func (c *Compiler) validateLiteral(lit bytecode.Literal) {
	if lit.Kind == bytecode.LiteralRange && lit.RangeLen < 0 {
		c.fail("range literal has negative length %d", lit.RangeLen)
	}
	for _, elem := range lit.Array {
		c.validateLiteral(elem)
	}
}

// lastTwoInstructionStarts returns the byte offsets the final instruction
// in code begins at, and the one before it - either is -1 if no such
// instruction exists. Unlike indexing the final bytes directly, this
// decodes the stream so a multi-byte operand can never be mistaken for
// the opcode byte of a following (nonexistent) instruction.
func lastTwoInstructionStarts(code bytecode.Instructions) (last, prev int) {
	offset := 0
	last, prev = -1, -1
	for offset < len(code) {
		_, _, width, err := bytecode.ReadOperands(code, offset)
		if err != nil {
			return last, prev
		}
		prev = last
		last = offset
		offset += width
	}
	return last, prev
}

// foldJumps resolves every jump-family target (and Iter's end operand) to
// the final instruction in its jump chain, so the VM never has to follow
// a Jump-to-a-Jump at run time.
func (c *Compiler) foldJumps() {
	offset := 0
	for offset < len(c.code) {
		op, operands, width, err := bytecode.ReadOperands(c.code, offset)
		if err != nil {
			return
		}
		switch op {
		case bytecode.OpJump, bytecode.OpJumpIfTrue, bytecode.OpJumpIfFalse, bytecode.OpJumpIfNotNull:
			c.patchOperand(offset, 0, c.traceJump(int(operands[0])))
		case bytecode.OpIter:
			c.patchOperand(offset, 3, c.traceJump(int(operands[3])))
		}
		offset += width
	}
}

// traceJump follows a chain of Jump instructions to its final target. It
// stops at a Jump whose target is itself (the shape an empty infinite loop
// compiles to). A target beyond the end of the code, left behind when the
// trailing PopStack was stripped, is clamped to the end.
func (c *Compiler) traceJump(pos int) int {
	for {
		if pos > len(c.code) {
			return len(c.code)
		}
		if pos < 0 || pos == len(c.code) {
			return pos
		}
		op, operands, _, err := bytecode.ReadOperands(c.code, pos)
		if err != nil || op != bytecode.OpJump {
			return pos
		}
		next := int(operands[0])
		if next == pos {
			return pos
		}
		pos = next
	}
}

// floatBits exists only so expressions.go doesn't need a math import of
// its own for the one conversion it performs.
func floatBits(v float64) uint64 { return math.Float64bits(v) }
