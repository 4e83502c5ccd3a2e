package compiler

import (
	"bytescript/ast"
	"bytescript/bytecode"
)

func (c *Compiler) VisitDynamicConstant(e ast.DynamicConstant) any {
	c.validateLiteral(e.Value)
	idx := c.addConstant(e.Value)
	c.emit(bytecode.OpDynamicConstant, uint64(idx))
	return nil
}

func (c *Compiler) VisitBoolConstant(e ast.BoolConstant) any {
	var v uint64
	if e.Value {
		v = 1
	}
	c.emit(bytecode.OpBoolConstant, v)
	return nil
}

func (c *Compiler) VisitIntegerConstant(e ast.IntegerConstant) any {
	c.emit(bytecode.OpIntegerConstant, uint64(e.Value))
	return nil
}

func (c *Compiler) VisitFloatConstant(e ast.FloatConstant) any {
	c.emit(bytecode.OpFloatConstant, floatBits(e.Value))
	return nil
}

func (c *Compiler) VisitCharConstant(e ast.CharConstant) any {
	c.emit(bytecode.OpCharConstant, uint64(uint32(e.Value)))
	return nil
}

func (c *Compiler) VisitStringConstant(e ast.StringConstant) any {
	idx := c.addConstant(bytecode.StringLiteral(e.Value))
	c.emit(bytecode.OpStringConstant, uint64(idx))
	return nil
}

func (c *Compiler) VisitInterpolatedString(e ast.InterpolatedString) any {
	for _, part := range e.Parts {
		c.emitExpr(part)
	}
	c.emit(bytecode.OpInterpolatedString, uint64(len(e.Parts)))
	return nil
}

func (c *Compiler) VisitArray(e ast.Array) any {
	for _, elem := range e.Elements {
		c.emitExpr(elem)
	}
	c.emit(bytecode.OpConstructArray, uint64(len(e.Elements)))
	return nil
}

func (c *Compiler) VisitUnit(e ast.Unit) any {
	c.emit(bytecode.OpUnitConstant)
	return nil
}

func (c *Compiler) VisitVariable(e ast.Variable) any {
	slot, ok := c.resolveVariable(e.Name)
	if !ok {
		c.fail("undefined variable %q", e.Name)
	}
	c.emit(bytecode.OpVariable, uint64(slot))
	return nil
}

func (c *Compiler) VisitFnCall(e ast.FnCall) any {
	for _, arg := range e.Args {
		c.emitExpr(arg)
	}
	fnID, ok := c.resolveFunction(e.Name)
	if !ok {
		c.fail("undefined function %q", e.Name)
	}
	c.emit(bytecode.OpFnCall, uint64(fnID), uint64(len(e.Args)))
	return nil
}

func (c *Compiler) VisitIndex(e ast.Index) any {
	if e.Negated {
		c.fail("optional indexing (\"?[]\") not supported")
	}
	c.emitExpr(e.Lhs)
	c.emitExpr(e.Rhs)
	c.emit(bytecode.OpIndex)
	return nil
}

// shortCircuit lowers a binary form whose test opcode pops the tested
// value unconditionally: Lhs is stashed into a hidden slot before the
// test so that, when the branch is taken, the short-circuited value can
// be pushed back from the slot rather than lost to the pop - leaving
// exactly one value on the stack on either path. Without this, a test
// opcode that always pops would leave the stack short by one whenever the
// branch is taken, corrupting any enclosing expression (an outer
// conditional, an assignment) that expects a single result value.
func (c *Compiler) shortCircuit(lhs, rhs ast.Expression, testOp bytecode.Opcode) {
	c.emitExpr(lhs)
	slot := c.declareVariable("(short_circuit)")
	c.emit(bytecode.OpVarInit, uint64(slot))
	jump := c.emitPlaceholder(testOp)
	c.emitExpr(rhs)
	jumpEnd := c.emitPlaceholder(bytecode.OpJump)
	c.patch(jump, c.currentPos())
	c.emit(bytecode.OpVariable, uint64(slot))
	c.patch(jumpEnd, c.currentPos())
}

func (c *Compiler) VisitAnd(e ast.And) any {
	c.shortCircuit(e.Lhs, e.Rhs, bytecode.OpJumpIfFalse)
	return nil
}

func (c *Compiler) VisitOr(e ast.Or) any {
	c.shortCircuit(e.Lhs, e.Rhs, bytecode.OpJumpIfTrue)
	return nil
}

func (c *Compiler) VisitCoalesce(e ast.Coalesce) any {
	c.shortCircuit(e.Lhs, e.Rhs, bytecode.OpJumpIfNotNull)
	return nil
}

// VisitStmtExpr emits a block's statements directly, with no scope
// truncation - unlike BlockStmt, a block used in expression position does
// not retire the variables its statements declare.
func (c *Compiler) VisitStmtExpr(e ast.StmtExpr) any {
	for _, stmt := range e.Block {
		c.emitStmt(stmt)
	}
	return nil
}

func (c *Compiler) VisitDot(e ast.Dot) any {
	c.fail("property/method chaining (\".\") not supported")
	return nil
}

func (c *Compiler) VisitMethodCall(e ast.MethodCall) any {
	c.fail("method calls not supported")
	return nil
}

func (c *Compiler) VisitProperty(e ast.Property) any {
	c.fail("property access not supported")
	return nil
}

func (c *Compiler) VisitThisPtr(e ast.ThisPtr) any {
	c.fail("\"this\" not supported")
	return nil
}

func (c *Compiler) VisitMap(e ast.Map) any {
	c.fail("object/map literals not supported")
	return nil
}
