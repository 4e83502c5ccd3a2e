package compiler

import (
	"bytescript/ast"
	"bytescript/bytecode"
)

func (c *Compiler) VisitNoop(s ast.Noop) any { return nil }

func (c *Compiler) VisitIf(s ast.IfStmt) any {
	c.emitExpr(s.Condition)
	jumpFalse := c.emitPlaceholder(bytecode.OpJumpIfFalse)

	thenMark := c.beginScope()
	for _, stmt := range s.Then {
		c.emitStmt(stmt)
	}
	c.endScope(thenMark)

	if len(s.Else) == 0 {
		c.patch(jumpFalse, c.currentPos())
		return nil
	}

	jumpEnd := c.emitPlaceholder(bytecode.OpJump)
	c.patch(jumpFalse, c.currentPos())

	elseMark := c.beginScope()
	for _, stmt := range s.Else {
		c.emitStmt(stmt)
	}
	c.endScope(elseMark)

	c.patch(jumpEnd, c.currentPos())
	return nil
}

// VisitWhile compiles a condition-guarded (or, with a nil Condition,
// unconditional) loop. Break and continue inside Body patch against a
// frame scoped to this loop alone.
func (c *Compiler) VisitWhile(s ast.WhileStmt) any {
	startPos := c.currentPos()

	hasCondition := s.Condition != nil
	jumpFalse := -1
	if hasCondition {
		c.emitExpr(s.Condition)
		jumpFalse = c.emitPlaceholder(bytecode.OpJumpIfFalse)
	}

	c.pushLoop()
	bodyMark := c.beginScope()
	for _, stmt := range s.Body {
		c.emitStmt(stmt)
	}
	c.endScope(bodyMark)

	c.emit(bytecode.OpJump, uint64(startPos))
	endPos := c.currentPos()

	frame := c.popLoop()
	for _, pos := range frame.breakPositions {
		c.patch(pos, endPos)
	}
	for _, pos := range frame.continuePositions {
		c.patch(pos, startPos)
	}
	if hasCondition {
		c.patch(jumpFalse, endPos)
	}
	return nil
}

// VisitFor compiles range iteration. Three hidden slots are declared
// before the loop body's own scope opens and outlive it: the range being
// iterated, the next index to pull, and the binding the user's body
// reads through. The Iter instruction is written once as a placeholder at
// startPos and overwritten in place once the loop's exit position is
// known, so the same position doubles as the Jump-back target and the
// instruction carrying the end operand.
func (c *Compiler) VisitFor(s ast.ForStmt) any {
	indexName := s.IndexName
	if indexName == "" {
		indexName = "(loop_index)"
	}

	loopVarSlot := c.declareVariable(s.VarName)
	loopIndexSlot := c.declareVariable(indexName)
	loopRangeSlot := c.declareVariable("(loop_range)")

	c.emitExpr(s.Range)
	c.emit(bytecode.OpVarInit, uint64(loopRangeSlot))
	c.emit(bytecode.OpPopStack)
	c.emit(bytecode.OpIntegerConstant, 0)
	c.emit(bytecode.OpVarInit, uint64(loopIndexSlot))
	c.emit(bytecode.OpPopStack)

	startPos := c.emit(bytecode.OpIter,
		uint64(loopRangeSlot), uint64(loopIndexSlot), uint64(loopVarSlot), 0)

	c.pushLoop()
	bodyMark := c.beginScope()
	for _, stmt := range s.Body {
		c.emitStmt(stmt)
	}
	c.endScope(bodyMark)

	c.emit(bytecode.OpJump, uint64(startPos))
	endPos := c.currentPos()

	frame := c.popLoop()
	for _, pos := range frame.breakPositions {
		c.patch(pos, endPos)
	}
	for _, pos := range frame.continuePositions {
		c.patch(pos, startPos)
	}
	c.patchOperand(startPos, 3, endPos)
	return nil
}

func (c *Compiler) VisitVar(s ast.VarStmt) any {
	if s.Initializer != nil {
		c.emitExpr(s.Initializer)
	} else {
		c.emit(bytecode.OpUnitConstant)
	}
	slot := c.declareVariable(s.Name)
	c.emit(bytecode.OpVarInit, uint64(slot))
	c.emit(bytecode.OpPopStack)
	return nil
}

func (c *Compiler) VisitAssignment(s ast.Assignment) any {
	c.emitExpr(s.Lhs)
	c.emitExpr(s.Rhs)
	op := s.Operator
	if op == "" {
		op = "="
	}
	fnID, ok := c.resolveFunction(op)
	if !ok {
		c.fail("undefined assignment operator %q", op)
	}
	c.emit(bytecode.OpFnCall, uint64(fnID), 2)
	c.emit(bytecode.OpPopStack)
	return nil
}

func (c *Compiler) VisitFnCallStmt(s ast.FnCallStmt) any {
	for _, arg := range s.Args {
		c.emitExpr(arg)
	}
	fnID, ok := c.resolveFunction(s.Name)
	if !ok {
		c.fail("undefined function %q", s.Name)
	}
	c.emit(bytecode.OpFnCall, uint64(fnID), uint64(len(s.Args)))
	c.emit(bytecode.OpPopStack)
	return nil
}

func (c *Compiler) VisitBlock(s ast.BlockStmt) any {
	mark := c.beginScope()
	for _, stmt := range s.Statements {
		c.emitStmt(stmt)
	}
	c.endScope(mark)
	return nil
}

// VisitExpr emits a bare expression statement with no trailing pop,
// leaving its value on the stack - this is the mechanism by which a
// program's (or a StmtExpr's) trailing expression supplies a result.
func (c *Compiler) VisitExpr(s ast.ExpressionStmt) any {
	c.emitExpr(s.Expression)
	return nil
}

func (c *Compiler) VisitBreakLoop(s ast.BreakLoop) any {
	pos := c.emitPlaceholder(bytecode.OpJump)
	c.recordBreakOrContinue(pos, s.IsBreak)
	return nil
}

func (c *Compiler) VisitReturn(s ast.Return) any {
	if s.IsThrow {
		c.fail("\"throw\" not supported")
	}
	if s.Value != nil {
		c.emitExpr(s.Value)
	} else {
		c.emit(bytecode.OpUnitConstant)
	}
	c.emit(bytecode.OpReturn)
	return nil
}

func (c *Compiler) VisitSwitch(s ast.Switch) any {
	c.fail("switch statements not supported")
	return nil
}

func (c *Compiler) VisitDo(s ast.Do) any {
	c.fail("do-while statements not supported")
	return nil
}

func (c *Compiler) VisitTryCatch(s ast.TryCatch) any {
	c.fail("try/catch not supported")
	return nil
}

func (c *Compiler) VisitImport(s ast.Import) any {
	c.fail("import statements not supported")
	return nil
}

func (c *Compiler) VisitExport(s ast.Export) any {
	c.fail("export statements not supported")
	return nil
}

func (c *Compiler) VisitShare(s ast.Share) any {
	c.fail("share statements not supported")
	return nil
}
