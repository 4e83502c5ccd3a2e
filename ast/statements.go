// statements.go contains all the statement AST nodes. A statement node is executed for effect.

package ast

// Noop represents a statement that does nothing when compiled.
type Noop struct{}

func (s Noop) Accept(v StmtVisitor) any { return v.VisitNoop(s) }

// IfStmt represents a conditional statement with an optional else branch.
type IfStmt struct {
	Condition Expression
	Then      []Stmt
	Else      []Stmt
}

func (s IfStmt) Accept(v StmtVisitor) any { return v.VisitIf(s) }

// WhileStmt represents a condition-guarded loop. A nil Condition marks an
// infinite loop (no condition branch is emitted), matching the source
// language's "while (unit) {}" form.
type WhileStmt struct {
	Condition Expression
	Body      []Stmt
}

func (s WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhile(s) }

// ForStmt represents iteration over a range-like expression, binding each
// element to VarName. When IndexName is non-empty it names the loop's
// index slot, which holds the position of the next element to fetch:
// inside the body it is one more than the current element's zero-based
// position.
type ForStmt struct {
	VarName   string
	IndexName string
	Range     Expression
	Body      []Stmt
}

func (s ForStmt) Accept(v StmtVisitor) any { return v.VisitFor(s) }

// VarStmt represents a variable declaration statement, composed of the
// name of the variable and the (optional) expression it binds to.
type VarStmt struct {
	Name        string
	Initializer Expression
}

func (s VarStmt) Accept(v StmtVisitor) any { return v.VisitVar(s) }

// Assignment represents "lhs op= rhs" in every form, including plain
// assignment ("="). Operator is resolved against the function registry
// the same way any other operator symbol is.
type Assignment struct {
	Lhs      Expression
	Operator string
	Rhs      Expression
}

func (s Assignment) Accept(v StmtVisitor) any { return v.VisitAssignment(s) }

// FnCallStmt represents a statement-position function call whose result
// is discarded.
type FnCallStmt struct {
	Name string
	Args []Expression
}

func (s FnCallStmt) Accept(v StmtVisitor) any { return v.VisitFnCallStmt(s) }

// BlockStmt represents a block statement containing a list of statement
// AST nodes, introducing a new lexical scope.
type BlockStmt struct {
	Statements []Stmt
}

func (s BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlock(s) }

// ExpressionStmt represents a statement that consists of a single
// expression, evaluated and left on the stack (not popped) so that a
// block's last statement can supply the block's value.
type ExpressionStmt struct {
	Expression Expression
}

func (s ExpressionStmt) Accept(v StmtVisitor) any { return v.VisitExpr(s) }

// BreakLoop represents "break;" (IsBreak true) or "continue;"
// (IsBreak false) inside a loop body.
type BreakLoop struct {
	IsBreak bool
}

func (s BreakLoop) Accept(v StmtVisitor) any { return v.VisitBreakLoop(s) }

// Return represents "return expr;". IsThrow marks the throwing form,
// which is not supported and must be rejected at compile time.
type Return struct {
	Value   Expression
	IsThrow bool
}

func (s Return) Accept(v StmtVisitor) any { return v.VisitReturn(s) }

// Switch represents a "switch" statement. Not supported.
type Switch struct {
	Subject Expression
	Cases   []Stmt
}

func (s Switch) Accept(v StmtVisitor) any { return v.VisitSwitch(s) }

// Do represents a "do { ... } while (cond)" statement. Not supported.
type Do struct {
	Body      []Stmt
	Condition Expression
}

func (s Do) Accept(v StmtVisitor) any { return v.VisitDo(s) }

// TryCatch represents a "try { ... } catch { ... }" statement. Not
// supported: the core has no exception model.
type TryCatch struct {
	Try   []Stmt
	Catch []Stmt
}

func (s TryCatch) Accept(v StmtVisitor) any { return v.VisitTryCatch(s) }

// Import represents a module import statement. Not supported.
type Import struct {
	Path string
}

func (s Import) Accept(v StmtVisitor) any { return v.VisitImport(s) }

// Export represents a module export statement. Not supported.
type Export struct {
	Name string
}

func (s Export) Accept(v StmtVisitor) any { return v.VisitExport(s) }

// Share represents a variable-sharing declaration across modules. Not
// supported.
type Share struct {
	Name string
}

func (s Share) Accept(v StmtVisitor) any { return v.VisitShare(s) }
