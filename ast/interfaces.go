// interfaces.go contains all visitor interfaces that any code traversing expression and statement AST nodes must implement.
// It also contains the interfaces that all statement and expression AST nodes must implement which also follows the
// visitor design pattern

package ast

// ExpressionVisitor is the interface for operating on all Expression AST nodes.
// Any type that wants to perform an operation on expressions (e.g., a compiler,
// ast-printer, or type checker) must implement this interface.
//
// Each Visit method corresponds to a distinct Expression type. The last five
// (Dot/MethodCall/Property/ThisPtr/Map) exist only so those node types satisfy
// Expression; a conforming visitor rejects them with a "not supported" error
// rather than lowering them.
type ExpressionVisitor interface {
	VisitDynamicConstant(e DynamicConstant) any
	VisitBoolConstant(e BoolConstant) any
	VisitIntegerConstant(e IntegerConstant) any
	VisitFloatConstant(e FloatConstant) any
	VisitCharConstant(e CharConstant) any
	VisitStringConstant(e StringConstant) any
	VisitInterpolatedString(e InterpolatedString) any
	VisitArray(e Array) any
	VisitUnit(e Unit) any
	VisitVariable(e Variable) any
	VisitFnCall(e FnCall) any
	VisitIndex(e Index) any
	VisitAnd(e And) any
	VisitOr(e Or) any
	VisitCoalesce(e Coalesce) any
	VisitStmtExpr(e StmtExpr) any

	// Unsupported expression forms; a compiler must reject these.
	VisitDot(e Dot) any
	VisitMethodCall(e MethodCall) any
	VisitProperty(e Property) any
	VisitThisPtr(e ThisPtr) any
	VisitMap(e Map) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
// Like ExpressionVisitor, it defines one Visit method per statement type.
// This separation between expressions and statements mirrors the grammar structure.
//
// The last six (Switch/Do/TryCatch/Import/Export/Share) exist only so those
// node types satisfy Stmt; a conforming visitor rejects them with a
// "not supported" error rather than lowering them.
type StmtVisitor interface {
	VisitNoop(s Noop) any
	VisitIf(s IfStmt) any
	VisitWhile(s WhileStmt) any
	VisitFor(s ForStmt) any
	VisitVar(s VarStmt) any
	VisitAssignment(s Assignment) any
	VisitFnCallStmt(s FnCallStmt) any
	VisitBlock(s BlockStmt) any
	VisitExpr(s ExpressionStmt) any
	VisitBreakLoop(s BreakLoop) any
	VisitReturn(s Return) any

	// Unsupported statement forms; a compiler must reject these.
	VisitSwitch(s Switch) any
	VisitDo(s Do) any
	VisitTryCatch(s TryCatch) any
	VisitImport(s Import) any
	VisitExport(s Export) any
	VisitShare(s Share) any
}

// Stmt is the base interface for all statement nodes in the AST.
// Like Expression, it follows the Visitor design pattern where each
// statement type implements Accept, calling back into the correct
// Visit method on a StmtVisitor.
type Stmt interface {
	// Accept dispatches this statement to the appropriate Visit method
	// of the provided StmtVisitor implementation.
	Accept(v StmtVisitor) any
}

// Expression is the core interface for all expression nodes in the Abstract Syntax Tree (AST).
// Any expression type (e.g., a constant, function call, index) must implement this interface.
// The Accept method enables the Visitor design pattern so that operations can be performed on
// expressions without the expression types needing to know the details of those operations.
type Expression interface {
	// Accept dispatches the current expression node to the appropriate method on a Visitor.
	// v: the Visitor instance that defines behavior for this expression type
	// Returns: a generic result (any), since the Visitor may define its own return type
	Accept(v ExpressionVisitor) any
}
