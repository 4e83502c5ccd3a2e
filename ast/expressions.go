// expressions.go contains all the expression AST nodes. An expression node always evaluates to a value.

package ast

import "bytescript/bytecode"

// DynamicConstant represents an already-decoded literal constant of
// arbitrary shape (including arrays and ranges), carried directly as the
// wire-safe bytecode.Literal the compiler will place in the constant pool.
type DynamicConstant struct {
	Value bytecode.Literal
}

func (e DynamicConstant) Accept(v ExpressionVisitor) any { return v.VisitDynamicConstant(e) }

// BoolConstant represents a literal boolean (e.g. "true").
type BoolConstant struct {
	Value bool
}

func (e BoolConstant) Accept(v ExpressionVisitor) any { return v.VisitBoolConstant(e) }

// IntegerConstant represents a literal signed integer (e.g. "42").
type IntegerConstant struct {
	Value int64
}

func (e IntegerConstant) Accept(v ExpressionVisitor) any { return v.VisitIntegerConstant(e) }

// FloatConstant represents a literal IEEE-754 double (e.g. "3.14").
type FloatConstant struct {
	Value float64
}

func (e FloatConstant) Accept(v ExpressionVisitor) any { return v.VisitFloatConstant(e) }

// CharConstant represents a literal single character (e.g. "'a'").
type CharConstant struct {
	Value rune
}

func (e CharConstant) Accept(v ExpressionVisitor) any { return v.VisitCharConstant(e) }

// StringConstant represents a literal string (e.g. `"hello"`).
type StringConstant struct {
	Value string
}

func (e StringConstant) Accept(v ExpressionVisitor) any { return v.VisitStringConstant(e) }

// InterpolatedString represents a string built from interleaved literal
// and expression parts (e.g. `"x = ${x}"`).
type InterpolatedString struct {
	Parts []Expression
}

func (e InterpolatedString) Accept(v ExpressionVisitor) any { return v.VisitInterpolatedString(e) }

// Array represents an array literal (e.g. "[1, 2, 3]").
type Array struct {
	Elements []Expression
}

func (e Array) Accept(v ExpressionVisitor) any { return v.VisitArray(e) }

// Unit represents the unit value "()" - the absence of a meaningful
// result.
type Unit struct{}

func (e Unit) Accept(v ExpressionVisitor) any { return v.VisitUnit(e) }

// Variable represents the retrieval of a value previously bound to a
// variable name.
type Variable struct {
	Name string
}

func (e Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(e) }

// FnCall represents an expression-position function call, including
// every binary/comparison/arithmetic operator - the core has no
// hardcoded operators, only registered functions addressed by symbol.
type FnCall struct {
	Name string
	Args []Expression
}

func (e FnCall) Accept(v ExpressionVisitor) any { return v.VisitFnCall(e) }

// Index represents indexing into a compound value (e.g. "arr[i]").
// Negated marks the optional-index form ("arr?[i]"), which is not
// supported and must be rejected at compile time.
type Index struct {
	Lhs     Expression
	Rhs     Expression
	Negated bool
}

func (e Index) Accept(v ExpressionVisitor) any { return v.VisitIndex(e) }

// And represents short-circuiting logical conjunction ("a && b"): Rhs is
// not evaluated when Lhs coerces to false.
type And struct {
	Lhs Expression
	Rhs Expression
}

func (e And) Accept(v ExpressionVisitor) any { return v.VisitAnd(e) }

// Or represents short-circuiting logical disjunction ("a || b"): Rhs is
// not evaluated when Lhs coerces to true.
type Or struct {
	Lhs Expression
	Rhs Expression
}

func (e Or) Accept(v ExpressionVisitor) any { return v.VisitOr(e) }

// Coalesce represents short-circuiting null-coalescing ("a ?? b"): Rhs is
// not evaluated when Lhs is not Unit.
type Coalesce struct {
	Lhs Expression
	Rhs Expression
}

func (e Coalesce) Accept(v ExpressionVisitor) any { return v.VisitCoalesce(e) }

// StmtExpr represents a block used in expression position; its value is
// that of its last statement.
type StmtExpr struct {
	Block []Stmt
}

func (e StmtExpr) Accept(v ExpressionVisitor) any { return v.VisitStmtExpr(e) }

// Dot represents property-dot-method chaining ("a.b.c()"). Not supported.
type Dot struct {
	Lhs Expression
	Rhs Expression
}

func (e Dot) Accept(v ExpressionVisitor) any { return v.VisitDot(e) }

// MethodCall represents a method-call expression ("a.method(args)"). Not supported.
type MethodCall struct {
	Receiver Expression
	Name     string
	Args     []Expression
}

func (e MethodCall) Accept(v ExpressionVisitor) any { return v.VisitMethodCall(e) }

// Property represents property access ("a.b"). Not supported.
type Property struct {
	Receiver Expression
	Name     string
}

func (e Property) Accept(v ExpressionVisitor) any { return v.VisitProperty(e) }

// ThisPtr represents the "this" receiver reference. Not supported.
type ThisPtr struct{}

func (e ThisPtr) Accept(v ExpressionVisitor) any { return v.VisitThisPtr(e) }

// Map represents an object/map literal ("#{a: 1}"). Not supported.
type Map struct {
	Keys   []string
	Values []Expression
}

func (e Map) Accept(v ExpressionVisitor) any { return v.VisitMap(e) }
