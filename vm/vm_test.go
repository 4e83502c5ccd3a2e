package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bytescript/ast"
	"bytescript/bytecode"
	"bytescript/compiler"
	"bytescript/stdvalue"
	"bytescript/value"
	"bytescript/vm"
)

func runProgram(t *testing.T, statements []ast.Stmt) value.Value {
	t.Helper()
	reg, factory, err := stdvalue.StandardRegistry()
	require.NoError(t, err)

	c := compiler.New(reg)
	prog, err := c.Compile(statements)
	require.NoError(t, err)

	machine := vm.New(reg, factory, vm.Options{})
	result, err := machine.Run(prog, nil)
	require.NoError(t, err)
	return result
}

func intOf(t *testing.T, v value.Value) int64 {
	t.Helper()
	sv, ok := v.(stdvalue.Value)
	require.True(t, ok)
	n, err := sv.ToSize()
	if err == nil {
		return int64(n)
	}
	b, err := sv.ToBool()
	require.NoError(t, err)
	if b {
		return 1
	}
	return 0
}

func call(name string, args ...ast.Expression) ast.Expression {
	return ast.FnCall{Name: name, Args: args}
}

func mustRangeLiteral(t *testing.T, start, length int64) bytecode.Literal {
	t.Helper()
	lit, err := bytecode.RangeLiteral(start, length)
	require.NoError(t, err)
	return lit
}

// TestArithmeticExpression exercises +, * and operator precedence carried
// entirely by AST nesting: 2 + 3 * 4.
func TestArithmeticExpression(t *testing.T) {
	statements := []ast.Stmt{
		ast.Return{Value: call("+",
			ast.IntegerConstant{Value: 2},
			call("*", ast.IntegerConstant{Value: 3}, ast.IntegerConstant{Value: 4}),
		)},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 14, intOf(t, result))
}

// TestConditionalBranch exercises IfStmt with both branches present.
func TestConditionalBranch(t *testing.T) {
	statements := []ast.Stmt{
		ast.IfStmt{
			Condition: call("<", ast.IntegerConstant{Value: 1}, ast.IntegerConstant{Value: 2}),
			Then:      []ast.Stmt{ast.Return{Value: ast.IntegerConstant{Value: 1}}},
			Else:      []ast.Stmt{ast.Return{Value: ast.IntegerConstant{Value: 0}}},
		},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 1, intOf(t, result))
}

// TestLoopWithContinueAndBreak counts up by one per iteration of an
// unconditional loop, ends every iteration with an explicit continue, and
// stops via break once the counter reaches 5.
func TestLoopWithContinueAndBreak(t *testing.T) {
	statements := []ast.Stmt{
		ast.VarStmt{Name: "i", Initializer: ast.IntegerConstant{Value: 0}},
		ast.WhileStmt{
			Condition: nil,
			Body: []ast.Stmt{
				ast.Assignment{
					Lhs: ast.Variable{Name: "i"}, Operator: "=",
					Rhs: call("+", ast.Variable{Name: "i"}, ast.IntegerConstant{Value: 1}),
				},
				ast.IfStmt{
					Condition: call("==", ast.Variable{Name: "i"}, ast.IntegerConstant{Value: 5}),
					Then:      []ast.Stmt{ast.BreakLoop{IsBreak: true}},
				},
				ast.BreakLoop{IsBreak: false},
			},
		},
		ast.Return{Value: ast.Variable{Name: "i"}},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 5, intOf(t, result))
}

// TestForRangeSum sums the 5 integers a 0..5 range yields.
func TestForRangeSum(t *testing.T) {
	statements := []ast.Stmt{
		ast.VarStmt{Name: "sum", Initializer: ast.IntegerConstant{Value: 0}},
		ast.ForStmt{
			VarName: "i",
			Range:   ast.DynamicConstant{Value: mustRangeLiteral(t, 0, 5)},
			Body: []ast.Stmt{
				ast.Assignment{
					Lhs: ast.Variable{Name: "sum"}, Operator: "=",
					Rhs: call("+", ast.Variable{Name: "sum"}, ast.Variable{Name: "i"}),
				},
			},
		},
		ast.Return{Value: ast.Variable{Name: "sum"}},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 10, intOf(t, result))
}

// TestShortCircuitAndSkipsRhs proves the Rhs of "&&" never runs when the
// Lhs is already false: the assignment buried in the Rhs must never fire.
func TestShortCircuitAndSkipsRhs(t *testing.T) {
	statements := []ast.Stmt{
		ast.VarStmt{Name: "flag", Initializer: ast.IntegerConstant{Value: 0}},
		ast.VarStmt{
			Name: "dummy",
			Initializer: ast.And{
				Lhs: ast.BoolConstant{Value: false},
				Rhs: ast.StmtExpr{Block: []ast.Stmt{
					ast.Assignment{
						Lhs: ast.Variable{Name: "flag"}, Operator: "=",
						Rhs: ast.IntegerConstant{Value: 1},
					},
					ast.ExpressionStmt{Expression: ast.IntegerConstant{Value: 1}},
				}},
			},
		},
		ast.Return{Value: ast.Variable{Name: "flag"}},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 0, intOf(t, result))
}

// TestSieveOfEratosthenesCountsPrimesBelow100 builds a mutable composite
// array via new_array, indexes into it for both reads and writes, and
// counts the 25 primes below 100 - exercising Index-as-lvalue, nested
// for/while loops and new_array together.
func TestSieveOfEratosthenesCountsPrimesBelow100(t *testing.T) {
	isComposite := ast.Variable{Name: "isComposite"}
	i := ast.Variable{Name: "i"}
	j := ast.Variable{Name: "j"}
	count := ast.Variable{Name: "count"}

	statements := []ast.Stmt{
		ast.VarStmt{
			Name:        "isComposite",
			Initializer: call("new_array", ast.IntegerConstant{Value: 100}, ast.BoolConstant{Value: false}),
		},
		ast.VarStmt{Name: "count", Initializer: ast.IntegerConstant{Value: 0}},
		ast.ForStmt{
			VarName: "i",
			Range:   ast.DynamicConstant{Value: mustRangeLiteral(t, 2, 98)},
			Body: []ast.Stmt{
				ast.IfStmt{
					Condition: ast.Index{Lhs: isComposite, Rhs: i},
					Then:      []ast.Stmt{ast.BreakLoop{IsBreak: false}},
				},
				ast.Assignment{
					Lhs: count, Operator: "=",
					Rhs: call("+", count, ast.IntegerConstant{Value: 1}),
				},
				ast.VarStmt{Name: "j", Initializer: call("*", i, i)},
				ast.WhileStmt{
					Condition: call("<", j, ast.IntegerConstant{Value: 100}),
					Body: []ast.Stmt{
						ast.Assignment{
							Lhs: ast.Index{Lhs: isComposite, Rhs: j}, Operator: "=",
							Rhs: ast.BoolConstant{Value: true},
						},
						ast.Assignment{
							Lhs: j, Operator: "=",
							Rhs: call("+", j, i),
						},
					},
				},
			},
		},
		ast.Return{Value: count},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 25, intOf(t, result))
}

// TestShortCircuitNestedInsideIfConditionStaysStackBalanced proves a
// short-circuit expression used as an if/while condition does not
// corrupt the stack when it takes the short-circuit branch: the outer
// conditional's own test must find exactly one value waiting for it.
func TestShortCircuitNestedInsideIfConditionStaysStackBalanced(t *testing.T) {
	statements := []ast.Stmt{
		ast.IfStmt{
			Condition: ast.And{Lhs: ast.BoolConstant{Value: false}, Rhs: ast.BoolConstant{Value: true}},
			Then:      []ast.Stmt{ast.Return{Value: ast.IntegerConstant{Value: 1}}},
			Else:      []ast.Stmt{ast.Return{Value: ast.IntegerConstant{Value: 0}}},
		},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 0, intOf(t, result))
}

// TestOrShortCircuitReturnsTruthyLhs proves "||" yields the Lhs value
// itself (not a synthesized boolean) when it short-circuits.
func TestOrShortCircuitReturnsTruthyLhs(t *testing.T) {
	statements := []ast.Stmt{
		ast.Return{Value: ast.Or{Lhs: ast.IntegerConstant{Value: 7}, Rhs: ast.IntegerConstant{Value: 99}}},
	}
	result := runProgram(t, statements)
	assert.EqualValues(t, 7, intOf(t, result))
}

// TestEmptyProgramReturnsUnit covers the boundary case of no statements.
func TestEmptyProgramReturnsUnit(t *testing.T) {
	result := runProgram(t, nil)
	assert.True(t, result.IsUnit())
}

// TestVarOnlyProgramReturnsUnit covers a bare Var declaration
// program falling off the end returning Unit, since VarStmt always pops.
func TestVarOnlyProgramReturnsUnit(t *testing.T) {
	statements := []ast.Stmt{
		ast.VarStmt{Name: "x", Initializer: ast.IntegerConstant{Value: 1}},
	}
	result := runProgram(t, statements)
	assert.True(t, result.IsUnit())
}

// TestIndexOutOfRangeFails proves an out-of-bounds array index surfaces as
// a RuntimeError rather than panicking or silently clamping.
func TestIndexOutOfRangeFails(t *testing.T) {
	reg, factory, err := stdvalue.StandardRegistry()
	require.NoError(t, err)

	statements := []ast.Stmt{
		ast.VarStmt{
			Name:        "arr",
			Initializer: call("new_array", ast.IntegerConstant{Value: 2}, ast.IntegerConstant{Value: 0}),
		},
		ast.Return{Value: ast.Index{Lhs: ast.Variable{Name: "arr"}, Rhs: ast.IntegerConstant{Value: 5}}},
	}

	c := compiler.New(reg)
	prog, err := c.Compile(statements)
	require.NoError(t, err)

	machine := vm.New(reg, factory, vm.Options{})
	_, err = machine.Run(prog, nil)
	assert.Error(t, err)
}

// TestInstructionBudgetExceeded proves MaxInstructions halts a runaway
// infinite loop rather than hanging forever.
func TestInstructionBudgetExceeded(t *testing.T) {
	reg, factory, err := stdvalue.StandardRegistry()
	require.NoError(t, err)

	statements := []ast.Stmt{
		ast.WhileStmt{Condition: nil, Body: []ast.Stmt{ast.Noop{}}},
	}
	c := compiler.New(reg)
	prog, err := c.Compile(statements)
	require.NoError(t, err)

	machine := vm.New(reg, factory, vm.Options{MaxInstructions: 100})
	_, err = machine.Run(prog, nil)
	assert.Error(t, err)
}
