package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zam-dot/cccp/internal/ast"
	"github.com/zam-dot/cccp/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors")
	require.NotNil(t, program)
	return program
}

func TestLetStatements(t *testing.T) {
	program := parseProgram(t, `
var x = 5;
var name = "world";
var y;
`)
	require.Len(t, program.Statements, 3)

	s0 := program.Statements[0].(*ast.LetStatement)
	assert.Equal(t, "x", s0.Name.Value)
	assert.Equal(t, int64(5), s0.Value.(*ast.IntegerLiteral).Value)

	s1 := program.Statements[1].(*ast.LetStatement)
	assert.Equal(t, "name", s1.Name.Value)
	assert.Equal(t, "world", s1.Value.(*ast.StringLiteral).Value)

	s2 := program.Statements[2].(*ast.LetStatement)
	assert.Equal(t, "y", s2.Name.Value)
	assert.Nil(t, s2.Value)
}

func TestAssignmentStatement(t *testing.T) {
	program := parseProgram(t, `x = 10;`)
	require.Len(t, program.Statements, 1)

	stmt := program.Statements[0].(*ast.AssignmentStatement)
	assert.Equal(t, "x", stmt.Name.Value)
	assert.Equal(t, int64(10), stmt.Value.(*ast.IntegerLiteral).Value)
}

func TestPrintStatement(t *testing.T) {
	program := parseProgram(t, `print(sum);`)
	require.Len(t, program.Statements, 1)

	stmt := program.Statements[0].(*ast.PrintStatement)
	assert.Equal(t, "sum", stmt.Value.(*ast.Identifier).Value)
}

func TestFunctionStatement(t *testing.T) {
	program := parseProgram(t, `func add(a, b) { return a + b; }`)
	require.Len(t, program.Statements, 1)

	fn := program.Statements[0].(*ast.FunctionStatement)
	assert.Equal(t, "add", fn.Name.Value)
	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, "a", fn.Parameters[0].Value)
	assert.Equal(t, "b", fn.Parameters[1].Value)
	require.Len(t, fn.Body.Statements, 1)

	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	infix := ret.ReturnValue.(*ast.InfixExpression)
	assert.Equal(t, "+", infix.Operator)
	assert.Equal(t, "a", infix.Left.(*ast.Identifier).Value)
	assert.Equal(t, "b", infix.Right.(*ast.Identifier).Value)
}

func TestFunctionStatement_NoParameters(t *testing.T) {
	program := parseProgram(t, `func answer() { return 42; }`)
	fn := program.Statements[0].(*ast.FunctionStatement)
	assert.Empty(t, fn.Parameters)
}

func TestBareReturn(t *testing.T) {
	program := parseProgram(t, `func noop() { return; }`)
	fn := program.Statements[0].(*ast.FunctionStatement)
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	assert.Nil(t, ret.ReturnValue)
}

func TestFunctionCall(t *testing.T) {
	program := parseProgram(t, `var sum = add(5, 3);`)
	stmt := program.Statements[0].(*ast.LetStatement)

	call := stmt.Value.(*ast.FunctionCall)
	assert.Equal(t, "add", call.Function.(*ast.Identifier).Value)
	require.Len(t, call.Arguments, 2)
	assert.Equal(t, int64(5), call.Arguments[0].(*ast.IntegerLiteral).Value)
	assert.Equal(t, int64(3), call.Arguments[1].(*ast.IntegerLiteral).Value)
}

func TestFunctionCall_Nested(t *testing.T) {
	program := parseProgram(t, `print(add(multiply(2, 3), 1));`)
	stmt := program.Statements[0].(*ast.PrintStatement)

	outer := stmt.Value.(*ast.FunctionCall)
	assert.Equal(t, "add", outer.Function.(*ast.Identifier).Value)
	require.Len(t, outer.Arguments, 2)

	inner := outer.Arguments[0].(*ast.FunctionCall)
	assert.Equal(t, "multiply", inner.Function.(*ast.Identifier).Value)
}

func TestFunctionCall_NoArguments(t *testing.T) {
	program := parseProgram(t, `greet();`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.FunctionCall)
	assert.Empty(t, call.Arguments)
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseProgram(t, `var r = 1 + 2 * 3;`)
	stmt := program.Statements[0].(*ast.LetStatement)

	// Expect 1 + (2 * 3).
	top := stmt.Value.(*ast.InfixExpression)
	assert.Equal(t, "+", top.Operator)
	assert.Equal(t, int64(1), top.Left.(*ast.IntegerLiteral).Value)

	right := top.Right.(*ast.InfixExpression)
	assert.Equal(t, "*", right.Operator)
}

func TestGroupedExpression(t *testing.T) {
	program := parseProgram(t, `var r = (1 + 2) * 3;`)
	stmt := program.Statements[0].(*ast.LetStatement)

	top := stmt.Value.(*ast.InfixExpression)
	assert.Equal(t, "*", top.Operator)

	left := top.Left.(*ast.InfixExpression)
	assert.Equal(t, "+", left.Operator)
}

func TestIfStatement(t *testing.T) {
	program := parseProgram(t, `if x == 9 { print("yes"); }`)
	stmt := program.Statements[0].(*ast.IfStatement)

	cond := stmt.Condition.(*ast.InfixExpression)
	assert.Equal(t, "==", cond.Operator)
	require.Len(t, stmt.Consequence.Statements, 1)
	assert.Nil(t, stmt.Alternative)
}

func TestExternStatement(t *testing.T) {
	program := parseProgram(t, `extern printf;`)
	stmt := program.Statements[0].(*ast.ExternStatement)
	assert.Equal(t, "printf", stmt.Name.Value)
}

func TestExternStatement_ParameterizedRejected(t *testing.T) {
	p := New(lexer.New(`extern printf(fmt);`))
	p.ParseProgram()
	require.NotEmpty(t, p.Errors())
	assert.Contains(t, p.Errors()[0], "parameterized extern")
}

func TestFunctionLiteralExpression(t *testing.T) {
	program := parseProgram(t, `func(x, y) { return x + y; }`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)

	lit := stmt.Expression.(*ast.FunctionLiteral)
	require.Len(t, lit.Parameters, 2)
	assert.Equal(t, "x", lit.Parameters[0].Value)
	require.Len(t, lit.Body.Statements, 1)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantSub string
	}{
		{"missing var name", `var = 5;`, "expected next token to be IDENT"},
		{"bad integer is unreachable but prefix missing", `var x = +;`, "no prefix parse function"},
		{"missing paren after print", `print "x";`, "expected next token to be ("},
		{"unterminated block", `func f() { return 1;`, "unterminated block"},
		{"stray token", `@`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(lexer.New(tc.input))
			p.ParseProgram()
			require.NotEmpty(t, p.Errors())
			if tc.wantSub != "" {
				assert.Contains(t, p.Errors()[0], tc.wantSub)
			}
		})
	}
}

func TestTopLevelExpressionStatement(t *testing.T) {
	program := parseProgram(t, `5 + 5;`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	infix := stmt.Expression.(*ast.InfixExpression)
	assert.Equal(t, "+", infix.Operator)
}
