package cgen

import (
	"strconv"
	"strings"

	"github.com/zam-dot/cccp/internal/ast"
)

// foldInfix evaluates an infix expression whose operands are both literals
// and returns the rendered C literal. Integer arithmetic folds for + - * /
// (division by zero is left for the C compiler to diagnose); string operands
// fold for + only. Everything else emits as-is at runtime.
func foldInfix(e *ast.InfixExpression) (string, bool) {
	switch l := e.Left.(type) {
	case *ast.IntegerLiteral:
		r, ok := e.Right.(*ast.IntegerLiteral)
		if !ok {
			return "", false
		}
		v, ok := foldInts(e.Operator, l.Value, r.Value)
		if !ok {
			return "", false
		}
		return strconv.FormatInt(v, 10), true
	case *ast.StringLiteral:
		r, ok := e.Right.(*ast.StringLiteral)
		if !ok || e.Operator != "+" {
			return "", false
		}
		return `"` + concatStrings(l.Value, r.Value) + `"`, true
	}
	return "", false
}

func foldInts(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return addInts(a, b), true
	case "-":
		return a - b, true
	case "*":
		return mulInts(a, b), true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

func addInts(a, b int64) int64 { return a + b }

func mulInts(a, b int64) int64 { return a * b }

// concatStrings returns a fresh buffer holding a immediately followed by b.
// This is the compile-time counterpart of the emitted concat_strings helper;
// Go's length-tracked string replaces the C terminator bookkeeping.
func concatStrings(a, b string) string {
	var sb strings.Builder
	sb.Grow(len(a) + len(b))
	sb.WriteString(a)
	sb.WriteString(b)
	return sb.String()
}
