// Package cgen translates a CCCP AST into C source text.
package cgen

import (
	"fmt"
	"maps"
	"strings"

	"github.com/zam-dot/cccp/internal/ast"
)

// Symbol describes a top-level name defined by a compiled program.
type Symbol struct {
	Name  string
	Kind  string // "func" or "var"
	Arity int    // parameter count, 0 for variables
}

// Generator emits C code for one program. A Generator can be reused; state
// resets on each Generate call.
type Generator struct {
	out         strings.Builder
	variables   map[string]string // variable name -> "int" | "string"
	functions   map[string]*ast.FunctionLiteral
	funcOrder   []string // function names in definition order
	currentFunc *ast.FunctionLiteral
	funcCounter int
	symbols     []Symbol
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{
		variables: make(map[string]string),
		functions: make(map[string]*ast.FunctionLiteral),
	}
}

// Generate converts program into a complete C translation unit: includes,
// the concat_strings helper, forward declarations, function definitions in
// source order, and main() built from the remaining top-level statements.
func (g *Generator) Generate(program *ast.Program) string {
	g.out.Reset()
	g.variables = make(map[string]string)
	g.functions = make(map[string]*ast.FunctionLiteral)
	g.funcOrder = nil
	g.currentFunc = nil
	g.funcCounter = 0
	g.symbols = nil

	g.out.WriteString("#include <stdio.h>\n")
	g.out.WriteString("#include <string.h>\n")
	g.out.WriteString("#include <stdlib.h>\n\n")

	g.emitConcatHelper()

	mainStatements := g.extractFunctions(program.Statements)

	g.emitFunctionDeclarations()
	g.emitFunctionDefinitions()
	g.emitMain(mainStatements)

	return g.out.String()
}

// Symbols returns the top-level symbols collected by the last Generate call.
func (g *Generator) Symbols() []Symbol {
	return g.symbols
}

// emitConcatHelper writes the runtime helper backing the `+` operator on
// strings. The returned buffer is heap allocated, sized to exactly
// strlen(a)+strlen(b)+1, and owned by the caller; malloc's NULL return is
// the only failure signal.
func (g *Generator) emitConcatHelper() {
	g.out.WriteString("char* concat_strings(const char* a, const char* b) {\n")
	g.out.WriteString("    char* result = malloc(strlen(a) + strlen(b) + 1);\n")
	g.out.WriteString("    strcpy(result, a);\n")
	g.out.WriteString("    strcat(result, b);\n")
	g.out.WriteString("    return result;\n")
	g.out.WriteString("}\n\n")
}

// extractFunctions registers named and anonymous function definitions and
// returns the remaining statements, which become the body of main().
func (g *Generator) extractFunctions(statements []ast.Statement) []ast.Statement {
	var mainStatements []ast.Statement

	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.FunctionStatement:
			g.registerFunction(s.Name.Value, &ast.FunctionLiteral{
				Token:      s.Token,
				Parameters: s.Parameters,
				Body:       s.Body,
			})
		case *ast.ExpressionStatement:
			if funcLit, ok := s.Expression.(*ast.FunctionLiteral); ok {
				name := fmt.Sprintf("func_%d", g.funcCounter)
				g.funcCounter++
				g.registerFunction(name, funcLit)
			} else {
				mainStatements = append(mainStatements, stmt)
			}
		default:
			if let, ok := stmt.(*ast.LetStatement); ok {
				g.symbols = append(g.symbols, Symbol{Name: let.Name.Value, Kind: "var"})
			}
			mainStatements = append(mainStatements, stmt)
		}
	}
	return mainStatements
}

func (g *Generator) registerFunction(name string, lit *ast.FunctionLiteral) {
	if _, exists := g.functions[name]; !exists {
		g.funcOrder = append(g.funcOrder, name)
	}
	g.functions[name] = lit
	g.symbols = append(g.symbols, Symbol{Name: name, Kind: "func", Arity: len(lit.Parameters)})
}

// emitFunctionDeclarations writes a forward declaration per function, in
// definition order.
func (g *Generator) emitFunctionDeclarations() {
	for _, name := range g.funcOrder {
		lit := g.functions[name]
		g.out.WriteString("int ")
		g.out.WriteString(name)
		g.out.WriteString("(")
		for i, param := range lit.Parameters {
			if i > 0 {
				g.out.WriteString(", ")
			}
			g.out.WriteString("int ")
			g.out.WriteString(param.Value)
		}
		g.out.WriteString(");\n")
	}
	g.out.WriteString("\n")
}

func (g *Generator) emitFunctionDefinitions() {
	for _, name := range g.funcOrder {
		g.emitFunctionDefinition(name, g.functions[name])
		g.out.WriteString("\n")
	}
}

func (g *Generator) emitFunctionDefinition(name string, lit *ast.FunctionLiteral) {
	// Each function gets a fresh variable scope.
	oldVariables := g.snapshotVariables()
	oldFunc := g.currentFunc
	g.variables = make(map[string]string)
	g.currentFunc = lit

	g.out.WriteString("int ")
	g.out.WriteString(name)
	g.out.WriteString("(")
	for i, param := range lit.Parameters {
		if i > 0 {
			g.out.WriteString(", ")
		}
		g.out.WriteString("int ")
		g.out.WriteString(param.Value)
		g.variables[param.Value] = "int"
	}
	g.out.WriteString(") {\n")

	for _, stmt := range lit.Body.Statements {
		g.emitStatement(stmt)
	}

	if !endsWithReturn(lit) {
		g.out.WriteString("    return 0;\n")
	}
	g.out.WriteString("}\n")

	g.variables = oldVariables
	g.currentFunc = oldFunc
}

func endsWithReturn(lit *ast.FunctionLiteral) bool {
	n := len(lit.Body.Statements)
	if n == 0 {
		return false
	}
	_, ok := lit.Body.Statements[n-1].(*ast.ReturnStatement)
	return ok
}

func (g *Generator) emitMain(statements []ast.Statement) {
	g.out.WriteString("int main() {\n")
	for _, stmt := range statements {
		g.emitStatement(stmt)
	}
	g.out.WriteString("    return 0;\n")
	g.out.WriteString("}\n")
}

func (g *Generator) snapshotVariables() map[string]string {
	snap := make(map[string]string, len(g.variables))
	maps.Copy(snap, g.variables)
	return snap
}

func (g *Generator) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		g.emitLetStatement(s)
	case *ast.PrintStatement:
		g.emitPrintStatement(s)
	case *ast.AssignmentStatement:
		g.emitAssignmentStatement(s)
	case *ast.IfStatement:
		g.emitIfStatement(s)
	case *ast.BlockStatement:
		g.emitBlockStatement(s)
	case *ast.ExternStatement:
		g.emitExternStatement(s)
	case *ast.ReturnStatement:
		g.emitReturnStatement(s)
	case *ast.FunctionStatement:
		g.registerFunction(s.Name.Value, &ast.FunctionLiteral{
			Token:      s.Token,
			Parameters: s.Parameters,
			Body:       s.Body,
		})
	case *ast.ExpressionStatement:
		g.emitAutoPrint(s.Expression)
	}
}

func (g *Generator) emitLetStatement(stmt *ast.LetStatement) {
	name := stmt.Name.Value

	if stmt.Value == nil {
		g.variables[name] = "int"
		g.out.WriteString("    int ")
		g.out.WriteString(name)
		g.out.WriteString(";\n")
		return
	}

	if g.expressionIsString(stmt.Value) {
		g.variables[name] = "string"
		g.out.WriteString("    char* ")
	} else {
		g.variables[name] = "int"
		g.out.WriteString("    int ")
	}
	g.out.WriteString(name)
	g.out.WriteString(" = ")
	g.emitExpression(stmt.Value)
	g.out.WriteString(";\n")
}

// emitAssignmentStatement declares the variable on first use, otherwise
// assigns to the existing one.
func (g *Generator) emitAssignmentStatement(stmt *ast.AssignmentStatement) {
	name := stmt.Name.Value

	if _, exists := g.variables[name]; !exists {
		if g.expressionIsString(stmt.Value) {
			g.variables[name] = "string"
			g.out.WriteString("    char* ")
		} else {
			g.variables[name] = "int"
			g.out.WriteString("    int ")
		}
	} else {
		g.out.WriteString("    ")
	}
	g.out.WriteString(name)
	g.out.WriteString(" = ")
	g.emitExpression(stmt.Value)
	g.out.WriteString(";\n")
}

// emitPrintStatement picks the printf format from the static type of the
// printed value: %s for strings, %d for everything else.
func (g *Generator) emitPrintStatement(stmt *ast.PrintStatement) {
	if g.expressionIsString(stmt.Value) {
		g.out.WriteString(`    printf("%s\n", `)
	} else {
		g.out.WriteString(`    printf("%d\n", `)
	}
	g.emitExpression(stmt.Value)
	g.out.WriteString(");\n")
}

func (g *Generator) emitIfStatement(stmt *ast.IfStatement) {
	oldVariables := g.snapshotVariables()

	g.out.WriteString("    if (")
	g.emitExpression(stmt.Condition)
	g.out.WriteString(") {\n")
	g.emitBlockStatement(stmt.Consequence)
	g.out.WriteString("    }\n")

	g.variables = oldVariables
}

func (g *Generator) emitBlockStatement(block *ast.BlockStatement) {
	blockVariables := g.snapshotVariables()
	for _, stmt := range block.Statements {
		g.emitStatement(stmt)
	}
	g.variables = blockVariables
}

// emitExternStatement emits a comment only; extern names resolve through the
// C headers already included in the prelude.
func (g *Generator) emitExternStatement(stmt *ast.ExternStatement) {
	g.out.WriteString("    // extern ")
	g.out.WriteString(stmt.Name.Value)
	g.out.WriteString(" declared (handled by C headers)\n")
}

func (g *Generator) emitReturnStatement(stmt *ast.ReturnStatement) {
	g.out.WriteString("    return")
	if stmt.ReturnValue != nil {
		g.out.WriteString(" ")
		g.emitExpression(stmt.ReturnValue)
	}
	g.out.WriteString(";\n")
}

// emitAutoPrint prints top-level expression results in main; inside a
// function body the expression is evaluated for its effects only.
func (g *Generator) emitAutoPrint(exp ast.Expression) {
	if g.currentFunc != nil {
		g.out.WriteString("    ")
		g.emitExpression(exp)
		g.out.WriteString(";\n")
		return
	}

	g.out.WriteString("    // Auto-print: ")
	g.emitExpression(exp)
	g.out.WriteString("\n")

	if g.expressionIsString(exp) {
		g.out.WriteString(`    printf("%s\n", `)
	} else {
		g.out.WriteString(`    printf("%d\n", `)
	}
	g.emitExpression(exp)
	g.out.WriteString(");\n")
}

func (g *Generator) emitExpression(exp ast.Expression) {
	switch e := exp.(type) {
	case *ast.Identifier:
		g.out.WriteString(e.Value)
	case *ast.IntegerLiteral:
		fmt.Fprintf(&g.out, "%d", e.Value)
	case *ast.StringLiteral:
		g.out.WriteString(`"`)
		g.out.WriteString(e.Value)
		g.out.WriteString(`"`)
	case *ast.InfixExpression:
		g.emitInfixExpression(e)
	case *ast.FunctionCall:
		g.emitFunctionCall(e)
	}
}

func (g *Generator) emitInfixExpression(e *ast.InfixExpression) {
	// Fold literal operands at compile time.
	if folded, ok := foldInfix(e); ok {
		g.out.WriteString(folded)
		return
	}

	if e.Operator == "+" && g.isRuntimeStringConcat(e) {
		g.emitStringConcat(e)
		return
	}
	if (e.Operator == "==" || e.Operator == "!=") && g.isStringComparison(e) {
		g.emitStringComparison(e)
		return
	}

	g.emitExpression(e.Left)
	g.out.WriteString(" ")
	g.out.WriteString(e.Operator)
	g.out.WriteString(" ")
	g.emitExpression(e.Right)
}

func (g *Generator) emitFunctionCall(call *ast.FunctionCall) {
	g.emitExpression(call.Function)
	g.out.WriteString("(")
	for i, arg := range call.Arguments {
		if i > 0 {
			g.out.WriteString(", ")
		}
		g.emitExpression(arg)
	}
	g.out.WriteString(")")
}

// expressionIsString reports whether exp has string type: a string literal,
// a variable recorded as string, or a `+` over string operands.
func (g *Generator) expressionIsString(exp ast.Expression) bool {
	switch e := exp.(type) {
	case *ast.StringLiteral:
		return true
	case *ast.InfixExpression:
		if e.Operator != "+" {
			return false
		}
		return g.expressionIsString(e.Left) && g.expressionIsString(e.Right) ||
			g.isRuntimeStringConcat(e)
	case *ast.Identifier:
		return g.variables[e.Value] == "string"
	default:
		return false
	}
}

func (g *Generator) isStringVariable(exp ast.Expression) bool {
	ident, ok := exp.(*ast.Identifier)
	return ok && g.variables[ident.Value] == "string"
}

// isRuntimeStringConcat reports whether a `+` needs concat_strings at
// runtime: one side a string literal, the other a string variable.
func (g *Generator) isRuntimeStringConcat(e *ast.InfixExpression) bool {
	if e.Operator != "+" {
		return false
	}
	_, leftLit := e.Left.(*ast.StringLiteral)
	_, rightLit := e.Right.(*ast.StringLiteral)
	return leftLit && g.isStringVariable(e.Right) ||
		g.isStringVariable(e.Left) && rightLit
}

func (g *Generator) isStringComparison(e *ast.InfixExpression) bool {
	return g.expressionIsString(e.Left) || g.expressionIsString(e.Right)
}

func (g *Generator) emitStringComparison(e *ast.InfixExpression) {
	g.out.WriteString("(strcmp(")
	g.emitExpression(e.Left)
	g.out.WriteString(", ")
	g.emitExpression(e.Right)
	g.out.WriteString(")")
	if e.Operator == "==" {
		g.out.WriteString(" == 0)")
	} else {
		g.out.WriteString(" != 0)")
	}
}

// emitStringConcat emits a concat_strings call. The helper returns an owned
// heap buffer; the generated program leaks it, matching the source language's
// lack of a free construct.
func (g *Generator) emitStringConcat(e *ast.InfixExpression) {
	g.out.WriteString("concat_strings(")
	g.emitExpression(e.Left)
	g.out.WriteString(", ")
	g.emitExpression(e.Right)
	g.out.WriteString(")")
}
