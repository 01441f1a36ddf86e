package ast

import (
	"fmt"
	"io"
)

// Fprint writes an indented tree rendering of node to w. It is the human
// inspection format used by the `ast` command and by debug traces.
func Fprint(w io.Writer, node Node) {
	fprint(w, node, "")
}

func fprint(w io.Writer, node Node, indent string) {
	switch n := node.(type) {
	case *Program:
		fmt.Fprintf(w, "%sProgram:\n", indent)
		for _, stmt := range n.Statements {
			fprint(w, stmt, indent+"  ")
		}
	case *LetStatement:
		fmt.Fprintf(w, "%sLetStatement:\n", indent)
		fmt.Fprintf(w, "%s  Name: %s\n", indent, n.Name.Value)
		if n.Value != nil {
			fmt.Fprintf(w, "%s  Value:\n", indent)
			fprint(w, n.Value, indent+"    ")
		}
	case *AssignmentStatement:
		fmt.Fprintf(w, "%sAssignmentStatement:\n", indent)
		fmt.Fprintf(w, "%s  Name: %s\n", indent, n.Name.Value)
		fmt.Fprintf(w, "%s  Value:\n", indent)
		fprint(w, n.Value, indent+"    ")
	case *PrintStatement:
		fmt.Fprintf(w, "%sPrintStatement:\n", indent)
		if n.Value != nil {
			fmt.Fprintf(w, "%s  Value:\n", indent)
			fprint(w, n.Value, indent+"    ")
		}
	case *IfStatement:
		fmt.Fprintf(w, "%sIfStatement:\n", indent)
		fmt.Fprintf(w, "%s  Condition:\n", indent)
		fprint(w, n.Condition, indent+"    ")
		fmt.Fprintf(w, "%s  Consequence:\n", indent)
		fprint(w, n.Consequence, indent+"    ")
		if n.Alternative != nil {
			fmt.Fprintf(w, "%s  Alternative:\n", indent)
			fprint(w, n.Alternative, indent+"    ")
		}
	case *BlockStatement:
		fmt.Fprintf(w, "%sBlockStatement:\n", indent)
		for _, stmt := range n.Statements {
			fprint(w, stmt, indent+"  ")
		}
	case *ExternStatement:
		fmt.Fprintf(w, "%sExternStatement:\n", indent)
		fmt.Fprintf(w, "%s  Name: %s\n", indent, n.Name.Value)
	case *ReturnStatement:
		fmt.Fprintf(w, "%sReturnStatement:\n", indent)
		if n.ReturnValue != nil {
			fprint(w, n.ReturnValue, indent+"  ")
		}
	case *FunctionStatement:
		fmt.Fprintf(w, "%sFunctionStatement: %s\n", indent, n.Name.Value)
		fmt.Fprintf(w, "%s  Parameters:", indent)
		for _, p := range n.Parameters {
			fmt.Fprintf(w, " %s", p.Value)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s  Body:\n", indent)
		fprint(w, n.Body, indent+"    ")
	case *ExpressionStatement:
		fmt.Fprintf(w, "%sExpressionStatement:\n", indent)
		if n.Expression != nil {
			fprint(w, n.Expression, indent+"  ")
		}
	case *Identifier:
		fmt.Fprintf(w, "%sIdentifier: %s\n", indent, n.Value)
	case *IntegerLiteral:
		fmt.Fprintf(w, "%sInteger: %d\n", indent, n.Value)
	case *StringLiteral:
		fmt.Fprintf(w, "%sString: %s\n", indent, n.Value)
	case *InfixExpression:
		fmt.Fprintf(w, "%sInfixExpression: (%s)\n", indent, n.Operator)
		fmt.Fprintf(w, "%s  Left:\n", indent)
		fprint(w, n.Left, indent+"    ")
		fmt.Fprintf(w, "%s  Right:\n", indent)
		fprint(w, n.Right, indent+"    ")
	case *FunctionCall:
		fmt.Fprintf(w, "%sFunctionCall:\n", indent)
		fmt.Fprintf(w, "%s  Function:\n", indent)
		fprint(w, n.Function, indent+"    ")
		if len(n.Arguments) > 0 {
			fmt.Fprintf(w, "%s  Arguments:\n", indent)
			for _, arg := range n.Arguments {
				fprint(w, arg, indent+"    ")
			}
		}
	case *FunctionLiteral:
		fmt.Fprintf(w, "%sFunctionLiteral:\n", indent)
		fmt.Fprintf(w, "%s  Parameters:", indent)
		for _, p := range n.Parameters {
			fmt.Fprintf(w, " %s", p.Value)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s  Body:\n", indent)
		fprint(w, n.Body, indent+"    ")
	}
}
