// Package ast defines the abstract syntax tree produced by the CCCP parser.
package ast

import "github.com/zam-dot/cccp/internal/token"

// Node is implemented by every AST node.
type Node interface {
	// TokenLiteral returns the literal of the token the node was built from.
	TokenLiteral() string
}

// Statement nodes are executed for their effects.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: the ordered top-level statements of a source file.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// LetStatement declares a variable, optionally with an initializer.
// Example: var x = 5;
type LetStatement struct {
	Token token.Token // the 'var' token
	Name  *Identifier
	Value Expression // nil for a bare declaration
}

func (s *LetStatement) statementNode()       {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }

// AssignmentStatement reassigns an existing variable.
// Example: x = 10;
type AssignmentStatement struct {
	Token token.Token // the '=' token
	Name  *Identifier
	Value Expression
}

func (s *AssignmentStatement) statementNode()       {}
func (s *AssignmentStatement) TokenLiteral() string { return s.Token.Literal }

// PrintStatement writes a value followed by a newline.
// Example: print(sum);
type PrintStatement struct {
	Token token.Token // the 'print' token
	Value Expression
}

func (s *PrintStatement) statementNode()       {}
func (s *PrintStatement) TokenLiteral() string { return s.Token.Literal }

// IfStatement is a conditional with an optional else block.
type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else clause
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }

// BlockStatement is a brace-delimited statement sequence.
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }

// ExternStatement declares a function provided by the C environment.
// Example: extern printf;
type ExternStatement struct {
	Token token.Token // the 'extern' token
	Name  *Identifier
}

func (s *ExternStatement) statementNode()       {}
func (s *ExternStatement) TokenLiteral() string { return s.Token.Literal }

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	Token       token.Token // the 'return' token
	ReturnValue Expression  // nil for a bare return
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }

// FunctionStatement is a named function definition.
// Example: func add(a, b) { return a + b; }
type FunctionStatement struct {
	Token      token.Token // the 'func' token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (s *FunctionStatement) statementNode()       {}
func (s *FunctionStatement) TokenLiteral() string { return s.Token.Literal }

// ExpressionStatement wraps an expression appearing at statement level.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }

// Identifier names a variable or function.
type Identifier struct {
	Token token.Token
	Value string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) expressionNode()      {}
func (e *IntegerLiteral) TokenLiteral() string { return e.Token.Literal }

// StringLiteral is a string constant, stored without quotes.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }

// InfixExpression is a binary operation.
type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpression) expressionNode()      {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }

// FunctionCall is an invocation of a named or literal function.
type FunctionCall struct {
	Token     token.Token // the '(' token
	Function  Expression  // Identifier or FunctionLiteral
	Arguments []Expression
}

func (e *FunctionCall) expressionNode()      {}
func (e *FunctionCall) TokenLiteral() string { return e.Token.Literal }

// FunctionLiteral is an anonymous function definition.
type FunctionLiteral struct {
	Token      token.Token // the 'func' token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (e *FunctionLiteral) expressionNode()      {}
func (e *FunctionLiteral) TokenLiteral() string { return e.Token.Literal }
