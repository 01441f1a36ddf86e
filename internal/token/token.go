// Package token defines the lexical tokens of the CCCP language.
package token

// Type identifies the kind of a lexical token.
type Type string

// Token is a single lexical token scanned from source.
type Token struct {
	Type    Type
	Literal string
}

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers and literals.
	IDENT  Type = "IDENT"
	INT    Type = "INT"
	STRING Type = "STRING"

	// Operators.
	ASSIGN   Type = "="
	PLUS     Type = "+"
	MINUS    Type = "-"
	ASTERISK Type = "*"
	SLASH    Type = "/"
	EQ       Type = "=="
	NOT_EQ   Type = "!="

	// Delimiters.
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	DOT       Type = "."
	ELLIPSIS  Type = "..."
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"

	// Keywords.
	PRINT  Type = "PRINT"
	VAR    Type = "VAR"
	IF     Type = "IF"
	EXTERN Type = "EXTERN"
	FUNC   Type = "FUNC"
	RETURN Type = "RETURN"
)

var keywords = map[string]Type{
	"print":  PRINT,
	"var":    VAR,
	"if":     IF,
	"extern": EXTERN,
	"func":   FUNC,
	"return": RETURN,
}

// LookupIdent returns the keyword type for ident, or IDENT when it is not a
// reserved word.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
