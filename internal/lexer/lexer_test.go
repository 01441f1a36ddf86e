package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zam-dot/cccp/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var name = "world";
func add(a, b) {
	return a + b;
}
print(add(five, 3));
x = five * 2 - 1 / 1;
if x == 9 { print("yes"); }
if x != 9 { print("no"); }
extern printf;
a.b : ...
`

	want := []token.Token{
		{Type: token.VAR, Literal: "var"},
		{Type: token.IDENT, Literal: "five"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.INT, Literal: "5"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.VAR, Literal: "var"},
		{Type: token.IDENT, Literal: "name"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.STRING, Literal: "world"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.FUNC, Literal: "func"},
		{Type: token.IDENT, Literal: "add"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "b"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.RETURN, Literal: "return"},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.PLUS, Literal: "+"},
		{Type: token.IDENT, Literal: "b"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.PRINT, Literal: "print"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "add"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.IDENT, Literal: "five"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.INT, Literal: "3"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.IDENT, Literal: "x"},
		{Type: token.ASSIGN, Literal: "="},
		{Type: token.IDENT, Literal: "five"},
		{Type: token.ASTERISK, Literal: "*"},
		{Type: token.INT, Literal: "2"},
		{Type: token.MINUS, Literal: "-"},
		{Type: token.INT, Literal: "1"},
		{Type: token.SLASH, Literal: "/"},
		{Type: token.INT, Literal: "1"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.IF, Literal: "if"},
		{Type: token.IDENT, Literal: "x"},
		{Type: token.EQ, Literal: "=="},
		{Type: token.INT, Literal: "9"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.PRINT, Literal: "print"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.STRING, Literal: "yes"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.IF, Literal: "if"},
		{Type: token.IDENT, Literal: "x"},
		{Type: token.NOT_EQ, Literal: "!="},
		{Type: token.INT, Literal: "9"},
		{Type: token.LBRACE, Literal: "{"},
		{Type: token.PRINT, Literal: "print"},
		{Type: token.LPAREN, Literal: "("},
		{Type: token.STRING, Literal: "no"},
		{Type: token.RPAREN, Literal: ")"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.RBRACE, Literal: "}"},
		{Type: token.EXTERN, Literal: "extern"},
		{Type: token.IDENT, Literal: "printf"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.DOT, Literal: "."},
		{Type: token.IDENT, Literal: "b"},
		{Type: token.COLON, Literal: ":"},
		{Type: token.ELLIPSIS, Literal: "..."},
		{Type: token.EOF, Literal: ""},
	}

	l := New(input)
	for i, expected := range want {
		tok := l.NextToken()
		require.Equal(t, expected.Type, tok.Type, "token %d: literal %q", i, tok.Literal)
		require.Equal(t, expected.Literal, tok.Literal, "token %d", i)
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := `// leading comment
var x = 1; // trailing
/* block
   comment */ var y = 2;`

	l := New(input)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	assert.Equal(t, []token.Type{
		token.VAR, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.VAR, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.EOF,
	}, types)
}

func TestNextToken_Illegal(t *testing.T) {
	l := New("!x .. @")

	tok := l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type) // bare '!'

	tok = l.NextToken()
	assert.Equal(t, token.IDENT, tok.Type)

	tok = l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type) // '..' without third dot

	tok = l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type) // '@'
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	assert.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "abc", tok.Literal)
	assert.Equal(t, token.EOF, l.NextToken().Type)
}

func TestNextToken_EmptyInput(t *testing.T) {
	l := New("")
	assert.Equal(t, token.EOF, l.NextToken().Type)
	// Stays at EOF.
	assert.Equal(t, token.EOF, l.NextToken().Type)
}
