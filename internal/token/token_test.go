package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	cases := map[string]Type{
		"print":   PRINT,
		"var":     VAR,
		"if":      IF,
		"extern":  EXTERN,
		"func":    FUNC,
		"return":  RETURN,
		"x":       IDENT,
		"printx":  IDENT,
		"Returns": IDENT,
	}
	for ident, want := range cases {
		assert.Equal(t, want, LookupIdent(ident), "ident %q", ident)
	}
}
