package cverify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ValidC(t *testing.T) {
	src := []byte(`#include <stdio.h>

int add(int a, int b) {
    return a + b;
}

int main() {
    printf("%d\n", add(5, 3));
    return 0;
}
`)
	errs, err := Check(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestCheck_MissingSemicolon(t *testing.T) {
	src := []byte(`int main() {
    int x = 1
    return 0;
}
`)
	errs, err := Check(context.Background(), src)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
}

func TestCheck_UnbalancedBrace(t *testing.T) {
	src := []byte(`int main() {
    return 0;
`)
	errs, err := Check(context.Background(), src)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.NotZero(t, errs[0].Line)
}

func TestCheck_Empty(t *testing.T) {
	errs, err := Check(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestSyntaxErrorString(t *testing.T) {
	e := SyntaxError{Line: 3, Column: 5, Kind: "missing", Snippet: ";"}
	assert.Equal(t, `3:5: missing near ";"`, e.String())
}
