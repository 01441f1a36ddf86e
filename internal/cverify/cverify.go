// Package cverify syntax-checks generated C using the tree-sitter C grammar.
// It catches emitter bugs before the much slower system C compiler runs.
package cverify

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// SyntaxError is a location in generated C that did not parse.
type SyntaxError struct {
	Line    uint32 // 1-based
	Column  uint32 // 1-based
	Kind    string // "error" or "missing"
	Snippet string // the offending source slice, possibly truncated
}

func (e SyntaxError) String() string {
	return fmt.Sprintf("%d:%d: %s near %q", e.Line, e.Column, e.Kind, e.Snippet)
}

// Check parses src as C and returns one SyntaxError per ERROR or MISSING
// node in the tree. A nil, nil return means the source is syntactically
// valid C.
func Check(ctx context.Context, src []byte) ([]SyntaxError, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("cverify: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var errs []SyntaxError
	collectErrors(root, src, &errs)
	return errs, nil
}

func collectErrors(n *sitter.Node, src []byte, errs *[]SyntaxError) {
	if n.IsError() || n.IsMissing() {
		kind := "error"
		if n.IsMissing() {
			kind = "missing"
		}
		*errs = append(*errs, SyntaxError{
			Line:    n.StartPoint().Row + 1,
			Column:  n.StartPoint().Column + 1,
			Kind:    kind,
			Snippet: snippet(n, src),
		})
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectErrors(n.Child(i), src, errs)
	}
}

const maxSnippet = 40

func snippet(n *sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if end > uint32(len(src)) {
		end = uint32(len(src))
	}
	s := string(src[start:end])
	if len(s) > maxSnippet {
		s = s[:maxSnippet] + "..."
	}
	return s
}
