// Package shortcode expands template shortcodes in source text before the
// lexer sees it. Shortcodes are text/template functions; builtin providers
// cover common C snippets, and users can add their own as Risor scripts.
package shortcode

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Expander applies shortcode expansion to source text.
type Expander struct {
	funcs template.FuncMap
}

// NewExpander builds an Expander from the builtin providers plus any extra
// function maps, typically a Runtime's script functions. Within the builtin
// providers and across extras, the first registration of a name wins; the
// returned slice lists skipped duplicate names.
func NewExpander(extras ...template.FuncMap) (*Expander, []string) {
	merged := template.FuncMap{}
	var skipped []string

	add := func(fm template.FuncMap) {
		for name, fn := range fm {
			if _, exists := merged[name]; exists {
				skipped = append(skipped, name)
				continue
			}
			merged[name] = fn
		}
	}

	for _, provider := range providers {
		add(provider())
	}
	for _, fm := range extras {
		add(fm)
	}
	return &Expander{funcs: merged}, skipped
}

// Names returns the registered shortcode names, unsorted.
func (e *Expander) Names() []string {
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	return names
}

// Expand runs the template pass over src. Source without template actions
// passes through unchanged.
func (e *Expander) Expand(name string, src []byte) ([]byte, error) {
	if !bytes.Contains(src, []byte("{{")) {
		return src, nil
	}

	tmpl, err := template.New(name).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("shortcode: parse %s: %w", name, err)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, nil); err != nil {
		return nil, fmt.Errorf("shortcode: expand %s: %w", name, err)
	}
	return []byte(out.String()), nil
}

// providers lists the builtin shortcode providers. New providers register
// here.
var providers = []func() template.FuncMap{
	coreShortcodes,
	stringShortcodes,
	jsonShortcodes,
	curlShortcodes,
	sugarShortcodes,
}
