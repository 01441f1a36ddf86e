package shortcode

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// DefaultScripts holds the shortcode scripts shipped with the compiler.
//
//go:embed scripts/*.risor
var DefaultScripts embed.FS

// Runtime turns Risor scripts into shortcode functions. Each *.risor file in
// the filesystem becomes a shortcode named after the file; the script sees
// its arguments as the global `args` list and its result value becomes the
// expansion text.
type Runtime struct {
	fsys fs.FS
}

// NewRuntime creates a Runtime loading scripts from fsys. Use os.DirFS for
// an on-disk scripts directory.
func NewRuntime(fsys fs.FS) *Runtime {
	return &Runtime{fsys: fsys}
}

// Funcs discovers the scripts and returns one template function per script.
// Script source is read at discovery time; evaluation happens on each use.
func (r *Runtime) Funcs(ctx context.Context) (template.FuncMap, error) {
	funcs := template.FuncMap{}

	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".risor") {
			return nil
		}

		src, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			return fmt.Errorf("read script %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), ".risor")
		source := string(src)

		funcs[name] = func(args ...any) (string, error) {
			return r.eval(ctx, name, source, args)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("shortcode: discover scripts: %w", err)
	}
	return funcs, nil
}

func (r *Runtime) eval(ctx context.Context, name, source string, args []any) (string, error) {
	items := make([]object.Object, len(args))
	for i, arg := range args {
		items[i] = object.FromGoType(arg)
	}

	result, err := risor.Eval(ctx, source, risor.WithGlobal("args", object.NewList(items)))
	if err != nil {
		return "", fmt.Errorf("shortcode: script %s: %w", name, err)
	}
	if s, ok := result.(*object.String); ok {
		return s.Value(), nil
	}
	return result.Inspect(), nil
}
