package cccp

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/zam-dot/cccp/internal/ast"
	"github.com/zam-dot/cccp/internal/cgen"
	"github.com/zam-dot/cccp/internal/cverify"
	"github.com/zam-dot/cccp/internal/lexer"
	"github.com/zam-dot/cccp/internal/log"
	"github.com/zam-dot/cccp/internal/parser"
	"github.com/zam-dot/cccp/internal/shortcode"
	"github.com/zam-dot/cccp/internal/store"
)

// Engine orchestrates the compilation pipeline: shortcode expansion, parsing,
// C generation, optional verification of the emitted C, and the incremental
// cache.
type Engine struct {
	store    *store.Store
	expander *shortcode.Expander
	log      *log.Logger

	cc            string
	verify        bool
	force         bool
	shortcodesFS  fs.FS
	shortcodesDir string
}

// Result is the outcome of compiling one source file.
type Result struct {
	Name    string
	C       string
	Hash    string
	Symbols []store.Symbol
}

// Option configures an Engine.
type Option func(*Engine)

// WithCC sets the C compiler binary used by Build and Run. The default is
// "cc".
func WithCC(cc string) Option {
	return func(e *Engine) { e.cc = cc }
}

// WithVerify enables tree-sitter verification of the generated C. Compilation
// fails if the emitted source does not parse cleanly.
func WithVerify(verify bool) Option {
	return func(e *Engine) { e.verify = verify }
}

// WithForce bypasses the artifact cache so every CompileFile call
// regenerates.
func WithForce(force bool) Option {
	return func(e *Engine) { e.force = force }
}

// WithShortcodesFS loads user shortcode scripts from the given filesystem
// instead of the embedded default set.
func WithShortcodesFS(fsys fs.FS) Option {
	return func(e *Engine) { e.shortcodesFS = fsys }
}

// WithShortcodesDir loads user shortcode scripts from a directory on disk.
// Takes precedence over WithShortcodesFS when both are set.
func WithShortcodesDir(dir string) Option {
	return func(e *Engine) { e.shortcodesDir = dir }
}

// WithLogger sets the Engine's logger. The default is a no-op logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine backed by a SQLite artifact cache at dbPath.
// Shortcode script priority:
//  1. If WithShortcodesDir is set, load from that directory
//  2. If WithShortcodesFS is set, load from the provided fs.FS
//  3. Otherwise, use the embedded default scripts
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cccp: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("cccp: migrate: %w", err)
	}

	e := &Engine{
		store: s,
		log:   log.NewNop(),
		cc:    "cc",
	}
	for _, opt := range opts {
		opt(e)
	}

	fsys := e.shortcodesFS
	if e.shortcodesDir != "" {
		fsys = os.DirFS(e.shortcodesDir)
	}
	if fsys == nil {
		fsys = shortcode.DefaultScripts
	}

	rt := shortcode.NewRuntime(fsys)
	funcs, err := rt.Funcs(context.Background())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cccp: load shortcode scripts: %w", err)
	}

	expander, skipped := shortcode.NewExpander(funcs)
	for _, name := range skipped {
		e.log.Warn("shortcode name already registered, script skipped",
			zap.String("name", name))
	}
	e.expander = expander

	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying artifact cache for direct access.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Shortcodes returns the registered shortcode names, unsorted.
func (e *Engine) Shortcodes() []string {
	return e.expander.Names()
}

// Preprocess expands shortcode template actions in src. Source without
// template actions passes through unchanged.
func (e *Engine) Preprocess(name string, src []byte) ([]byte, error) {
	return e.expander.Expand(name, src)
}

// Parse runs the lexer and parser over already-expanded source. All syntax
// errors are accumulated and reported together.
func (e *Engine) Parse(name string, src []byte) (*ast.Program, error) {
	p := parser.New(lexer.New(string(src)))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("cccp: parse %s: %s", name, strings.Join(errs, "; "))
	}
	return program, nil
}

// CompileSource runs the full pipeline over in-memory source: preprocess,
// parse, generate, and (when enabled) verify the emitted C. The cache is not
// consulted; use CompileFile for cached compilation.
func (e *Engine) CompileSource(ctx context.Context, name string, src []byte) (*Result, error) {
	expanded, err := e.Preprocess(name, src)
	if err != nil {
		return nil, err
	}

	program, err := e.Parse(name, expanded)
	if err != nil {
		return nil, err
	}

	g := cgen.New()
	cSource := g.Generate(program)

	if e.verify {
		syntaxErrs, err := cverify.Check(ctx, []byte(cSource))
		if err != nil {
			return nil, fmt.Errorf("cccp: verify %s: %w", name, err)
		}
		if len(syntaxErrs) > 0 {
			msgs := make([]string, len(syntaxErrs))
			for i, se := range syntaxErrs {
				msgs[i] = se.String()
			}
			return nil, fmt.Errorf("cccp: verify %s: generated C has syntax errors: %s",
				name, strings.Join(msgs, "; "))
		}
	}

	syms := make([]store.Symbol, 0, len(g.Symbols()))
	for _, s := range g.Symbols() {
		syms = append(syms, store.Symbol{Name: s.Name, Kind: s.Kind, Arity: s.Arity})
	}

	return &Result{
		Name:    name,
		C:       cSource,
		Hash:    store.HashBytes(src),
		Symbols: syms,
	}, nil
}

// CompileFile compiles the file at path, consulting the artifact cache first.
// The second return value reports whether the result came from the cache.
func (e *Engine) CompileFile(ctx context.Context, path string) (*Result, bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("cccp: read %s: %w", path, err)
	}
	hash := store.HashBytes(src)

	if !e.force {
		art, ok, err := e.store.Lookup(path, hash)
		if err != nil {
			return nil, false, fmt.Errorf("cccp: cache lookup %s: %w", path, err)
		}
		if ok {
			syms, err := e.store.SymbolsByPath(path)
			if err != nil {
				return nil, false, fmt.Errorf("cccp: cached symbols %s: %w", path, err)
			}
			e.log.Debug("cache hit", zap.String("path", path), zap.String("hash", hash))
			return &Result{Name: path, C: art.CSource, Hash: hash, Symbols: syms}, true, nil
		}
	}

	res, err := e.CompileSource(ctx, path, src)
	if err != nil {
		return nil, false, err
	}

	if err := e.store.SaveCompilation(path, hash, res.C, res.Symbols); err != nil {
		return nil, false, fmt.Errorf("cccp: save artifact %s: %w", path, err)
	}
	e.log.Debug("compiled", zap.String("path", path),
		zap.Int("symbols", len(res.Symbols)))

	return res, false, nil
}

// Build compiles srcPath, writes the generated C into outDir, and invokes the
// configured C compiler on it. Returns the path of the produced binary.
func (e *Engine) Build(ctx context.Context, srcPath, outDir string) (string, error) {
	res, cached, err := e.CompileFile(ctx, srcPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("cccp: create output dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	cPath := filepath.Join(outDir, base+".c")
	if err := os.WriteFile(cPath, []byte(res.C), 0o644); err != nil {
		return "", fmt.Errorf("cccp: write %s: %w", cPath, err)
	}

	binPath := filepath.Join(outDir, base)
	cmd := exec.CommandContext(ctx, e.cc, cPath, "-o", binPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("cccp: %s %s: %w\n%s", e.cc, cPath, err, out)
	}

	e.log.Debug("built", zap.String("bin", binPath), zap.Bool("cached", cached))
	return binPath, nil
}

// Run builds srcPath into a temporary directory, executes the binary, and
// returns its stdout. A non-zero exit is returned as an error with stderr
// attached.
func (e *Engine) Run(ctx context.Context, srcPath string) (string, error) {
	tmp, err := os.MkdirTemp("", "cccp-run-*")
	if err != nil {
		return "", fmt.Errorf("cccp: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	binPath, err := e.Build(ctx, srcPath, tmp)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("cccp: run %s: %w\n%s", srcPath, err, stderr.String())
	}
	return stdout.String(), nil
}
