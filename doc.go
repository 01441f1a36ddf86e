// Package cccp compiles CCCP source files to C. CCCP is a small imperative
// language with integers, strings, functions, and a template-based shortcode
// preprocessor; the compiler emits plain C99 that any system compiler can
// build.
//
// # Pipeline
//
// Compilation runs in four phases:
//
//  1. Preprocess: expand {{ shortcode }} template actions in the source,
//     using builtin shortcodes and any user-provided Risor scripts.
//  2. Parse: lex and parse the expanded source into an AST, accumulating
//     syntax errors.
//  3. Generate: walk the AST and emit C, folding constant expressions and
//     inferring string typedness for print and comparison.
//  4. Verify (optional): parse the emitted C with tree-sitter and report
//     any syntax errors in the generated output.
//
// # Usage
//
// Create an Engine, compile a file, and build or run the result:
//
//	e, err := cccp.New("cache.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	res, cached, err := e.CompileFile(ctx, "main.cccp")
//	binPath, err := e.Build(ctx, "main.cccp", "output")
//	out, err := e.Run(ctx, "main.cccp")
//
// # Incremental Compilation
//
// [Engine.CompileFile] hashes source content and skips regeneration when the
// cached artifact in SQLite matches. [WithForce] bypasses the cache. Symbols
// defined by each compiled file (functions with arity, top-level variables)
// are recorded alongside the artifact and available through [Engine.Store].
//
// # Shortcode Scripts
//
// User shortcodes are Risor scripts, one per file; a script named
// banner.risor registers a shortcode named banner. Scripts ship embedded by
// default and can be overridden with [WithShortcodesDir] or
// [WithShortcodesFS]. See the internal/shortcode package for the builtin
// set and the script calling convention.
package cccp
