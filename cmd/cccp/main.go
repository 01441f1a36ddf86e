package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/zam-dot/cccp"
	"github.com/zam-dot/cccp/internal/ast"
	"github.com/zam-dot/cccp/internal/config"
	"github.com/zam-dot/cccp/internal/log"
)

var (
	flagDB     string
	flagFormat string
	flagDebug  bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cccp",
	Short:         "Compile CCCP source files to C",
	Long:          "cccp expands shortcodes, parses CCCP source, and emits C that any system compiler can build. Compiled artifacts are cached in a SQLite database keyed by content hash.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "build cache path (default: .cccp/cache.db relative to project root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(shortcodesCmd)
}

var (
	flagForce         bool
	flagVerify        bool
	flagCC            string
	flagOutput        string
	flagShortcodesDir string
)

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagForce, "force", false, "bypass the build cache and recompile")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "verify the generated C with tree-sitter")
	cmd.Flags().StringVar(&flagCC, "cc", "", "C compiler command (default from config, then \"cc\")")
	cmd.Flags().StringVar(&flagShortcodesDir, "shortcodes-dir", "", "load shortcode scripts from disk path instead of embedded")
}

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a CCCP file and build the binary",
	Long:  "Compiles the source to C, writes it to the output directory, and invokes the C compiler on it.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile, build, and execute a CCCP file",
	Long:  "Builds the program into a temporary directory, executes it, and writes its stdout directly. The --format flag does not apply.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

var emitCmd = &cobra.Command{
	Use:   "emit <file>",
	Short: "Print the generated C for a CCCP file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmit,
}

var astCmd = &cobra.Command{
	Use:   "ast <file>",
	Short: "Print the parsed syntax tree of a CCCP file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "List top-level symbols recorded in the build cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSymbols,
}

var shortcodesCmd = &cobra.Command{
	Use:   "shortcodes",
	Short: "List registered shortcode names",
	RunE:  runShortcodes,
}

func init() {
	addCompileFlags(buildCmd)
	addCompileFlags(runCmd)
	addCompileFlags(emitCmd)
	buildCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory (default from config, then \"output\")")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig(args[0])
	if err != nil {
		return outputError("build", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("build", err)
	}
	defer e.Close()

	outDir := flagOutput
	if outDir == "" {
		outDir = filepath.Join(cfg.Root, cfg.OutputDir)
	}

	binPath, err := e.Build(context.Background(), args[0], outDir)
	if err != nil {
		return outputError("build", err)
	}

	fmt.Fprintf(os.Stderr, "Built %s in %s\n", binPath, time.Since(start).Round(time.Millisecond))
	return outputResult(CLIResult{
		Command: "build",
		Results: CLIBuild{
			Binary:  binPath,
			CSource: binPath + ".c",
		},
	})
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return outputError("run", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("run", err)
	}
	defer e.Close()

	out, err := e.Run(context.Background(), args[0])
	if err != nil {
		return outputError("run", err)
	}
	fmt.Print(out)
	return nil
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return outputError("emit", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("emit", err)
	}
	defer e.Close()

	res, cached, err := e.CompileFile(context.Background(), args[0])
	if err != nil {
		return outputError("emit", err)
	}

	return outputResult(CLIResult{
		Command: "emit",
		Results: CLIEmit{
			File:   res.Name,
			Hash:   res.Hash,
			Cached: cached,
			C:      res.C,
		},
	})
}

func runAST(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return outputError("ast", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("ast", err)
	}
	defer e.Close()

	src, err := os.ReadFile(args[0])
	if err != nil {
		return outputError("ast", err)
	}
	expanded, err := e.Preprocess(args[0], src)
	if err != nil {
		return outputError("ast", err)
	}
	program, err := e.Parse(args[0], expanded)
	if err != nil {
		return outputError("ast", err)
	}

	ast.Fprint(os.Stdout, program)
	return nil
}

func runSymbols(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) > 0 {
		startDir = filepath.Dir(args[0])
	}
	cfg, err := config.Find(startDir)
	if err != nil {
		return outputError("symbols", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("symbols", err)
	}
	defer e.Close()

	var syms []CLISymbol
	if len(args) > 0 {
		rows, err := e.Store().SymbolsByPath(args[0])
		if err != nil {
			return outputError("symbols", err)
		}
		for _, s := range rows {
			syms = append(syms, CLISymbol{File: args[0], Name: s.Name, Kind: s.Kind, Arity: s.Arity})
		}
	} else {
		rows, err := e.Store().AllSymbols()
		if err != nil {
			return outputError("symbols", err)
		}
		for _, s := range rows {
			syms = append(syms, CLISymbol{File: s.Path, Name: s.Name, Kind: s.Kind, Arity: s.Arity})
		}
	}

	return outputResult(CLIResult{Command: "symbols", Results: syms})
}

func runShortcodes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Find(".")
	if err != nil {
		return outputError("shortcodes", err)
	}
	e, err := newEngine(cfg)
	if err != nil {
		return outputError("shortcodes", err)
	}
	defer e.Close()

	names := e.Shortcodes()
	sort.Strings(names)
	return outputResult(CLIResult{Command: "shortcodes", Results: names})
}

// loadConfig finds the project config starting at the source file's
// directory.
func loadConfig(srcPath string) (*config.Config, error) {
	return config.Find(filepath.Dir(srcPath))
}

// newEngine builds an Engine from the config with CLI flags taking
// precedence.
func newEngine(cfg *config.Config) (*cccp.Engine, error) {
	log.Init(flagDebug || cfg.Debug)

	dbPath := resolveDBPath(cfg)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	cc := cfg.CC
	if flagCC != "" {
		cc = flagCC
	}

	opts := []cccp.Option{
		cccp.WithLogger(log.L),
		cccp.WithCC(cc),
	}
	if flagVerify {
		opts = append(opts, cccp.WithVerify(true))
	}
	if flagForce {
		opts = append(opts, cccp.WithForce(true))
	}

	shortcodesDir := flagShortcodesDir
	if shortcodesDir == "" {
		shortcodesDir = cfg.ShortcodesDir
	}
	if shortcodesDir != "" {
		opts = append(opts, cccp.WithShortcodesDir(shortcodesDir))
	}

	return cccp.New(dbPath, opts...)
}

// resolveDBPath returns the build cache path from the --db flag or the
// config.
func resolveDBPath(cfg *config.Config) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(cfg.Root, flagDB)
	}
	return cfg.DBPath()
}
