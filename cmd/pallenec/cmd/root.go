// Package cmd implements the pallenec CLI: a single cobra root command
// carrying the full compiler flag surface, rather than a command-per-verb
// layout — pallenec has exactly one verb, "compile this file", so every
// flag lives on the root command itself.
package cmd

import (
	"fmt"
	"os"

	"github.com/pallene-lang/pallenec/internal/analysis"
	"github.com/pallene-lang/pallenec/internal/driver"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagEmitC    bool
	flagEmitAsm  bool
	flagEmitLua  bool
	flagCompileC bool
	flagOutput   string
	flagCC       string
	flagStop     string
	flagPasses   []string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:     "pallenec <input>",
	Short:   "Compile Pallene source to a native shared object",
	Version: Version,
	Long: `pallenec compiles Pallene source into a shared object loadable by the
host scripting language's native-library mechanism.

By default it runs the full pipeline, .pln -> .c -> .s -> .o -> .so. The
--emit-* and --compile-c flags stop the pipeline early or start it partway
through; --emit-lua takes the off-chain branch to a byte-exact host source
translation instead.

Examples:
  # Compile straight to a shared object
  pallenec math.pln

  # Inspect the generated C without invoking the host toolchain
  pallenec --emit-c math.pln

  # Translate to host-language source, typed annotations stripped
  pallenec --emit-lua math.pln`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// pallenec reports its own errors in this exact wire format
	// rather than cobra's default "Error: <err>\n<usage>" rendering.
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.Flags().BoolVar(&flagEmitC, "emit-c", false, "stop after emitting generated C (.pln -> .c)")
	rootCmd.Flags().BoolVar(&flagEmitAsm, "emit-asm", false, "compile C to assembly (.c -> .s)")
	rootCmd.Flags().BoolVar(&flagEmitLua, "emit-lua", false, "translate to host-language source (.pln -> .lua)")
	rootCmd.Flags().BoolVar(&flagCompileC, "compile-c", false, "compile C straight to a shared object (.c -> .so)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "override the default next-to-input output path")
	rootCmd.Flags().StringVar(&flagCC, "cc", "", "host C compiler to invoke (default \"cc\")")
	rootCmd.Flags().StringVar(&flagStop, "stop-after", "", "stop after a pipeline stage: parse, check, lower, optimize")
	rootCmd.Flags().StringSliceVar(&flagPasses, "pass", nil, "analysis pass to run when --stop-after=optimize: uninitialized, constant_propagation (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print one line per pipeline stage entered to stderr")
}

func runCompile(_ *cobra.Command, args []string) error {
	opts := driver.Options{
		Output:    flagOutput,
		CC:        flagCC,
		EmitC:     flagEmitC,
		EmitAsm:   flagEmitAsm,
		EmitLua:   flagEmitLua,
		CompileC:  flagCompileC,
		StopAfter: flagStop,
		Verbose:   flagVerbose,
		Log:       os.Stderr,
	}

	if len(flagPasses) > 0 {
		selected := make(map[analysis.PassName]bool)
		for _, name := range flagPasses {
			selected[analysis.PassName(name)] = true
		}
		for _, pass := range []analysis.PassName{analysis.PassUninitialized, analysis.PassConstProp} {
			opts.PassOpts = append(opts.PassOpts, analysis.WithPass(pass, selected[pass]))
		}
	}

	return driver.Compile(args[0], opts)
}
