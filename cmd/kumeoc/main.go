// Package main is the kumeoc CLI wrapper: argument parsing and process
// wiring only (spec §1 Non-goals: "the CLI entry point's argument parsing"
// is deliberately outside the compiler core — this file exists to drive
// compiler.Compile, not to implement it).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kumeo-dev/kumeoc/compiler"
)

var (
	verbose         bool
	outputDir       string
	templatesURL    string
	languagePolicy  string
	validateOnly    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kumeoc",
	Short: "kumeoc compiles .kumeo workflow sources into deployable agent projects",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile [file.kumeo]",
	Short: "Compile a .kumeo workflow source into a deployable agent project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := compiler.Options{
			Input:                  args[0],
			Output:                 outputDir,
			TemplatesURL:           templatesURL,
			LanguagePolicyOverride: languagePolicy,
			Validate:               validateOnly,
			Logger:                 logger,
		}
		code, bag := compiler.Compile(context.Background(), opts)
		for _, d := range bag.Items() {
			fmt.Fprintln(os.Stderr, d.String())
		}
		if code != compiler.ExitOK {
			os.Exit(int(code))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kumeoc version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("kumeoc dev")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	compileCmd.Flags().StringVarP(&outputDir, "output", "o", "./build", "Output directory for the generated project")
	compileCmd.Flags().StringVar(&templatesURL, "templates", "", "Optional afs-backed template root overriding the embedded defaults")
	compileCmd.Flags().StringVar(&languagePolicy, "language-policy", "", "Optional YAML/JSON file overriding target-language tiers for Custom agent kinds")
	compileCmd.Flags().BoolVar(&validateOnly, "dry-run", false, "Run lexing through semantic analysis and report diagnostics without generating or writing output")
	rootCmd.AddCommand(compileCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}
