// Package compiler is kumeoc's external entry point (spec §6): lex, parse,
// analyze, and — unless running in validate-only mode — generate and write
// the output tree, in one call.
package compiler

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kumeo-dev/kumeoc/artifact"
	"github.com/kumeo-dev/kumeoc/codegen"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/parser"
	"github.com/kumeo-dev/kumeoc/semantic"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
	"github.com/kumeo-dev/kumeoc/template"
	"github.com/kumeo-dev/kumeoc/templates"
	"github.com/kumeo-dev/kumeoc/token"
)

// ExitCode mirrors the process exit codes spec §6 defines for the CLI
// wrapper; Compile itself never calls os.Exit, it only returns the code a
// caller should exit with.
type ExitCode int

const (
	ExitOK               ExitCode = 0
	ExitDiagnosticErrors ExitCode = 1
	ExitIOError          ExitCode = 2
	ExitInternal         ExitCode = 3
)

// Options configures one compile (spec §6). Input and Output are plain
// filesystem paths; TemplatesURL, when set, is an afs-backed URL whose
// per-kind agent bundles replace the embedded bundles of the same
// kind/language; the workflow-level and Custom fallback bundles always
// come from the embedded defaults.
type Options struct {
	Input        string
	Output       string
	TemplatesURL string

	// LanguagePolicyOverride is an optional YAML or JSON document
	// providing `{kindName: "systems"|"scripting"}` overrides for Custom
	// agent kinds, read by cmd/kumeoc from the --language-policy flag
	// (SPEC_FULL.md E.1.3).
	LanguagePolicyOverride string

	// Validate runs lexing through semantic analysis and reports
	// diagnostics without invoking the generator or writer
	// (SPEC_FULL.md E.3.1).
	Validate bool

	Logger *zap.Logger
}

// Compile runs the full pipeline and returns the diagnostics bag alongside
// the exit code a caller should use.
func Compile(ctx context.Context, opts Options) (ExitCode, *diag.Bag) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	bag := diag.NewBag()

	src, err := os.ReadFile(opts.Input)
	if err != nil {
		bag.Emit(diag.Error, "E-IO-READ", opts.Input, token.Span{}, fmt.Sprintf("reading input: %v", err), "")
		return ExitIOError, bag
	}

	log.Info("lexer+parser", zap.String("file", opts.Input))
	prog := parser.Parse(opts.Input, src, bag)
	if bag.HasErrors() {
		return ExitDiagnosticErrors, bag
	}

	customTargets, err := loadLanguagePolicy(opts.LanguagePolicyOverride)
	if err != nil {
		bag.Emit(diag.Error, "E-IO-READ", opts.LanguagePolicyOverride, token.Span{},
			fmt.Sprintf("reading language policy override: %v", err), "")
		return ExitIOError, bag
	}

	log.Info("semantic", zap.String("file", opts.Input))
	analyzer := semantic.New(bag, semantic.WithCustomTargets(customTargets))
	result := analyzer.Analyze(opts.Input, prog)
	if bag.HasErrors() {
		return ExitDiagnosticErrors, bag
	}

	if opts.Validate {
		return ExitOK, bag
	}

	engine := template.NewEngine()
	agentBundles, fallback, workflowBundle, err := templates.Load(engine)
	if err != nil {
		bag.Emit(diag.Error, "E-GEN-TMPL", opts.Input, token.Span{}, fmt.Sprintf("loading default templates: %v", err), "")
		return ExitInternal, bag
	}
	if opts.TemplatesURL != "" {
		if err := mergeOverrideTemplates(ctx, engine, opts.TemplatesURL, agentBundles); err != nil {
			bag.Emit(diag.Error, "E-GEN-TMPL", opts.TemplatesURL, token.Span{}, fmt.Sprintf("loading template override: %v", err), "")
			return ExitIOError, bag
		}
	}

	log.Info("codegen", zap.String("file", opts.Input))
	gen := codegen.NewGenerator(agentBundles, fallback, workflowBundle)
	tree, err := gen.Generate(result)
	if err != nil {
		bag.Emit(diag.Error, "E-GEN-TMPL", opts.Input, token.Span{}, err.Error(), "")
		return ExitInternal, bag
	}

	log.Info("artifact", zap.String("output", opts.Output), zap.Int("files", tree.Len()))
	writer := artifact.NewWriter()
	if err := writer.EnsureDir(ctx, opts.Output); err != nil {
		bag.Emit(diag.Error, "E-IO-WRITE", opts.Output, token.Span{}, err.Error(), "")
		return ExitIOError, bag
	}
	if err := writer.Write(ctx, opts.Output, tree); err != nil {
		bag.Emit(diag.Error, "E-IO-WRITE", opts.Output, token.Span{}, err.Error(), "")
		return ExitIOError, bag
	}

	return ExitOK, bag
}

// loadLanguagePolicy reads an optional YAML (or JSON, which is a YAML
// subset) document mapping Custom kind names to target-language tiers
// (SPEC_FULL.md E.1.3: "the DSL's own object literals are JSON-compatible,
// so this keeps one code path").
func loadLanguagePolicy(path string) (map[string]ir.TargetLanguage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	out := make(map[string]ir.TargetLanguage, len(raw))
	for k, v := range raw {
		out[k] = ir.TargetLanguage(v)
	}
	return out, nil
}

// mergeOverrideTemplates loads a user-supplied template root and layers it
// over the embedded defaults, per-bundle: a bundle present in the override
// root entirely replaces the matching default bundle.
func mergeOverrideTemplates(ctx context.Context, engine *template.Engine, baseURL string, agentBundles map[string]*template.Bundle) error {
	for key := range agentBundles {
		b, err := engine.LoadBundleURL(ctx, key, baseURL+"/"+key)
		if err != nil {
			continue // no override for this kind/language pair; keep the default
		}
		if len(b.Files) > 0 {
			agentBundles[key] = b
		}
	}
	return nil
}
