// Package templates ships kumeoc's default template bundles, embedded into
// the binary so `kumeoc compile` works with no external template root
// (spec §4.6, SPEC_FULL.md E.4). Each (kind, target language) pair named in
// the language-assignment policy table has its own directory under
// bundles/; _custom/passthrough is the Custom-kind fallback (SPEC_FULL.md
// E.3.5) and _workflow is the workflow-level Taskfile/README/Helm bundle.
package templates

import (
	"embed"

	"github.com/kumeo-dev/kumeoc/codegen"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
	"github.com/kumeo-dev/kumeoc/template"
)

//go:embed bundles
var bundlesFS embed.FS

// builtinPairs enumerates every (kind, language) directory shipped, so
// Load doesn't need to guess which directories exist.
var builtinPairs = []struct {
	kind string
	lang ir.TargetLanguage
}{
	{"LLM", ir.LangSystems},
	{"Router", ir.LangSystems},
	{"DataProcessor", ir.LangSystems},
	{"DecisionMatrix", ir.LangSystems},
	{"HumanReview", ir.LangSystems},
	{"HumanInLoop", ir.LangSystems},

	{"MLModel", ir.LangScripting},
	{"BayesianNetwork", ir.LangScripting},
	{"Aggregator", ir.LangScripting},
	{"RuleEngine", ir.LangScripting},
	{"DataNormalizer", ir.LangScripting},
	{"MissingValueHandler", ir.LangScripting},
}

// Load parses every embedded bundle through engine and returns the
// agent-bundle map keyed by codegen.BundleKey, the Custom-kind fallback
// bundle, and the workflow-level bundle.
func Load(engine *template.Engine) (agentBundles map[string]*template.Bundle, fallback, workflow *template.Bundle, err error) {
	agentBundles = make(map[string]*template.Bundle, len(builtinPairs))
	for _, p := range builtinPairs {
		prefix := "bundles/" + p.kind + "/" + string(p.lang)
		b, loadErr := engine.LoadBundleFS(bundlesFS, p.kind+"/"+string(p.lang), prefix)
		if loadErr != nil {
			return nil, nil, nil, loadErr
		}
		agentBundles[codegen.BundleKey(p.kind, p.lang)] = b
	}

	fallback, err = engine.LoadBundleFS(bundlesFS, "_custom/passthrough", "bundles/_custom/passthrough")
	if err != nil {
		return nil, nil, nil, err
	}

	workflow, err = engine.LoadBundleFS(bundlesFS, "_workflow", "bundles/_workflow")
	if err != nil {
		return nil, nil, nil, err
	}

	return agentBundles, fallback, workflow, nil
}
