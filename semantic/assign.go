package semantic

import (
	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// languagePolicy is the fixed kind → target-language table (spec §4.5):
// LLM, Router, DataProcessor, DecisionMatrix and HumanReview/HumanInLoop go
// to the systems tier; MLModel, BayesianNetwork, Aggregator, RuleEngine,
// DataNormalizer and MissingValueHandler go to the scripting tier. Custom
// kinds default to systems (SPEC_FULL.md E.3.5) unless the custom-target
// overrides (language-policy file or `deployment.custom_targets`) name them.
var languagePolicy = map[string]ir.TargetLanguage{
	"LLM":            ir.LangSystems,
	"Router":         ir.LangSystems,
	"DataProcessor":  ir.LangSystems,
	"DecisionMatrix": ir.LangSystems,
	"HumanReview":    ir.LangSystems,
	"HumanInLoop":    ir.LangSystems,

	"MLModel":             ir.LangScripting,
	"BayesianNetwork":     ir.LangScripting,
	"Aggregator":          ir.LangScripting,
	"RuleEngine":          ir.LangScripting,
	"DataNormalizer":      ir.LangScripting,
	"MissingValueHandler": ir.LangScripting,
}

// resourceDefaults are the per-tier CPU/memory profiles (SPEC_FULL.md
// E.3.2); an agent's own `resources:` argument, when present, overrides
// these field by field.
var resourceDefaults = map[ir.TargetLanguage]ir.Resources{
	ir.LangSystems:   {CPU: "500m", Memory: "256Mi"},
	ir.LangScripting: {CPU: "250m", Memory: "512Mi"},
}

// assignLanguageAndResources is Pass 6 (spec §4.4): attaches a
// TargetLanguage and a Resources profile to every agent record, honoring
// `deployment.custom_targets` overrides for Custom kinds and per-agent
// `resources:` argument overrides for any kind.
func assignLanguageAndResources(records []*ir.AgentRecord, customTargets map[string]ir.TargetLanguage) {
	for _, r := range records {
		lang, ok := languagePolicy[r.Kind]
		if !ok {
			lang = ir.LangSystems
			if r.Custom {
				if override, found := customTargets[r.Node.KindName]; found {
					lang = override
				}
			}
		}
		r.Target = lang
		r.Resources = resourceDefaults[lang]
		if res := r.Config.Get("resources"); res != nil {
			applyResourceOverride(&r.Resources, res)
		}
	}
}

// applyResourceOverride merges a per-agent `resources: {cpu, memory, gpu}`
// object onto the tier default, field by field.
func applyResourceOverride(dst *ir.Resources, v *ast.Value) {
	if s, ok := v.Get("cpu").AsString(); ok {
		dst.CPU = s
	}
	if s, ok := v.Get("memory").AsString(); ok {
		dst.Memory = s
	}
	if s, ok := v.Get("gpu").AsString(); ok {
		dst.GPU = s
	}
}
