package semantic

import (
	"github.com/expr-lang/expr"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// checkShape is Pass 3 (spec §4.4): validates an agent's arguments against
// its kind's required shape, normalizes them to Config, and reports
// advisory-only warnings for out-of-range numeric tuning knobs (SPEC_FULL.md
// E.3.3). Unknown (Custom) kinds are passed through unchecked: their
// arguments become Config verbatim.
func checkShape(file string, rec *ir.AgentRecord, bag *diag.Bag) {
	a := rec.Node
	if rec.Custom {
		rec.Config = argsToObject(a)
		return
	}
	switch rec.Kind {
	case "LLM":
		checkLLMShape(file, a, rec, bag)
		return
	case "MLModel":
		requireStringOrObject(file, a, rec, bag, "model", "file", "type", "version")
		requireKey(file, a, bag, "input")
	case "BayesianNetwork":
		requireOneOf(file, a, rec, bag, "network", "file")
	case "DataProcessor":
		requireKey(file, a, bag, "input")
		requireObject(file, a, bag, "config")
	case "Router":
		checkRouterShape(file, a, rec, bag)
	case "DecisionMatrix":
		checkDecisionMatrixShape(file, a, rec, bag)
	case "HumanReview", "HumanInLoop":
		requireKey(file, a, bag, "input")
		requireObject(file, a, bag, "config", "ui", "interface")
	case "Aggregator":
		requireString(file, a, bag, "method")
		requireObject(file, a, bag, "weights")
		checkAggregatorWeights(file, a, bag)
	case "RuleEngine":
		checkRuleEngineShape(file, a, rec, bag)
	case "DataNormalizer":
		requireStringOrObject(file, a, rec, bag, "config")
	case "MissingValueHandler":
		requireString(file, a, bag, "strategy")
	default:
		rec.Config = argsToObject(a)
		return
	}
	rec.Config = argsToObject(a)
}

// checkLLMShape normalizes both accepted LLM shapes — a flat
// `engine: "openai/gpt-4"` form and a nested `provider: {name, model}` form
// — into the canonical nested object (spec §9 Open question (a)), and
// requires one of `prompt` or `prompt_template`.
func checkLLMShape(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag) {
	provider := a.Arg("provider")
	if provider == nil {
		if engine := a.Arg("engine"); engine != nil {
			if s, ok := engine.AsString(); ok {
				name, model := splitEngine(s)
				provider = &ast.Value{
					Kind: ast.KindObject,
					Span: engine.Span,
					Object: []ast.ObjectEntry{
						{Key: "name", Value: &ast.Value{Kind: ast.KindString, Str: name, Span: engine.Span}},
						{Key: "model", Value: &ast.Value{Kind: ast.KindString, Str: model, Span: engine.Span}},
					},
				}
			}
		}
	}
	if provider == nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"LLM agent requires a provider: {name, model} or engine: \"name/model\" argument",
			"add provider: {name: \"openai\", model: \"gpt-4\"} or engine: \"openai/gpt-4\"")
	}
	if a.Arg("prompt") == nil && a.Arg("prompt_template") == nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"LLM agent requires one of: prompt, prompt_template",
			"add prompt: \"...\" or prompt_template: \"...\"")
	}
	if temp := a.Arg("temperature"); temp != nil && temp.Kind == ast.KindNumber {
		if temp.Num < 0 || temp.Num > 2 {
			bag.Emit(diag.Warning, "W-SEM-ADVISORY", file, temp.Span,
				"temperature is conventionally within [0, 2]",
				"")
		}
	}
	if mt := a.Arg("max_tokens"); mt != nil && mt.Kind == ast.KindNumber {
		if mt.Num < 1 || mt.Num > 200000 {
			bag.Emit(diag.Warning, "W-SEM-ADVISORY", file, mt.Span,
				"max_tokens is conventionally within [1, 200000]", "")
		}
	}
	obj := argsToObject(a)
	if provider != nil {
		obj = replaceEntry(obj, "provider", provider)
		obj = removeEntry(obj, "engine")
	}
	rec.Config = obj
}

// splitEngine splits "openai/gpt-4" into ("openai", "gpt-4"); a bare name
// with no slash is treated as the provider name with an empty model.
func splitEngine(s string) (name, model string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// checkRouterShape requires `input` and a `rules:object` mapping each
// condition string to a target path (spec §4.4). Every condition key is
// validated with expr.Compile; expr.Run never runs, since semantic
// analysis checks shape, not behavior.
func checkRouterShape(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag) {
	requireKey(file, a, bag, "input")
	rules := a.Arg("rules")
	if rules == nil || rules.Kind != ast.KindObject {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"Router requires a rules: {condition: target, ...} object",
			"add a rules object mapping each condition string to a target path")
		return
	}
	for _, entry := range rules.Object {
		if _, err := expr.Compile(entry.Key); err != nil {
			bag.Emit(diag.Error, "E-SEM-SHAPE", file, rules.Span,
				"invalid rule condition syntax: "+err.Error(),
				"fix the expression syntax")
		}
		if _, ok := entry.Value.AsString(); !ok {
			bag.Emit(diag.Error, "E-SEM-SHAPE", file, entry.Value.Span,
				"rule target must be a path or string", "")
		}
	}
}

// checkDecisionMatrixShape requires `input` and a `rules:array|string`
// (spec §4.4). The array form is a list of {condition, ...} objects (each
// condition expr-compiled); the string form is a single expression.
func checkDecisionMatrixShape(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag) {
	requireKey(file, a, bag, "input")
	rules := a.Arg("rules")
	switch {
	case rules == nil:
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"DecisionMatrix requires a rules: [...] or rules: \"...\" argument",
			"add a rules array of {condition, ...} objects, or a single rule expression string")
	case rules.Kind == ast.KindArray:
		for _, r := range rules.Array {
			checkRuleEntryCondition(file, r, bag)
		}
	case rules.Kind == ast.KindString:
		if _, err := expr.Compile(rules.Str); err != nil {
			bag.Emit(diag.Error, "E-SEM-SHAPE", file, rules.Span,
				"invalid rule condition syntax: "+err.Error(),
				"fix the expression syntax")
		}
	default:
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, rules.Span,
			"rules must be an array or a string", "")
	}
}

// checkRuleEngineShape requires `input` and a `rules:string` single rule
// expression (spec §4.4) — unlike Router/DecisionMatrix, RuleEngine never
// accepts an array of rule objects.
func checkRuleEngineShape(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag) {
	requireKey(file, a, bag, "input")
	rules := a.Arg("rules")
	if rules == nil || rules.Kind != ast.KindString {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"RuleEngine requires a rules: \"...\" string argument",
			"add a single rule expression string")
		return
	}
	if _, err := expr.Compile(rules.Str); err != nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, rules.Span,
			"invalid rule condition syntax: "+err.Error(),
			"fix the expression syntax")
	}
}

// checkRuleEntryCondition validates one DecisionMatrix array rule entry's
// `condition` string.
func checkRuleEntryCondition(file string, r *ast.Value, bag *diag.Bag) {
	cond := r.Get("condition")
	if cond == nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, r.Span,
			"rule entry missing a condition string", "")
		return
	}
	s, ok := cond.AsString()
	if !ok {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, cond.Span,
			"rule condition must be a string", "")
		return
	}
	if _, err := expr.Compile(s); err != nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, cond.Span,
			"invalid rule condition syntax: "+err.Error(),
			"fix the expression syntax")
	}
}

// checkAggregatorWeights warns (never errors) when an Aggregator's weights
// object doesn't sum close to 1 (SPEC_FULL.md E.3.3).
func checkAggregatorWeights(file string, a *ast.Agent, bag *diag.Bag) {
	weights := a.Arg("weights")
	if weights == nil || weights.Kind != ast.KindObject {
		return
	}
	sum := 0.0
	for _, e := range weights.Object {
		if e.Value.Kind == ast.KindNumber {
			sum += e.Value.Num
		}
	}
	if sum < 0.95 || sum > 1.05 {
		bag.Emit(diag.Warning, "W-SEM-ADVISORY", file, weights.Span,
			"Aggregator weights sum to a value far from 1", "")
	}
}

// requireKey emits E-SEM-SHAPE unless name is present, regardless of kind.
func requireKey(file string, a *ast.Agent, bag *diag.Bag, name string) {
	if a.Arg(name) == nil {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"agent requires a "+name+" argument", "")
	}
}

// requireString emits E-SEM-SHAPE unless name is present and a string.
func requireString(file string, a *ast.Agent, bag *diag.Bag, name string) {
	v := a.Arg(name)
	if v == nil || v.Kind != ast.KindString {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"agent requires a "+name+": string argument", "")
	}
}

// requireObject emits E-SEM-SHAPE unless name is present and an object;
// when mustContainOneOf is non-empty, at least one of those keys must also
// be present within that object (e.g. HumanReview's `config` needing `ui`
// or `interface`).
func requireObject(file string, a *ast.Agent, bag *diag.Bag, name string, mustContainOneOf ...string) {
	v := a.Arg(name)
	if v == nil || v.Kind != ast.KindObject {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"agent requires a "+name+": object argument", "")
		return
	}
	if len(mustContainOneOf) == 0 {
		return
	}
	for _, k := range mustContainOneOf {
		if v.Has(k) {
			return
		}
	}
	bag.Emit(diag.Error, "E-SEM-SHAPE", file, v.Span,
		"agent's "+name+" object requires one of: "+joinNames(mustContainOneOf), "")
}

// requireStringOrObject emits E-SEM-SHAPE unless name is present as either
// a string or an object (spec's `model`/`config` shapes); when rec is
// non-nil, Config is populated via argsToObject at the checkShape call
// site as usual — this only validates the one key's kind.
func requireStringOrObject(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag, name string, _ ...string) {
	v := a.Arg(name)
	if v == nil || (v.Kind != ast.KindString && v.Kind != ast.KindObject) {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"agent requires a "+name+": string or object argument", "")
	}
}

// requireOneOf emits E-SEM-SHAPE unless at least one of names is present.
func requireOneOf(file string, a *ast.Agent, rec *ir.AgentRecord, bag *diag.Bag, names ...string) {
	found := false
	for _, n := range names {
		if a.Arg(n) != nil {
			found = true
			break
		}
	}
	if !found {
		bag.Emit(diag.Error, "E-SEM-SHAPE", file, a.Span,
			"agent requires one of: "+joinNames(names),
			"")
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// argsToObject builds an Object Value from an agent's argument list,
// preserving declaration order (spec §4.5 Determinism); positional
// arguments are skipped since only named arguments have a stable key.
func argsToObject(a *ast.Agent) *ast.Value {
	obj := &ast.Value{Kind: ast.KindObject, Span: a.Span}
	for _, arg := range a.Args {
		if arg.Name == "" {
			continue
		}
		obj.Object = append(obj.Object, ast.ObjectEntry{Key: arg.Name, Value: arg.Value})
	}
	return obj
}

func replaceEntry(obj *ast.Value, key string, val *ast.Value) *ast.Value {
	out := &ast.Value{Kind: ast.KindObject, Span: obj.Span}
	replaced := false
	for _, e := range obj.Object {
		if e.Key == key {
			out.Object = append(out.Object, ast.ObjectEntry{Key: key, Value: val})
			replaced = true
			continue
		}
		out.Object = append(out.Object, e)
	}
	if !replaced {
		out.Object = append(out.Object, ast.ObjectEntry{Key: key, Value: val})
	}
	return out
}

func removeEntry(obj *ast.Value, key string) *ast.Value {
	out := &ast.Value{Kind: ast.KindObject, Span: obj.Span}
	for _, e := range obj.Object {
		if e.Key == key {
			continue
		}
		out.Object = append(out.Object, e)
	}
	return out
}
