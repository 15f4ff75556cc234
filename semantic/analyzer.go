// Package semantic implements the six-pass semantic analyzer (spec §4.4).
// Per workflow, integration expansion runs first, so spliced agents go
// through the remaining passes like the host's own: scope build, reference
// resolution, kind-specific shape checks, topology construction with cycle
// detection, and target-language/resource assignment. It consumes an *ast.Program and
// produces a *Result (one WorkflowIR per top-level workflow) plus
// diagnostics in the shared diag.Bag.
package semantic

import (
	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// Analyzer runs semantic analysis over a parsed Program. Its zero value is
// not usable; construct one with New. Mirrors the teacher's
// analyzer.Analyzer + functional-options shape (analyzer/option.go),
// generalized from a Go-source tree-sitter walk to a DSL-AST walk.
type Analyzer struct {
	bag           *diag.Bag
	customTargets map[string]ir.TargetLanguage
}

// Option configures an Analyzer, mirroring analyzer/option.go's
// `type Option func(*Analyzer)` idiom.
type Option func(*Analyzer)

// WithCustomTargets sets analyzer-wide target-language tiers for named
// Custom agent kinds (the compiler passes the language-policy override file
// here). A workflow's own `deployment.custom_targets` object is layered over
// these for that workflow (spec §4.5 policy table, Custom-kind override).
func WithCustomTargets(targets map[string]ir.TargetLanguage) Option {
	return func(a *Analyzer) { a.customTargets = targets }
}

// New constructs an Analyzer reporting diagnostics into bag.
func New(bag *diag.Bag, opts ...Option) *Analyzer {
	a := &Analyzer{bag: bag, customTargets: map[string]ir.TargetLanguage{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs all six passes over every top-level workflow in prog and
// returns the resolved Result. Subworkflows are scoped once up front
// (their own reference resolution runs against their own input/output
// namespace) so integration expansion can safely splice their agents into
// a host workflow afterward.
func (a *Analyzer) Analyze(file string, prog *ast.Program) *Result {
	for _, s := range prog.Subworkflows() {
		a.analyzeSubworkflow(file, s)
	}

	res := &Result{Workflows: map[string]*WorkflowIR{}}
	for _, w := range prog.Workflows() {
		wir := a.analyzeWorkflow(file, prog, w)
		res.Workflows[w.Name] = wir
		res.Order = append(res.Order, w.Name)
	}
	return res
}

// analyzeSubworkflow scopes and resolves a subworkflow body in isolation,
// against its own input/output namespace rather than any host workflow's.
func (a *Analyzer) analyzeSubworkflow(file string, s *ast.Subworkflow) {
	records := scopeAgents(file, [][]*ast.Agent{s.Agents}, a.bag)

	sc := &scope{
		file:     file,
		bag:      a.bag,
		agentIDs: idSet(records),
		inputs:   stringSet(s.Input),
		outputs:  stringSet(s.Output),
	}
	for _, r := range records {
		a.resolveAgentRefs(sc, r.Node)
		checkShape(file, r, a.bag)
	}
}

// analyzeWorkflow runs the full per-workflow pipeline: integration
// expansion, scope, reference resolution, shape checks, topology + cycle
// detection, then language/resource assignment.
func (a *Analyzer) analyzeWorkflow(file string, prog *ast.Program, w *ast.Workflow) *WorkflowIR {
	expanded := expandedAgents(prog, w, file, a.bag)

	lists := [][]*ast.Agent{w.Preprocessors, expanded}
	records := scopeAgents(file, lists, a.bag)

	sc := &scope{
		file:     file,
		bag:      a.bag,
		agentIDs: idSet(records),
		hasSrc:   len(w.Sources) > 0,
		hasTgt:   len(w.Targets) > 0,
		hasCtx:   len(w.Contexts) > 0,
	}
	for _, r := range records {
		a.resolveAgentRefs(sc, r.Node)
		checkShape(file, r, a.bag)
	}

	graph := buildTopology(file, records, a.bag)

	custom := a.customTargets
	if w.Deployment != nil {
		if ct := w.Deployment.Get("custom_targets"); ct != nil {
			custom = mergeCustomTargets(custom, ct)
		}
	}
	assignLanguageAndResources(records, custom)

	return &WorkflowIR{
		Name:       w.Name,
		Graph:      graph,
		Sources:    w.Sources,
		Targets:    w.Targets,
		Contexts:   w.Contexts,
		Monitor:    w.Monitor,
		Deployment: w.Deployment,
	}
}

// resolveAgentRefs validates the reference-bearing arguments of one agent —
// `input`, `output`, and `context` — against scope sc (spec §4.4 Pass 2;
// DESIGN.md Open question (b): only these designated keys are treated as
// references, never free-form text like `prompt`).
func (a *Analyzer) resolveAgentRefs(sc *scope, agent *ast.Agent) {
	for _, ref := range valueRefs(agent.Arg("input")) {
		sc.resolveRef(ref, agent.Span, false)
	}
	for _, ref := range valueRefs(agent.Arg("output")) {
		sc.resolveRef(ref, agent.Span, true)
	}
	for _, ref := range valueRefs(agent.Arg("context")) {
		sc.resolveRef(ref, agent.Span, false)
	}
}

func idSet(records []*ir.AgentRecord) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, r := range records {
		out[r.ID] = true
	}
	return out
}

func stringSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// mergeCustomTargets overlays a workflow-level `deployment.custom_targets`
// object ({kindName: "systems"|"scripting"}) onto the analyzer-wide
// defaults.
func mergeCustomTargets(base map[string]ir.TargetLanguage, obj *ast.Value) map[string]ir.TargetLanguage {
	out := make(map[string]ir.TargetLanguage, len(base))
	for k, v := range base {
		out[k] = v
	}
	if obj.Kind != ast.KindObject {
		return out
	}
	for _, e := range obj.Object {
		if s, ok := e.Value.AsString(); ok {
			out[e.Key] = ir.TargetLanguage(s)
		}
	}
	return out
}
