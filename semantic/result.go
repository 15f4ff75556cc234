package semantic

import (
	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// WorkflowIR is the validated, resolved form of one ast.Workflow, the unit
// the code generator walks (spec §3 Semantic IR).
type WorkflowIR struct {
	Name       string
	Graph      *ir.TopologyGraph
	Sources    []*ast.Value
	Targets    []*ast.Value
	Contexts   []*ast.Value
	Monitor    *ast.Value
	Deployment *ast.Value
}

// TargetNames returns the set of subject strings the workflow's declared
// targets expose, used by output-reference validation (spec §3 invariant 3).
func (w *WorkflowIR) TargetNames() map[string]bool {
	out := make(map[string]bool, len(w.Targets))
	for _, t := range w.Targets {
		if t.Kind == ast.KindCall && len(t.CallArg) > 0 {
			if s, ok := t.CallArg[0].Value.AsString(); ok {
				out[s] = true
			}
		}
	}
	return out
}

// Result is the output of a full semantic analysis run: one WorkflowIR per
// top-level workflow, after integration expansion.
type Result struct {
	Workflows map[string]*WorkflowIR
	// Order preserves declaration order for deterministic downstream
	// iteration (spec §4.5 Determinism).
	Order []string
}
