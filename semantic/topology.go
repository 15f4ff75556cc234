package semantic

import (
	"strings"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// collectIO reads an agent's input/output arguments, accepting either a
// single string/path or an array of them (spec §3: agents may fan in/out to
// more than one subject).
func collectIO(a *ast.Agent) (inputs, outputs []string) {
	return valueRefs(a.Arg("input")), valueRefs(a.Arg("output"))
}

func valueRefs(v *ast.Value) []string {
	if v == nil {
		return nil
	}
	if v.Kind == ast.KindArray {
		out := make([]string, 0, len(v.Array))
		for _, e := range v.Array {
			if s, ok := e.AsString(); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := v.AsString(); ok {
		return []string{s}
	}
	return nil
}

// buildTopology is Pass 4 (spec §4.4, §9 Graph construction): builds the
// producer-consumer graph for one workflow's resolved agent records and
// runs cycle detection over the direct-reference subgraph only — buffered
// message-broker subjects (EdgeSubject) are exempt (spec §3 invariant 4).
func buildTopology(file string, records []*ir.AgentRecord, bag *diag.Bag) *ir.TopologyGraph {
	g := ir.NewTopologyGraph()
	for _, r := range records {
		g.AddAgent(r)
	}
	for _, r := range records {
		ins, outs := collectIO(r.Node)
		r.InputSubjects = ins
		r.OutputSubjects = outs
		for _, ref := range ins {
			root := firstSegment(ref)
			if g.AgentByID(root) != nil {
				g.AddEdge(ir.Edge{Kind: ir.EdgeDirect, From: root, To: r.ID})
			} else {
				g.AddEdge(ir.Edge{Kind: ir.EdgeSubject, To: r.ID, Subject: ref})
			}
		}
		for _, ref := range outs {
			root := firstSegment(ref)
			if g.AgentByID(root) != nil {
				g.AddEdge(ir.Edge{Kind: ir.EdgeDirect, From: r.ID, To: root})
			} else {
				g.AddEdge(ir.Edge{Kind: ir.EdgeSubject, From: r.ID, Subject: ref})
			}
		}
	}
	detectCycles(file, g, bag)
	return g
}

func firstSegment(ref string) string {
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		return ref[:i]
	}
	return ref
}

// detectCycles runs DFS over the direct-edge subgraph, reporting the first
// cycle found per unvisited component as E-SEM-CYCLE (spec §3 invariant 4).
func detectCycles(file string, g *ir.TopologyGraph, bag *diag.Bag) {
	adj := make(map[string][]string)
	for _, e := range g.DirectEdges() {
		adj[e.From] = append(adj[e.From], e.To)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, next := range adj[id] {
			switch color[next] {
			case gray:
				cyclePath := append(append([]string{}, path...), next)
				rec := g.AgentByID(id)
				span := rec.Node.Span
				bag.Emit(diag.Error, "E-SEM-CYCLE", file, span,
					"direct-reference cycle: "+strings.Join(cyclePath, " -> "),
					"break the cycle by routing through a buffered subject instead")
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, r := range g.Agents {
		if color[r.ID] == white {
			visit(r.ID)
		}
	}
}
