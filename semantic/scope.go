package semantic

import (
	"fmt"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
)

// scopeAgents is Pass 1 (spec §4.4): assigns every agent an id — explicit
// `id:` argument, or an auto-generated "<kind_lower>_<n>" where n is the
// 1-based ordinal of agents of that kind in declaration order (spec §8
// boundary behavior) — and reports duplicates at the *second* occurrence's
// span (spec §8 boundary behavior, invariant 1).
func scopeAgents(file string, agentLists [][]*ast.Agent, bag *diag.Bag) []*ir.AgentRecord {
	seen := make(map[string]bool)
	kindCounts := make(map[string]int)
	var records []*ir.AgentRecord

	for _, list := range agentLists {
		for _, a := range list {
			kind, custom := classifyKind(a.KindName)
			id := a.IDArg()
			if id == "" {
				kindCounts[kind]++
				id = fmt.Sprintf("%s_%d", autoIDPrefix(kind), kindCounts[kind])
			}
			if seen[id] {
				bag.Emit(diag.Error, "E-SEM-DUP", file, a.Span,
					fmt.Sprintf("duplicate agent id %q", id),
					"give this agent an explicit, unique id")
				continue
			}
			seen[id] = true
			tag := kind
			if custom {
				tag = "Custom:" + kind
			}
			records = append(records, &ir.AgentRecord{
				ID:     id,
				Kind:   tag,
				Custom: custom,
				Node:   a,
			})
		}
	}
	return records
}

// identRegexpOK reports whether name matches spec §3 invariant 7:
// [A-Za-z_][A-Za-z0-9_]*
func identRegexpOK(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
