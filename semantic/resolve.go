package semantic

import (
	"strings"

	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/token"
)

// reservedRoots are the namespace prefixes spec §3 calls out as always
// resolvable without a per-name declaration: external resource maps the
// compiler never enumerates.
var reservedRoots = map[string]bool{
	"source": true, "target": true, "context": true,
	"input": true, "output": true,
	"config": true, "data": true, "models": true, "schemas": true,
}

// scope bundles the symbol environment a workflow or subworkflow body
// resolves references against (spec §4.4 Pass 2: reference resolution).
type scope struct {
	file string
	bag  *diag.Bag

	agentIDs map[string]bool // every agent id visible in this scope
	inputs   map[string]bool // subworkflow Input names, nil for a workflow scope
	outputs  map[string]bool // subworkflow Output names, nil for a workflow scope
	hasSrc   bool
	hasTgt   bool
	hasCtx   bool
}

// resolveRef validates one reference string (a bare subject literal or a
// dotted path) against scope s, emitting E-SEM-REF when it cannot resolve
// (spec §3 invariants 2 and 3).
func (s *scope) resolveRef(ref string, span token.Span, asOutput bool) {
	parts := strings.Split(ref, ".")
	if len(parts) == 1 {
		// A single bare identifier is always a valid literal subject name;
		// the broker creates it on first use (spec §3 invariant 2c).
		return
	}
	root := parts[0]
	if root == "input" {
		if s.inputs == nil || !s.inputs[parts[1]] {
			s.bag.Emit(diag.Error, "E-SEM-REF", s.file, span,
				"reference to undeclared subworkflow input \""+ref+"\"",
				"add it to this subworkflow's input list")
		}
		return
	}
	if root == "output" {
		if s.outputs == nil || !s.outputs[parts[1]] {
			s.bag.Emit(diag.Error, "E-SEM-REF", s.file, span,
				"reference to undeclared subworkflow output \""+ref+"\"",
				"add it to this subworkflow's output list")
		}
		return
	}
	if root == "target" && asOutput {
		if !s.hasTgt {
			s.bag.Emit(diag.Error, "E-SEM-REF", s.file, span,
				"output references target.* but this workflow declares no targets",
				"add a target: section, or emit to a literal subject instead")
		}
		return
	}
	if reservedRoots[root] {
		return
	}
	if s.agentIDs[root] {
		return
	}
	s.bag.Emit(diag.Error, "E-SEM-REF", s.file, span,
		"unresolved reference \""+ref+"\": \""+root+"\" is not a known agent, "+
			"source, target, context, input, output, or resource-map name",
		"check the name for a typo, or declare the missing agent/section")
}
