package semantic

import (
	"strings"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
)

// expandedAgents is Pass 5 (spec §4.4): for every integration naming
// workflow w, splices its subworkflow's agents into w's agent list, with
// every explicit id: prefixed by "<use>__" to keep it unique across multiple
// uses of the same subworkflow (a spliced agent without an id: is not
// prefixed; it gets an ordinary auto-generated id in the host scope), and
// every input.*/output.*/internal
// reference inside the spliced agents rewritten to the host binding or the
// prefixed id.
func expandedAgents(prog *ast.Program, w *ast.Workflow, file string, bag *diag.Bag) []*ast.Agent {
	out := append([]*ast.Agent{}, w.Agents...)
	for _, in := range prog.Integrations() {
		if in.Workflow != w.Name {
			continue
		}
		sub := prog.FindSubworkflow(in.Use)
		if sub == nil {
			bag.Emit(diag.Error, "E-SEM-INTEG", file, in.Span,
				"integration references unknown subworkflow \""+in.Use+"\"", "")
			continue
		}
		out = append(out, expandOne(in, sub, file, bag)...)
	}
	return out
}

func expandOne(in *ast.Integration, sub *ast.Subworkflow, file string, bag *diag.Bag) []*ast.Agent {
	inputMap := make(map[string]*ast.Value)
	seenInput := make(map[string]bool)
	for _, m := range in.InputMapping {
		if seenInput[m.Name] {
			bag.Emit(diag.Error, "E-SEM-INTEG", file, m.Span,
				"subworkflow input \""+m.Name+"\" bound more than once", "")
			continue
		}
		seenInput[m.Name] = true
		inputMap[m.Name] = m.Path
	}
	for _, name := range sub.Input {
		if !seenInput[name] {
			bag.Emit(diag.Error, "E-SEM-INTEG", file, in.Span,
				"subworkflow input \""+name+"\" is not bound by this integration", "")
		}
	}

	outputMap := make(map[string]*ast.Value)
	for _, m := range in.OutputMapping {
		outputMap[m.Name] = m.Path
	}

	subAgentIDs := make(map[string]bool)
	for _, a := range sub.Agents {
		if id := a.IDArg(); id != "" {
			subAgentIDs[id] = true
		}
	}
	prefix := in.Use

	out := make([]*ast.Agent, 0, len(sub.Agents))
	for _, a := range sub.Agents {
		out = append(out, rewriteAgent(a, subAgentIDs, prefix, inputMap, outputMap))
	}
	return out
}

// rewriteAgent clones a subworkflow agent with every argument value passed
// through rewriteValue and, when the agent has an explicit id, the id
// itself prefixed so it cannot collide with the host workflow's own ids.
func rewriteAgent(a *ast.Agent, subAgentIDs map[string]bool, prefix string, inputMap, outputMap map[string]*ast.Value) *ast.Agent {
	args := make([]ast.Argument, len(a.Args))
	for i, arg := range a.Args {
		val := rewriteValue(arg.Value, subAgentIDs, prefix, inputMap, outputMap)
		if arg.Name == "id" && val.Kind == ast.KindString {
			val = &ast.Value{Kind: ast.KindString, Str: prefix + "__" + val.Str, Span: val.Span}
		}
		args[i] = ast.Argument{Name: arg.Name, Value: val, Span: arg.Span}
	}
	return &ast.Agent{KindName: a.KindName, Args: args, Span: a.Span}
}

func rewriteValue(v *ast.Value, subAgentIDs map[string]bool, prefix string, inputMap, outputMap map[string]*ast.Value) *ast.Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.KindString:
		if repl, newRef, ok := rewriteRef(v.Str, subAgentIDs, prefix, inputMap, outputMap); ok {
			if repl != nil {
				return repl
			}
			return &ast.Value{Kind: ast.KindString, Str: newRef, Span: v.Span}
		}
		return v
	case ast.KindPath:
		ref := v.PathString()
		if repl, newRef, ok := rewriteRef(ref, subAgentIDs, prefix, inputMap, outputMap); ok {
			if repl != nil {
				return repl
			}
			return &ast.Value{Kind: ast.KindPath, Path: strings.Split(newRef, "."), Span: v.Span}
		}
		return v
	case ast.KindArray:
		out := make([]*ast.Value, len(v.Array))
		for i, e := range v.Array {
			out[i] = rewriteValue(e, subAgentIDs, prefix, inputMap, outputMap)
		}
		return &ast.Value{Kind: ast.KindArray, Array: out, Span: v.Span}
	case ast.KindObject:
		out := make([]ast.ObjectEntry, len(v.Object))
		for i, e := range v.Object {
			out[i] = ast.ObjectEntry{Key: e.Key, Value: rewriteValue(e.Value, subAgentIDs, prefix, inputMap, outputMap)}
		}
		return &ast.Value{Kind: ast.KindObject, Object: out, Span: v.Span}
	case ast.KindCall:
		out := make([]ast.Argument, len(v.CallArg))
		for i, arg := range v.CallArg {
			out[i] = ast.Argument{Name: arg.Name, Value: rewriteValue(arg.Value, subAgentIDs, prefix, inputMap, outputMap), Span: arg.Span}
		}
		return &ast.Value{Kind: ast.KindCall, CallFn: v.CallFn, CallArg: out, Span: v.Span}
	default:
		return v
	}
}

// rewriteRef resolves one dotted reference string against the subworkflow's
// input/output bindings and its own agent-id namespace. ok is false when
// the string isn't a reference the splice needs to touch (an unrelated
// literal); repl is non-nil when the whole value is replaced by a host
// binding rather than renamed in place.
func rewriteRef(ref string, subAgentIDs map[string]bool, prefix string, inputMap, outputMap map[string]*ast.Value) (repl *ast.Value, newRef string, ok bool) {
	parts := strings.SplitN(ref, ".", 2)
	root := parts[0]
	switch root {
	case "input":
		if len(parts) == 2 {
			if v, found := inputMap[parts[1]]; found {
				return v, "", true
			}
		}
	case "output":
		if len(parts) == 2 {
			if v, found := outputMap[parts[1]]; found {
				return v, "", true
			}
		}
	default:
		if subAgentIDs[root] {
			newRoot := prefix + "__" + root
			if len(parts) == 2 {
				return nil, newRoot + "." + parts[1], true
			}
			return nil, newRoot, true
		}
	}
	return nil, "", false
}
