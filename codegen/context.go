package codegen

import "github.com/kumeo-dev/kumeoc/ast"

// valueToNative converts an ast.Value into plain Go data (string, float64,
// bool, nil, []interface{}, map[string]interface{}) so the `to-yaml`/
// `to-json` template filters can marshal it without depending on the ast
// package's own String() rendering.
func valueToNative(v *ast.Value) interface{} {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.KindString:
		return v.Str
	case ast.KindNumber:
		return v.Num
	case ast.KindBoolean:
		return v.Bool
	case ast.KindNull:
		return nil
	case ast.KindPath:
		return v.PathString()
	case ast.KindArray:
		out := make([]interface{}, len(v.Array))
		for i, e := range v.Array {
			out[i] = valueToNative(e)
		}
		return out
	case ast.KindObject:
		out := make(map[string]interface{}, len(v.Object))
		for _, e := range v.Object {
			out[e.Key] = valueToNative(e.Value)
		}
		return out
	case ast.KindCall:
		args := make(map[string]interface{}, len(v.CallArg))
		for i, a := range v.CallArg {
			key := a.Name
			if key == "" {
				key = "arg" + itoa(i)
			}
			args[key] = valueToNative(a.Value)
		}
		return map[string]interface{}{"fn": v.CallFn, "args": args}
	default:
		return nil
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// AgentContext is the template-facing view of one resolved agent (spec
// §4.6: the generator's render context).
type AgentContext struct {
	ID             string
	Kind           string
	Custom         bool
	Config         interface{}
	Target         string
	CPU            string
	Memory         string
	GPU            string
	InputSubjects  []string
	OutputSubjects []string
}

// WorkflowContext is the template-facing view of one workflow, passed to
// both per-agent and workflow-level bundles.
type WorkflowContext struct {
	Name        string
	Agents      []AgentContext
	Sources     []interface{}
	Targets     []interface{}
	Contexts    []interface{}
	Monitor     interface{}
	Deployment  interface{}
	Fingerprint string
}
