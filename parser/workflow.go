package parser

import (
	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/token"
)

// parseWorkflow implements: workflow := 'workflow' Ident '{' section* '}'
func (p *Parser) parseWorkflow() *ast.Workflow {
	start := p.advance().Span // 'workflow'
	name, ok := p.expectIdentLike()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}
	w := &ast.Workflow{Name: name}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		secName, ok := p.expectIdentLike()
		if !ok {
			return w
		}
		if _, ok := p.expect(token.COLON); !ok {
			return w
		}
		val := p.parseValue()
		switch secName {
		case "source":
			w.Sources = append(w.Sources, flattenEndpoints(val)...)
		case "target":
			w.Targets = append(w.Targets, flattenEndpoints(val)...)
		case "context":
			w.Contexts = append(w.Contexts, flattenEndpoints(val)...)
		case "preprocessors":
			w.Preprocessors = append(w.Preprocessors, valuesToAgents(val)...)
		case "agents":
			w.Agents = append(w.Agents, valuesToAgents(val)...)
		case "monitor":
			w.Monitor = val
		case "deployment":
			w.Deployment = val
		default:
			p.errorf(val.Span, "unknown workflow section %q", secName)
		}
	}
	end := p.cur().Span
	if t, ok := p.expect(token.RBRACE); ok {
		end = t.Span
	}
	w.Span = start.Cover(end)
	return w
}

// parseSubworkflow implements: subworkflow := 'subworkflow' Ident '{' section* '}'
func (p *Parser) parseSubworkflow() *ast.Subworkflow {
	start := p.advance().Span // 'subworkflow'
	name, ok := p.expectIdentLike()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}
	s := &ast.Subworkflow{Name: name}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		secName, ok := p.expectIdentLike()
		if !ok {
			return s
		}
		if _, ok := p.expect(token.COLON); !ok {
			return s
		}
		val := p.parseValue()
		switch secName {
		case "input":
			s.Input = valuesToStrings(val)
		case "output":
			s.Output = valuesToStrings(val)
		case "context":
			s.Contexts = append(s.Contexts, flattenEndpoints(val)...)
		case "agents":
			s.Agents = append(s.Agents, valuesToAgents(val)...)
		default:
			p.errorf(val.Span, "unknown subworkflow section %q", secName)
		}
	}
	end := p.cur().Span
	if t, ok := p.expect(token.RBRACE); ok {
		end = t.Span
	}
	s.Span = start.Cover(end)
	return s
}

// parseIntegration implements: integration := 'integration' '{' kvEntry (',' kvEntry)* '}'
func (p *Parser) parseIntegration() *ast.Integration {
	start := p.advance().Span // 'integration'
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}
	in := &ast.Integration{}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		key, ok := p.parseKey()
		if !ok {
			return in
		}
		if _, ok := p.expect(token.COLON); !ok {
			return in
		}
		val := p.parseValue()
		switch key {
		case "workflow":
			in.Workflow = valueToIdentString(val)
		case "use":
			in.Use = valueToIdentString(val)
		case "input":
			in.InputMapping = append(in.InputMapping, objectToMapping(val)...)
		case "output":
			in.OutputMapping = append(in.OutputMapping, objectToMapping(val)...)
		default:
			p.errorf(val.Span, "unknown integration key %q", key)
		}
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
	}
	end := p.cur().Span
	if t, ok := p.expect(token.RBRACE); ok {
		end = t.Span
	}
	in.Span = start.Cover(end)
	return in
}

// flattenEndpoints accepts either a single call value or an array of call
// values for `source:`/`target:`/`context:` sections (spec §3: "optional
// Source (or list)").
func flattenEndpoints(v *ast.Value) []*ast.Value {
	if v == nil {
		return nil
	}
	if v.Kind == ast.KindArray {
		return v.Array
	}
	return []*ast.Value{v}
}

// valuesToAgents converts an array of call values into Agent nodes.
func valuesToAgents(v *ast.Value) []*ast.Agent {
	if v == nil || v.Kind != ast.KindArray {
		if v != nil && v.Kind == ast.KindCall {
			return []*ast.Agent{valueToAgent(v)}
		}
		return nil
	}
	out := make([]*ast.Agent, 0, len(v.Array))
	for _, e := range v.Array {
		out = append(out, valueToAgent(e))
	}
	return out
}

func valueToAgent(v *ast.Value) *ast.Agent {
	if v == nil {
		return &ast.Agent{}
	}
	if v.Kind != ast.KindCall {
		// Malformed input (e.g. a bare string where an agent call was
		// expected); keep parser totality by wrapping it as a zero-arg
		// Custom agent rather than panicking. Semantic analysis will reject
		// it with E-SEM-SHAPE.
		return &ast.Agent{KindName: v.PathString(), Span: v.Span}
	}
	return &ast.Agent{KindName: v.CallFn, Args: v.CallArg, Span: v.Span}
}

func valuesToStrings(v *ast.Value) []string {
	if v == nil || v.Kind != ast.KindArray {
		return nil
	}
	out := make([]string, 0, len(v.Array))
	for _, e := range v.Array {
		if s, ok := e.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

func valueToIdentString(v *ast.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	return ""
}

// objectToMapping converts an Object value's entries into MappingEntry
// pairs for an integration's input/output mapping.
func objectToMapping(v *ast.Value) []ast.MappingEntry {
	if v == nil || v.Kind != ast.KindObject {
		return nil
	}
	out := make([]ast.MappingEntry, 0, len(v.Object))
	for _, e := range v.Object {
		out = append(out, ast.MappingEntry{Name: e.Key, Path: e.Value, Span: e.Value.Span})
	}
	return out
}
