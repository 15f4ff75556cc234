package ast

import "github.com/kumeo-dev/kumeoc/token"

// ItemKind tags the closed set of top-level Program items (spec §3).
type ItemKind int

const (
	ItemWorkflow ItemKind = iota
	ItemSubworkflow
	ItemIntegration
)

// Item is one top-level declaration. Exactly one of Workflow, Subworkflow,
// or Integration is non-nil, selected by Kind.
type Item struct {
	Kind        ItemKind
	Workflow    *Workflow
	Subworkflow *Subworkflow
	Integration *Integration
}

// Program is the parser's top-level output: an ordered list of items.
// Ordering is preserved because code generation walks agents in
// declaration order (spec §4.5 Determinism).
type Program struct {
	Items []Item
}

// Workflows returns every top-level Workflow in declaration order.
func (p *Program) Workflows() []*Workflow {
	var out []*Workflow
	for _, it := range p.Items {
		if it.Kind == ItemWorkflow {
			out = append(out, it.Workflow)
		}
	}
	return out
}

// Subworkflows returns every top-level Subworkflow in declaration order.
func (p *Program) Subworkflows() []*Subworkflow {
	var out []*Subworkflow
	for _, it := range p.Items {
		if it.Kind == ItemSubworkflow {
			out = append(out, it.Subworkflow)
		}
	}
	return out
}

// Integrations returns every top-level Integration in declaration order.
func (p *Program) Integrations() []*Integration {
	var out []*Integration
	for _, it := range p.Items {
		if it.Kind == ItemIntegration {
			out = append(out, it.Integration)
		}
	}
	return out
}

// FindWorkflow looks up a workflow by name.
func (p *Program) FindWorkflow(name string) *Workflow {
	for _, w := range p.Workflows() {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// FindSubworkflow looks up a subworkflow by name.
func (p *Program) FindSubworkflow(name string) *Subworkflow {
	for _, s := range p.Subworkflows() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Agent is one pipeline stage: a closed kind tag, an optional explicit id,
// and a structured argument list (spec §3). KindName holds the raw
// identifier as written (e.g. "LLM", "MLModel", or a user Custom name);
// semantic analysis classifies it against the closed kind set.
type Agent struct {
	KindName string
	Args     []Argument
	Span     token.Span

	// ResolvedID is filled in by the semantic analyzer (explicit id: arg,
	// or an auto-generated "<kind>_<n>"); the AST itself only records what
	// was written.
	ResolvedID string
}

// IDArg returns the agent's explicit `id:` argument value, or "" if absent.
func (a *Agent) IDArg() string {
	for _, arg := range a.Args {
		if arg.Name == "id" && arg.Value != nil && arg.Value.Kind == KindString {
			return arg.Value.Str
		}
	}
	return ""
}

// Arg returns the named argument's value, or nil if not present.
func (a *Agent) Arg(name string) *Value {
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg.Value
		}
	}
	return nil
}

// Positional returns the agent's positional (unnamed) arguments in order.
func (a *Agent) Positional() []*Value {
	var out []*Value
	for _, arg := range a.Args {
		if arg.Name == "" {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Workflow is a named, deployable graph of agents (spec §3).
type Workflow struct {
	Name          string
	Sources       []*Value // Call values, e.g. NATS("in")
	Targets       []*Value
	Contexts      []*Value
	Preprocessors []*Agent
	Agents        []*Agent
	Monitor       *Value // Object, optional
	Deployment    *Value // Object, optional
	Span          token.Span
}

// FindAgent looks up an agent (including preprocessors) by its written id:
// argument. Auto-generated ids are only known after semantic analysis; use
// ir.AgentRecord lookups for those.
func (w *Workflow) FindAgent(id string) *Agent {
	for _, a := range w.Preprocessors {
		if a.IDArg() == id {
			return a
		}
	}
	for _, a := range w.Agents {
		if a.IDArg() == id {
			return a
		}
	}
	return nil
}

// Subworkflow is a parameterizable, reusable workflow fragment (spec §3).
type Subworkflow struct {
	Name     string
	Input    []string
	Output   []string
	Contexts []*Value
	Agents   []*Agent
	Span     token.Span
}

// MappingEntry binds a subworkflow input/output name to a PathExpr in the
// host workflow (spec §3 Integration).
type MappingEntry struct {
	Name string
	Path *Value // KindPath
	Span token.Span
}

// Integration splices a Subworkflow into a host Workflow (spec §3).
type Integration struct {
	Workflow     string
	Use          string
	InputMapping  []MappingEntry
	OutputMapping []MappingEntry
	Span          token.Span
}
