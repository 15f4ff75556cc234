// Package ir holds the validated, resolved intermediate representation
// produced by semantic analysis (spec §3 Semantic IR, §9 Graph
// construction). IR records are derived once and never mutated after
// analysis completes (spec §3 Lifecycle).
package ir

import (
	"sort"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/minio/highwayhash"
)

// SymbolKind is the closed set of reference roots a name can resolve
// against (spec §3 Symbol table).
type SymbolKind int

const (
	SymAgent SymbolKind = iota
	SymSource
	SymTarget
	SymContext
	SymInput
	SymOutput
	SymConfig
	SymData
	SymModels
	SymSchemas
)

// Symbol is one resolvable name in a workflow/subworkflow scope.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Agent is non-nil when Kind == SymAgent.
	Agent *AgentRecord
}

// EdgeKind distinguishes a message-broker subject edge (buffered, exempt
// from cycle detection) from a direct agent-to-agent reference (spec §3
// invariant 4, §9 Graph construction).
type EdgeKind int

const (
	EdgeSubject EdgeKind = iota
	EdgeDirect
)

// Edge is one producer→consumer link in the topology graph.
type Edge struct {
	Kind EdgeKind
	From string // agent id, or "" for a source/context origin
	To   string // agent id, or "" for a target destination
	// Subject is set when Kind == EdgeSubject.
	Subject string
}

// TargetLanguage is the closed tier an agent is assigned to by the
// language-assignment policy (spec §4.5).
type TargetLanguage string

const (
	LangSystems   TargetLanguage = "systems"
	LangScripting TargetLanguage = "scripting"
)

// Resources is the CPU/memory/GPU profile attached to an agent (spec §4.4
// Pass 6, expanded with concrete defaults in SPEC_FULL.md E.3.2).
type Resources struct {
	CPU    string
	Memory string
	GPU    string
}

// AgentRecord is the typed, resolved form of an ast.Agent (spec §3 Typed
// agent record).
type AgentRecord struct {
	ID     string
	Kind   string // closed kind tag, or "Custom:<name>"
	Custom bool

	Node *ast.Agent // originating AST node, for spans in later diagnostics

	InputSubjects  []string
	OutputSubjects []string

	// Config is the kind-specific validated configuration object, always
	// normalized to its canonical shape (spec §9 Open question (a): the
	// nested-object LLM form).
	Config *ast.Value

	Target    TargetLanguage
	Resources Resources
}

// Hash returns a stable fingerprint of the record's resolved shape,
// independent of map/slice iteration order, used for the generator
// determinism testable property (spec §8) and the build fingerprint
// (SPEC_FULL.md E.3.4).
func (a *AgentRecord) Hash() (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	h.Write([]byte(a.ID))
	h.Write([]byte{0})
	h.Write([]byte(a.Kind))
	h.Write([]byte{0})
	h.Write([]byte(a.Target))
	for _, s := range sortedCopy(a.InputSubjects) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, s := range sortedCopy(a.OutputSubjects) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	if a.Config != nil {
		h.Write([]byte(a.Config.String()))
	}
	return h.Sum64(), nil
}

var hashKey = []byte("KUMEOC-IR-HASH-KEY-0123456789AB!")

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// TopologyGraph is the agent/subject bipartite producer-consumer graph
// (spec §9 Graph construction): two indices, by agent id and by subject
// name, mirroring the teacher's by-name position-index idiom generalized
// from Go types/functions to agents/subjects.
type TopologyGraph struct {
	Agents  []*AgentRecord
	Edges   []Edge
	byID    map[string]int
	bySubj  map[string][]int // edge indices touching a subject
}

// NewTopologyGraph creates an empty graph ready for incremental
// construction during semantic analysis Pass 4.
func NewTopologyGraph() *TopologyGraph {
	return &TopologyGraph{
		byID:   make(map[string]int),
		bySubj: make(map[string][]int),
	}
}

// AddAgent registers an agent record and indexes it by id.
func (g *TopologyGraph) AddAgent(a *AgentRecord) {
	g.Agents = append(g.Agents, a)
	g.byID[a.ID] = len(g.Agents) - 1
}

// AgentByID looks up a previously added agent record by id.
func (g *TopologyGraph) AgentByID(id string) *AgentRecord {
	if idx, ok := g.byID[id]; ok {
		return g.Agents[idx]
	}
	return nil
}

// AddEdge appends an edge and indexes it by subject when applicable.
func (g *TopologyGraph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
	if e.Kind == EdgeSubject {
		g.bySubj[e.Subject] = append(g.bySubj[e.Subject], len(g.Edges)-1)
	}
}

// DirectEdges returns only the Direct-kind edges: the subgraph cycle
// detection runs over (spec §9: "Cycle detection runs over the
// direct-reference subgraph only").
func (g *TopologyGraph) DirectEdges() []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == EdgeDirect {
			out = append(out, e)
		}
	}
	return out
}
