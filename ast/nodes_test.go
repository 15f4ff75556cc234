package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumeo-dev/kumeoc/ast"
)

func TestAgentIDArgAndArg(t *testing.T) {
	a := &ast.Agent{
		KindName: "LLM",
		Args: []ast.Argument{
			{Name: "id", Value: strVal("summarizer")},
			{Name: "engine", Value: strVal("openai/gpt-4")},
			{Value: strVal("positional-one")},
		},
	}
	assert.Equal(t, "summarizer", a.IDArg())
	assert.Equal(t, "openai/gpt-4", a.Arg("engine").Str)
	assert.Nil(t, a.Arg("missing"))
	assert.Equal(t, []*ast.Value{strVal("positional-one")}, a.Positional())
}

func TestAgentIDArgAbsent(t *testing.T) {
	a := &ast.Agent{KindName: "Router", Args: []ast.Argument{
		{Name: "engine", Value: strVal("x")},
	}}
	assert.Equal(t, "", a.IDArg())
}

func TestWorkflowFindAgentSearchesPreprocessorsThenAgents(t *testing.T) {
	pre := &ast.Agent{KindName: "DataNormalizer", Args: []ast.Argument{{Name: "id", Value: strVal("norm")}}}
	main := &ast.Agent{KindName: "LLM", Args: []ast.Argument{{Name: "id", Value: strVal("bot")}}}
	w := &ast.Workflow{Name: "Wf", Preprocessors: []*ast.Agent{pre}, Agents: []*ast.Agent{main}}

	assert.Same(t, pre, w.FindAgent("norm"))
	assert.Same(t, main, w.FindAgent("bot"))
	assert.Nil(t, w.FindAgent("nope"))
}

func TestProgramLookups(t *testing.T) {
	w1 := &ast.Workflow{Name: "Alpha"}
	sw1 := &ast.Subworkflow{Name: "Shared"}
	integ := &ast.Integration{Workflow: "Alpha", Use: "Shared"}

	prog := &ast.Program{Items: []ast.Item{
		{Kind: ast.ItemWorkflow, Workflow: w1},
		{Kind: ast.ItemSubworkflow, Subworkflow: sw1},
		{Kind: ast.ItemIntegration, Integration: integ},
	}}

	assert.Equal(t, []*ast.Workflow{w1}, prog.Workflows())
	assert.Equal(t, []*ast.Subworkflow{sw1}, prog.Subworkflows())
	assert.Equal(t, []*ast.Integration{integ}, prog.Integrations())
	assert.Same(t, w1, prog.FindWorkflow("Alpha"))
	assert.Nil(t, prog.FindWorkflow("Missing"))
	assert.Same(t, sw1, prog.FindSubworkflow("Shared"))
	assert.Nil(t, prog.FindSubworkflow("Missing"))
}
