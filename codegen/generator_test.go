package codegen_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumeo-dev/kumeoc/codegen"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/parser"
	"github.com/kumeo-dev/kumeoc/semantic"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
	"github.com/kumeo-dev/kumeoc/template"
)

func buildResult(t *testing.T, src string) *semantic.Result {
	t.Helper()
	bag := diag.NewBag()
	prog := parser.Parse("t.kumeo", []byte(src), bag)
	require.False(t, bag.HasErrors())
	result := semantic.New(bag).Analyze("t.kumeo", prog)
	require.False(t, bag.HasErrors())
	return result
}

func loadTestBundle(t *testing.T, fs fstest.MapFS, prefix string) *template.Bundle {
	t.Helper()
	b, err := template.NewEngine().LoadBundleFS(fs, prefix, "bundles/"+prefix)
	require.NoError(t, err)
	return b
}

func TestGenerateRendersOneFilePerAgentPlusWorkflow(t *testing.T) {
	src := `workflow Pipeline {
  agents: [
    Aggregator(id: "agg", method: "mean", weights: {x: 1}, input: source, output: "out")
  ]
}`
	result := buildResult(t, src)

	fs := fstest.MapFS{
		"bundles/Aggregator/scripting/main.go.tmpl": {Data: []byte("// agent {{.Agent.ID}}\n")},
		"bundles/_workflow/Taskfile.yml.tmpl":       {Data: []byte("workflow: {{.Workflow.Name}}\nfingerprint: {{.Workflow.Fingerprint}}\n")},
	}
	agentBundle := loadTestBundle(t, fs, "Aggregator/scripting")
	workflowBundle := loadTestBundle(t, fs, "_workflow")

	agentBundles := map[string]*template.Bundle{
		codegen.BundleKey("Aggregator", ir.LangScripting): agentBundle,
	}
	gen := codegen.NewGenerator(agentBundles, nil, workflowBundle)
	tree, err := gen.Generate(result)
	require.NoError(t, err)

	content, ok := tree.Get("Pipeline/agents/agg/main.go")
	require.True(t, ok)
	assert.Contains(t, string(content), "agent agg")

	wfContent, ok := tree.Get("Pipeline/Taskfile.yml")
	require.True(t, ok)
	assert.Contains(t, string(wfContent), "workflow: Pipeline")
}

func TestGenerateFallsBackToPassthroughForUnmappedCustomKind(t *testing.T) {
	src := `workflow W {
  agents: [MyCoolAgent(id: "x", foo: "bar", input: source, output: "out")]
}`
	result := buildResult(t, src)

	fs := fstest.MapFS{
		"bundles/_custom/passthrough/main.go.tmpl": {Data: []byte("// passthrough for {{.Agent.ID}}\n")},
	}
	fallback := loadTestBundle(t, fs, "_custom/passthrough")

	gen := codegen.NewGenerator(map[string]*template.Bundle{}, fallback, nil)
	tree, err := gen.Generate(result)
	require.NoError(t, err)

	content, ok := tree.Get("W/agents/x/main.go")
	require.True(t, ok)
	assert.Contains(t, string(content), "passthrough for x")
}

func TestGenerateErrorsWhenNoBundleAndNotCustom(t *testing.T) {
	src := `workflow W {
  agents: [Aggregator(id: "a", method: "mean", weights: {x: 1}, input: source, output: "out")]
}`
	result := buildResult(t, src)
	gen := codegen.NewGenerator(map[string]*template.Bundle{}, nil, nil)
	_, err := gen.Generate(result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E-GEN-TMPL")
}

func TestGenerateIsDeterministicAcrossRuns(t *testing.T) {
	src := `workflow Pipeline {
  agents: [
    Aggregator(id: "agg", method: "mean", weights: {x: 1}, input: source, output: "b"),
    Aggregator(id: "b", method: "mean", weights: {x: 1}, input: "agg", output: "out")
  ]
}`
	fs := fstest.MapFS{
		"bundles/Aggregator/scripting/main.go.tmpl": {Data: []byte("// {{.Agent.ID}}\n")},
	}
	agentBundle := loadTestBundle(t, fs, "Aggregator/scripting")
	agentBundles := map[string]*template.Bundle{
		codegen.BundleKey("Aggregator", ir.LangScripting): agentBundle,
	}

	result1 := buildResult(t, src)
	gen1 := codegen.NewGenerator(agentBundles, nil, nil)
	tree1, err := gen1.Generate(result1)
	require.NoError(t, err)

	result2 := buildResult(t, src)
	gen2 := codegen.NewGenerator(agentBundles, nil, nil)
	tree2, err := gen2.Generate(result2)
	require.NoError(t, err)

	h1, err := tree1.Hash()
	require.NoError(t, err)
	h2, err := tree2.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, tree1.Paths(), tree2.Paths())
}
