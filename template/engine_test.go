package template_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumeo-dev/kumeoc/template"
)

func TestLoadBundleFSParsesAllTemplatesUnderPrefix(t *testing.T) {
	fs := fstest.MapFS{
		"bundles/LLM/scripting/agent.py.tmpl":  {Data: []byte("agent={{.Agent.ID | kebab-case}}")},
		"bundles/LLM/scripting/Dockerfile.tmpl": {Data: []byte("FROM python:3.12\n")},
		"bundles/Other/ignored.txt":             {Data: []byte("not in prefix")},
	}

	engine := template.NewEngine()
	bundle, err := engine.LoadBundleFS(fs, "LLM/scripting", "bundles/LLM/scripting")
	require.NoError(t, err)
	assert.Equal(t, "LLM/scripting", bundle.Name)
	assert.Len(t, bundle.Files, 2)
	assert.Contains(t, bundle.Files, "agent.py")
	assert.Contains(t, bundle.Files, "Dockerfile")
}

func TestBundleRenderAppliesFuncMap(t *testing.T) {
	fs := fstest.MapFS{
		"bundles/x/agent.py.tmpl": {Data: []byte("# {{.Agent.ID | kebab-case}}\nCONFIG = {{.Agent.ConfigJSON}}")},
	}
	engine := template.NewEngine()
	bundle, err := engine.LoadBundleFS(fs, "x", "bundles/x")
	require.NoError(t, err)

	out, err := bundle.Render(map[string]interface{}{
		"Agent": map[string]interface{}{"ID": "MyCoolAgent", "ConfigJSON": "{}"},
	})
	require.NoError(t, err)
	require.Contains(t, out, "agent.py")
	assert.Contains(t, string(out["agent.py"]), "my-cool-agent")
}
