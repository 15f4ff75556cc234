// Package codegen walks a semantic.Result and renders every agent and
// every workflow into a deterministic artifact.Tree using the Template
// Engine Adapter (spec §4.5, §4.6).
package codegen

import (
	"fmt"
	"path"

	"github.com/kumeo-dev/kumeoc/artifact"
	"github.com/kumeo-dev/kumeoc/semantic"
	"github.com/kumeo-dev/kumeoc/semantic/ir"
	"github.com/kumeo-dev/kumeoc/template"
)

// Generator renders resolved workflows into a virtual file tree. Bundles
// are resolved by kind + target language; an unmapped Custom kind falls
// back to a minimal passthrough bundle (SPEC_FULL.md E.3.5) instead of
// failing with E-GEN-TMPL.
type Generator struct {
	agentBundles map[string]*template.Bundle // "<kind>/<lang>" -> bundle
	fallback     *template.Bundle
	workflowBundle *template.Bundle
}

// NewGenerator constructs a Generator. agentBundles keys are produced by
// BundleKey; fallback renders a Custom agent with no matching bundle;
// workflowBundle renders the workflow-level Taskfile/Helm chart/README.
func NewGenerator(agentBundles map[string]*template.Bundle, fallback, workflowBundle *template.Bundle) *Generator {
	return &Generator{agentBundles: agentBundles, fallback: fallback, workflowBundle: workflowBundle}
}

// BundleKey is the agentBundles lookup key for a given kind/language pair.
func BundleKey(kind string, lang ir.TargetLanguage) string {
	return kind + "/" + string(lang)
}

// Generate renders every workflow in result, in declaration order, into a
// single artifact.Tree (spec §4.5: "the entire output tree for one compile
// is built in memory before any file is written").
func (g *Generator) Generate(result *semantic.Result) (*artifact.Tree, error) {
	tree := artifact.NewTree()
	for _, name := range result.Order {
		wir := result.Workflows[name]
		if err := g.renderWorkflow(tree, wir); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (g *Generator) renderWorkflow(tree *artifact.Tree, wir *semantic.WorkflowIR) error {
	wctx := buildWorkflowContext(wir)

	for _, rec := range wir.Graph.Agents {
		actx := buildAgentContext(rec)
		wctx.Agents = append(wctx.Agents, actx)
	}

	for i, rec := range wir.Graph.Agents {
		bundle := g.resolveBundle(rec)
		if bundle == nil {
			return fmt.Errorf("E-GEN-TMPL: no template bundle for kind %q target %q and no fallback registered",
				rec.Kind, rec.Target)
		}
		rendered, err := bundle.Render(map[string]interface{}{
			"Agent":    wctx.Agents[i],
			"Workflow": wctx,
		})
		if err != nil {
			return err
		}
		for relPath, content := range rendered {
			tree.Set(path.Join(wir.Name, "agents", rec.ID, relPath), content)
		}
	}

	if g.workflowBundle != nil {
		rendered, err := g.workflowBundle.Render(map[string]interface{}{"Workflow": wctx})
		if err != nil {
			return err
		}
		for relPath, content := range rendered {
			tree.Set(path.Join(wir.Name, relPath), content)
		}
	}
	return nil
}

// resolveBundle looks up a bundle by the agent's written kind name (so a
// Custom kind is looked up by its own name, not the "Custom:" tag) and the
// target language assigned in Pass 6; Custom kinds with no specific bundle
// fall back to the passthrough bundle.
func (g *Generator) resolveBundle(rec *ir.AgentRecord) *template.Bundle {
	name := rec.Kind
	if rec.Custom {
		name = rec.Node.KindName
	}
	if b, ok := g.agentBundles[BundleKey(name, rec.Target)]; ok {
		return b
	}
	if rec.Custom {
		return g.fallback
	}
	return nil
}

func buildWorkflowContext(wir *semantic.WorkflowIR) *WorkflowContext {
	fp, _ := fingerprintWorkflow(wir)
	wctx := &WorkflowContext{
		Name:        wir.Name,
		Fingerprint: fmt.Sprintf("%016x", fp),
	}
	for _, v := range wir.Sources {
		wctx.Sources = append(wctx.Sources, valueToNative(v))
	}
	for _, v := range wir.Targets {
		wctx.Targets = append(wctx.Targets, valueToNative(v))
	}
	for _, v := range wir.Contexts {
		wctx.Contexts = append(wctx.Contexts, valueToNative(v))
	}
	wctx.Monitor = valueToNative(wir.Monitor)
	wctx.Deployment = valueToNative(wir.Deployment)
	return wctx
}

func buildAgentContext(rec *ir.AgentRecord) AgentContext {
	return AgentContext{
		ID:             rec.ID,
		Kind:           rec.Kind,
		Custom:         rec.Custom,
		Config:         valueToNative(rec.Config),
		Target:         string(rec.Target),
		CPU:            rec.Resources.CPU,
		Memory:         rec.Resources.Memory,
		GPU:            rec.Resources.GPU,
		InputSubjects:  rec.InputSubjects,
		OutputSubjects: rec.OutputSubjects,
	}
}

// fingerprintWorkflow combines every agent record's Hash() into one
// fingerprint for this workflow (SPEC_FULL.md E.3.4). The combination
// depends on the agents' declaration order.
func fingerprintWorkflow(wir *semantic.WorkflowIR) (uint64, error) {
	var acc uint64
	for _, rec := range wir.Graph.Agents {
		h, err := rec.Hash()
		if err != nil {
			return 0, err
		}
		acc ^= h + 0x9e3779b97f4a7c15 + (acc << 6) + (acc >> 2)
	}
	return acc, nil
}
