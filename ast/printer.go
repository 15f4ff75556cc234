package ast

import (
	"fmt"
	"strings"
)

// Print renders a Program back to DSL surface syntax. Re-parsing the result
// must yield an AST equal up to comments and whitespace (spec §8 Parse →
// pretty-print round-trip). Printing never consults Span; it is a pure
// function of the node values, which is what makes the round trip exact.
func Print(p *Program) string {
	var b strings.Builder
	for i, item := range p.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		switch item.Kind {
		case ItemWorkflow:
			printWorkflow(&b, item.Workflow)
		case ItemSubworkflow:
			printSubworkflow(&b, item.Subworkflow)
		case ItemIntegration:
			printIntegration(&b, item.Integration)
		}
	}
	return b.String()
}

func printWorkflow(b *strings.Builder, w *Workflow) {
	fmt.Fprintf(b, "workflow %s {\n", w.Name)
	printEndpointSection(b, "source", w.Sources)
	printEndpointSection(b, "target", w.Targets)
	printEndpointSection(b, "context", w.Contexts)
	if len(w.Preprocessors) > 0 {
		fmt.Fprintf(b, "  preprocessors: %s\n", printAgentArray(w.Preprocessors))
	}
	fmt.Fprintf(b, "  agents: %s\n", printAgentArray(w.Agents))
	if w.Monitor != nil {
		fmt.Fprintf(b, "  monitor: %s\n", w.Monitor.String())
	}
	if w.Deployment != nil {
		fmt.Fprintf(b, "  deployment: %s\n", w.Deployment.String())
	}
	b.WriteString("}\n")
}

func printEndpointSection(b *strings.Builder, name string, vals []*Value) {
	if len(vals) == 0 {
		return
	}
	if len(vals) == 1 {
		fmt.Fprintf(b, "  %s: %s\n", name, vals[0].String())
		return
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	fmt.Fprintf(b, "  %s: [%s]\n", name, strings.Join(parts, ", "))
}

func printAgentArray(agents []*Agent) string {
	parts := make([]string, len(agents))
	for i, a := range agents {
		parts[i] = printAgent(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func printAgent(a *Agent) string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		if arg.Name != "" {
			parts[i] = fmt.Sprintf("%s: %s", arg.Name, arg.Value.String())
		} else {
			parts[i] = arg.Value.String()
		}
	}
	return fmt.Sprintf("%s(%s)", a.KindName, strings.Join(parts, ", "))
}

func printSubworkflow(b *strings.Builder, s *Subworkflow) {
	fmt.Fprintf(b, "subworkflow %s {\n", s.Name)
	fmt.Fprintf(b, "  input: %s\n", printStringArray(s.Input))
	fmt.Fprintf(b, "  output: %s\n", printStringArray(s.Output))
	printEndpointSection(b, "context", s.Contexts)
	fmt.Fprintf(b, "  agents: %s\n", printAgentArray(s.Agents))
	b.WriteString("}\n")
}

func printStringArray(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func printIntegration(b *strings.Builder, in *Integration) {
	b.WriteString("integration {\n")
	fmt.Fprintf(b, "  workflow: %s\n", in.Workflow)
	fmt.Fprintf(b, "  use: %s\n", in.Use)
	if len(in.InputMapping) > 0 {
		b.WriteString("  input: {")
		printMappingEntries(b, in.InputMapping)
		b.WriteString("}\n")
	}
	if len(in.OutputMapping) > 0 {
		b.WriteString("  output: {")
		printMappingEntries(b, in.OutputMapping)
		b.WriteString("}\n")
	}
	b.WriteString("}\n")
}

func printMappingEntries(b *strings.Builder, entries []MappingEntry) {
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %s", e.Name, e.Path.String())
	}
}
