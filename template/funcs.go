package template

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FuncMap is the closed filter set every template bundle may use (spec
// §4.6): lowercase, uppercase, kebab-case, snake-case, to-yaml, to-json,
// default, indent, contains. No bundle may register additional functions —
// the set is fixed so generated output stays reproducible across bundles
// written by different authors.
var FuncMap = map[string]interface{}{
	"lowercase": strings.ToLower,
	"uppercase": strings.ToUpper,
	"kebab-case": toKebabCase,
	"snake-case": toSnakeCase,
	"to-yaml":    toYAML,
	"to-json":    toJSON,
	"default":    defaultValue,
	"indent":     indent,
	"contains":   strings.Contains,
}

func toKebabCase(s string) string { return toDelimCase(s, '-') }
func toSnakeCase(s string) string { return toDelimCase(s, '_') }

// toDelimCase splits on word boundaries (case changes, existing
// '_'/'-'/' ' separators) and rejoins lowercased with delim.
func toDelimCase(s string, delim byte) string {
	var b strings.Builder
	prevLower := false
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if b.Len() > 0 {
				b.WriteByte(delim)
			}
			prevLower = false
			continue
		case r >= 'A' && r <= 'Z':
			if i > 0 && prevLower {
				b.WriteByte(delim)
			}
			b.WriteRune(r - 'A' + 'a')
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || (r >= '0' && r <= '9')
		}
	}
	return b.String()
}

func toYAML(v interface{}) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("to-yaml: %w", err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func toJSON(v interface{}) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("to-json: %w", err)
	}
	return string(out), nil
}

// defaultValue returns fallback when v is nil or the empty string,
// matching the common text/template `default` filter shape.
func defaultValue(fallback, v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		if t == "" {
			return fallback
		}
	}
	return v
}

func indent(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
