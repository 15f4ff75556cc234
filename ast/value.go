// Package ast defines the Abstract Syntax Tree produced by the parser:
// Program, Workflow, Subworkflow, Integration, Agent, and the Value sum
// type, each carrying a source span (spec §3).
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kumeo-dev/kumeoc/token"
)

// ValueKind tags the closed Value sum type: String | Number | Boolean |
// Null | Array | Object | Path | Call (spec §3).
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBoolean
	KindNull
	KindArray
	KindObject
	KindPath
	KindCall
)

// ObjectEntry is one key/value pair of an Object value. Entries are kept in
// declaration order so the parser→pretty-printer→parser round trip (spec
// §8) reproduces the same AST; downstream YAML/JSON serialization is what
// re-sorts keys lexicographically (spec §4.5), not the AST itself.
type ObjectEntry struct {
	Key   string
	Value *Value
}

// Value is the untyped DSL's single expression node: literals, containers,
// dotted paths, and call expressions. Semantic analysis imposes a per-kind
// typed shape on top of this without freezing the grammar (spec §9).
type Value struct {
	Kind ValueKind
	Span token.Span

	Str     string        // KindString
	Num     float64       // KindNumber
	Bool    bool          // KindBoolean
	Array   []*Value      // KindArray
	Object  []ObjectEntry // KindObject, order-preserving
	Path    []string      // KindPath, dotted identifier chain
	CallFn  string        // KindCall
	CallArg []Argument    // KindCall
}

// Argument is a Call argument: positional (Name == "") or named.
type Argument struct {
	Name  string
	Value *Value
	Span  token.Span
}

// Get returns the value for key in an Object, or nil if absent or the
// receiver is not an Object.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != KindObject {
		return nil
	}
	for _, e := range v.Object {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether an Object value has key.
func (v *Value) Has(key string) bool {
	return v.Get(key) != nil
}

// PathString renders a KindPath value as a dotted string, e.g. "agent.output".
func (v *Value) PathString() string {
	if v == nil || v.Kind != KindPath {
		return ""
	}
	return strings.Join(v.Path, ".")
}

// AsString returns the string content for KindString values, the dotted
// form for KindPath, and "" otherwise. Used by reference resolution, which
// treats bare strings matching a reference pattern the same as a Path
// literal (spec §4.4 Pass 2).
func (v *Value) AsString() (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindPath:
		return v.PathString(), true
	}
	return "", false
}

// String renders a Value back to DSL surface syntax, used by the
// pretty-printer and in diagnostic messages.
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindPath:
		return v.PathString()
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, len(v.Object))
		for i, e := range v.Object {
			// Keys that would not lex back as an identifier are quoted.
			key := e.Key
			plain := key != "" && key != "true" && key != "false" && key != "null"
			for j := 0; plain && j < len(key); j++ {
				c := key[j]
				plain = c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (j > 0 && c >= '0' && c <= '9')
			}
			if !plain {
				key = strconv.Quote(key)
			}
			parts[i] = fmt.Sprintf("%s: %s", key, e.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindCall:
		parts := make([]string, len(v.CallArg))
		for i, a := range v.CallArg {
			if a.Name != "" {
				parts[i] = fmt.Sprintf("%s: %s", a.Name, a.Value.String())
			} else {
				parts[i] = a.Value.String()
			}
		}
		return v.CallFn + "(" + strings.Join(parts, ", ") + ")"
	default:
		return "<invalid>"
	}
}
