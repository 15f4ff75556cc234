// Package diag implements source-span-tagged diagnostics (spec §4.1):
// severity, stable code, message, optional hint, sorted deterministically.
package diag

import (
	"fmt"
	"sort"

	"github.com/kumeo-dev/kumeoc/token"
)

// Severity is the closed set a Diagnostic can carry.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Diagnostic is one compiler-reported condition tied to a source span.
type Diagnostic struct {
	Severity Severity
	Code     string
	File     string
	Span     token.Span
	Message  string
	Hint     string
}

// Bag accumulates diagnostics for one compilation. A Bag has no
// process-global state, so independent compiles in a batch driver (spec §5)
// each use their own Bag.
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty diagnostics bag.
func NewBag() *Bag {
	return &Bag{}
}

// Emit appends a diagnostic to the bag.
func (b *Bag) Emit(sev Severity, code, file string, span token.Span, message, hint string) {
	b.items = append(b.items, Diagnostic{
		Severity: sev,
		Code:     code,
		File:     file,
		Span:     span,
		Message:  message,
		Hint:     hint,
	})
}

// HasErrors reports whether any Error-severity diagnostic has been emitted.
// A run with any Error aborts the pipeline before code generation (spec §4.1).
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Items returns the diagnostics sorted by (file, start_offset, code), the
// deterministic order spec §4.1 requires.
func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Span.Start != out[j].Span.Start {
			return out[i].Span.Start < out[j].Span.Start
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Merge appends every diagnostic from other into b, in place.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// String renders a diagnostic in a "severity code file:start:end message (hint)" line.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s %s:%d:%d: %s", d.Severity, d.Code, d.File, d.Span.Start, d.Span.End, d.Message)
	if d.Hint != "" {
		s += fmt.Sprintf(" (hint: %s)", d.Hint)
	}
	return s
}
