package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/token"
)

func TestHasErrors(t *testing.T) {
	bag := diag.NewBag()
	assert.False(t, bag.HasErrors())
	bag.Emit(diag.Warning, "W-X", "a.kumeo", token.Span{}, "careful", "")
	assert.False(t, bag.HasErrors())
	bag.Emit(diag.Error, "E-X", "a.kumeo", token.Span{}, "broken", "")
	assert.True(t, bag.HasErrors())
}

func TestItemsSortedByFileThenStartThenCode(t *testing.T) {
	bag := diag.NewBag()
	bag.Emit(diag.Error, "E-B", "b.kumeo", token.Span{Start: 5}, "m1", "")
	bag.Emit(diag.Error, "E-A", "a.kumeo", token.Span{Start: 20}, "m2", "")
	bag.Emit(diag.Error, "E-C", "a.kumeo", token.Span{Start: 1}, "m3", "")
	bag.Emit(diag.Error, "E-A", "a.kumeo", token.Span{Start: 1}, "m4", "")

	items := bag.Items()
	assert.Equal(t, []string{"a.kumeo", "a.kumeo", "a.kumeo", "b.kumeo"}, []string{
		items[0].File, items[1].File, items[2].File, items[3].File,
	})
	// within a.kumeo, both start=1 entries come before start=20, code-ordered
	assert.Equal(t, "E-A", items[0].Code)
	assert.Equal(t, "E-C", items[1].Code)
	assert.Equal(t, "E-A", items[2].Code)
	assert.Equal(t, 20, items[2].Span.Start)
}

func TestMerge(t *testing.T) {
	a := diag.NewBag()
	a.Emit(diag.Error, "E-A", "a.kumeo", token.Span{}, "m", "")
	b := diag.NewBag()
	b.Emit(diag.Warning, "W-B", "b.kumeo", token.Span{}, "m", "")
	a.Merge(b)
	assert.Len(t, a.Items(), 2)

	// merging nil is a no-op
	a.Merge(nil)
	assert.Len(t, a.Items(), 2)
}

func TestDiagnosticString(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.Error,
		Code:     "E-SEM-REF",
		File:     "wf.kumeo",
		Span:     token.Span{Start: 10, End: 20},
		Message:  "unresolved reference",
		Hint:     "did you mean target.summary?",
	}
	s := d.String()
	assert.Contains(t, s, "error")
	assert.Contains(t, s, "E-SEM-REF")
	assert.Contains(t, s, "wf.kumeo:10:20")
	assert.Contains(t, s, "unresolved reference")
	assert.Contains(t, s, "did you mean target.summary?")
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", diag.Error.String())
	assert.Equal(t, "warning", diag.Warning.String())
	assert.Equal(t, "note", diag.Note.String())
}
