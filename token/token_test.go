package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumeo-dev/kumeoc/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		name string
		want token.Kind
	}{
		{"workflow", token.WORKFLOW},
		{"subworkflow", token.SUBWORKFLOW},
		{"integration", token.INTEGRATION},
		{"source", token.SOURCE},
		{"target", token.TARGET},
		{"context", token.CONTEXT},
		{"agents", token.AGENTS},
		{"preprocessors", token.PREPROCESSORS},
		{"monitor", token.MONITOR},
		{"deployment", token.DEPLOYMENT},
		{"input", token.INPUT},
		{"output", token.OUTPUT},
		{"mapping", token.MAPPING},
		{"use", token.USE},
		{"config", token.CONFIG},
		{"someIdent", token.IDENT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, token.LookupIdent(tt.name), tt.name)
	}
}

func TestSpanCover(t *testing.T) {
	a := token.Span{Start: 3, End: 7}
	b := token.Span{Start: 10, End: 15}
	assert.Equal(t, token.Span{Start: 3, End: 15}, a.Cover(b))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "workflow", token.WORKFLOW.String())
	assert.Equal(t, "EOF", token.EOF.String())
}
