package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/lexer"
	"github.com/kumeo-dev/kumeoc/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokensBasicWorkflow(t *testing.T) {
	src := `workflow Foo {
  agents: [LLM(id: "bot", engine: "openai/gpt-4")]
}`
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte(src), bag).Tokens()
	assert.False(t, bag.HasErrors())
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	assert.Equal(t, token.WORKFLOW, toks[0].Kind)
	assert.Equal(t, token.IDENT, toks[1].Kind)
	assert.Equal(t, "Foo", toks[1].Lexeme)
}

func TestScanStringEscapes(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte(`"a\nb\t\"c\""`), bag).Tokens()
	require.False(t, bag.HasErrors())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\t\"c\"", toks[0].Lexeme)
}

func TestScanStringInvalidEscape(t *testing.T) {
	bag := diag.NewBag()
	lexer.New("x.kumeo", []byte(`"bad\qend"`), bag).Tokens()
	require.True(t, bag.HasErrors())
	items := bag.Items()
	assert.Equal(t, "E-LEX-004", items[0].Code)
}

func TestScanStringUnterminated(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte(`"never closed`), bag).Tokens()
	require.True(t, bag.HasErrors())
	assert.Equal(t, "E-LEX-003", bag.Items()[0].Code)
	assert.Equal(t, token.STRING, toks[0].Kind)
}

func TestScanStringUnterminatedAtNewline(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte("\"oops\nmore"), bag).Tokens()
	require.True(t, bag.HasErrors())
	assert.Equal(t, "E-LEX-003", bag.Items()[0].Code)
	assert.Equal(t, token.STRING, toks[0].Kind)
}

func TestScanTripleQuotedString(t *testing.T) {
	bag := diag.NewBag()
	src := "\"\"\"line one\nline two\"\"\""
	toks := lexer.New("x.kumeo", []byte(src), bag).Tokens()
	require.False(t, bag.HasErrors())
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Lexeme)
}

func TestScanTripleQuotedStringUnterminated(t *testing.T) {
	bag := diag.NewBag()
	lexer.New("x.kumeo", []byte(`"""never closed`), bag).Tokens()
	require.True(t, bag.HasErrors())
	assert.Equal(t, "E-LEX-005", bag.Items()[0].Code)
}

func TestScanNumber(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte("42 3.14 1e10 2.5e-3"), bag).Tokens()
	require.False(t, bag.HasErrors())
	require.Len(t, toks, 5) // 4 numbers + EOF
	for _, tt := range toks[:4] {
		assert.Equal(t, token.NUMBER, tt.Kind)
	}
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	assert.Equal(t, "1e10", toks[2].Lexeme)
	assert.Equal(t, "2.5e-3", toks[3].Lexeme)
}

func TestSkipLineAndBlockComments(t *testing.T) {
	bag := diag.NewBag()
	src := "// a line comment\nworkflow /* inline */ Foo"
	toks := lexer.New("x.kumeo", []byte(src), bag).Tokens()
	assert.False(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{token.WORKFLOW, token.IDENT, token.EOF}, kinds(toks))
}

func TestUnterminatedBlockComment(t *testing.T) {
	bag := diag.NewBag()
	lexer.New("x.kumeo", []byte("/* never closed"), bag).Tokens()
	require.True(t, bag.HasErrors())
	assert.Equal(t, "E-LEX-002", bag.Items()[0].Code)
}

func TestBooleanAndNullLiterals(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte("true false null"), bag).Tokens()
	assert.False(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{token.BOOLEAN, token.BOOLEAN, token.NULL, token.EOF}, kinds(toks))
}

func TestPunctuation(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte("{}[](),:.="), bag).Tokens()
	assert.False(t, bag.HasErrors())
	want := []token.Kind{
		token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.LPAREN, token.RPAREN, token.COMMA, token.COLON, token.DOT, token.ASSIGN,
		token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestStrayCharacter(t *testing.T) {
	bag := diag.NewBag()
	toks := lexer.New("x.kumeo", []byte("workflow # Foo"), bag).Tokens()
	require.True(t, bag.HasErrors())
	assert.Equal(t, "E-LEX-001", bag.Items()[0].Code)
	assert.Contains(t, kinds(toks), token.ILLEGAL)
}
