// Package parser implements the DSL's recursive-descent parser: a
// token.Token stream to an ast.Program, with syntax-error recovery to the
// next top-level item (spec §4.3).
package parser

import (
	"fmt"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/lexer"
	"github.com/kumeo-dev/kumeoc/token"
)

// Parser consumes a token stream built eagerly from the lexer and produces
// an ast.Program. It never panics or infinite-loops on malformed input
// (spec §8 Parser totality): every error path advances at least one token
// before returning to its caller.
type Parser struct {
	file   string
	toks   []token.Token
	pos    int
	bag    *diag.Bag
}

// Parse lexes src and parses it into a Program in one call. file tags
// diagnostics and, conventionally, the out-of-process notion of "which
// input" for batch drivers (spec §5); it has no effect on parsing itself.
func Parse(file string, src []byte, bag *diag.Bag) *ast.Program {
	toks := lexer.New(file, src, bag).Tokens()
	p := New(file, toks, bag)
	return p.ParseProgram()
}

// New creates a Parser over an already-lexed token stream.
func New(file string, toks []token.Token, bag *diag.Bag) *Parser {
	return &Parser{file: file, toks: toks, bag: bag}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(k token.Kind) bool { return p.cur().Kind == k }

// expect consumes the current token if it matches k, otherwise reports a
// syntax error and returns the (non-matching) token unconsumed.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.curIs(k) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, "expected %s, got %s %q", k, p.cur().Kind, p.cur().Lexeme)
	return p.cur(), false
}

func (p *Parser) errorf(span token.Span, format string, args ...interface{}) {
	p.bag.Emit(diag.Error, "E-PARSE-001", p.file, span, fmt.Sprintf(format, args...), "")
}

// synchronize discards tokens until the next top-level keyword, recovering
// from a syntax error inside one item without aborting the whole parse
// (spec §4.3 Recovery).
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		switch p.cur().Kind {
		case token.WORKFLOW, token.SUBWORKFLOW, token.INTEGRATION:
			return
		}
		p.advance()
	}
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		before := p.pos
		item, ok := p.parseItem()
		if ok {
			prog.Items = append(prog.Items, item)
		} else {
			p.synchronize()
		}
		if p.pos == before {
			// Safety net: parseItem must always consume at least one token
			// on failure; this guards parser totality against a future bug.
			p.advance()
		}
	}
	return prog
}

func (p *Parser) parseItem() (ast.Item, bool) {
	switch p.cur().Kind {
	case token.WORKFLOW:
		w := p.parseWorkflow()
		return ast.Item{Kind: ast.ItemWorkflow, Workflow: w}, w != nil
	case token.SUBWORKFLOW:
		s := p.parseSubworkflow()
		return ast.Item{Kind: ast.ItemSubworkflow, Subworkflow: s}, s != nil
	case token.INTEGRATION:
		in := p.parseIntegration()
		return ast.Item{Kind: ast.ItemIntegration, Integration: in}, in != nil
	default:
		p.errorf(p.cur().Span, "expected workflow, subworkflow, or integration, got %s %q", p.cur().Kind, p.cur().Lexeme)
		return ast.Item{}, false
	}
}
