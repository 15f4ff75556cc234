package parser

import (
	"strconv"

	"github.com/kumeo-dev/kumeoc/ast"
	"github.com/kumeo-dev/kumeoc/token"
)

// parseValue implements: value := literal | array | object | call | path
func (p *Parser) parseValue() *ast.Value {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.STRING:
		t := p.advance()
		return &ast.Value{Kind: ast.KindString, Str: t.Lexeme, Span: t.Span}
	case token.NUMBER:
		t := p.advance()
		n, _ := strconv.ParseFloat(t.Lexeme, 64)
		return &ast.Value{Kind: ast.KindNumber, Num: n, Span: t.Span}
	case token.BOOLEAN:
		t := p.advance()
		return &ast.Value{Kind: ast.KindBoolean, Bool: t.Lexeme == "true", Span: t.Span}
	case token.NULL:
		t := p.advance()
		return &ast.Value{Kind: ast.KindNull, Span: t.Span}
	case token.LBRACKET:
		return p.parseArray()
	case token.LBRACE:
		return p.parseObjectValue()
	case token.IDENT, token.SOURCE, token.TARGET, token.CONTEXT, token.AGENTS,
		token.PREPROCESSORS, token.MONITOR, token.DEPLOYMENT, token.INPUT,
		token.OUTPUT, token.MAPPING, token.USE, token.CONFIG, token.WORKFLOW,
		token.SUBWORKFLOW, token.INTEGRATION:
		return p.parseIdentLed(start)
	default:
		p.errorf(p.cur().Span, "unexpected token %s %q in value position", p.cur().Kind, p.cur().Lexeme)
		p.advance()
		return &ast.Value{Kind: ast.KindNull, Span: start}
	}
}

// parseIdentLed disambiguates call(...) vs a.dotted.path vs a bare
// single-segment path, all of which start with an identifier-like token.
func (p *Parser) parseIdentLed(start token.Span) *ast.Value {
	first := p.advance().Lexeme
	if p.curIs(token.LPAREN) {
		return p.parseCallArgs(first, start)
	}
	segs := []string{first}
	for p.curIs(token.DOT) {
		p.advance()
		seg, ok := p.expectIdentLike()
		if !ok {
			break
		}
		segs = append(segs, seg)
	}
	end := p.prevSpan()
	return &ast.Value{Kind: ast.KindPath, Path: segs, Span: start.Cover(end)}
}

// expectIdentLike accepts IDENT or any keyword token as a path segment /
// object key, since the DSL's reserved words (e.g. "input", "config") are
// also legal identifiers inside nested configuration objects.
func (p *Parser) expectIdentLike() (string, bool) {
	switch p.cur().Kind {
	case token.IDENT, token.SOURCE, token.TARGET, token.CONTEXT, token.AGENTS,
		token.PREPROCESSORS, token.MONITOR, token.DEPLOYMENT, token.INPUT,
		token.OUTPUT, token.MAPPING, token.USE, token.CONFIG, token.WORKFLOW,
		token.SUBWORKFLOW, token.INTEGRATION:
		return p.advance().Lexeme, true
	case token.STRING:
		return p.advance().Lexeme, true
	default:
		p.errorf(p.cur().Span, "expected identifier, got %s %q", p.cur().Kind, p.cur().Lexeme)
		return "", false
	}
}

func (p *Parser) prevSpan() token.Span {
	if p.pos == 0 {
		return token.Span{}
	}
	return p.toks[p.pos-1].Span
}

// parseCallArgs implements: call := Ident '(' (arg (',' arg)*)? ')'
// fn and fnSpan are the already-consumed function-name token.
func (p *Parser) parseCallArgs(fn string, fnSpan token.Span) *ast.Value {
	p.advance() // consume '('
	var args []ast.Argument
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseArg())
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Span
	if closeTok, ok := p.expect(token.RPAREN); ok {
		end = closeTok.Span
	}
	return &ast.Value{Kind: ast.KindCall, CallFn: fn, CallArg: args, Span: fnSpan.Cover(end)}
}

// parseArg implements: arg := Ident ':' value | Ident '=' value | value
func (p *Parser) parseArg() ast.Argument {
	start := p.cur().Span
	if isIdentLike(p.cur().Kind) && (p.peek().Kind == token.COLON || p.peek().Kind == token.ASSIGN) {
		name, _ := p.expectIdentLike()
		p.advance() // ':' or '='
		val := p.parseValue()
		return ast.Argument{Name: name, Value: val, Span: start.Cover(val.Span)}
	}
	val := p.parseValue()
	return ast.Argument{Value: val, Span: val.Span}
}

func isIdentLike(k token.Kind) bool {
	switch k {
	case token.IDENT, token.SOURCE, token.TARGET, token.CONTEXT, token.AGENTS,
		token.PREPROCESSORS, token.MONITOR, token.DEPLOYMENT, token.INPUT,
		token.OUTPUT, token.MAPPING, token.USE, token.CONFIG, token.WORKFLOW,
		token.SUBWORKFLOW, token.INTEGRATION:
		return true
	}
	return false
}

// parseArray implements: array := '[' (value (',' value)*)? ']'
// Trailing commas are accepted; a doubled comma is a parse error (spec §8).
func (p *Parser) parseArray() *ast.Value {
	start := p.advance().Span // '['
	var items []*ast.Value
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		items = append(items, p.parseValue())
		if p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.COMMA) {
				p.errorf(p.cur().Span, "unexpected ',': empty array element")
			}
			continue
		}
		break
	}
	end := p.cur().Span
	if t, ok := p.expect(token.RBRACKET); ok {
		end = t.Span
	}
	return &ast.Value{Kind: ast.KindArray, Array: items, Span: start.Cover(end)}
}

// parseObjectValue implements: object := '{' (kvEntry (',' kvEntry)*)? '}'
func (p *Parser) parseObjectValue() *ast.Value {
	start := p.advance().Span // '{'
	var entries []ast.ObjectEntry
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		key, ok := p.parseKey()
		if !ok {
			break
		}
		if _, ok := p.expect(token.COLON); !ok {
			break
		}
		val := p.parseValue()
		entries = append(entries, ast.ObjectEntry{Key: key, Value: val})
		if p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.COMMA) {
				p.errorf(p.cur().Span, "unexpected ',': empty object entry")
			}
			continue
		}
		break
	}
	end := p.cur().Span
	if t, ok := p.expect(token.RBRACE); ok {
		end = t.Span
	}
	return &ast.Value{Kind: ast.KindObject, Object: entries, Span: start.Cover(end)}
}

// parseKey implements the (Ident | String) half of kvEntry.
func (p *Parser) parseKey() (string, bool) {
	if p.curIs(token.STRING) {
		return p.advance().Lexeme, true
	}
	return p.expectIdentLike()
}
