// Package lexer implements the DSL's scanner: UTF-8 source bytes to a
// token.Token stream, skipping comments and whitespace. See spec §4.2.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/kumeo-dev/kumeoc/diag"
	"github.com/kumeo-dev/kumeoc/token"
)

// Lexer scans one source file. It holds no cross-invocation state, so a
// batch driver may run many Lexers concurrently (spec §5).
type Lexer struct {
	file string
	src  []byte
	pos  int // current byte offset
	bag  *diag.Bag
}

// New creates a Lexer over src, reporting lexical diagnostics into bag.
// file is the source path used to tag diagnostics (may be empty for
// in-memory compiles).
func New(file string, src []byte, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, src: src, bag: bag}
}

// Tokens scans the whole input and returns the resulting token stream,
// always terminated by a single EOF token. It never returns an error: a
// malformed input still produces a token stream plus diagnostics in bag
// (the parser totality property in spec §8 requires this).
func (l *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next scans and returns the next token, skipping whitespace and comments.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()
	start := l.pos
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: start, End: start}}
	}

	c := l.src[l.pos]
	switch {
	case c == '"':
		return l.scanString(start)
	case isDigit(c):
		return l.scanNumber(start)
	case isIdentStart(c):
		return l.scanIdent(start)
	}

	switch c {
	case '{':
		return l.single(token.LBRACE, start)
	case '}':
		return l.single(token.RBRACE, start)
	case '[':
		return l.single(token.LBRACKET, start)
	case ']':
		return l.single(token.RBRACKET, start)
	case '(':
		return l.single(token.LPAREN, start)
	case ')':
		return l.single(token.RPAREN, start)
	case ',':
		return l.single(token.COMMA, start)
	case ':':
		return l.single(token.COLON, start)
	case '.':
		return l.single(token.DOT, start)
	case '=':
		return l.single(token.ASSIGN, start)
	}

	// Stray character: report and resynchronize at the next whitespace or
	// punctuation, per spec §4.2.
	r, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	for l.pos < len(l.src) && strings.IndexByte(" \t\r\n{}[](),:.=\"", l.src[l.pos]) < 0 {
		l.pos++
	}
	l.emit(diag.Error, "E-LEX-001", token.Span{Start: start, End: l.pos},
		"stray character", "")
	_ = r
	return token.Token{Kind: token.ILLEGAL, Lexeme: string(l.src[start:l.pos]), Span: token.Span{Start: start, End: l.pos}}
}

func (l *Lexer) single(kind token.Kind, start int) token.Token {
	l.pos++
	return token.Token{Kind: kind, Lexeme: string(l.src[start:l.pos]), Span: token.Span{Start: start, End: l.pos}}
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.peekByte(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.pos
			l.pos += 2
			closed := false
			for l.pos < len(l.src) {
				if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				l.emit(diag.Error, "E-LEX-002", token.Span{Start: start, End: l.pos},
					"unterminated block comment", "add a closing */")
			}
		default:
			return
		}
	}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) scanIdent(start int) token.Token {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	lexeme := string(l.src[start:l.pos])
	span := token.Span{Start: start, End: l.pos}
	switch lexeme {
	case "true", "false":
		return token.Token{Kind: token.BOOLEAN, Lexeme: lexeme, Span: span}
	case "null":
		return token.Token{Kind: token.NULL, Lexeme: lexeme, Span: span}
	}
	return token.Token{Kind: token.LookupIdent(lexeme), Lexeme: lexeme, Span: span}
}

func (l *Lexer) scanNumber(start int) token.Token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return token.Token{Kind: token.NUMBER, Lexeme: string(l.src[start:l.pos]), Span: token.Span{Start: start, End: l.pos}}
}

// scanString handles both `"..."` with escapes and raw `"""..."""` strings.
func (l *Lexer) scanString(start int) token.Token {
	if l.peekByte(1) == '"' && l.peekByte(2) == '"' {
		return l.scanTripleString(start)
	}

	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			l.emit(diag.Error, "E-LEX-003", token.Span{Start: start, End: l.pos},
				"unterminated string literal", `close the string with "`)
			return token.Token{Kind: token.STRING, Lexeme: b.String(), Span: token.Span{Start: start, End: l.pos}}
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			break
		}
		if c == '\n' {
			l.emit(diag.Error, "E-LEX-003", token.Span{Start: start, End: l.pos},
				"unterminated string literal", `close the string with "`)
			break
		}
		if c == '\\' {
			l.pos++
			if l.pos >= len(l.src) {
				break
			}
			esc := l.src[l.pos]
			switch esc {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if l.pos+4 < len(l.src) {
					hex := string(l.src[l.pos+1 : l.pos+5])
					if r, ok := decodeHex4(hex); ok {
						b.WriteRune(r)
						l.pos += 4
					} else {
						l.emit(diag.Error, "E-LEX-004", token.Span{Start: l.pos - 1, End: l.pos + 5},
							"invalid \\u escape", "use four hex digits, e.g. \\u0041")
					}
				}
			default:
				l.emit(diag.Error, "E-LEX-004", token.Span{Start: l.pos - 1, End: l.pos + 1},
					"invalid escape sequence", `valid escapes are \\ \" \n \r \t \uXXXX`)
				b.WriteByte(esc)
			}
			l.pos++
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	return token.Token{Kind: token.STRING, Lexeme: b.String(), Span: token.Span{Start: start, End: l.pos}}
}

func (l *Lexer) scanTripleString(start int) token.Token {
	l.pos += 3
	contentStart := l.pos
	for {
		if l.pos >= len(l.src) {
			l.emit(diag.Error, "E-LEX-005", token.Span{Start: start, End: l.pos},
				`unterminated triple-quoted string`, `close the string with """`)
			return token.Token{Kind: token.STRING, Lexeme: string(l.src[contentStart:l.pos]), Span: token.Span{Start: start, End: l.pos}}
		}
		if l.src[l.pos] == '"' && l.peekByte(1) == '"' && l.peekByte(2) == '"' {
			content := string(l.src[contentStart:l.pos])
			l.pos += 3
			return token.Token{Kind: token.STRING, Lexeme: content, Span: token.Span{Start: start, End: l.pos}}
		}
		l.pos++
	}
}

func (l *Lexer) emit(sev diag.Severity, code string, span token.Span, msg, hint string) {
	if l.bag == nil {
		return
	}
	l.bag.Emit(sev, code, l.file, span, msg, hint)
}

func decodeHex4(s string) (rune, bool) {
	var r rune
	for _, c := range s {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
