// Package parser turns script source into the syntax tree the
// evaluator and module resolvers consume. Lexer and parser are
// handwritten recursive descent.
package parser

import (
	"fmt"
	"strings"
	"unicode"

	"rhai/interpreter-go/pkg/token"
)

type lexer struct {
	src  []rune
	idx  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.col}
}

func (l *lexer) peek() rune {
	if l.idx >= len(l.src) {
		return 0
	}
	return l.src[l.idx]
}

func (l *lexer) peekAt(offset int) rune {
	if l.idx+offset >= len(l.src) {
		return 0
	}
	return l.src[l.idx+offset]
}

func (l *lexer) advance() rune {
	r := l.src[l.idx]
	l.idx++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipTrivia() error {
	for l.idx < len(l.src) {
		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()
		case l.peek() == '/' && l.peekAt(1) == '/':
			for l.idx < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case l.peek() == '/' && l.peekAt(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			closed := false
			for l.idx < len(l.src) {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return &ParseError{Message: "unterminated block comment", Pos: start}
			}
		default:
			return nil
		}
	}
	return nil
}

// next scans one token. At end of input it returns an EOF token.
func (l *lexer) next() (token.Token, error) {
	if err := l.skipTrivia(); err != nil {
		return token.Token{}, err
	}
	start := l.pos()
	if l.idx >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: start}, nil
	}

	r := l.peek()
	switch {
	case isIdentStart(r):
		return l.scanIdent(start), nil
	case unicode.IsDigit(r):
		return l.scanNumber(start)
	case r == '"':
		return l.scanString(start)
	}

	l.advance()
	two := string(r) + string(l.peek())
	switch two {
	case "::", "==", "!=", "<=", ">=", "&&", "||":
		l.advance()
		return token.Token{Kind: twoCharKinds[two], Lexeme: two, Pos: start}, nil
	}

	kind, ok := oneCharKinds[r]
	if !ok {
		return token.Token{}, &ParseError{
			Message: fmt.Sprintf("unexpected character %q", r),
			Pos:     start,
		}
	}
	return token.Token{Kind: kind, Lexeme: string(r), Pos: start}, nil
}

var twoCharKinds = map[string]token.Kind{
	"::": token.DoubleColon,
	"==": token.EqualTo,
	"!=": token.NotEqualTo,
	"<=": token.LessThanEqual,
	">=": token.GreaterThanEqual,
	"&&": token.AndAnd,
	"||": token.OrOr,
}

var oneCharKinds = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'{': token.LeftBrace,
	'}': token.RightBrace,
	'[': token.LeftBracket,
	']': token.RightBracket,
	',': token.Comma,
	';': token.SemiColon,
	'.': token.Dot,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'<': token.LessThan,
	'>': token.GreaterThan,
	'!': token.Bang,
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) scanIdent(start token.Position) token.Token {
	var b strings.Builder
	for l.idx < len(l.src) && isIdentPart(l.peek()) {
		b.WriteRune(l.advance())
	}
	name := b.String()
	if kind, ok := token.Keywords[name]; ok {
		return token.Token{Kind: kind, Lexeme: name, Pos: start}
	}
	return token.Token{Kind: token.Ident, Lexeme: name, Pos: start}
}

func (l *lexer) scanNumber(start token.Position) (token.Token, error) {
	var b strings.Builder
	for l.idx < len(l.src) && unicode.IsDigit(l.peek()) {
		b.WriteRune(l.advance())
	}
	kind := token.IntLit
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		kind = token.FloatLit
		b.WriteRune(l.advance())
		for l.idx < len(l.src) && unicode.IsDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
	}
	return token.Token{Kind: kind, Lexeme: b.String(), Pos: start}, nil
}

func (l *lexer) scanString(start token.Position) (token.Token, error) {
	l.advance()
	var b strings.Builder
	for {
		if l.idx >= len(l.src) || l.peek() == '\n' {
			return token.Token{}, &ParseError{Message: "unterminated string literal", Pos: start}
		}
		r := l.advance()
		if r == '"' {
			break
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if l.idx >= len(l.src) {
			return token.Token{}, &ParseError{Message: "unterminated string literal", Pos: start}
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'r':
			b.WriteRune('\r')
		case '\\':
			b.WriteRune('\\')
		case '"':
			b.WriteRune('"')
		default:
			return token.Token{}, &ParseError{
				Message: fmt.Sprintf("unknown escape sequence \\%c", esc),
				Pos:     start,
			}
		}
	}
	return token.Token{Kind: token.StringLit, Lexeme: b.String(), Pos: start}, nil
}
