// Package token defines the lexical tokens of the script language and
// the source positions attached to values, errors, and diagnostics.
package token

import "fmt"

// Position is a 1-based line/column location in a script source.
// The zero value means "no position" and is used for synthetic nodes.
type Position struct {
	Line   int
	Column int
}

// NoPosition is the zero Position.
var NoPosition = Position{}

// IsNone reports whether the position carries no location.
func (p Position) IsNone() bool {
	return p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	if p.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies a lexical token class.
type Kind int

const (
	Illegal Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	StringLit

	// Keywords.
	KwLet
	KwConst
	KwFn
	KwImport
	KwAs
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwBreak
	KwTrue
	KwFalse

	// Punctuation.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	SemiColon
	Dot
	DoubleColon

	// Operators.
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	EqualTo
	NotEqualTo
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	AndAnd
	OrOr
	Bang
)

var syntaxes = map[Kind]string{
	Illegal:          "<illegal>",
	EOF:              "<eof>",
	Ident:            "<ident>",
	IntLit:           "<int>",
	FloatLit:         "<float>",
	StringLit:        "<string>",
	KwLet:            "let",
	KwConst:          "const",
	KwFn:             "fn",
	KwImport:         "import",
	KwAs:             "as",
	KwReturn:         "return",
	KwIf:             "if",
	KwElse:           "else",
	KwWhile:          "while",
	KwBreak:          "break",
	KwTrue:           "true",
	KwFalse:          "false",
	LeftParen:        "(",
	RightParen:       ")",
	LeftBrace:        "{",
	RightBrace:       "}",
	LeftBracket:      "[",
	RightBracket:     "]",
	Comma:            ",",
	SemiColon:        ";",
	Dot:              ".",
	DoubleColon:      "::",
	Assign:           "=",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Percent:          "%",
	EqualTo:          "==",
	NotEqualTo:       "!=",
	LessThan:         "<",
	LessThanEqual:    "<=",
	GreaterThan:      ">",
	GreaterThanEqual: ">=",
	AndAnd:           "&&",
	OrOr:             "||",
	Bang:             "!",
}

// Syntax returns the source spelling of the token kind. Kinds without a
// fixed spelling (identifiers, literals) return a descriptive placeholder.
func (k Kind) Syntax() string {
	if s, ok := syntaxes[k]; ok {
		return s
	}
	return "<unknown>"
}

// Keywords maps keyword spellings to their token kinds.
var Keywords = map[string]Kind{
	"let":    KwLet,
	"const":  KwConst,
	"fn":     KwFn,
	"import": KwImport,
	"as":     KwAs,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"break":  KwBreak,
	"true":   KwTrue,
	"false":  KwFalse,
}

// Token is a single lexeme with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, IntLit, FloatLit, StringLit:
		return t.Lexeme
	default:
		return t.Kind.Syntax()
	}
}
