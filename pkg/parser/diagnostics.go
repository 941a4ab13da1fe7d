package parser

import (
	"fmt"

	"rhai/interpreter-go/pkg/token"
)

// ParseError is a syntax diagnostic with a best-effort source position.
// It satisfies the position-stamping surface of the runtime error
// layer, so an import site can claim a nested compile failure.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	if e.Pos.IsNone() {
		return "parse error: " + e.Message
	}
	return fmt.Sprintf("parse error: %s (at %s)", e.Message, e.Pos)
}

// Position returns the diagnostic's location.
func (e *ParseError) Position() token.Position {
	return e.Pos
}

// SetPosition relocates the diagnostic.
func (e *ParseError) SetPosition(p token.Position) {
	e.Pos = p
}

func errExpected(what string, got token.Token) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("expected %s, found %q", what, got.String()),
		Pos:     got.Pos,
	}
}
