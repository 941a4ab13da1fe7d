package runtime

import (
	"errors"
	"fmt"
	"strings"

	"rhai/interpreter-go/pkg/token"
)

// Positioned is implemented by errors that carry a script source
// position. Stamp uses it to move an error to the call or import site.
type Positioned interface {
	error
	Position() token.Position
	SetPosition(token.Position)
}

func posSuffix(p token.Position) string {
	if p.IsNone() {
		return ""
	}
	return " (at " + p.String() + ")"
}

// VarNotFoundError reports a missing variable in a qualified lookup.
type VarNotFoundError struct {
	Name string
	Pos  token.Position
}

func (e *VarNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: %s%s", e.Name, posSuffix(e.Pos))
}

func (e *VarNotFoundError) Position() token.Position     { return e.Pos }
func (e *VarNotFoundError) SetPosition(p token.Position) { e.Pos = p }

// ModuleNotFoundError reports a missing sub-module segment or an
// import path no resolver could locate.
type ModuleNotFoundError struct {
	Name string
	Pos  token.Position
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module not found: %s%s", e.Name, posSuffix(e.Pos))
}

func (e *ModuleNotFoundError) Position() token.Position     { return e.Pos }
func (e *ModuleNotFoundError) SetPosition(p token.Position) { e.Pos = p }

// FnNotFoundError reports a failed function lookup. Name is the full
// display form, qualified and with argument types where known.
type FnNotFoundError struct {
	Name string
	Pos  token.Position
}

func (e *FnNotFoundError) Error() string {
	return fmt.Sprintf("function not found: %s%s", e.Name, posSuffix(e.Pos))
}

func (e *FnNotFoundError) Position() token.Position     { return e.Pos }
func (e *FnNotFoundError) SetPosition(p token.Position) { e.Pos = p }

// ImportCycleError reports a cyclic import chain. Chain lists the
// import paths in traversal order, ending with the repeated one.
type ImportCycleError struct {
	Chain []string
	Pos   token.Position
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle detected: %s%s", strings.Join(e.Chain, " -> "), posSuffix(e.Pos))
}

func (e *ImportCycleError) Position() token.Position     { return e.Pos }
func (e *ImportCycleError) SetPosition(p token.Position) { e.Pos = p }

// AssignToConstantError reports an assignment to a const binding.
type AssignToConstantError struct {
	Name string
	Pos  token.Position
}

func (e *AssignToConstantError) Error() string {
	return fmt.Sprintf("cannot assign to constant: %s%s", e.Name, posSuffix(e.Pos))
}

func (e *AssignToConstantError) Position() token.Position     { return e.Pos }
func (e *AssignToConstantError) SetPosition(p token.Position) { e.Pos = p }

// PositionedError attaches a position to an error that has none of its
// own, such as a compile failure surfaced at an import site.
type PositionedError struct {
	Err error
	Pos token.Position
}

func (e *PositionedError) Error() string {
	return e.Err.Error() + posSuffix(e.Pos)
}

func (e *PositionedError) Unwrap() error                { return e.Err }
func (e *PositionedError) Position() token.Position     { return e.Pos }
func (e *PositionedError) SetPosition(p token.Position) { e.Pos = p }

// Stamp rewrites err's position to pos so diagnostics point at the
// call or import site rather than wherever the error originated. An
// error without position support is wrapped instead.
func Stamp(err error, pos token.Position) error {
	if err == nil {
		return nil
	}
	var p Positioned
	if errors.As(err, &p) {
		p.SetPosition(pos)
		return err
	}
	return &PositionedError{Err: err, Pos: pos}
}
