// Package ast defines the syntax tree produced by the parser and
// consumed by the evaluator and the module resolvers.
package ast

import "rhai/interpreter-go/pkg/token"

// Node is implemented by every statement and expression.
type Node interface {
	Position() token.Position
}

// Program is a compiled unit: the top-level statements of one script
// plus every function definition hoisted out of it.
type Program struct {
	Stmts     []Stmt
	Functions []*FnDef
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// PathSegment is one element of a qualified path such as a::b::c, with
// the position of the segment for diagnostics.
type PathSegment struct {
	Name string
	Pos  token.Position
}

// LetStmt declares a variable, or a constant when Const is set.
type LetStmt struct {
	Name  string
	Const bool
	Value Expr
	Pos   token.Position
}

// AssignStmt assigns to an existing variable or index target.
type AssignStmt struct {
	Target Expr
	Value  Expr
	Pos    token.Position
}

// ImportStmt imports a module path and binds it under an alias.
type ImportStmt struct {
	Path  string
	Alias string
	Pos   token.Position
}

// ExprStmt evaluates an expression for its effect. Terminated marks a
// trailing semicolon; an unterminated expression ending a block is the
// block's value.
type ExprStmt struct {
	Value      Expr
	Terminated bool
	Pos        token.Position
}

// ReturnStmt returns from the enclosing function, with an optional value.
type ReturnStmt struct {
	Value Expr
	Pos   token.Position
}

// IfStmt is a conditional with an optional else branch. An else-if
// chain parses as an else block holding a single nested IfStmt.
type IfStmt struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt
	Pos       token.Position
}

// WhileStmt loops while the condition holds.
type WhileStmt struct {
	Condition Expr
	Body      []Stmt
	Pos       token.Position
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Pos token.Position
}

// FnDef is a script function definition.
type FnDef struct {
	Name   string
	Params []string
	Body   []Stmt
	Pos    token.Position
}

func (s *LetStmt) Position() token.Position    { return s.Pos }
func (s *AssignStmt) Position() token.Position { return s.Pos }
func (s *ImportStmt) Position() token.Position { return s.Pos }
func (s *ExprStmt) Position() token.Position   { return s.Pos }
func (s *ReturnStmt) Position() token.Position { return s.Pos }
func (s *IfStmt) Position() token.Position     { return s.Pos }
func (s *WhileStmt) Position() token.Position  { return s.Pos }
func (s *BreakStmt) Position() token.Position  { return s.Pos }
func (s *FnDef) Position() token.Position      { return s.Pos }

func (*LetStmt) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*ImportStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*BreakStmt) stmtNode()  {}
func (*FnDef) stmtNode()      {}

// IntLit is a 64-bit integer literal.
type IntLit struct {
	Value int64
	Pos   token.Position
}

// FloatLit is a 64-bit float literal.
type FloatLit struct {
	Value float64
	Pos   token.Position
}

// StringLit is a double-quoted string literal.
type StringLit struct {
	Value string
	Pos   token.Position
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	Pos   token.Position
}

// UnitLit is the empty value, spelled ().
type UnitLit struct {
	Pos token.Position
}

// ArrayLit is a [a, b, c] literal.
type ArrayLit struct {
	Elems []Expr
	Pos   token.Position
}

// Ident is a bare variable reference.
type Ident struct {
	Name string
	Pos  token.Position
}

// QualifiedRef is a module-qualified reference a::b::name. Path holds
// every segment before the final name, in source order.
type QualifiedRef struct {
	Path []PathSegment
	Name string
	Pos  token.Position
}

// CallExpr is a call of a bare or qualified function name.
type CallExpr struct {
	Target Expr
	Args   []Expr
	Pos    token.Position
}

// MethodCallExpr is recv.name(args) sugar for a call with the receiver
// as first argument.
type MethodCallExpr struct {
	Recv Expr
	Name string
	Args []Expr
	Pos  token.Position
}

// IndexExpr is recv[index].
type IndexExpr struct {
	Recv  Expr
	Index Expr
	Pos   token.Position
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
	Pos   token.Position
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      token.Kind
	Operand Expr
	Pos     token.Position
}

func (e *IntLit) Position() token.Position         { return e.Pos }
func (e *FloatLit) Position() token.Position       { return e.Pos }
func (e *StringLit) Position() token.Position      { return e.Pos }
func (e *BoolLit) Position() token.Position        { return e.Pos }
func (e *UnitLit) Position() token.Position        { return e.Pos }
func (e *ArrayLit) Position() token.Position       { return e.Pos }
func (e *Ident) Position() token.Position          { return e.Pos }
func (e *QualifiedRef) Position() token.Position   { return e.Pos }
func (e *CallExpr) Position() token.Position       { return e.Pos }
func (e *MethodCallExpr) Position() token.Position { return e.Pos }
func (e *IndexExpr) Position() token.Position      { return e.Pos }
func (e *BinaryExpr) Position() token.Position     { return e.Pos }
func (e *UnaryExpr) Position() token.Position      { return e.Pos }

func (*IntLit) exprNode()         {}
func (*FloatLit) exprNode()       {}
func (*StringLit) exprNode()      {}
func (*BoolLit) exprNode()        {}
func (*UnitLit) exprNode()        {}
func (*ArrayLit) exprNode()       {}
func (*Ident) exprNode()          {}
func (*QualifiedRef) exprNode()   {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*IndexExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
