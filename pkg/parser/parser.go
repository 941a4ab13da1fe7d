package parser

import (
	"fmt"
	"strconv"

	"rhai/interpreter-go/pkg/ast"
	"rhai/interpreter-go/pkg/token"
)

// Parse compiles script source into a program. Top-level function
// definitions are hoisted into Program.Functions; everything else
// stays in source order in Program.Stmts.
func Parse(src string) (*ast.Program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		if p.at(token.KwFn) {
			def, err := p.parseFnDef()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, def)
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func tokenize(src string) ([]token.Token, error) {
	lex := newLexer(src)
	var toks []token.Token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

type parser struct {
	toks []token.Token
	idx  int
}

func (p *parser) cur() token.Token {
	return p.toks[p.idx]
}

func (p *parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *parser) advance() token.Token {
	tok := p.toks[p.idx]
	if tok.Kind != token.EOF {
		p.idx++
	}
	return tok
}

func (p *parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind token.Kind, what string) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, errExpected(what, p.cur())
	}
	return p.advance(), nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.KwLet:
		return p.parseLet(false)
	case token.KwConst:
		return p.parseLet(true)
	case token.KwImport:
		return p.parseImport()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwBreak:
		tok := p.advance()
		if _, err := p.expect(token.SemiColon, "';' after break"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Pos: tok.Pos}, nil
	case token.KwFn:
		return nil, &ParseError{
			Message: "function definitions are only allowed at top level",
			Pos:     p.cur().Pos,
		}
	default:
		return p.parseExprOrAssign()
	}
}

func (p *parser) parseLet(isConst bool) (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expect(token.Ident, "variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign, "'=' in declaration"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SemiColon, "';' after declaration"); err != nil {
		return nil, err
	}
	return &ast.LetStmt{Name: name.Lexeme, Const: isConst, Value: value, Pos: kw.Pos}, nil
}

func (p *parser) parseImport() (ast.Stmt, error) {
	kw := p.advance()
	path, err := p.expect(token.StringLit, "import path string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwAs, "'as' after import path"); err != nil {
		return nil, err
	}
	alias, err := p.expect(token.Ident, "import alias")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SemiColon, "';' after import"); err != nil {
		return nil, err
	}
	return &ast.ImportStmt{Path: path.Lexeme, Alias: alias.Lexeme, Pos: kw.Pos}, nil
}

func (p *parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	if p.accept(token.SemiColon) {
		return &ast.ReturnStmt{Pos: kw.Pos}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SemiColon, "';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Pos: kw.Pos}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Condition: cond, Then: then, Pos: kw.Pos}
	if !p.accept(token.KwElse) {
		return stmt, nil
	}
	if p.at(token.KwIf) {
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = []ast.Stmt{nested}
		return stmt, nil
	}
	stmt.Else, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body, Pos: kw.Pos}, nil
}

func (p *parser) parseFnDef() (*ast.FnDef, error) {
	kw := p.advance()
	name, err := p.expect(token.Ident, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LeftParen, "'(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	for !p.at(token.RightParen) {
		param, err := p.expect(token.Ident, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, param.Lexeme)
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RightParen, "')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FnDef{Name: name.Lexeme, Params: params, Body: body, Pos: kw.Pos}, nil
}

func (p *parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LeftBrace, "'{'"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.at(token.RightBrace) && !p.at(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RightBrace, "'}'"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseExprOrAssign() (ast.Stmt, error) {
	start := p.cur().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.at(token.Assign) {
		eq := p.advance()
		switch expr.(type) {
		case *ast.Ident, *ast.IndexExpr, *ast.QualifiedRef:
		default:
			return nil, &ParseError{Message: "invalid assignment target", Pos: eq.Pos}
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SemiColon, "';' after assignment"); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: expr, Value: value, Pos: start}, nil
	}

	stmt := &ast.ExprStmt{Value: expr, Pos: start}
	if p.accept(token.SemiColon) {
		stmt.Terminated = true
		return stmt, nil
	}
	// Only a block or file end may follow an unterminated expression;
	// its value becomes the block's value.
	if p.at(token.RightBrace) || p.at(token.EOF) {
		return stmt, nil
	}
	return nil, errExpected("';' after expression", p.cur())
}

type precLevel struct {
	kinds []token.Kind
}

var binaryLevels = []precLevel{
	{kinds: []token.Kind{token.OrOr}},
	{kinds: []token.Kind{token.AndAnd}},
	{kinds: []token.Kind{token.EqualTo, token.NotEqualTo}},
	{kinds: []token.Kind{token.LessThan, token.LessThanEqual, token.GreaterThan, token.GreaterThanEqual}},
	{kinds: []token.Kind{token.Plus, token.Minus}},
	{kinds: []token.Kind{token.Star, token.Slash, token.Percent}},
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(level int) (ast.Expr, error) {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, kind := range binaryLevels[level].kinds {
			if p.at(kind) {
				op := p.advance()
				right, err := p.parseBinary(level + 1)
				if err != nil {
					return nil, err
				}
				left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right, Pos: op.Pos}
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.at(token.Minus) || p.at(token.Bang) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, Operand: operand, Pos: op.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.LeftParen):
			open := p.advance()
			switch expr.(type) {
			case *ast.Ident, *ast.QualifiedRef:
			default:
				return nil, &ParseError{Message: "this expression cannot be called", Pos: open.Pos}
			}
			args, err := p.parseArgs(token.RightParen, "')' after arguments")
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Target: expr, Args: args, Pos: expr.Position()}
		case p.at(token.Dot):
			p.advance()
			name, err := p.expect(token.Ident, "method name after '.'")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.LeftParen, "'(' after method name"); err != nil {
				return nil, err
			}
			args, err := p.parseArgs(token.RightParen, "')' after arguments")
			if err != nil {
				return nil, err
			}
			expr = &ast.MethodCallExpr{Recv: expr, Name: name.Lexeme, Args: args, Pos: name.Pos}
		case p.at(token.LeftBracket):
			open := p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RightBracket, "']' after index"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Recv: expr, Index: index, Pos: open.Pos}
		default:
			return expr, nil
		}
	}
}

// parseArgs consumes a comma-separated expression list up to the
// closing token, which it also consumes.
func (p *parser) parseArgs(closing token.Kind, what string) ([]ast.Expr, error) {
	var args []ast.Expr
	for !p.at(closing) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, err := p.expect(closing, what); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("integer literal %s out of range", tok.Lexeme),
				Pos:     tok.Pos,
			}
		}
		return &ast.IntLit{Value: v, Pos: tok.Pos}, nil
	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("malformed float literal %s", tok.Lexeme),
				Pos:     tok.Pos,
			}
		}
		return &ast.FloatLit{Value: v, Pos: tok.Pos}, nil
	case token.StringLit:
		p.advance()
		return &ast.StringLit{Value: tok.Lexeme, Pos: tok.Pos}, nil
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{Value: true, Pos: tok.Pos}, nil
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: false, Pos: tok.Pos}, nil
	case token.Ident:
		return p.parseRef()
	case token.LeftParen:
		p.advance()
		if p.accept(token.RightParen) {
			return &ast.UnitLit{Pos: tok.Pos}, nil
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LeftBracket:
		p.advance()
		elems, err := p.parseArgs(token.RightBracket, "']' after array elements")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elems: elems, Pos: tok.Pos}, nil
	default:
		return nil, errExpected("expression", tok)
	}
}

// parseRef parses a bare identifier or a qualified a::b::name
// reference. For the qualified form the final identifier is the
// symbol; everything before it, first segment included, is the path.
func (p *parser) parseRef() (ast.Expr, error) {
	first, err := p.expect(token.Ident, "identifier")
	if err != nil {
		return nil, err
	}
	if !p.at(token.DoubleColon) {
		return &ast.Ident{Name: first.Lexeme, Pos: first.Pos}, nil
	}

	segments := []ast.PathSegment{{Name: first.Lexeme, Pos: first.Pos}}
	last := first
	for p.accept(token.DoubleColon) {
		ident, err := p.expect(token.Ident, "identifier after '::'")
		if err != nil {
			return nil, err
		}
		segments = append(segments, ast.PathSegment{Name: ident.Lexeme, Pos: ident.Pos})
		last = ident
	}
	path := segments[:len(segments)-1]
	return &ast.QualifiedRef{Path: path, Name: last.Lexeme, Pos: first.Pos}, nil
}
