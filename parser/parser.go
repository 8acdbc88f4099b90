// Package parser implements a recursive-descent, Pratt-style parser for Lox source code.
//
// The match/expect/synchronize idiom and the panic-based unwind used to recover from a malformed
// declaration are both taken directly from golox's parser; what's different is the grammar
// itself, trimmed to a smaller precedence ladder and statement set (no comma operator, no
// ternary, no function expressions, no break/continue, no static/get/set methods).
package parser

import (
	"fmt"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/scanner"
	"github.com/loxlang/lox/token"
)

// Parse scans and parses src, returning every top-level statement it could recover. Errors are
// reported to reporter; check reporter.HadError after calling to decide whether the result is
// usable.
func Parse(src []byte, reporter *errs.Reporter) []ast.Stmt {
	p := &parser{sc: scanner.New(src, reporter), reporter: reporter}
	p.advance()
	var stmts []ast.Stmt
	for !p.check(token.EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// unwind is panicked to abandon the statement currently being parsed and resynchronise.
type unwind struct{}

type parser struct {
	sc       *scanner.Scanner
	reporter *errs.Reporter

	prev token.Token
	cur  token.Token
}

func (p *parser) advance() {
	p.prev = p.cur
	p.cur = p.sc.Next()
}

func (p *parser) check(t token.Type) bool {
	return p.cur.Type == t
}

// match advances and returns true if the current token has type t, otherwise leaves the parser
// where it is and returns false.
func (p *parser) match(t token.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

// expect advances past a token of type t, or reports an error and unwinds the parse of the current
// declaration.
func (p *parser) expect(t token.Type, format string, args ...any) token.Token {
	if p.check(t) {
		tok := p.cur
		p.advance()
		return tok
	}
	p.errorf(p.cur, format, args...)
	panic(unwind{})
}

func (p *parser) errorf(tok token.Token, format string, args ...any) {
	p.reporter.ReportToken(tok, fmt.Sprintf(format, args...))
}

// declaration parses one top-level or block-level declaration, recovering from any parse error by
// synchronising to the next statement boundary and returning nil for the failed declaration (the
// caller filters nils out).
func (p *parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *parser) synchronize() {
	for !p.check(token.EOF) {
		switch p.cur.Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
		if p.prev.Type == token.Semicolon {
			return
		}
	}
}

func (p *parser) classDeclaration() ast.Stmt {
	name := p.expect(token.Ident, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.expect(token.Ident, "Expect superclass name.")
		superclass = &ast.Variable{Name: superName}
	}

	p.expect(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		methods = append(methods, p.function("method"))
	}
	p.expect(token.RightBrace, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// function parses a function or method's name, parameter list and body. kind is either "function"
// or "method" and is only used in error messages, letting both declarations and methods share
// one parse procedure.
func (p *parser) function(kind string) *ast.Function {
	name := p.expect(token.Ident, "Expect %s name.", kind)
	p.expect(token.LeftParen, "Expect '(' after %s name.", kind)
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= 255 {
				p.errorf(p.cur, "Can't have more than 255 parameters.")
			}
			params = append(params, p.expect(token.Ident, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "Expect ')' after parameters.")
	p.expect(token.LeftBrace, "Expect '{' before %s body.", kind)
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *parser) varDeclaration() ast.Stmt {
	name := p.expect(token.Ident, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return &ast.Block{Stmts: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// forStatement desugars entirely at parse time into a While.
func (p *parser) forStatement() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.check(token.Var):
		p.advance()
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.expect(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: increment}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	body = &ast.While{Cond: cond, Body: body}
	if initializer != nil {
		body = &ast.Block{Stmts: []ast.Stmt{initializer, body}}
	}

	return body
}

func (p *parser) ifStatement() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(token.RightParen, "Expect ')' after if condition.")
	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *parser) printStatement() ast.Stmt {
	value := p.expression()
	p.expect(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expr: value}
}

func (p *parser) returnStatement() ast.Stmt {
	keyword := p.prev
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *parser) whileStatement() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

func (p *parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.expect(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

// assignment reinterprets an already-parsed expression when '=' follows: a Variable becomes an
// Assign, a Get becomes a Set, anything else is an error (but parsing continues, since the
// right-hand side has already been parsed successfully).
func (p *parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.prev
		value := p.assignment()

		switch left := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: left.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: left.Object, Name: left.Name, Value: value}
		default:
			p.errorf(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.prev
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.prev
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual) || p.match(token.EqualEqual) {
		op := p.prev
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater) || p.match(token.GreaterEqual) || p.match(token.Less) || p.match(token.LessEqual) {
		op := p.prev
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus) || p.match(token.Plus) {
		op := p.prev
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash) || p.match(token.Star) {
		op := p.prev
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.Bang) || p.match(token.Minus) {
		op := p.prev
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

// call parses primary followed by zero or more "(args)" or ".name" suffixes, left-associatively.
func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.expect(token.Ident, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= 255 {
				p.errorf(p.cur, "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.expect(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}
	case p.match(token.True):
		return &ast.Literal{Value: true}
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}
	case p.match(token.Number) || p.match(token.String):
		return &ast.Literal{Value: p.prev.Literal}
	case p.match(token.Super):
		keyword := p.prev
		p.expect(token.Dot, "Expect '.' after 'super'.")
		method := p.expect(token.Ident, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.This):
		return &ast.This{Keyword: p.prev}
	case p.match(token.Ident):
		return &ast.Variable{Name: p.prev}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.expect(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	default:
		p.errorf(p.cur, "Expect expression.")
		panic(unwind{})
	}
}
