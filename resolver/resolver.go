// Package resolver performs a static, post-parse pass over a Lox program: it resolves every
// variable reference to a lexical distance (how many enclosing scopes to walk to find its
// binding) and catches a handful of errors that are only visible statically (reading a variable
// in its own initialiser, returning a value from an initialiser, using this/super outside a
// class).
//
// The scope-stack-of-maps shape and the declare/define two-step are grounded on golox's
// resolver; that file never grew class/this/super support (it's a pre-OOP revision), so the
// class, current-function and current-class tracking here are grounded instead on the
// class-aware resolver that lives alongside golox's interpreter package, following the same
// declare-before-define discipline.
package resolver

import (
	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/token"
)

// functionType tracks what kind of function body the resolver is currently inside, so that
// "return" can be validated without a full symbol table.
type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

// classType tracks whether the resolver is currently inside a class body, and whether that class
// has a superclass, so that "this" and "super" can be validated.
type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name declared in a lexical block to whether it has finished being defined. A name
// present with value false has been declared (e.g. the left-hand side of "var x = x;" has been
// seen) but its initialiser hasn't been evaluated yet; true means it's fully defined and can be
// referenced.
type scope map[string]bool

// Resolve walks program, resolving every variable reference to a lexical distance. The returned
// map is keyed on the ast.Expr node itself (Variable, Assign, This or Super; pointer identity
// makes this a stable map key).
// Errors are reported to reporter; check reporter.HadError afterwards to decide whether the result
// is usable.
func Resolve(program []ast.Stmt, reporter *errs.Reporter) map[ast.Expr]int {
	r := &resolver{
		reporter: reporter,
		scopes:   newStack[scope](),
		locals:   make(map[ast.Expr]int),
		curFunc:  functionNone,
		curClass: classNone,
	}
	r.resolveStmts(program)
	return r.locals
}

type resolver struct {
	reporter *errs.Reporter
	scopes   *stack[scope]
	locals   map[ast.Expr]int
	curFunc  functionType
	curClass classType
}

func (r *resolver) pushScope() {
	r.scopes.Push(scope{})
}

func (r *resolver) popScope() {
	r.scopes.Pop()
}

func (r *resolver) scope() scope {
	return r.scopes.Peek()
}

func (r *resolver) declare(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	s := r.scope()
	if _, ok := s[name.Lexeme]; ok {
		r.reporter.ReportToken(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	r.scope()[name.Lexeme] = true
}

// resolveLocal records, in locals, the number of scopes between the innermost scope and the one
// where name is declared. If name isn't found in any scope, it's assumed to be global and nothing
// is recorded: absence from the map means global or undeclared.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := r.scopes.Len() - 1; i >= 0; i-- {
		if _, ok := r.scopes.Index(i)[name.Lexeme]; ok {
			r.locals[expr] = r.scopes.Len() - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.pushScope()
		r.resolveStmts(s.Stmts)
		r.popScope()

	case *ast.Class:
		enclosingClass := r.curClass
		r.curClass = classClass
		defer func() { r.curClass = enclosingClass }()

		r.declare(s.Name)
		r.define(s.Name)

		if s.Superclass != nil {
			if s.Superclass.Name.Lexeme == s.Name.Lexeme {
				r.reporter.ReportToken(s.Superclass.Name, "A class can't inherit from itself.")
			}
			r.curClass = classSubclass
			r.resolveExpr(s.Superclass)

			r.pushScope()
			r.scope()["super"] = true
			defer r.popScope()
		}

		r.pushScope()
		defer r.popScope()
		r.scope()["this"] = true

		for _, m := range s.Methods {
			funcType := functionMethod
			if m.IsInitializer() {
				funcType = functionInitializer
			}
			r.resolveFunction(m, funcType)
		}

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.curFunc == functionNone {
			r.reporter.ReportToken(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.curFunc == functionInitializer {
				r.reporter.ReportToken(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *resolver) resolveFunction(f *ast.Function, typ functionType) {
	enclosingFunc := r.curFunc
	r.curFunc = typ
	defer func() { r.curFunc = enclosingFunc }()

	r.pushScope()
	defer r.popScope()
	for _, param := range f.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(f.Body)
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Expr)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.curClass {
		case classNone:
			r.reporter.ReportToken(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.reporter.ReportToken(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.This:
		if r.curClass == classNone {
			r.reporter.ReportToken(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if r.scopes.Len() > 0 {
			if defined, ok := r.scope()[e.Name.Lexeme]; ok && !defined {
				r.reporter.ReportToken(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}
