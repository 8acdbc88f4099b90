// Package interpreter evaluates a resolved Lox program.
//
// Runtime errors (type mismatches, undefined variables, wrong arity, ...) are reported by
// panicking with an *errs.RuntimeError and recovering at the single entry point, Interpret — this
// part of golox's interpreter/objects.go carries over unchanged in shape. "return", though, is
// propagated with an explicit result value threaded back up through every exec method rather than
// a panic, mirroring the stmtResult pattern used by golox's class-aware interpreter variant:
// panics are reserved for genuine errors, not control flow that exits normally.
package interpreter

import (
	"fmt"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/token"
)

// maxCallDepth bounds Lox call recursion so that a runaway Lox program overflows with a reported
// runtime error rather than crashing the host Go goroutine's stack.
const maxCallDepth = 1000

// execResult is returned by every statement-executing method. It's either execNone (the statement
// ran to completion) or execReturn (a "return" was hit and should unwind to the nearest enclosing
// function call).
type execResult interface {
	execResultNode()
}

type execNone struct{}

func (execNone) execResultNode() {}

type execReturn struct {
	value value
}

func (execReturn) execResultNode() {}

// Interpreter evaluates statements and expressions against a chain of environments rooted at a
// fixed global scope.
type Interpreter struct {
	reporter  *errs.Reporter
	globals   *environment
	env       *environment
	locals    map[ast.Expr]int
	callDepth int
}

// New constructs an Interpreter. Runtime errors are reported through reporter; the "print"
// statement writes to stdout directly via fmt.Println, matching golox's batch (non-REPL) mode.
func New(reporter *errs.Reporter) *Interpreter {
	g := globals()
	return &Interpreter{reporter: reporter, globals: g, env: g}
}

// Interpret executes program, which must already have been resolved (locals is the resolver's
// side table). A runtime error aborts execution of the remaining statements, is reported to the
// interpreter's Reporter, and Interpret returns normally -- the caller checks
// reporter.HadRuntimeError.
func (i *Interpreter) Interpret(program []ast.Stmt, locals map[ast.Expr]int) {
	i.locals = locals
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*errs.RuntimeError)
			if !ok {
				panic(r)
			}
			i.reporter.ReportRuntimeError(rerr)
		}
	}()
	for _, stmt := range program {
		i.execStmt(stmt)
	}
}

func (i *Interpreter) execStmt(stmt ast.Stmt) execResult {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Stmts, newEnvironment(i.env))

	case *ast.Class:
		return i.execClass(s)

	case *ast.ExpressionStmt:
		i.eval(s.Expr)
		return execNone{}

	case *ast.Function:
		fn := &function{decl: s, closure: i.env}
		i.env.define(s.Name.Lexeme, fn)
		return execNone{}

	case *ast.If:
		if isTruthy(i.eval(s.Cond)) {
			return i.execStmt(s.Then)
		} else if s.Else != nil {
			return i.execStmt(s.Else)
		}
		return execNone{}

	case *ast.Print:
		fmt.Println(i.eval(s.Expr).String())
		return execNone{}

	case *ast.Return:
		var v value = valueNil{}
		if s.Value != nil {
			v = i.eval(s.Value)
		}
		return execReturn{value: v}

	case *ast.Var:
		var v value = valueNil{}
		if s.Initializer != nil {
			v = i.eval(s.Initializer)
		}
		i.env.define(s.Name.Lexeme, v)
		return execNone{}

	case *ast.While:
		for isTruthy(i.eval(s.Cond)) {
			if result := i.execStmt(s.Body); result != (execNone{}) {
				return result
			}
		}
		return execNone{}

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", s))
	}
}

// executeBlock runs stmts in a fresh child scope env, restoring the interpreter's current
// environment before returning (even if a runtime error panics through it, via a deferred
// restore).
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *environment) execResult {
	prev := i.env
	i.env = env
	defer func() { i.env = prev }()

	for _, stmt := range stmts {
		if result := i.execStmt(stmt); result != (execNone{}) {
			return result
		}
	}
	return execNone{}
}

func (i *Interpreter) execClass(s *ast.Class) execResult {
	var super *class
	if s.Superclass != nil {
		superVal := i.eval(s.Superclass)
		sc, ok := superVal.(*class)
		if !ok {
			panic(errs.NewRuntimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		super = sc
	}

	i.env.define(s.Name.Lexeme, valueNil{})

	classEnv := i.env
	if s.Superclass != nil {
		classEnv = newEnvironment(i.env)
		classEnv.define("super", super)
	}

	methods := make(map[string]*function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &function{decl: m, closure: classEnv, isInitializer: m.IsInitializer()}
	}

	c := &class{name: s.Name.Lexeme, superclass: super, methods: methods}
	i.env.assign(s.Name, c)
	return execNone{}
}

func (i *Interpreter) eval(expr ast.Expr) value {
	switch e := expr.(type) {
	case *ast.Assign:
		v := i.eval(e.Value)
		if distance, ok := i.locals[e]; ok {
			i.env.assignAt(distance, e.Name, v)
		} else {
			i.globals.assign(e.Name, v)
		}
		return v

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Call:
		return i.evalCall(e)

	case *ast.Get:
		obj := i.eval(e.Object)
		inst, ok := obj.(*instance)
		if !ok {
			panic(errs.NewRuntimeError(e.Name, "Only instances have properties."))
		}
		return inst.get(e.Name)

	case *ast.Grouping:
		return i.eval(e.Expr)

	case *ast.Literal:
		return literalValue(e.Value)

	case *ast.Logical:
		left := i.eval(e.Left)
		if e.Op.Type == token.Or {
			if isTruthy(left) {
				return left
			}
		} else if !isTruthy(left) {
			return left
		}
		return i.eval(e.Right)

	case *ast.Set:
		obj := i.eval(e.Object)
		inst, ok := obj.(*instance)
		if !ok {
			panic(errs.NewRuntimeError(e.Name, "Only instances have fields."))
		}
		v := i.eval(e.Value)
		inst.set(e.Name, v)
		return v

	case *ast.Super:
		distance := i.locals[e]
		super := i.env.getAt(distance, "super").(*class)
		inst := i.env.getAt(distance-1, "this").(*instance)
		method := super.findMethod(e.Method.Lexeme)
		if method == nil {
			panic(errs.NewRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
		}
		return method.bind(inst)

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)

	case *ast.Unary:
		return i.evalUnary(e)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", e))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) value {
	if distance, ok := i.locals[expr]; ok {
		return i.env.getAt(distance, name.Lexeme)
	}
	return i.globals.get(name)
}

func literalValue(v any) value {
	switch v := v.(type) {
	case nil:
		return valueNil{}
	case bool:
		return valueBool(v)
	case float64:
		return valueNumber(v)
	case string:
		return valueString(v)
	default:
		panic(fmt.Sprintf("interpreter: unhandled literal type %T", v))
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary) value {
	right := i.eval(e.Right)
	switch e.Op.Type {
	case token.Bang:
		return valueBool(!isTruthy(right))
	case token.Minus:
		n, ok := right.(valueNumber)
		if !ok {
			panic(errs.NewRuntimeError(e.Op, "Operand must be a number."))
		}
		return -n
	default:
		panic(fmt.Sprintf("interpreter: unhandled unary operator %s", e.Op.Type))
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) value {
	left := i.eval(e.Left)
	right := i.eval(e.Right)

	switch e.Op.Type {
	case token.EqualEqual:
		return valueBool(valuesEqual(left, right))
	case token.BangEqual:
		return valueBool(!valuesEqual(left, right))
	}

	if e.Op.Type == token.Plus {
		if ln, ok := left.(valueNumber); ok {
			if rn, ok := right.(valueNumber); ok {
				return ln + rn
			}
		}
		if ls, ok := left.(valueString); ok {
			if rs, ok := right.(valueString); ok {
				return ls + rs
			}
		}
		panic(errs.NewRuntimeError(e.Op, "Operands must be two numbers or two strings."))
	}

	ln, lok := left.(valueNumber)
	rn, rok := right.(valueNumber)
	if !lok || !rok {
		panic(errs.NewRuntimeError(e.Op, "Operands must be numbers."))
	}

	switch e.Op.Type {
	case token.Minus:
		return ln - rn
	case token.Star:
		return ln * rn
	case token.Slash:
		return ln / rn
	case token.Greater:
		return valueBool(ln > rn)
	case token.GreaterEqual:
		return valueBool(ln >= rn)
	case token.Less:
		return valueBool(ln < rn)
	case token.LessEqual:
		return valueBool(ln <= rn)
	default:
		panic(fmt.Sprintf("interpreter: unhandled binary operator %s", e.Op.Type))
	}
}

func (i *Interpreter) evalCall(e *ast.Call) value {
	callee := i.eval(e.Callee)
	args := make([]value, len(e.Args))
	for idx, a := range e.Args {
		args[idx] = i.eval(a)
	}

	c, ok := callee.(callable)
	if !ok {
		panic(errs.NewRuntimeError(e.Paren, "Can only call functions and classes."))
	}
	if len(args) != c.arity() {
		panic(errs.NewRuntimeError(e.Paren, "Expected %d arguments but got %d.", c.arity(), len(args)))
	}

	i.callDepth++
	if i.callDepth > maxCallDepth {
		i.callDepth--
		panic(errs.NewRuntimeError(e.Paren, "Stack overflow."))
	}
	defer func() { i.callDepth-- }()

	return c.call(i, args)
}
