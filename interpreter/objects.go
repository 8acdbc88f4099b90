package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/token"
)

// value is implemented by every runtime value a Lox program can produce: nil, a bool, a number, a
// string, a callable (function, method or class) or a class instance. This interface, and the
// callable interface below it, follow the shape of golox's
// interpreter/objects.go, trimmed to a smaller value set — no lists, no metaclasses, no static
// methods, no getters/setters.
type value interface {
	// String returns the value's representation as printed by the "print" statement.
	String() string
}

type valueNil struct{}

func (valueNil) String() string { return "nil" }

type valueBool bool

func (b valueBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b valueBool) isTruthy() bool {
	return bool(b)
}

// valueNumber follows IEEE 754 double-precision semantics; -0 prints distinctly from 0, which
// FormatFloat already does.
type valueNumber float64

func (n valueNumber) String() string {
	if math.IsInf(float64(n), 1) {
		return "Infinity"
	}
	if math.IsInf(float64(n), -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type valueString string

func (s valueString) String() string {
	return string(s)
}

// isTruthy implements Lox's truthiness rule: everything is truthy except nil and false.
func isTruthy(v value) bool {
	switch v := v.(type) {
	case valueNil:
		return false
	case valueBool:
		return v.isTruthy()
	default:
		return true
	}
}

// valuesEqual implements Lox's equality rule: values of different runtime types are never equal,
// NaN is never equal to anything including itself, and numeric equality otherwise follows ==.
func valuesEqual(a, b value) bool {
	switch a := a.(type) {
	case valueNil:
		_, ok := b.(valueNil)
		return ok
	case valueBool:
		bb, ok := b.(valueBool)
		return ok && a == bb
	case valueNumber:
		bn, ok := b.(valueNumber)
		if !ok {
			return false
		}
		return float64(a) == float64(bn)
	case valueString:
		bs, ok := b.(valueString)
		return ok && a == bs
	default:
		return a == b
	}
}

// callable is implemented by every value that can appear as the callee of a call expression:
// native functions, Lox functions and classes (calling a class constructs an instance).
type callable interface {
	value
	arity() int
	call(interp *Interpreter, args []value) value
}

// nativeFunction wraps a Go function as a Lox callable, e.g. the "clock" builtin.
type nativeFunction struct {
	name string
	n    int
	fn   func(args []value) value
}

func (f *nativeFunction) String() string { return "<native fn>" }
func (f *nativeFunction) arity() int     { return f.n }
func (f *nativeFunction) call(_ *Interpreter, args []value) value {
	return f.fn(args)
}

// function is a user-defined Lox function or method: its declaration, the environment it closed
// over, and whether it's a class's init method (which always returns "this" regardless of any
// explicit return value).
type function struct {
	decl          *ast.Function
	closure       *environment
	isInitializer bool
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

func (f *function) arity() int {
	return len(f.decl.Params)
}

func (f *function) call(interp *Interpreter, args []value) (result value) {
	env := newEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.define(param.Lexeme, args[i])
	}

	result = valueNil{}
	if ret, ok := interp.executeBlock(f.decl.Body, env).(execReturn); ok {
		result = ret.value
	}

	if f.isInitializer {
		return f.closure.getAt(0, "this")
	}
	return result
}

// bind returns a copy of f whose closure additionally defines "this" as inst: every access to a
// method produces a fresh bound copy.
func (f *function) bind(inst *instance) *function {
	env := newEnvironment(f.closure)
	env.define("this", inst)
	return &function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// class is a Lox class: its name, optional superclass and method table.
type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

func (c *class) String() string {
	return c.name
}

// findMethod looks up name in c's own method table, then its superclass chain.
func (c *class) findMethod(name string) *function {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *class) call(interp *Interpreter, args []value) value {
	inst := &instance{class: c, fields: make(map[string]value)}
	if init := c.findMethod("init"); init != nil {
		init.bind(inst).call(interp, args)
	}
	return inst
}

// instance is an instantiation of a Lox class: a mutable field table consulted before the class's
// (and its superclasses') methods.
type instance struct {
	class  *class
	fields map[string]value
}

func (i *instance) String() string {
	return i.class.name + " instance"
}

func (i *instance) get(name token.Token) value {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if m := i.class.findMethod(name.Lexeme); m != nil {
		return m.bind(i)
	}
	panic(errs.NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme))
}

func (i *instance) set(name token.Token, v value) {
	i.fields[name.Lexeme] = v
}
