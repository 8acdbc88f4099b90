package interpreter

import (
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/token"
)

// environment is one lexical scope's variable bindings, chained to its enclosing scope. The
// parent-pointer chain and the distance-based getAt/assignAt accessors (used by the interpreter
// together with the resolver's side table) are grounded on golox's interpreter/environment.go;
// its PlaceholderIdent ("_") special-casing has no counterpart in this grammar and is dropped.
type environment struct {
	parent *environment
	values map[string]value
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent, values: make(map[string]value)}
}

// define binds name to v in this environment, overwriting any existing binding. Used for variable
// and function declarations, and for binding call arguments to parameters.
func (e *environment) define(name string, v value) {
	e.values[name] = v
}

// get returns the value bound to tok.Lexeme in this environment, reporting an "Undefined
// variable" runtime error if there is none.
func (e *environment) get(tok token.Token) value {
	if v, ok := e.values[tok.Lexeme]; ok {
		return v
	}
	panic(errs.NewRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// assign rebinds tok.Lexeme to v in this environment, reporting an "Undefined variable" runtime
// error if it hasn't been declared here.
func (e *environment) assign(tok token.Token, v value) {
	if _, ok := e.values[tok.Lexeme]; ok {
		e.values[tok.Lexeme] = v
		return
	}
	panic(errs.NewRuntimeError(tok, "Undefined variable '%s'.", tok.Lexeme))
}

func (e *environment) ancestor(distance int) *environment {
	env := e
	for range distance {
		env = env.parent
	}
	return env
}

// getAt returns the value bound to name exactly distance scopes up the parent chain, as resolved
// by the resolver. name is a plain string rather than a token.Token since it's also used to look up
// the synthetic "this"/"super" bindings that have no source token of their own.
func (e *environment) getAt(distance int, name string) value {
	return e.ancestor(distance).values[name]
}

func (e *environment) assignAt(distance int, tok token.Token, v value) {
	e.ancestor(distance).values[tok.Lexeme] = v
}
