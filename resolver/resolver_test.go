package resolver_test

import (
	"bytes"
	"testing"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/resolver"
)

func resolve(t *testing.T, src string) (map[ast.Expr]int, *errs.Reporter) {
	t.Helper()
	var buf bytes.Buffer
	reporter := errs.New(&buf)
	program := parser.Parse([]byte(src), reporter)
	if reporter.HadError {
		t.Fatalf("unexpected parse error for %q: %s", src, buf.String())
	}
	locals := resolver.Resolve(program, reporter)
	return locals, reporter
}

func TestResolve_ValidProgramsProduceNoError(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"global variable", "var a = 1; print a;"},
		{"local variable in block", "{ var a = 1; print a; }"},
		{"shadowing across scopes", "var a = 1; { var a = 2; print a; }"},
		{"function parameter", "fun f(a) { print a; } f(1);"},
		{"closure over enclosing local", "fun outer() { var a = 1; fun inner() { print a; } inner(); }"},
		{"class with method using this", "class A { m() { return this; } }"},
		{"subclass using super", "class A { m() { return 1; } } class B < A { m() { return super.m(); } }"},
		{"return inside function", "fun f() { return 1; }"},
		{"return with no value inside initializer", "class A { init() { return; } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reporter := resolve(t, tt.src)
			if reporter.HadError {
				t.Errorf("unexpected resolve error for %q", tt.src)
			}
		})
	}
}

func TestResolve_LocalDistances(t *testing.T) {
	src := `
		var a = 1;
		{
			var b = 2;
			{
				print a;
				print b;
			}
		}
	`
	program, reporter := parseProgram(t, src)
	if reporter.HadError {
		t.Fatalf("unexpected parse error")
	}
	locals := resolver.Resolve(program, reporter)

	block1 := program[1].(*ast.Block)
	block2 := block1.Stmts[1].(*ast.Block)
	printA := block2.Stmts[0].(*ast.Print).Expr.(*ast.Variable)
	printB := block2.Stmts[1].(*ast.Print).Expr.(*ast.Variable)

	if _, ok := locals[printA]; ok {
		t.Errorf("expected %q to be resolved as global (absent from locals), distance recorded instead", "a")
	}
	if dist, ok := locals[printB]; !ok || dist != 1 {
		t.Errorf("got distance %d (present=%v) for %q, want 1", dist, ok, "b")
	}
}

func parseProgram(t *testing.T, src string) ([]ast.Stmt, *errs.Reporter) {
	t.Helper()
	var buf bytes.Buffer
	reporter := errs.New(&buf)
	return parser.Parse([]byte(src), reporter), reporter
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"read local variable in its own initializer", "{ var a = a; }"},
		{"redeclare variable in same scope", "{ var a = 1; var a = 2; }"},
		{"return from top-level code", "return 1;"},
		{"return a value from an initializer", "class A { init() { return 1; } }"},
		{"this outside a class", "print this;"},
		{"super outside a class", "super.m();"},
		{"super in a class with no superclass", "class A { m() { return super.m(); } }"},
		{"class inherits from itself", "class A < A {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reporter := resolve(t, tt.src)
			if !reporter.HadError {
				t.Errorf("expected a resolve error for %q", tt.src)
			}
		})
	}
}
