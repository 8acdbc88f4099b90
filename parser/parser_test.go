package parser_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loxlang/lox/ast"
	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/parser"
	"github.com/loxlang/lox/token"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *errs.Reporter) {
	t.Helper()
	var buf bytes.Buffer
	reporter := errs.New(&buf)
	program := parser.Parse([]byte(src), reporter)
	return program, reporter
}

func TestParse_ValidProgramsProduceNoError(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty program", ""},
		{"var declaration without initializer", "var a;"},
		{"var declaration with initializer", "var a = 1;"},
		{"expression statement", "1 + 2;"},
		{"print statement", `print "hi";`},
		{"block", "{ var a = 1; print a; }"},
		{"if without else", "if (true) print 1;"},
		{"if with else", "if (true) print 1; else print 2;"},
		{"while loop", "while (true) print 1;"},
		{"for loop, all clauses", "for (var i = 0; i < 10; i = i + 1) print i;"},
		{"for loop, all clauses omitted", "for (;;) print 1;"},
		{"function declaration", "fun f(a, b) { return a + b; }"},
		{"class declaration", "class A { foo() { return 1; } }"},
		{"class declaration with superclass", "class A {} class B < A {}"},
		{"call expression", "f(1, 2, 3);"},
		{"property access", "a.b.c;"},
		{"property assignment", "a.b = 1;"},
		{"assignment", "a = 1;"},
		{"logical operators", "true and false or true;"},
		{"this and super", "class A { m() { return this; } } class B < A { m() { return super.m(); } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reporter := parse(t, tt.src)
			if reporter.HadError {
				t.Errorf("unexpected parse error for %q", tt.src)
			}
		})
	}
}

func TestParse_BinaryExpressionProducesExpectedTree(t *testing.T) {
	program, reporter := parse(t, "1 + 2 * 3;")
	if reporter.HadError {
		t.Fatalf("unexpected parse error")
	}

	want := []ast.Stmt{
		&ast.ExpressionStmt{
			Expr: &ast.Binary{
				Left: &ast.Literal{Value: 1.0},
				Op:   token.Token{Type: token.Plus, Lexeme: "+", Line: 1},
				Right: &ast.Binary{
					Left:  &ast.Literal{Value: 2.0},
					Op:    token.Token{Type: token.Star, Lexeme: "*", Line: 1},
					Right: &ast.Literal{Value: 3.0},
				},
			},
		},
	}

	if diff := cmp.Diff(want, program); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ForLoopDesugarsToWhile(t *testing.T) {
	program, reporter := parse(t, "for (var i = 0; i < 10; i = i + 1) print i;")
	if reporter.HadError {
		t.Fatalf("unexpected parse error")
	}
	if len(program) != 1 {
		t.Fatalf("got %d top-level statements, want 1", len(program))
	}
	outer, ok := program[0].(*ast.Block)
	if !ok {
		t.Fatalf("got %T, want *ast.Block (initializer wrapper)", program[0])
	}
	if len(outer.Stmts) != 2 {
		t.Fatalf("got %d statements in desugared block, want 2 (initializer, while)", len(outer.Stmts))
	}
	if _, ok := outer.Stmts[0].(*ast.Var); !ok {
		t.Errorf("first desugared statement is %T, want *ast.Var", outer.Stmts[0])
	}
	loop, ok := outer.Stmts[1].(*ast.While)
	if !ok {
		t.Fatalf("second desugared statement is %T, want *ast.While", outer.Stmts[1])
	}
	body, ok := loop.Body.(*ast.Block)
	if !ok {
		t.Fatalf("while body is %T, want *ast.Block (body + increment wrapper)", loop.Body)
	}
	if len(body.Stmts) != 2 {
		t.Errorf("got %d statements in while body, want 2 (print, increment)", len(body.Stmts))
	}
}

func TestParse_ForLoopWithoutConditionDesugarsToTrue(t *testing.T) {
	program, reporter := parse(t, "for (;;) print 1;")
	if reporter.HadError {
		t.Fatalf("unexpected parse error")
	}
	loop, ok := program[0].(*ast.While)
	if !ok {
		t.Fatalf("got %T, want *ast.While", program[0])
	}
	lit, ok := loop.Cond.(*ast.Literal)
	if !ok || lit.Value != true {
		t.Errorf("got condition %#v, want literal true", loop.Cond)
	}
}

func TestParse_AssignmentReinterpretsVariableAndGet(t *testing.T) {
	program, reporter := parse(t, "a = 1; a.b = 2;")
	if reporter.HadError {
		t.Fatalf("unexpected parse error")
	}
	if _, ok := program[0].(*ast.ExpressionStmt).Expr.(*ast.Assign); !ok {
		t.Errorf("got %T, want *ast.Assign", program[0].(*ast.ExpressionStmt).Expr)
	}
	if _, ok := program[1].(*ast.ExpressionStmt).Expr.(*ast.Set); !ok {
		t.Errorf("got %T, want *ast.Set", program[1].(*ast.ExpressionStmt).Expr)
	}
}

func TestParse_InvalidAssignmentTargetReportsButDoesNotAbortProgram(t *testing.T) {
	program, reporter := parse(t, `1 = 2; print "still parsed";`)
	if !reporter.HadError {
		t.Fatalf("HadError = false, want true")
	}
	if len(program) != 2 {
		t.Fatalf("got %d statements, want 2 (parsing should continue after the invalid target error)", len(program))
	}
}

func TestParse_ErrorsAreRecoveredAtStatementBoundaries(t *testing.T) {
	src := `
		var a = ;
		var b = 1;
		print b;
	`
	program, reporter := parse(t, src)
	if !reporter.HadError {
		t.Fatalf("HadError = false, want true")
	}
	if len(program) != 2 {
		t.Fatalf("got %d recovered statements, want 2 (b's declaration and the print)", len(program))
	}
}

func TestParse_MissingSemicolonReportsError(t *testing.T) {
	_, reporter := parse(t, "var a = 1")
	if !reporter.HadError {
		t.Error("HadError = false, want true")
	}
}

func TestParse_TooManyArgumentsReportsButParses(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("f(")
	for i := 0; i < 256; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("1")
	}
	b.WriteString(");")

	_, reporter := parse(t, b.String())
	if !reporter.HadError {
		t.Error("HadError = false, want true for a call with 256 arguments")
	}
}
