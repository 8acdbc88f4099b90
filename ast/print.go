package ast

import (
	"fmt"
	"strings"
)

// Print returns stmts rendered as indented s-expressions, one line per child. It's used by the `-p`
// flag of cmd/lox to inspect the parser's output without running the resolver or interpreter.
//
// The reflection-free, type-switch approach (rather than golox's ast/print.go, which drives the
// same output from struct tags via reflect) avoids a separate visitor class hierarchy: every
// other pass over this AST is a type switch, so the printer is one too, for consistency.
func Print(stmts []Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(sprintStmt(s, 0))
		b.WriteByte('\n')
	}
	return b.String()
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func sprintStmt(s Stmt, depth int) string {
	switch s := s.(type) {
	case *Block:
		lines := make([]string, len(s.Stmts))
		for i, stmt := range s.Stmts {
			lines[i] = sprintStmt(stmt, depth+1)
		}
		return fmt.Sprintf("%s(block\n%s)", indent(depth), strings.Join(lines, "\n"))
	case *Class:
		superclass := "nil"
		if s.Superclass != nil {
			superclass = s.Superclass.Name.Lexeme
		}
		lines := make([]string, len(s.Methods))
		for i, m := range s.Methods {
			lines[i] = indent(depth+1) + sprintFunction(m, depth+1)
		}
		return fmt.Sprintf("%s(class %s < %s\n%s)", indent(depth), s.Name.Lexeme, superclass, strings.Join(lines, "\n"))
	case *ExpressionStmt:
		return fmt.Sprintf("%s%s", indent(depth), sprintExpr(s.Expr))
	case *Function:
		return indent(depth) + sprintFunction(s, depth)
	case *If:
		str := fmt.Sprintf("%s(if %s\n%s", indent(depth), sprintExpr(s.Cond), sprintStmt(s.Then, depth+1))
		if s.Else != nil {
			str += "\n" + sprintStmt(s.Else, depth+1)
		}
		return str + ")"
	case *Print:
		return fmt.Sprintf("%s(print %s)", indent(depth), sprintExpr(s.Expr))
	case *Return:
		if s.Value == nil {
			return indent(depth) + "(return)"
		}
		return fmt.Sprintf("%s(return %s)", indent(depth), sprintExpr(s.Value))
	case *Var:
		if s.Initializer == nil {
			return fmt.Sprintf("%s(var %s)", indent(depth), s.Name.Lexeme)
		}
		return fmt.Sprintf("%s(var %s %s)", indent(depth), s.Name.Lexeme, sprintExpr(s.Initializer))
	case *While:
		return fmt.Sprintf("%s(while %s\n%s)", indent(depth), sprintExpr(s.Cond), sprintStmt(s.Body, depth+1))
	default:
		panic(fmt.Sprintf("ast.Print: unhandled statement type %T", s))
	}
}

func sprintFunction(f *Function, depth int) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	lines := make([]string, len(f.Body))
	for i, stmt := range f.Body {
		lines[i] = sprintStmt(stmt, depth+1)
	}
	header := fmt.Sprintf("(fun %s (%s)", f.Name.Lexeme, strings.Join(params, " "))
	return fmt.Sprintf("%s\n%s)", header, strings.Join(lines, "\n"))
}

func sprintExpr(e Expr) string {
	switch e := e.(type) {
	case *Assign:
		return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, sprintExpr(e.Value))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, sprintExpr(e.Left), sprintExpr(e.Right))
	case *Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = sprintExpr(a)
		}
		return fmt.Sprintf("(call %s %s)", sprintExpr(e.Callee), strings.Join(args, " "))
	case *Get:
		return fmt.Sprintf("(. %s %s)", sprintExpr(e.Object), e.Name.Lexeme)
	case *Grouping:
		return fmt.Sprintf("(group %s)", sprintExpr(e.Expr))
	case *Literal:
		return sprintLiteral(e.Value)
	case *Logical:
		return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, sprintExpr(e.Left), sprintExpr(e.Right))
	case *Set:
		return fmt.Sprintf("(=. %s %s %s)", sprintExpr(e.Object), e.Name.Lexeme, sprintExpr(e.Value))
	case *Super:
		return fmt.Sprintf("(super %s)", e.Method.Lexeme)
	case *This:
		return "this"
	case *Unary:
		return fmt.Sprintf("(%s %s)", e.Op.Lexeme, sprintExpr(e.Right))
	case *Variable:
		return e.Name.Lexeme
	default:
		panic(fmt.Sprintf("ast.Print: unhandled expression type %T", e))
	}
}

func sprintLiteral(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprint(v)
}
