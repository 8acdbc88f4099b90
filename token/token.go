// Package token declares the type representing a lexical token of Lox code.
package token

import "fmt"

// Type is the kind of a lexical token of Lox code.
type Type int

// The closed set of token kinds recognised by the scanner.
const (
	EOF Type = iota

	// Single-character punctuation.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Ident
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var typeStrings = map[Type]string{
	EOF:          "EOF",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	Fun:          "fun",
	For:          "for",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
}

// Keywords maps every reserved word's lexeme to its Type.
var Keywords = func() map[string]Type {
	m := make(map[string]Type)
	for t, s := range typeStrings {
		if t >= And && t <= While {
			m[s] = t
		}
	}
	return m
}()

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. All verbs have their default behaviour, except for 'm' (message) which formats the
// type for use in an error message, e.g. 'expected %m' with Semicolon gives "expected ';'".
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

// Literal is the value carried by a string or number token: absent (nil), a string, or a float64.
type Literal any

// Token is a lexical token of Lox code. It is immutable once constructed.
type Token struct {
	Type    Type
	Lexeme  string
	Literal Literal
	Line    int // 1-based
}

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) String() string {
	return fmt.Sprintf("%d: %s %q", t.Line, t.Type, t.Lexeme)
}
