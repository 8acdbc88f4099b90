// Package errs is the process-wide error reporter shared by the scanner, parser, resolver and
// interpreter. It accumulates compile-time diagnostics and tracks the two sticky flags that the
// driver consults to choose an exit code.
//
// The reporting shape (accumulate, don't abort) is modelled on golox's [lox.Error] and
// [parser] error handling; the wire format of the messages is matched exactly, since
// end-to-end scenarios assert on the literal bytes written to stderr.
package errs

import (
	"fmt"
	"io"

	"github.com/loxlang/lox/token"
)

// Reporter accumulates compile-time errors and tracks whether a compile-time or runtime error has
// been reported. It is safe to reuse across multiple calls to run in a REPL; call Reset between
// them.
type Reporter struct {
	Stderr io.Writer

	HadError        bool
	HadRuntimeError bool
}

// New returns a Reporter which writes to w.
func New(w io.Writer) *Reporter {
	return &Reporter{Stderr: w}
}

// Reset clears both sticky flags. The driver calls this between lines in the REPL.
func (r *Reporter) Reset() {
	r.HadError = false
	r.HadRuntimeError = false
}

// Report records a compile-time error at the given line with no location detail, e.g. errors
// raised by the scanner before a token even exists.
func (r *Reporter) Report(line int, message string) {
	r.report(line, "", message)
}

// ReportToken records a compile-time error attributed to tok, formatting the location as
// " at end" for EOF, otherwise " at '<lexeme>'".
func (r *Reporter) ReportToken(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = " at end"
	}
	r.report(tok.Line, where, message)
}

func (r *Reporter) report(line int, where, message string) {
	fmt.Fprintf(r.Stderr, "[line %d] Error%s: %s\n", line, where, message)
	r.HadError = true
}

// RuntimeError is raised by the evaluator when a Lox program performs an operation whose
// operands don't support it at runtime. It is designed to be thrown as a panic value and
// recovered at the interpreter's single entry point.
type RuntimeError struct {
	Token   token.Token
	Message string
}

// NewRuntimeError creates a *RuntimeError attributed to tok.
func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// ReportRuntimeError records a runtime error: the message, then its line on the next line.
func (r *Reporter) ReportRuntimeError(err *RuntimeError) {
	fmt.Fprintf(r.Stderr, "%s\n[line %d]\n", err.Message, err.Token.Line)
	r.HadRuntimeError = true
}
