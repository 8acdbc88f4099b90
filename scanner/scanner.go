// Package scanner converts Lox source text into a stream of lexical tokens.
//
// Its character-by-character design with a two-character lookahead (peek, peekNext) is modelled on golox's
// parser/lexer.go, trimmed to a closed token set (no multi-character operators beyond what
// jlox itself has).
package scanner

import (
	"fmt"
	"strconv"

	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/token"
)

const eof = 0

// Scanner turns Lox source code into tokens. Tokens are read using Next, which always returns an
// EOF token once the end of the source has been reached. Errors are reported to the Reporter
// passed to New; scanning never stops because of them.
type Scanner struct {
	src      []byte
	reporter *errs.Reporter

	start   int // start of the token currently being scanned
	current int // index of the next character to read
	line    int
}

// New constructs a Scanner over src. Errors encountered while scanning are reported to reporter.
func New(src []byte, reporter *errs.Reporter) *Scanner {
	return &Scanner{src: src, reporter: reporter, line: 1}
}

// Next returns the next token in the source. Once the end of the source has been reached, it
// returns an endless stream of EOF tokens.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()
	switch {
	case c == '(':
		return s.makeToken(token.LeftParen)
	case c == ')':
		return s.makeToken(token.RightParen)
	case c == '{':
		return s.makeToken(token.LeftBrace)
	case c == '}':
		return s.makeToken(token.RightBrace)
	case c == ',':
		return s.makeToken(token.Comma)
	case c == '.':
		return s.makeToken(token.Dot)
	case c == '-':
		return s.makeToken(token.Minus)
	case c == '+':
		return s.makeToken(token.Plus)
	case c == ';':
		return s.makeToken(token.Semicolon)
	case c == '*':
		return s.makeToken(token.Star)
	case c == '/':
		return s.makeToken(token.Slash)
	case c == '!':
		return s.makeToken(s.ifMatch('=', token.BangEqual, token.Bang))
	case c == '=':
		return s.makeToken(s.ifMatch('=', token.EqualEqual, token.Equal))
	case c == '<':
		return s.makeToken(s.ifMatch('=', token.LessEqual, token.Less))
	case c == '>':
		return s.makeToken(s.ifMatch('=', token.GreaterEqual, token.Greater))
	case c == '"':
		return s.scanString()
	case isDigit(c):
		return s.scanNumber()
	case isAlpha(c):
		return s.scanIdent()
	default:
		s.reporter.Report(s.line, fmt.Sprintf("Unexpected character: %c", c))
		return s.Next()
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() != '/' {
				return
			}
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanString() token.Token {
	startLine := s.line
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.reporter.Report(startLine, "Unterminated string.")
		return s.Next()
	}
	s.advance() // closing quote
	value := string(s.src[s.start+1 : s.current-1])
	return token.Token{Type: token.String, Lexeme: string(s.src[s.start:s.current]), Literal: value, Line: startLine}
}

func (s *Scanner) scanNumber() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	lexeme := string(s.src[s.start:s.current])
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		panic(fmt.Sprintf("scanner produced an unparseable number literal %q: %s", lexeme, err))
	}
	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: value, Line: s.line}
}

func (s *Scanner) scanIdent() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.src[s.start:s.current])
	typ, ok := token.Keywords[lexeme]
	if !ok {
		typ = token.Ident
	}
	return token.Token{Type: typ, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) makeToken(typ token.Type) token.Token {
	return token.Token{Type: typ, Lexeme: string(s.src[s.start:s.current]), Line: s.line}
}

// ifMatch returns matched if the next character is c (consuming it), otherwise unmatched.
func (s *Scanner) ifMatch(c byte, matched, unmatched token.Type) token.Type {
	if s.peek() != c {
		return unmatched
	}
	s.advance()
	return matched
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.src)
}

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return eof
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return eof
	}
	return s.src[s.current+1]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

// ScanAll scans src fully and returns every token, including the trailing EOF. It's a test
// convenience; the parser itself pulls tokens one at a time via Next.
func ScanAll(src []byte, reporter *errs.Reporter) []token.Token {
	s := New(src, reporter)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
