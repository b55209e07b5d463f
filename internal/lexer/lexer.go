// Package lexer converts source text into the token sequence consumed by the
// compiler.
package lexer

import (
	"github.com/deepnoodle-ai/lox/internal/token"
)

// Lexer scans one source string. It is not safe for concurrent use.
type Lexer struct {
	input   string
	start   int
	current int
	line    int
	done    bool
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Tokenize scans the whole input. The returned slice always ends with a
// single EOF token. Lexical problems are reported in-band as ERROR tokens so
// that the compiler can report them alongside syntax errors.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Next returns the next token. Once EOF has been returned, every further call
// returns EOF again.
func (l *Lexer) Next() token.Token {
	if l.done {
		return l.make(token.EOF, "")
	}
	l.skipWhitespace()
	l.start = l.current
	if l.isAtEnd() {
		l.done = true
		return l.make(token.EOF, "")
	}
	c := l.advance()
	switch {
	case isAlpha(c):
		return l.identifier()
	case isDigit(c):
		return l.number()
	}
	switch c {
	case '(':
		return l.lexeme(token.LEFT_PAREN)
	case ')':
		return l.lexeme(token.RIGHT_PAREN)
	case '{':
		return l.lexeme(token.LEFT_BRACE)
	case '}':
		return l.lexeme(token.RIGHT_BRACE)
	case ',':
		return l.lexeme(token.COMMA)
	case '.':
		return l.lexeme(token.DOT)
	case '-':
		return l.lexeme(token.MINUS)
	case '+':
		return l.lexeme(token.PLUS)
	case ';':
		return l.lexeme(token.SEMICOLON)
	case '/':
		return l.lexeme(token.SLASH)
	case '*':
		return l.lexeme(token.STAR)
	case '!':
		return l.lexeme(l.choose('=', token.BANG_EQUAL, token.BANG))
	case '=':
		return l.lexeme(l.choose('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		return l.lexeme(l.choose('=', token.LESS_EQUAL, token.LESS))
	case '>':
		return l.lexeme(l.choose('=', token.GREATER_EQUAL, token.GREATER))
	case '"':
		return l.string()
	}
	return l.make(token.ERROR, "Unexpected character.")
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\r', '\t':
			l.current++
		case '\n':
			l.line++
			l.current++
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for !l.isAtEnd() && l.peek() != '\n' {
				l.current++
			}
		default:
			return
		}
	}
}

func (l *Lexer) string() token.Token {
	// Strings may span lines; the token carries the line it ends on, as the
	// lexeme is only known once the closing quote is found.
	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}
	if l.isAtEnd() {
		return l.make(token.ERROR, "Unterminated string.")
	}
	l.current++ // closing quote
	return l.make(token.STRING, l.input[l.start+1:l.current-1])
}

func (l *Lexer) number() token.Token {
	for isDigit(l.peek()) {
		l.current++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++
		for isDigit(l.peek()) {
			l.current++
		}
	}
	return l.lexeme(token.NUMBER)
}

func (l *Lexer) identifier() token.Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.current++
	}
	text := l.input[l.start:l.current]
	return l.make(token.LookupIdentifier(text), text)
}

func (l *Lexer) choose(expected byte, matched, otherwise token.Type) token.Type {
	if l.isAtEnd() || l.input[l.current] != expected {
		return otherwise
	}
	l.current++
	return matched
}

func (l *Lexer) lexeme(typ token.Type) token.Token {
	return l.make(typ, l.input[l.start:l.current])
}

func (l *Lexer) make(typ token.Type, lexeme string) token.Token {
	return token.New(typ, lexeme, l.line)
}

func (l *Lexer) advance() byte {
	c := l.input[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.input)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
