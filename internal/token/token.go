// Package token defines language keywords and tokens used when lexing source code.
package token

import (
	"fmt"
	"sort"
)

// Type identifies the kind of a token. The set of types is closed, which lets
// the compiler index its parse-rule table directly by Type.
type Type uint8

// Token types
const (
	LEFT_PAREN Type = iota
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	GREATER
	GREATER_EQUAL
	LESS
	LESS_EQUAL
	IDENTIFIER
	STRING
	NUMBER
	AND
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NULL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
	ERROR
	EOF

	// Count is the number of token types. It is not a valid type itself.
	Count
)

var names = [Count]string{
	LEFT_PAREN:    "(",
	RIGHT_PAREN:   ")",
	LEFT_BRACE:    "{",
	RIGHT_BRACE:   "}",
	COMMA:         ",",
	DOT:           ".",
	MINUS:         "-",
	PLUS:          "+",
	SEMICOLON:     ";",
	SLASH:         "/",
	STAR:          "*",
	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",
	IDENTIFIER:    "IDENTIFIER",
	STRING:        "STRING",
	NUMBER:        "NUMBER",
	AND:           "and",
	CLASS:         "class",
	ELSE:          "else",
	FALSE:         "false",
	FOR:           "for",
	FUN:           "fun",
	IF:            "if",
	NULL:          "null",
	OR:            "or",
	PRINT:         "print",
	RETURN:        "return",
	SUPER:         "super",
	THIS:          "this",
	TRUE:          "true",
	VAR:           "var",
	WHILE:         "while",
	ERROR:         "ERROR",
	EOF:           "EOF",
}

func (t Type) String() string {
	if t < Count {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Token represents one token lexed from the input source code. For STRING
// tokens the lexeme excludes the surrounding quotes. For ERROR tokens the
// lexeme holds the error message.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
}

// New returns a token of the given type.
func New(typ Type, lexeme string, line int) Token {
	return Token{Type: typ, Lexeme: lexeme, Line: line}
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Type, t.Lexeme, t.Line)
}

// Reserved keywords
var keywords = map[string]Type{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"null":   NULL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENTIFIER
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
