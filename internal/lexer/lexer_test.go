package lexer

import (
	"testing"

	"github.com/deepnoodle-ai/lox/internal/token"
	"github.com/stretchr/testify/require"
)

func TestNull(t *testing.T) {
	input := "a = null;"
	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.IDENTIFIER, "a"},
		{token.EQUAL, "="},
		{token.NULL, "null"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong, expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestOperators(t *testing.T) {
	input := "(){},.-+;/* ! != = == > >= < <="
	expected := []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.SLASH, token.STAR, token.BANG, token.BANG_EQUAL, token.EQUAL,
		token.EQUAL_EQUAL, token.GREATER, token.GREATER_EQUAL, token.LESS,
		token.LESS_EQUAL, token.EOF,
	}
	tokens := Tokenize(input)
	require.Len(t, tokens, len(expected))
	for i, typ := range expected {
		require.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestKeywords(t *testing.T) {
	input := "and class else false for fun if null or print return super this true var while whiles"
	expected := []token.Type{
		token.AND, token.CLASS, token.ELSE, token.FALSE, token.FOR, token.FUN,
		token.IF, token.NULL, token.OR, token.PRINT, token.RETURN, token.SUPER,
		token.THIS, token.TRUE, token.VAR, token.WHILE, token.IDENTIFIER, token.EOF,
	}
	tokens := Tokenize(input)
	require.Len(t, tokens, len(expected))
	for i, typ := range expected {
		require.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestNumbers(t *testing.T) {
	tokens := Tokenize("12 3.25 4.")
	require.Equal(t, token.New(token.NUMBER, "12", 1), tokens[0])
	require.Equal(t, token.New(token.NUMBER, "3.25", 1), tokens[1])
	// A trailing dot is not part of the number.
	require.Equal(t, token.New(token.NUMBER, "4", 1), tokens[2])
	require.Equal(t, token.DOT, tokens[3].Type)
}

func TestStrings(t *testing.T) {
	tokens := Tokenize("\"hello\" \"multi\nline\"")
	require.Equal(t, token.New(token.STRING, "hello", 1), tokens[0])
	require.Equal(t, token.New(token.STRING, "multi\nline", 2), tokens[1])
	require.Equal(t, token.EOF, tokens[2].Type)
}

func TestUnterminatedString(t *testing.T) {
	tokens := Tokenize(`"abc`)
	require.Equal(t, token.ERROR, tokens[0].Type)
	require.Equal(t, "Unterminated string.", tokens[0].Lexeme)
	require.Equal(t, token.EOF, tokens[1].Type)
}

func TestUnexpectedCharacter(t *testing.T) {
	tokens := Tokenize("a @ b")
	require.Equal(t, token.IDENTIFIER, tokens[0].Type)
	require.Equal(t, token.ERROR, tokens[1].Type)
	require.Equal(t, "Unexpected character.", tokens[1].Lexeme)
	require.Equal(t, token.IDENTIFIER, tokens[2].Type)
}

func TestCommentsAndLines(t *testing.T) {
	input := "var a; // comment\n\nprint a; // trailing"
	tokens := Tokenize(input)
	require.Equal(t, token.New(token.VAR, "var", 1), tokens[0])
	require.Equal(t, token.New(token.PRINT, "print", 3), tokens[3])
	last := tokens[len(tokens)-1]
	require.Equal(t, token.EOF, last.Type)
	require.Equal(t, 3, last.Line)
}

func TestEOFIsSticky(t *testing.T) {
	l := New("")
	require.Equal(t, token.EOF, l.Next().Type)
	require.Equal(t, token.EOF, l.Next().Type)
}
