package main

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/errz"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	_, compileErr := lox.Compile("print ;")
	require.Error(t, compileErr)

	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{compileErr, exitCompile},
		{&errz.RuntimeError{Message: "Operand must be a number."}, exitRuntime},
		{fmt.Errorf("wrapped: %w", &errz.RuntimeError{}), exitRuntime},
		{&ioError{err: fs.ErrNotExist}, exitIO},
		{errors.New("unknown flag: --nope"), exitUsage},
		{errTestsFailed, exitFailed},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}

func TestIOErrorUnwraps(t *testing.T) {
	err := &ioError{err: fmt.Errorf("could not read file: %w", fs.ErrNotExist)}
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Equal(t, "could not read file: file does not exist", err.Error())
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"fun f() {", true},
		{"print 1", true},
		{`print "abc`, true},
		{"if (true) {\n  print 1;", true},
		{"print 1 +;", false},
		{"print @;", false},
		{"var 1 = 2;", false},
	}
	for _, tt := range tests {
		_, err := lox.Compile(tt.source)
		require.Error(t, err, tt.source)
		require.Equal(t, tt.want, isIncomplete(err), tt.source)
	}
	require.False(t, isIncomplete(errors.New("other")))
}

func TestCompletions(t *testing.T) {
	globals := []string{"clock", "count", "len"}
	require.Equal(t, []string{"print class", "print clock"}, completions("print cl", globals))
	require.Equal(t, []string{"f(len"}, completions("f(le", globals))
	require.Equal(t, []string{"var"}, completions("va", globals))
	require.Empty(t, completions("print ", globals))
	require.Empty(t, completions("", globals))
}

func TestLastWord(t *testing.T) {
	head, word := lastWord("print foo_1")
	require.Equal(t, "print ", head)
	require.Equal(t, "foo_1", word)

	head, word = lastWord("x")
	require.Equal(t, "", head)
	require.Equal(t, "x", word)

	head, word = lastWord("a + ")
	require.Equal(t, "a + ", head)
	require.Equal(t, "", word)
}
