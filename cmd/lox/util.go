package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/errz"
	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Exit codes, following sysexits.h.
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
	exitIO      = 74
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// ioError marks failures to read input or write output.
type ioError struct {
	err error
}

func (e *ioError) Error() string {
	return e.err.Error()
}

func (e *ioError) Unwrap() error {
	return e.err
}

func exitCode(err error) int {
	var compileErr *errz.CompileError
	var runtimeErr *errz.RuntimeError
	var ioErr *ioError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errTestsFailed):
		return exitFailed
	case errors.As(err, &compileErr):
		return exitCompile
	case errors.As(err, &runtimeErr):
		return exitRuntime
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitUsage
	}
}

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

// formatError renders err for the terminal, followed by a hint when the
// error carries one.
func formatError(err error) string {
	s := red(err.Error())
	var runtimeErr *errz.RuntimeError
	if errors.As(err, &runtimeErr) && runtimeErr.Hint != "" {
		s += "\n" + yellow(runtimeErr.Hint)
	}
	return s
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, formatError(err))
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

func getOutputJSON(v any) ([]byte, error) {
	if viper.GetBool("no-color") || color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func newSessionID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// newLogger returns a console logger on stderr tagged with the session id.
func newLogger(session string) zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if viper.GetBool("trace") && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("session", session).
		Logger()
}

func loxOptions(logger zerolog.Logger) []lox.Option {
	return []lox.Option{
		lox.WithLogger(logger),
		lox.WithTrace(viper.GetBool("trace")),
	}
}

func historyPath() string {
	path, err := homedir.Expand(viper.GetString("history-file"))
	if err != nil {
		return ""
	}
	return path
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// lastWord splits line before the identifier being typed at its end.
func lastWord(line string) (head, word string) {
	i := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	return line[:i+1], line[i+1:]
}
