package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/deepnoodle-ai/lox"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a Lox script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(cmd.Context(), args[0])
	},
}

func rootHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	code := viper.GetString("code")
	switch {
	case code != "" && len(args) > 0:
		return errors.New("cannot specify both code and a filepath")
	case code != "":
		return runSource(ctx, code, "")
	case len(args) > 0:
		return runFile(ctx, args[0])
	case isTerminalIO():
		return repl(ctx)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return &ioError{err: fmt.Errorf("read stdin: %w", err)}
	}
	return runSource(ctx, string(data), "<stdin>")
}

func runFile(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &ioError{err: fmt.Errorf("could not read file %q: %w", path, err)}
	}
	return runSource(ctx, string(data), path)
}

// runSource compiles and runs one script. An interrupt cancels the run.
func runSource(ctx context.Context, source, filename string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger := newLogger(newSessionID())
	opts := append(loxOptions(logger), lox.WithFilename(filename))
	program, err := lox.Compile(source, opts...)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("file", filename).
		Int("constants", program.Stats().ConstantCount).
		Int("bytes", program.Stats().CodeBytes).
		Msg("compiled")
	return lox.Run(ctx, program, opts...)
}
