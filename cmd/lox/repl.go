package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/builtins"
	"github.com/deepnoodle-ai/lox/errz"
	"github.com/deepnoodle-ai/lox/internal/token"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/peterh/liner"
)

const (
	prompt         = "> "
	continuePrompt = "... "
)

func repl(ctx context.Context) error {
	session := newSessionID()
	logger := newLogger(session)
	interp := lox.NewInterpreter(loxOptions(logger)...)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		return completions(input, interp.GlobalNames())
	})

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if history == "" {
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			logger.Warn().Err(err).Str("path", history).Msg("could not save history")
		}
	}()

	logger.Debug().Msg("repl started")
	fmt.Printf("Lox %s. Type :help for help, :quit to exit.\n", version)

	var pending []string
	for {
		p := prompt
		if len(pending) > 0 {
			p = continuePrompt
		}
		input, err := line.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending = nil
			continue
		}
		if err != nil {
			// io.EOF on ctrl-d
			fmt.Println()
			return nil
		}
		if len(pending) == 0 {
			switch strings.TrimSpace(input) {
			case "":
				continue
			case "exit", ":quit", ":q":
				return nil
			case ":help":
				printHelp()
				continue
			case ":globals":
				fmt.Println(strings.Join(interp.GlobalNames(), " "))
				continue
			}
		}
		pending = append(pending, input)
		source := strings.Join(pending, "\n")
		if _, err := lox.Compile(source); err != nil && isIncomplete(err) {
			continue
		}
		pending = nil
		line.AppendHistory(source)

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		err = interp.Run(runCtx, source)
		stop()
		if err != nil {
			printError(err)
		}
	}
}

// isIncomplete reports whether every compile error in err was caused by the
// input ending early, meaning more lines may complete it.
func isIncomplete(err error) bool {
	var errs []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.Errors
	} else {
		errs = []error{err}
	}
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		var compileErr *errz.CompileError
		if !errors.As(e, &compileErr) {
			return false
		}
		if compileErr.Where != "at end" && compileErr.Message != "Unterminated string." {
			return false
		}
	}
	return true
}

// completions returns the candidate lines for input, completing its last
// identifier against the given globals and the language keywords.
func completions(input string, globals []string) []string {
	head, word := lastWord(input)
	if word == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, candidates := range [][]string{globals, token.Keywords()} {
		for _, name := range candidates {
			if strings.HasPrefix(name, word) && !seen[name] {
				seen[name] = true
				out = append(out, head+name)
			}
		}
	}
	sort.Strings(out)
	return out
}

func printHelp() {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Println(bold("Commands:"))
	fmt.Println("  :help     show this help")
	fmt.Println("  :globals  list defined globals")
	fmt.Println("  :quit     exit (also exit or ctrl-d)")
	fmt.Println()
	fmt.Println(bold("Builtins:"))
	for _, spec := range builtins.Docs() {
		fmt.Printf("  %s(%s) -> %s\n      %s\n", spec.Name, strings.Join(spec.Args, ", "), spec.Returns, spec.Doc)
	}
}
