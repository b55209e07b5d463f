package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/dis"
	"github.com/spf13/cobra"
)

var disCmd = &cobra.Command{
	Use:   "dis <file>",
	Short: "Disassemble a Lox script",
	Long: `Compile a Lox script and print its bytecode. Functions declared in the
script are listed after the top-level code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return &ioError{err: fmt.Errorf("could not read file %q: %w", args[0], err)}
		}
		program, err := lox.Compile(string(data), lox.WithFilename(args[0]))
		if err != nil {
			return err
		}
		listing, err := program.Disassemble()
		if err != nil {
			return err
		}
		if name, _ := cmd.Flags().GetString("func"); name != "" {
			if listing = findFunction(listing, name); listing == nil {
				return fmt.Errorf("function %q not found", name)
			}
		}
		switch output, _ := cmd.Flags().GetString("output"); strings.ToLower(output) {
		case "json":
			out, err := getOutputJSON(listing)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		case "", "text":
			dis.Print(listing, os.Stdout)
		default:
			return fmt.Errorf("unknown output format %q", output)
		}
		return nil
	},
}

func findFunction(fn *dis.Function, name string) *dis.Function {
	if fn.Name == name {
		return fn
	}
	for _, child := range fn.Functions {
		if found := findFunction(child, name); found != nil {
			return found
		}
	}
	return nil
}

var docsCmd = &cobra.Command{
	Use:   "docs [category]",
	Short: "Show Lox documentation as JSON",
	Long: `Show documentation as JSON. Without arguments a quick reference is
printed. Categories are builtins, syntax and errors; "all" prints
everything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var docs *lox.Documentation
		switch {
		case len(args) == 0:
			docs = lox.Docs()
		case args[0] == "all":
			docs = lox.Docs(lox.DocsAll())
		default:
			docs = lox.Docs(lox.DocsCategory(args[0]))
		}
		out, err := getOutputJSON(docs.Data())
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if strings.ToLower(output) == "json" {
			out, err := getOutputJSON(map[string]string{
				"version":  version,
				"commit":   commit,
				"date":     date,
				"language": lox.Version,
				"go":       runtime.Version(),
			})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		fmt.Printf("lox %s (language %s, commit %s, built %s)\n", version, lox.Version, commit, date)
		return nil
	},
}

func init() {
	disCmd.Flags().StringP("output", "o", "text", "output format: text or json")
	disCmd.Flags().String("func", "", "only disassemble the named function")
	versionCmd.Flags().StringP("output", "o", "text", "output format: text or json")
}
