package main

import (
	"errors"
	"os"

	"github.com/deepnoodle-ai/lox/testing"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errTestsFailed = errors.New("tests failed")

var testCmd = &cobra.Command{
	Use:   "test [patterns...]",
	Short: "Run Lox test files",
	Long: `Run the test_ functions found in *_test.lox files. Patterns may name
files, directories, globs, or a directory followed by "/..." to search
recursively. The default is the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, _ := cmd.Flags().GetString("run")
		verbose, _ := cmd.Flags().GetBool("verbose")
		summary, err := testing.Run(cmd.Context(), &testing.Config{
			Patterns:   args,
			RunPattern: run,
			Verbose:    verbose,
		})
		if err != nil {
			return err
		}
		testing.NewOutput(testing.OutputConfig{
			Writer:   os.Stdout,
			Verbose:  verbose,
			UseColor: !color.NoColor,
		}).PrintResults(summary)
		if !summary.Success() {
			return errTestsFailed
		}
		return nil
	},
}

func init() {
	testCmd.Flags().String("run", "", "run only tests matching this regular expression")
	testCmd.Flags().BoolP("verbose", "v", false, "show log output for passing tests")
}
