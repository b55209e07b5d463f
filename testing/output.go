package testing

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Writer is where output is written.
	Writer io.Writer

	// Verbose shows log() output for all tests.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output handles formatting and printing test results.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

// StartTest prints the "=== RUN" line for a test.
func (o *Output) StartTest(name string) {
	fmt.Fprintf(o.w, "=== RUN   %s\n", name)
}

// EndTest prints the result line for a test (--- PASS, --- FAIL, etc.).
func (o *Output) EndTest(result *TestResult) {
	var status string
	switch result.Status {
	case StatusPassed:
		status = o.colorize(color.FgGreen, "--- PASS:")
	case StatusFailed:
		status = o.colorize(color.FgRed, "--- FAIL:")
	case StatusSkipped:
		status = o.colorize(color.FgYellow, "--- SKIP:")
	case StatusError:
		status = o.colorize(color.FgRed, "--- ERROR:")
	default:
		status = fmt.Sprintf("--- %s:", result.Status)
	}
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", status, result.Name, result.Duration.Seconds())

	if result.Status == StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(o.w, "    %s\n", result.SkipReason)
	}
	if result.Status == StatusError && result.Error != nil {
		for _, line := range strings.Split(result.Error.Error(), "\n") {
			fmt.Fprintf(o.w, "    %s\n", line)
		}
	}
	for i := range result.Failures {
		o.printFailure(&result.Failures[i])
	}
	if o.verbose || result.Status == StatusFailed || result.Status == StatusError {
		for _, log := range result.Logs {
			fmt.Fprintf(o.w, "    %s\n", log)
		}
	}
}

func (o *Output) printFailure(f *AssertionError) {
	loc := ""
	if f.File != "" {
		loc = f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		loc += ": "
	}
	fmt.Fprintf(o.w, "    %s%s\n", loc, f.Message)
	if f.Got != nil {
		fmt.Fprintf(o.w, "        %s:  %s\n", o.colorize(color.FgRed, "got"), f.Got.String())
	}
	if f.Want != nil {
		fmt.Fprintf(o.w, "        %s: %s\n", o.colorize(color.FgGreen, "want"), f.Want.String())
	}
}

// CompileError prints a compilation error for a test file.
func (o *Output) CompileError(filename string, err error) {
	fmt.Fprintf(o.w, "%s %s\n", o.colorize(color.FgRed, "COMPILE ERROR:"), filename)
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(o.w, "    %s\n", line)
	}
}

// Summary prints the final summary line.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)
	if summary.Success() {
		fmt.Fprintln(o.w, o.colorize(color.FgGreen, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.colorize(color.FgRed, "FAIL"))
	}

	var parts []string
	if summary.Passed > 0 {
		parts = append(parts, o.colorize(color.FgGreen, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.colorize(color.FgRed, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.colorize(color.FgYellow, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.colorize(color.FgRed, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

func (o *Output) colorize(attr color.Attribute, s string) string {
	if !o.useColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// PrintResults prints all results in Go test style.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		if file.CompileErr != nil {
			o.CompileError(file.Filename, file.CompileErr)
		}
	}
	for _, file := range summary.Files {
		for _, test := range file.Tests {
			o.StartTest(test.Name)
			o.EndTest(test)
		}
	}
	o.Summary(summary)
}
