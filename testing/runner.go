package testing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/dis"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/op"
)

// TestFileSuffix marks files that contain tests.
const TestFileSuffix = "_test.lox"

// Config holds configuration for running tests.
type Config struct {
	// Patterns specifies files or directories to search for tests.
	// Default is current directory.
	Patterns []string

	// RunPattern filters tests to run by name regex.
	RunPattern string

	// Verbose enables verbose output (shows log() messages).
	Verbose bool
}

// DiscoverTestFiles finds all *_test.lox files matching the given patterns.
// A pattern is a glob, a file, a directory, or a directory followed by
// "/..." to search recursively.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}
		switch {
		case !info.IsDir():
			add(pattern)
		case recursive:
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() {
					add(filepath.Join(searchDir, e.Name()))
				}
			}
		}
	}
	return files, nil
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, TestFileSuffix)
}

// DiscoverTestFunctions returns the names of the test functions fn declares
// as globals, in declaration order. Functions declared inside a block are
// locals and cannot be called by name, so they are skipped.
func DiscoverTestFunctions(fn *object.Function) []string {
	chunk := fn.Chunk()
	instructions, err := dis.Disassemble(chunk)
	if err != nil {
		return nil
	}
	var tests []string
	for i := 0; i+1 < len(instructions); i++ {
		load, define := instructions[i], instructions[i+1]
		if load.Opcode != op.Constant || define.Opcode != op.DefineGlobal {
			continue
		}
		c := chunk.Constant(load.Operands[0])
		if !c.IsObject() {
			continue
		}
		declared, ok := c.AsObject().(*object.Function)
		if ok && strings.HasPrefix(declared.Name(), "test_") && define.Constant == declared.Name() {
			tests = append(tests, declared.Name())
		}
	}
	return tests
}

// Run executes tests according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		summary.Files = append(summary.Files, runTestFile(ctx, file, runRe))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

func runTestFile(ctx context.Context, filename string, runRe *regexp.Regexp) *FileResult {
	result := &FileResult{Filename: filename}

	source, err := os.ReadFile(filename)
	if err != nil {
		result.CompileErr = err
		return result
	}
	program, err := lox.Compile(string(source), lox.WithFilename(filename))
	if err != nil {
		result.CompileErr = err
		return result
	}

	for _, name := range DiscoverTestFunctions(program.Function()) {
		if runRe != nil && !runRe.MatchString(name) {
			continue
		}
		result.Tests = append(result.Tests, runSingleTest(ctx, string(source), filename, name))
	}
	return result
}

// runSingleTest runs the file in a fresh interpreter to define its globals,
// then calls the named test function.
func runSingleTest(ctx context.Context, source, filename, testName string) *TestResult {
	result := &TestResult{Name: testName}
	start := time.Now()
	tc := NewTestContext(testName, filename)

	out := &logWriter{tc: tc}
	opts := append(tc.Options(), lox.WithOutput(out), lox.WithFilename(filename))
	interp := lox.NewInterpreter(opts...)

	err := interp.Run(ctx, source)
	if err == nil {
		err = interp.Run(ctx, testName+"();")
	}
	out.flush()
	result.Duration = time.Since(start)
	result.Logs = tc.Logs()
	result.Failures = tc.Failures()

	switch {
	case err != nil:
		result.Status = StatusError
		result.Error = err
	case tc.Skipped():
		result.Status = StatusSkipped
		result.SkipReason = tc.SkipReason()
	case tc.Failed():
		result.Status = StatusFailed
	default:
		result.Status = StatusPassed
	}
	return result
}

// logWriter records each printed line as a log message of the running test.
type logWriter struct {
	tc  *TestContext
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			return len(p), nil
		}
		w.tc.logs = append(w.tc.logs, strings.TrimSuffix(line, "\n"))
	}
}

func (w *logWriter) flush() {
	if w.buf.Len() > 0 {
		w.tc.logs = append(w.tc.logs, w.buf.String())
		w.buf.Reset()
	}
}
