package lox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/deepnoodle-ai/lox/errz"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/value"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scriptCase struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	Output       string `yaml:"output"`
	Error        string `yaml:"error"`
	CompileError bool   `yaml:"compile_error"`
}

func loadScripts(t *testing.T) []scriptCase {
	t.Helper()
	data, err := os.ReadFile("testdata/scripts.yaml")
	require.Nil(t, err)
	var cases []scriptCase
	require.Nil(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases)
	return cases
}

func TestScripts(t *testing.T) {
	for _, tc := range loadScripts(t) {
		t.Run(tc.Name, func(t *testing.T) {
			var out bytes.Buffer
			err := Eval(context.Background(), tc.Source, WithOutput(&out))
			require.Equal(t, tc.Output, out.String())
			if tc.Error == "" {
				require.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			require.Equal(t, tc.Error, err.Error())

			var compileErr *errz.CompileError
			var runtimeErr *errz.RuntimeError
			if tc.CompileError {
				require.True(t, errors.As(err, &compileErr))
			} else {
				require.True(t, errors.As(err, &runtimeErr))
			}
		})
	}
}

func TestCompileCollectsErrors(t *testing.T) {
	_, err := Compile("var = 1;\nprint 2 +;")
	require.NotNil(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
}

func TestProgram(t *testing.T) {
	p, err := Compile(`fun f() { return 1; } print f();`, WithFilename("f.lox"))
	require.Nil(t, err)
	require.Equal(t, "f.lox", p.Filename())
	require.Equal(t, `fun f() { return 1; } print f();`, p.Source())
	require.True(t, p.Function().IsScript())
	require.Equal(t, 2, p.Stats().FunctionCount)

	listing, err := p.Disassemble()
	require.Nil(t, err)
	require.Equal(t, "<script>", listing.Name)
	require.Len(t, listing.Functions, 1)
	require.Equal(t, "f", listing.Functions[0].Name)

	var out bytes.Buffer
	require.Nil(t, Run(context.Background(), p, WithOutput(&out)))
	require.Equal(t, "1\n", out.String())
}

func TestProgramRunsRepeatedly(t *testing.T) {
	p, err := Compile("var x = 1;\nfun f() { return x + 1; }\nx = f();\nprint x + len(\"ab\");")
	require.Nil(t, err)
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		require.Nil(t, Run(context.Background(), p, WithOutput(&out)), "run %d", i)
		require.Equal(t, "4\n", out.String())
	}
}

func TestProgramRunsConcurrently(t *testing.T) {
	p, err := Compile(`var s = "";
for (var i = 0; i < 50; i = i + 1) {
  s = s + str(i);
}
print len(s) + n();`)
	require.Nil(t, err)

	const workers = 8
	outputs := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			n := func([]value.Value, object.CallSite, func(string)) value.Value {
				return value.Number(float64(w))
			}
			var out bytes.Buffer
			errs[w] = Run(context.Background(), p, WithOutput(&out), WithNative("n", 0, n))
			outputs[w] = out.String()
		}(w)
	}
	wg.Wait()
	for w := 0; w < workers; w++ {
		require.Nil(t, errs[w])
		require.Equal(t, fmt.Sprintf("%d\n", 90+w), outputs[w])
	}
}

func TestWithoutBuiltins(t *testing.T) {
	err := Eval(context.Background(), `print clock();`, WithoutBuiltins(), WithOutput(&bytes.Buffer{}))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "Undefined variable 'clock'.")
}

func TestWithNative(t *testing.T) {
	var out bytes.Buffer
	double := func(args []value.Value, site object.CallSite, fail func(string)) value.Value {
		return value.Number(args[0].AsNumber() * 2)
	}
	err := Eval(context.Background(), `print double(21);`, WithNative("double", 1, double), WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "42\n", out.String())
}

func TestEvalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Eval(ctx, `while (true) {}`, WithContextCheckInterval(10))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestInterpreterKeepsGlobals(t *testing.T) {
	var out bytes.Buffer
	interp := NewInterpreter(WithOutput(&out))
	ctx := context.Background()

	require.Nil(t, interp.Run(ctx, `var count = 0;`))
	require.Nil(t, interp.Run(ctx, `fun bump() { count = count + 1; return count; }`))
	require.Nil(t, interp.Run(ctx, `bump(); print bump();`))
	require.Equal(t, "2\n", out.String())

	// A runtime error keeps what was committed before it.
	err := interp.Run(ctx, `count = 10; print nope;`)
	require.NotNil(t, err)
	require.Nil(t, interp.Run(ctx, `print count;`))
	require.Equal(t, "2\n10\n", out.String())

	// So does a compile error, which commits nothing.
	require.NotNil(t, interp.Run(ctx, `count = ;`))
	require.Nil(t, interp.Run(ctx, `print count;`))
	require.Equal(t, "2\n10\n10\n", out.String())

	require.Contains(t, interp.GlobalNames(), "bump")
	require.Contains(t, interp.GlobalNames(), "clock")
}

func TestInterpreterCompile(t *testing.T) {
	interp := NewInterpreter()
	fn, err := interp.Compile(`print 1;`)
	require.Nil(t, err)
	require.Equal(t, "<script>", fn.String())
	require.Greater(t, interp.Heap().ObjectCount(), 0)
}
