package testing

import (
	"github.com/deepnoodle-ai/lox"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/value"
)

// TestContext collects the outcome of one test function. Its natives are
// installed into the interpreter that runs the test.
type TestContext struct {
	name       string
	filename   string
	failed     bool
	skipped    bool
	skipReason string
	logs       []string
	failures   []AssertionError
}

// NewTestContext creates a new TestContext for a test function.
func NewTestContext(name, filename string) *TestContext {
	return &TestContext{name: name, filename: filename}
}

// Options returns the interpreter options defining the assertion natives.
func (t *TestContext) Options() []lox.Option {
	return []lox.Option{
		lox.WithNative("assert", 2, t.assert),
		lox.WithNative("assert_eq", 2, t.assertEq),
		lox.WithNative("assert_ne", 2, t.assertNe),
		lox.WithNative("fail", 1, t.fail),
		lox.WithNative("skip", 1, t.skip),
		lox.WithNative("log", 1, t.log),
	}
}

func (t *TestContext) Name() string {
	return t.name
}

func (t *TestContext) Failed() bool {
	return t.failed
}

func (t *TestContext) Skipped() bool {
	return t.skipped
}

func (t *TestContext) SkipReason() string {
	return t.skipReason
}

// Logs returns logged messages and printed lines, in order.
func (t *TestContext) Logs() []string {
	return t.logs
}

func (t *TestContext) Failures() []AssertionError {
	return t.failures
}

// assert(cond, msg)
func (t *TestContext) assert(args []value.Value, site object.CallSite, _ func(string)) value.Value {
	if args[0].IsFalsey() {
		t.addFailure(site, messageOr(args[1], "assertion failed"), nil, nil)
	}
	return value.Null()
}

// assert_eq(got, want)
func (t *TestContext) assertEq(args []value.Value, site object.CallSite, _ func(string)) value.Value {
	got, want := args[0], args[1]
	if !got.Equal(want) {
		t.addFailure(site, "values are not equal", &got, &want)
	}
	return value.Null()
}

// assert_ne(got, want)
func (t *TestContext) assertNe(args []value.Value, site object.CallSite, _ func(string)) value.Value {
	got, want := args[0], args[1]
	if got.Equal(want) {
		t.addFailure(site, "values should not be equal", &got, &want)
	}
	return value.Null()
}

// fail(msg)
func (t *TestContext) fail(args []value.Value, site object.CallSite, _ func(string)) value.Value {
	t.addFailure(site, messageOr(args[0], "test failed"), nil, nil)
	return value.Null()
}

// skip(reason)
func (t *TestContext) skip(args []value.Value, _ object.CallSite, _ func(string)) value.Value {
	t.skipped = true
	t.skipReason = messageOr(args[0], "")
	return value.Null()
}

// log(msg)
func (t *TestContext) log(args []value.Value, _ object.CallSite, _ func(string)) value.Value {
	t.logs = append(t.logs, args[0].String())
	return value.Null()
}

func (t *TestContext) addFailure(site object.CallSite, msg string, got, want *value.Value) {
	t.failed = true
	t.failures = append(t.failures, AssertionError{
		Message: msg,
		File:    t.filename,
		Line:    site.Line(),
		Got:     got,
		Want:    want,
	})
}

// messageOr returns the text of v, or fallback when v is null.
func messageOr(v value.Value, fallback string) string {
	if v.IsNull() {
		return fallback
	}
	return v.String()
}
