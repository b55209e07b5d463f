package vm

import (
	"errors"
	"testing"

	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	NoOpObserver
	steps   []StepEvent
	calls   []CallEvent
	returns []ReturnEvent
	haltOn  string
}

func (o *recordingObserver) OnStep(event StepEvent) bool {
	o.steps = append(o.steps, event)
	return true
}

func (o *recordingObserver) OnCall(event CallEvent) bool {
	o.calls = append(o.calls, event)
	return event.FunctionName != o.haltOn
}

func (o *recordingObserver) OnReturn(event ReturnEvent) bool {
	o.returns = append(o.returns, event)
	return true
}

func TestObserverEvents(t *testing.T) {
	observer := &recordingObserver{}
	machine, _ := newMachine(WithObserver(observer))
	err := interpret(t, machine, `fun f(a) {
  return a;
}
f(1);`)
	require.Nil(t, err)

	require.NotEmpty(t, observer.steps)
	first := observer.steps[0]
	require.Equal(t, op.Constant, first.Opcode)
	require.Equal(t, "CONSTANT", first.OpcodeName)
	require.Equal(t, "script", first.Function)
	require.Equal(t, 1, first.FrameDepth)
	require.Equal(t, 1, first.StackDepth)

	require.Equal(t, []CallEvent{
		{FunctionName: "script", ArgCount: 0, Line: 0, FrameDepth: 1},
		{FunctionName: "f", ArgCount: 1, Line: 4, FrameDepth: 2},
	}, observer.calls)
	require.Equal(t, []ReturnEvent{
		{FunctionName: "f", Line: 2, FrameDepth: 1},
		{FunctionName: "script", Line: 4, FrameDepth: 0},
	}, observer.returns)
}

func TestObserverHalts(t *testing.T) {
	observer := &recordingObserver{haltOn: "f"}
	machine, out := newMachine(WithObserver(observer))
	err := interpret(t, machine, `fun f() { print "inside"; }
print "before";
f();`)
	require.True(t, errors.Is(err, ErrHalted))
	require.Equal(t, "before\n", out.String())
}

func TestObserverNativeCall(t *testing.T) {
	observer := &recordingObserver{}
	machine, _ := newMachine(WithObserver(observer))
	machine.DefineNative("two", 0, func(args []value.Value, site object.CallSite, fail func(string)) value.Value {
		return value.Number(2)
	})
	require.Nil(t, interpret(t, machine, `two();`))
	require.Len(t, observer.calls, 2)
	require.Equal(t, CallEvent{FunctionName: "two", Native: true, Line: 1, FrameDepth: 1}, observer.calls[1])
}

// statementDepths returns the stack depth of the script frame right after
// each PRINT, POP and DEFINE_GLOBAL it executed.
func statementDepths(steps []StepEvent) []int {
	var depths []int
	var prev op.Code
	seen := false
	for _, step := range steps {
		if step.FrameDepth != 1 {
			continue
		}
		if seen && (prev == op.Print || prev == op.Pop || prev == op.DefineGlobal) {
			depths = append(depths, step.StackDepth)
		}
		prev, seen = step.Opcode, true
	}
	return depths
}

func TestStatementsLeaveStackBalanced(t *testing.T) {
	observer := &recordingObserver{}
	machine, out := newMachine(WithObserver(observer))
	err := interpret(t, machine, `var i = 0;
var s = "";
fun inc(n) {
  var m = n + 1;
  return m;
}
while (i < 5) {
  if (i == 2 and s != "") s = s + "x"; else s = s + "y";
  i = inc(i);
  i or false;
  !i;
}
print s;
print i;`)
	require.Nil(t, err)
	require.Equal(t, "yyxyy\n5\n", out.String())

	depths := statementDepths(observer.steps)
	require.Greater(t, len(depths), 20)
	for i, depth := range depths {
		require.Equal(t, 1, depth, "statement boundary %d", i)
	}
}

func TestBlockLocalsLeaveStackBalanced(t *testing.T) {
	observer := &recordingObserver{}
	machine, out := newMachine(WithObserver(observer))
	err := interpret(t, machine, `{
  var a = 1;
  {
    var b = 2;
    print a + b;
  }
  print a;
}
print 3;`)
	require.Nil(t, err)
	require.Equal(t, "3\n1\n3\n", out.String())
	// print a + b; pop b; print a; pop a; print 3;
	require.Equal(t, []int{3, 2, 2, 1, 1}, statementDepths(observer.steps))
}
