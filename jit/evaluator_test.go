/*
File    : kaleidoscope/jit/evaluator_test.go
*/
package jit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/jit"
)

func value(t *testing.T, ev *jit.Evaluator, src string) float64 {
	t.Helper()
	v, err := ev.EvalExpr(src, jit.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, v)
	return *v
}

func TestEval_Arithmetic(t *testing.T) {
	ev := jit.NewEvaluator()
	assert.Equal(t, 15.0, value(t, ev, "3+3*4"))
}

func TestEval_DefinitionThenCallReturnsNullThenValue(t *testing.T) {
	ev := jit.NewEvaluator()
	results, err := ev.Eval("def adder(x y) x+y", jit.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Value)

	assert.Equal(t, 14.0, value(t, ev, "adder(5,4)+adder(3,2)"))
}

func TestEval_SelfRecursiveDefinition(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def fib(n) if n<2 then n else fib(n-1)+fib(n-2)", jit.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 55.0, value(t, ev, "fib(10)"))
}

func TestEval_RedefinitionOfAnAlreadyDefinedNameErrors(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def foo(x) x+1", jit.DefaultOptions())
	require.NoError(t, err)

	_, err = ev.Eval("def foo(x) x*2", jit.DefaultOptions())
	assert.Error(t, err)
}

func TestEval_ExternCeil(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("extern ceil(x)", jit.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5.0, value(t, ev, "ceil(4.5)"))
}

func TestEval_UserBinaryOperatorDeclaredThenUsedInLaterForm(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def binary% (a b) a-b", jit.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 94.5, value(t, ev, "100 % 5.5"))
}

func TestEval_FailedOperatorDefinitionDoesNotLeaveOperatorInstalled(t *testing.T) {
	ev := jit.NewEvaluator()
	// The prototype installs '%' into ev.Ops as soon as it is parsed; the
	// body then fails to emit because undefined_name has no binding. '%'
	// must come back out of the table, not linger as a dangling operator.
	_, err := ev.Eval("def binary% (a b) undefined_name", jit.DefaultOptions())
	require.Error(t, err)

	_, err = ev.Eval("100 % 5", jit.DefaultOptions())
	assert.Error(t, err)
}

func TestEval_Putchard(t *testing.T) {
	ev := jit.NewEvaluator()
	var buf bytes.Buffer
	ev.SetWriter(&buf)
	// Reset reinstalls the built-ins against ev.Writer, so their output
	// must still reach buf afterwards.
	require.NoError(t, ev.Reset(nil))

	got := value(t, ev, "putchard(65)")
	assert.Equal(t, 0.0, got)
	assert.Equal(t, "A", buf.String())
}

func TestReset_RebuildsFromHistory(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def square(x) x*x", jit.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, ev.Reset(nil))

	assert.Equal(t, 16.0, value(t, ev, "square(4)"))
}

func TestReset_FailedReplayLeavesEvaluatorUnchanged(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def square(x) x*x", jit.DefaultOptions())
	require.NoError(t, err)
	before := len(ev.History)

	// A history entry referencing an unknown name fails to emit during
	// replay; Reset must report the error and leave the live
	// module/history exactly as they were before the call.
	bad := &ast.Function{
		Proto: &ast.Prototype{Name: "broken", Params: nil},
		Body:  &ast.VariableExpr{Name: "undefined_name"},
	}

	history := append(append([]*ast.Function{}, ev.History...), bad)
	err = ev.Reset(history)
	require.Error(t, err)
	assert.Len(t, ev.History, before)
	assert.Equal(t, 16.0, value(t, ev, "square(4)"))
}

func TestEvalExpr_ParseOnlyReturnsNoValue(t *testing.T) {
	ev := jit.NewEvaluator()
	v, err := ev.EvalExpr("3+4", jit.Options{ParseOnly: true})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCompileToObject_ReturnsNonEmptyDump(t *testing.T) {
	ev := jit.NewEvaluator()
	_, err := ev.Eval("def id(x) x", jit.DefaultOptions())
	require.NoError(t, err)

	out, err := ev.CompileToObject("x86_64-unknown-linux-gnu")
	require.NoError(t, err)
	assert.Contains(t, string(out), "x86_64-unknown-linux-gnu")
	assert.Contains(t, string(out), "id")
}
