/*
File    : kaleidoscope/parser/parser_test.go
*/
package parser

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/optable"
)

func parseAll(t *testing.T, src string) []*ast.Function {
	t.Helper()
	ops := optable.New()
	ops.InstallAssignment()
	par := NewParser(src, ops)
	var fns []*ast.Function
	for {
		fn, err := par.ParseTopLevel()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		fns = append(fns, fn)
	}
	return fns
}

func TestParser_SimpleDefinition(t *testing.T) {
	fns := parseAll(t, "def foo(x y) x + y")
	require.Len(t, fns, 1)
	assert.Equal(t, "foo", fns[0].Proto.Name)
	assert.Equal(t, []string{"x", "y"}, fns[0].Proto.Params)
	bin, ok := fns[0].Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('+'), bin.Op)
}

func TestParser_ExternDeclaration(t *testing.T) {
	fns := parseAll(t, "extern sin(x)")
	require.Len(t, fns, 1)
	assert.True(t, fns[0].IsExtern())
	assert.Equal(t, "sin", fns[0].Proto.Name)
}

func TestParser_TopLevelExpressionWrapped(t *testing.T) {
	fns := parseAll(t, "1 + 2 * 3")
	require.Len(t, fns, 1)
	assert.Equal(t, "__anon_expr", fns[0].Proto.Name)
	bin, ok := fns[0].Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('+'), bin.Op)
	rhs, ok := bin.RHS.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('*'), rhs.Op)
}

func TestParser_PrecedenceClimbing(t *testing.T) {
	fns := parseAll(t, "1 + 2 * 3 - 4")
	require.Len(t, fns, 1)
	top, ok := fns[0].Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('-'), top.Op)
}

func TestParser_IfThenElse(t *testing.T) {
	fns := parseAll(t, "if x < 3 then 1 else 2")
	require.Len(t, fns, 1)
	ifExpr, ok := fns[0].Body.(*ast.IfExpr)
	require.True(t, ok)
	cond, ok := ifExpr.Cond.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('<'), cond.Op)
}

func TestParser_ForExpr(t *testing.T) {
	fns := parseAll(t, "for i = 1, i < n, 1.0 in putchard(i)")
	require.Len(t, fns, 1)
	forExpr, ok := fns[0].Body.(*ast.ForExpr)
	require.True(t, ok)
	assert.Equal(t, "i", forExpr.Var)
	assert.NotNil(t, forExpr.Step)
}

func TestParser_ForExprDefaultStep(t *testing.T) {
	fns := parseAll(t, "for i = 1, i < n in putchard(i)")
	require.Len(t, fns, 1)
	forExpr, ok := fns[0].Body.(*ast.ForExpr)
	require.True(t, ok)
	assert.Nil(t, forExpr.Step)
}

func TestParser_VarInExpr(t *testing.T) {
	fns := parseAll(t, "var a = 1, b = 2 in a + b")
	require.Len(t, fns, 1)
	varIn, ok := fns[0].Body.(*ast.VarInExpr)
	require.True(t, ok)
	require.Len(t, varIn.Bindings, 2)
	assert.Equal(t, "a", varIn.Bindings[0].Name)
	assert.Equal(t, "b", varIn.Bindings[1].Name)
}

func TestParser_UserBinaryOperatorInstalledMidParse(t *testing.T) {
	fns := parseAll(t, "def binary | 5 (a b) a + b")
	require.Len(t, fns, 1)
	assert.True(t, fns[0].Proto.IsOperator)
	assert.Equal(t, "binary", fns[0].Proto.Kind)
	assert.Equal(t, byte('|'), fns[0].Proto.OperatorName())
	assert.Equal(t, 5, fns[0].Proto.Precedence)
}

func TestParser_UserUnaryOperator(t *testing.T) {
	fns := parseAll(t, "def unary!(v) if v then 0 else 1")
	require.Len(t, fns, 1)
	assert.Equal(t, "unary!", fns[0].Proto.Name)
	assert.Equal(t, byte('!'), fns[0].Proto.OperatorName())
}

func TestParser_AssignmentIsRightAssociative(t *testing.T) {
	fns := parseAll(t, "var x = 0, y = 0 in x = y = 4")
	require.Len(t, fns, 1)
	varIn, ok := fns[0].Body.(*ast.VarInExpr)
	require.True(t, ok)
	assign, ok := varIn.Body.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('='), assign.Op)
	assert.Equal(t, "x", assign.LHS.(*ast.VariableExpr).Name)
	inner, ok := assign.RHS.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, byte('='), inner.Op)
	assert.Equal(t, "y", inner.LHS.(*ast.VariableExpr).Name)
}

func TestParser_CallExpression(t *testing.T) {
	fns := parseAll(t, "def main() foo(1, 2 + 3)")
	require.Len(t, fns, 1)
	call, ok := fns[0].Body.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "foo", call.Callee)
	require.Len(t, call.Args, 2)
}

func TestParser_AssignmentToNonVariableIsError(t *testing.T) {
	ops := optable.New()
	ops.InstallAssignment()
	par := NewParser("1 = 2", ops)
	_, err := par.ParseTopLevel()
	assert.Error(t, err)
}

func TestParser_MalformedDotRunNumberIsError(t *testing.T) {
	ops := optable.New()
	par := NewParser("1.2.3", ops)
	_, err := par.ParseTopLevel()
	assert.Error(t, err)
}
