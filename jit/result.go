/*
File    : kaleidoscope/jit/result.go
*/
package jit

import "github.com/kaleidoscope-lang/kaleidoscope/ast"

// EvalResult carries everything one Eval call produces for a single
// top-level form: its AST, both IR dump stages, and its value.
//
// Value is nil for anything that is not an anonymous top-level expression
// (a `def`, an `extern`, or any call made with ParseOnly/NoExec set).
type EvalResult struct {
	AST           *ast.Function
	UnoptimizedIR string
	OptimizedIR   string
	Value         *float64
}
