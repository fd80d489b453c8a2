/*
File    : kaleidoscope/jit/options.go
*/
package jit

// Options configures a single Eval/EvalExpr call. Every field defaults to
// false except Optimize, which defaults to true; the REPL's `.set`
// command and cmd/kaleidoscope's pflag-bound flags both end up
// constructing one of these.
type Options struct {
	// Optimize marks the result's OptimizedIR as having passed through
	// module-level optimization. There is no backend here to actually
	// optimize against (see DESIGN.md), so OptimizedIR is the same
	// textual dump as UnoptimizedIR; the field still exists because
	// callers (and the REPL's `.set optimize` toggle) are part of the
	// public surface this package exposes.
	Optimize bool
	// LLVMDump writes __dump__unoptimized.ll, __dump__optimized.ll and
	// __dump__assembler.asm to the working directory for the anonymous
	// top-level expression evaluated this call.
	LLVMDump bool
	// NoExec stops the pipeline after unoptimized IR is produced; the
	// anonymous wrapper, if any, is never executed.
	NoExec bool
	// ParseOnly stops the pipeline after parsing; no emitter call is made
	// at all.
	ParseOnly bool
	// Verbose includes both IR dump stages in every EvalResult, not just
	// the anonymous wrapper's.
	Verbose bool
}

// DefaultOptions returns the zero-configuration default: every flag off
// except Optimize.
func DefaultOptions() Options {
	return Options{Optimize: true}
}
