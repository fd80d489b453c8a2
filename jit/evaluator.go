/*
File    : kaleidoscope/jit/evaluator.go
*/
// Package jit is the evaluation driver: it owns the module and operator
// table exclusively (single-threaded, synchronous, no concurrent
// mutation), drives one ast.Function at a time through the ir package's
// emitter, and executes anonymous top-level expressions through the ir
// package's interpreter. It stays silent and error-returning — logging
// and formatting belong to the layers that embed it (repl,
// cmd/kaleidoscope).
package jit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/ir"
	"github.com/kaleidoscope-lang/kaleidoscope/natives"
	"github.com/kaleidoscope-lang/kaleidoscope/optable"
	"github.com/kaleidoscope-lang/kaleidoscope/parser"
)

const anonName = "__anon_expr"

// Evaluator is the JIT driver. The zero value is not usable; construct one
// with NewEvaluator.
type Evaluator struct {
	Module *ir.Module
	Ops    *optable.Table

	// History records every non-anonymous def/extern evaluated so far, in
	// source order, so Reset can rebuild the module from scratch by
	// replaying it.
	History []*ast.Function

	Writer io.Writer
}

// NewEvaluator returns a ready-to-use Evaluator with a fresh module and
// operator table, the built-in externs installed once.
func NewEvaluator() *Evaluator {
	ev := &Evaluator{
		Module: ir.NewModule(),
		Ops:    optable.New(),
		Writer: os.Stdout,
	}
	ev.Ops.InstallAssignment()
	installBuiltins(ev.Module, ev.Writer)
	return ev
}

// SetWriter redirects putchar/putchard output.
func (ev *Evaluator) SetWriter(w io.Writer) {
	ev.Writer = w
	installBuiltins(ev.Module, w)
}

// Eval parses source as a sequence of top-level forms and runs each
// through the parse/emit/execute pipeline, returning one EvalResult per
// form in source order. A parse error aborts the remaining forms; a
// codegen error is returned alongside whatever results were already
// produced, since the module may now be inconsistent and the caller is
// expected to Reset.
func (ev *Evaluator) Eval(source string, opts Options) ([]EvalResult, error) {
	par := parser.NewParser(source, ev.Ops)
	var results []EvalResult

	for {
		// A `def binary OP prec (...)` prototype installs OP into ev.Ops
		// the moment it is parsed, before its body is parsed or emitted.
		// Snapshotting here means a parse or codegen failure on this form
		// restores the table to its last-known-good state instead of
		// leaving a declared-but-never-usable operator installed.
		opsBefore := ev.Ops.Snapshot()

		fnAst, err := par.ParseTopLevel()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			ev.Ops.Restore(opsBefore)
			return results, err
		}
		if par.HasErrors() {
			ev.Ops.Restore(opsBefore)
			return results, par.Err()
		}

		result, err := ev.evalOne(fnAst, opts)
		if err != nil {
			ev.Ops.Restore(opsBefore)
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (ev *Evaluator) evalOne(fnAst *ast.Function, opts Options) (EvalResult, error) {
	if opts.ParseOnly {
		return EvalResult{AST: fnAst}, nil
	}

	emitter := ir.NewEmitter(ev.Module, ev.Ops)
	fn, err := emitter.Emit(fnAst)
	if err != nil {
		return EvalResult{}, err
	}

	if fnAst.IsExtern() {
		resolveNative(fn)
	}

	if fnAst.Proto.Name != anonName {
		ev.History = append(ev.History, fnAst)
		result := EvalResult{AST: fnAst}
		if opts.Verbose {
			result.UnoptimizedIR = ir.DumpFunction(fn)
			if opts.Optimize {
				result.OptimizedIR = result.UnoptimizedIR
			}
		}
		return result, nil
	}

	result := EvalResult{AST: fnAst}
	if opts.Verbose || opts.LLVMDump || opts.NoExec {
		result.UnoptimizedIR = ir.DumpFunction(fn)
		if opts.Optimize {
			result.OptimizedIR = result.UnoptimizedIR
		}
	}
	if opts.LLVMDump {
		if err := writeDumps(ev.Module, result.UnoptimizedIR, result.OptimizedIR); err != nil {
			return EvalResult{}, err
		}
	}
	if opts.NoExec {
		return result, nil
	}

	value, err := ir.Execute(ev.Module, fn, nil)
	if err != nil {
		return EvalResult{}, err
	}
	result.Value = &value
	return result, nil
}

// EvalExpr evaluates source and returns the first result's value (nil for
// a declaration or definition).
func (ev *Evaluator) EvalExpr(source string, opts Options) (*float64, error) {
	results, err := ev.Eval(source, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0].Value, nil
}

// Reset discards the current module, rebuilds an empty one with the
// built-ins reinstalled, and replays history through a fresh emitter. If
// history is nil, ev.History is replayed. The rebuild is atomic: on replay
// failure, the evaluator is left exactly as it was before Reset was
// called, the same save-restore-on-exit discipline applied to the whole
// module instead of one lexical scope.
func (ev *Evaluator) Reset(history []*ast.Function) error {
	if history == nil {
		history = ev.History
	}

	// Built fresh and only swapped into ev on full success, so a replay
	// failure partway through leaves ev.Module/ev.Ops exactly as they were
	// before Reset was called, achieved here by never mutating ev's own
	// fields until the very end rather than by snapshotting and restoring
	// them.
	newMod := ir.NewModule()
	newOps := optable.New()
	newOps.InstallAssignment()
	installBuiltins(newMod, ev.Writer)

	emitter := ir.NewEmitter(newMod, newOps)
	replayed := make([]*ast.Function, 0, len(history))
	for _, fnAst := range history {
		fn, err := emitter.Emit(fnAst)
		if err != nil {
			return fmt.Errorf("reset: replay failed at %q: %w", fnAst.Proto.Name, err)
		}
		if fnAst.IsExtern() {
			resolveNative(fn)
		}
		if fnAst.Proto.IsOperator {
			if fnAst.Proto.Kind == "unary" {
				newOps.InstallUserUnaryOperator(fnAst.Proto.OperatorName())
			} else {
				newOps.InstallUserOperator(fnAst.Proto.OperatorName(), fnAst.Proto.Precedence)
			}
		}
		replayed = append(replayed, fnAst)
	}

	ev.Module = newMod
	ev.Ops = newOps
	ev.History = replayed
	return nil
}

// CompileToObject is a Go-idiomatic stand-in for real object-file
// emission, which this implementation does not perform: it returns the
// same assembler-shaped textual dump llvmdump would have written, as
// bytes, labeled with target.
func (ev *Evaluator) CompileToObject(target string) ([]byte, error) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "; target = %s\n", target)
	buf.WriteString(ev.Module.Dump())
	return []byte(buf.String()), nil
}

func resolveNative(fn *ir.Function) {
	native, arity, ok := natives.Lookup(fn.Name)
	if !ok || arity != fn.Arity() {
		return
	}
	fn.NativeFn = native
}

func writeDumps(mod *ir.Module, unopt, opt string) error {
	var errs *multierror.Error
	if err := os.WriteFile("__dump__unoptimized.ll", []byte(unopt), 0o644); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := os.WriteFile("__dump__optimized.ll", []byte(opt), 0o644); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := os.WriteFile("__dump__assembler.asm", []byte(mod.Dump()), 0o644); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
