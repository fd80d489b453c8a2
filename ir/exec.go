/*
File    : kaleidoscope/ir/exec.go
*/
// This file is the JIT driver's execution backend. Rather than handing
// emitted IR to an external native-code compiler, Execute walks the IR
// directly: a basic-block interpreter that honors the same control-flow
// and stack-slot semantics a compiled version would, without claiming to
// BE a compiler.
package ir

import "fmt"

// LinkError reports that a CallInstr's callee is declared (an `extern`
// with no NativeFn attached) but was never resolvable to anything
// callable. It is raised here rather than as a CodegenError since only
// the one function that actually gets invoked discovers this; an extern
// that is declared but never called is not an error — unused externs
// are legal.
type LinkError struct {
	Name string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link error: extern %q has no resolvable implementation", e.Name)
}

// Execute runs fn with args against mod, resolving every call it makes
// (directly or transitively) against mod's functions.
func Execute(mod *Module, fn *Function, args []float64) (float64, error) {
	return mod.execFunction(fn, args)
}

func (m *Module) execFunction(fn *Function, args []float64) (float64, error) {
	if fn.NativeFn != nil {
		return fn.NativeFn(args), nil
	}
	if fn.IsExtern {
		return 0, &LinkError{Name: fn.Name}
	}
	if fn.Entry == nil {
		return 0, fmt.Errorf("ir: function %q has no body", fn.Name)
	}

	slots := make(map[*AllocaInstr]float64)
	// vals holds the value each instruction produced the last time its
	// block ran, so an operand reads that value instead of re-executing.
	vals := make(map[Instr]float64)
	var prevBlock *BasicBlock

	var eval func(Instr) (float64, error)
	eval = func(ins Instr) (float64, error) {
		if v, ok := vals[ins]; ok {
			return v, nil
		}
		switch in := ins.(type) {
		case *ConstInstr:
			return in.Value, nil
		case *ParamInstr:
			return args[in.Index], nil
		case *AllocaInstr:
			return slots[in], nil
		case *LoadInstr:
			return slots[in.Slot], nil
		case *StoreInstr:
			v, err := eval(in.Value)
			if err != nil {
				return 0, err
			}
			slots[in.Slot] = v
			return v, nil
		case *BinOpInstr:
			l, err := eval(in.LHS)
			if err != nil {
				return 0, err
			}
			r, err := eval(in.RHS)
			if err != nil {
				return 0, err
			}
			switch in.Kind {
			case OpAdd:
				return l + r, nil
			case OpSub:
				return l - r, nil
			case OpMul:
				return l * r, nil
			case OpLessThan:
				// Unordered: true when l < r or when either side is NaN.
				if !(l >= r) {
					return 1.0, nil
				}
				return 0.0, nil
			default:
				return 0, fmt.Errorf("ir: unhandled binop kind %d", in.Kind)
			}
		case *CallInstr:
			callee, ok := m.Lookup(in.Callee)
			if !ok {
				return 0, fmt.Errorf("ir: unresolved callee %q at execution time", in.Callee)
			}
			callArgs := make([]float64, len(in.Args))
			for i, a := range in.Args {
				v, err := eval(a)
				if err != nil {
					return 0, err
				}
				callArgs[i] = v
			}
			return m.execFunction(callee, callArgs)
		case *PhiInstr:
			for _, edge := range in.Incoming {
				if edge.Block == prevBlock {
					return eval(edge.Value)
				}
			}
			return 0, fmt.Errorf("ir: phi in %q has no incoming edge for the predecessor actually taken", fn.Name)
		default:
			return 0, fmt.Errorf("ir: cannot execute instruction %T", ins)
		}
	}

	block := fn.Entry
	for {
		for _, ins := range block.Instr {
			delete(vals, ins)
			v, err := eval(ins)
			if err != nil {
				return 0, err
			}
			vals[ins] = v
		}
		switch term := block.Term.(type) {
		case *RetTerm:
			return eval(term.Value)
		case *JmpTerm:
			prevBlock = block
			block = term.Target
		case *BrTerm:
			c, err := eval(term.Cond)
			if err != nil {
				return 0, err
			}
			prevBlock = block
			if c != 0.0 {
				block = term.Then
			} else {
				block = term.Else
			}
		default:
			return 0, fmt.Errorf("ir: block %q has no terminator", block.Label)
		}
	}
}
