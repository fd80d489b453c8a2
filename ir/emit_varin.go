/*
File    : kaleidoscope/ir/emit_varin.go
*/
package ir

import "github.com/kaleidoscope-lang/kaleidoscope/ast"

// emitVarIn lowers `var a = ..., b = ... in body`. Each binding's
// initializer is emitted and evaluated before that binding's own name is
// installed into scope, so `var x = x in ...` resolves the inner
// initializer's `x` to whatever `x` meant outside the var-expression —
// while a later binding in the same var-expression, like
// `b` in `var a = 1, b = a in ...`, does see `a`, since `a` was installed
// before `b`'s initializer is emitted. All shadowed bindings are
// restored once Body has been emitted, in reverse installation order.
func (e *Emitter) emitVarIn(n *ast.VarInExpr) (Instr, error) {
	restores := make([]func(), 0, len(n.Bindings))
	defer func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}()

	for _, binding := range n.Bindings {
		var initVal Instr
		var err error
		if binding.Init != nil {
			initVal, err = e.emitExpr(binding.Init)
			if err != nil {
				return nil, err
			}
		} else {
			initVal = e.block.Append(&ConstInstr{Value: 0.0})
		}

		slot := &AllocaInstr{Name: binding.Name}
		e.block.Append(slot)
		e.block.Append(&StoreInstr{Slot: slot, Value: initVal})
		restores = append(restores, e.vars.Bind(binding.Name, slot))
	}

	return e.emitExpr(n.Body)
}
