/*
File    : kaleidoscope/ir/emit_loops.go
*/
package ir

import "github.com/kaleidoscope-lang/kaleidoscope/ast"

// emitFor lowers `for var = start, end[, step] in body`. Start is
// emitted and stored before the loop variable's name becomes visible, so
// `for i = i, ... in ...` reads an outer `i` in Start exactly as `var`
// does for its own initializers. Step defaults to the constant 1.0.
//
// End is re-emitted every pass, and it is evaluated against the loop
// variable's value from the START of the current iteration, before that
// iteration's increment is written back to the slot; only once End has
// been evaluated does the incremented value get stored, ready for the
// next iteration's body and End to see. The net effect is that the loop
// body runs once more than a naive "test before step" reading of the
// same source would predict: the final failing check belongs to the
// iteration whose incremented value is about to be stored, not to one
// that already ran, so that failing iteration's body has already executed
// with the value the increment produced. The whole construct always
// evaluates to 0.0.
func (e *Emitter) emitFor(n *ast.ForExpr) (Instr, error) {
	startVal, err := e.emitExpr(n.Start)
	if err != nil {
		return nil, err
	}

	slot := &AllocaInstr{Name: n.Var}
	e.block.Append(slot)
	e.block.Append(&StoreInstr{Slot: slot, Value: startVal})

	preheader := e.block
	loopBB := e.fn.NewBlock(e.freshLabel("loop"))
	preheader.Term = &JmpTerm{Target: loopBB}

	e.block = loopBB
	restore := e.vars.Bind(n.Var, slot)
	defer restore()

	if _, err := e.emitExpr(n.Body); err != nil {
		return nil, err
	}

	var stepVal Instr
	if n.Step != nil {
		stepVal, err = e.emitExpr(n.Step)
		if err != nil {
			return nil, err
		}
	} else {
		stepVal = e.block.Append(&ConstInstr{Value: 1.0})
	}

	current := e.block.Append(&LoadInstr{Slot: slot})
	next := e.block.Append(&BinOpInstr{Kind: OpAdd, LHS: current, RHS: stepVal})

	endVal, err := e.emitExpr(n.End)
	if err != nil {
		return nil, err
	}

	e.block.Append(&StoreInstr{Slot: slot, Value: next})

	afterBB := e.fn.NewBlock(e.freshLabel("afterloop"))
	e.block.Term = &BrTerm{Cond: endVal, Then: loopBB, Else: afterBB}

	e.block = afterBB
	return e.block.Append(&ConstInstr{Value: 0.0}), nil
}
