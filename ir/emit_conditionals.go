/*
File    : kaleidoscope/ir/emit_conditionals.go
*/
package ir

import "github.com/kaleidoscope-lang/kaleidoscope/ast"

// emitIf lowers `if cond then t else e` into three new blocks (then,
// else, merge) and a phi that picks t's or e's value depending on which
// branch ran. Then/Else are re-read as e.block *after* emitting their
// sub-expressions rather than assumed to still be thenBB/elseBB,
// because a nested if/for inside either branch will have left e.block
// pointing at that nested construct's own merge/after block.
func (e *Emitter) emitIf(n *ast.IfExpr) (Instr, error) {
	condVal, err := e.emitExpr(n.Cond)
	if err != nil {
		return nil, err
	}

	thenBB := e.fn.NewBlock(e.freshLabel("then"))
	elseBB := e.fn.NewBlock(e.freshLabel("else"))
	mergeBB := e.fn.NewBlock(e.freshLabel("ifcont"))

	e.block.Term = &BrTerm{Cond: condVal, Then: thenBB, Else: elseBB}

	e.block = thenBB
	thenVal, err := e.emitExpr(n.Then)
	if err != nil {
		return nil, err
	}
	thenEnd := e.block
	thenEnd.Term = &JmpTerm{Target: mergeBB}

	e.block = elseBB
	elseVal, err := e.emitExpr(n.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := e.block
	elseEnd.Term = &JmpTerm{Target: mergeBB}

	e.block = mergeBB
	phi := &PhiInstr{Incoming: []PhiEdge{
		{Block: thenEnd, Value: thenVal},
		{Block: elseEnd, Value: elseVal},
	}}
	return e.block.Append(phi), nil
}
