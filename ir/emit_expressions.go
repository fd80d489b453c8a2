/*
File    : kaleidoscope/ir/emit_expressions.go
*/
package ir

import "github.com/kaleidoscope-lang/kaleidoscope/ast"

// emitVariable loads the current value of a bound name. UnknownVariable
// fires here, not at parse time, since only the emitter knows which
// names are actually in scope for the function being built.
func (e *Emitter) emitVariable(v *ast.VariableExpr) (Instr, error) {
	slot, ok := e.vars.Lookup(v.Name)
	if !ok {
		return nil, newCodegenError(UnknownVariable, v.Line, v.Column, "unknown variable %q", v.Name)
	}
	return e.block.Append(&LoadInstr{Slot: slot}), nil
}

// emitUnary resolves op to a call to the user-defined `unary<op>`
// function (Kaleidoscope has no built-in unary operators at all; every
// one is user-installed via `def unary`).
func (e *Emitter) emitUnary(u *ast.UnaryExpr) (Instr, error) {
	operand, err := e.emitExpr(u.Operand)
	if err != nil {
		return nil, err
	}
	name := "unary" + string(u.Op)
	if _, ok := e.Module.Lookup(name); !ok {
		return nil, newCodegenError(UnknownUnaryOp, u.Line, u.Column, "unknown unary operator %q", string(u.Op))
	}
	return e.block.Append(&CallInstr{Callee: name, Args: []Instr{operand}}), nil
}

// emitBinary lowers '+', '-', '*', '<' directly to BinOpInstr, '=' to a
// store into the LHS variable's slot, and every other operator character
// to a call to the user-defined `binary<op>` function the operator table
// says should exist.
func (e *Emitter) emitBinary(b *ast.BinaryExpr) (Instr, error) {
	if b.Op == '=' {
		return e.emitAssignment(b)
	}

	lhs, err := e.emitExpr(b.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := e.emitExpr(b.RHS)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case '+':
		return e.block.Append(&BinOpInstr{Kind: OpAdd, LHS: lhs, RHS: rhs}), nil
	case '-':
		return e.block.Append(&BinOpInstr{Kind: OpSub, LHS: lhs, RHS: rhs}), nil
	case '*':
		return e.block.Append(&BinOpInstr{Kind: OpMul, LHS: lhs, RHS: rhs}), nil
	case '<':
		return e.block.Append(&BinOpInstr{Kind: OpLessThan, LHS: lhs, RHS: rhs}), nil
	default:
		name := "binary" + string(b.Op)
		if _, ok := e.Module.Lookup(name); !ok {
			return nil, newCodegenError(UnknownBinaryOp, b.Line, b.Column, "unknown binary operator %q", string(b.Op))
		}
		return e.block.Append(&CallInstr{Callee: name, Args: []Instr{lhs, rhs}}), nil
	}
}

// emitAssignment stores RHS's value into the stack slot LHS names,
// rejecting anything other than a bare variable on the left
// (AssignLhsNotVariable) — the parser already enforces this while
// building the BinaryExpr, but the emitter checks again since it is the
// sole authority over what "a variable" means (an in-scope stack slot).
func (e *Emitter) emitAssignment(b *ast.BinaryExpr) (Instr, error) {
	varNode, ok := b.LHS.(*ast.VariableExpr)
	if !ok {
		return nil, newCodegenError(AssignLhsNotVariable, b.Line, b.Column, "left-hand side of '=' must be a variable")
	}
	slot, ok := e.vars.Lookup(varNode.Name)
	if !ok {
		return nil, newCodegenError(UnknownVariable, varNode.Line, varNode.Column, "unknown variable %q", varNode.Name)
	}
	val, err := e.emitExpr(b.RHS)
	if err != nil {
		return nil, err
	}
	e.block.Append(&StoreInstr{Slot: slot, Value: val})
	return val, nil
}

// emitCall resolves Callee against the module (a `def`, an `extern`, or
// a natives-backed extern) and checks arity before emitting a CallInstr.
func (e *Emitter) emitCall(c *ast.CallExpr) (Instr, error) {
	fn, ok := e.Module.Lookup(c.Callee)
	if !ok {
		return nil, newCodegenError(UnknownCallee, c.Line, c.Column, "unknown function %q", c.Callee)
	}
	if fn.Arity() != len(c.Args) {
		return nil, newCodegenError(ArityMismatch, c.Line, c.Column,
			"%q expects %d argument(s), got %d", c.Callee, fn.Arity(), len(c.Args))
	}
	args := make([]Instr, len(c.Args))
	for i, a := range c.Args {
		v, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.block.Append(&CallInstr{Callee: c.Callee, Args: args}), nil
}
