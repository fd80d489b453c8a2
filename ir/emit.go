/*
File    : kaleidoscope/ir/emit.go
*/
package ir

import (
	"fmt"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/optable"
	"github.com/kaleidoscope-lang/kaleidoscope/scope"
)

// Emitter lowers one ast.Function at a time into the Module it was
// constructed with. User-defined operators resolve to calls by looking
// up their synthesized `binary<op>`/`unary<op>` names in the Module; Ops
// is carried alongside but not consulted during emission. An Emitter is
// reused across an entire session's top-level forms; only its per-function
// state (vars, fn, block) is reset on each call to Emit.
type Emitter struct {
	Module *Module
	Ops    *optable.Table

	vars  *scope.Table[*AllocaInstr]
	fn    *Function
	block *BasicBlock
	tmp   int
}

// NewEmitter returns an Emitter targeting mod and consulting ops.
func NewEmitter(mod *Module, ops *optable.Table) *Emitter {
	return &Emitter{Module: mod, Ops: ops, vars: scope.New[*AllocaInstr]()}
}

// Emit lowers fnAst — a `def`, an `extern`, or a wrapped top-level
// expression — into the Module, validating it (arity consistency across
// repeated declarations, no duplicate parameter names, no redefining an
// already-defined name) before touching any instruction list. A `def`'s
// skeleton Function is registered in the Module before its body is
// emitted, so a self-recursive call inside the body resolves through the
// same Lookup emitCall always uses; a body that fails to emit leaves
// that skeleton registered with no terminator; the caller is expected to
// Reset rather than keep evaluating against a module left in that state.
func (e *Emitter) Emit(fnAst *ast.Function) (*Function, error) {
	proto := fnAst.Proto

	for i, p := range proto.Params {
		for j := 0; j < i; j++ {
			if proto.Params[j] == p {
				return nil, newCodegenError(NameCollision, proto.Line, proto.Column,
					"duplicate parameter name %q in %q", p, proto.Name)
			}
		}
	}

	existing, exists := e.Module.Lookup(proto.Name)
	if exists && existing.Arity() != len(proto.Params) {
		return nil, newCodegenError(ArityMismatch, proto.Line, proto.Column,
			"%q redeclared with %d params, previously %d", proto.Name, len(proto.Params), existing.Arity())
	}
	// Every top-level expression is wrapped under the same name (see
	// parser.parseTopLevelExpression), so a new wrapper replaces the
	// previous one instead of counting as a redefinition.
	if exists && !existing.IsExtern && proto.Name != "__anon_expr" {
		return nil, newCodegenError(Redefinition, proto.Line, proto.Column,
			"%q is already defined", proto.Name)
	}

	if fnAst.IsExtern() {
		fn := &Function{Name: proto.Name, Params: proto.Params, IsExtern: true}
		e.Module.Declare(fn)
		return fn, nil
	}

	e.vars.Reset()
	e.tmp = 0
	fn := &Function{Name: proto.Name, Params: proto.Params}
	e.fn = fn
	e.block = fn.NewBlock("entry")

	// Declared before the body is emitted, not after: a self-recursive
	// call inside Body needs to find this function's name in the module
	// via emitCall's Lookup while the body is still being built.
	e.Module.Declare(fn)

	for i, p := range proto.Params {
		slot := &AllocaInstr{Name: p}
		e.block.Append(slot)
		e.block.Append(&StoreInstr{Slot: slot, Value: &ParamInstr{Name: p, Index: i}})
		e.vars.Bind(p, slot)
	}

	bodyVal, err := e.emitExpr(fnAst.Body)
	if err != nil {
		return nil, err
	}
	e.block.Term = &RetTerm{Value: bodyVal}

	return fn, nil
}

// emitExpr dispatches on the concrete ast.Node type — the type-switch
// answer to a visitor's Accept/Visit double-dispatch, needing no
// boilerplate method on ast.Node itself for each new case.
func (e *Emitter) emitExpr(node ast.Node) (Instr, error) {
	switch n := node.(type) {
	case *ast.NumberExpr:
		return e.block.Append(&ConstInstr{Value: n.Value}), nil
	case *ast.VariableExpr:
		return e.emitVariable(n)
	case *ast.UnaryExpr:
		return e.emitUnary(n)
	case *ast.BinaryExpr:
		return e.emitBinary(n)
	case *ast.CallExpr:
		return e.emitCall(n)
	case *ast.IfExpr:
		return e.emitIf(n)
	case *ast.ForExpr:
		return e.emitFor(n)
	case *ast.VarInExpr:
		return e.emitVarIn(n)
	default:
		return nil, fmt.Errorf("ir: unhandled AST node %T", node)
	}
}

// freshLabel returns a block label unique within the function currently
// being emitted.
func (e *Emitter) freshLabel(prefix string) string {
	e.tmp++
	return fmt.Sprintf("%s%d", prefix, e.tmp)
}
