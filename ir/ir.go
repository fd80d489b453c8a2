/*
File    : kaleidoscope/ir/ir.go
*/
// Package ir is a hand-rolled intermediate representation for
// Kaleidoscope: Modules contain Functions, Functions contain
// BasicBlocks, BasicBlocks contain a straight-line list of Instr values
// ending in one Terminator, and mutable locals are modeled as stack
// slots (Alloca/Load/Store) rather than raw SSA registers, so that
// `var`/`for`/assignment can all be lowered uniformly. This package —
// plus exec.go's tree-walking evaluator — implements the architecture
// natively rather than binding to an external code generator.
//
// Every Instr is its own SSA value: instructions never get mutated after
// being appended, and a pointer to one IS its "register" for anything
// downstream that consumes it (a Load, a BinOp operand, a Phi incoming
// value, a Ret operand).
package ir

import "fmt"

// Instr is any instruction that produces a float64 value when executed.
type Instr interface {
	String() string
}

// ConstInstr materializes a literal double.
type ConstInstr struct {
	Value float64
}

func (c *ConstInstr) String() string { return fmt.Sprintf("%%c = fconst %g", c.Value) }

// ParamInstr reads the Nth argument passed to the enclosing Function.
type ParamInstr struct {
	Name  string
	Index int
}

func (p *ParamInstr) String() string { return fmt.Sprintf("%%%s = param %d", p.Name, p.Index) }

// AllocaInstr reserves a named stack slot, Kaleidoscope's only form of
// mutable storage (every `var` binding, for-loop induction variable, and
// function parameter that assignment ever targets gets one).
type AllocaInstr struct {
	Name string
}

func (a *AllocaInstr) String() string { return fmt.Sprintf("%%%s = alloca double", a.Name) }

// StoreInstr writes Value into the slot Slot points at.
type StoreInstr struct {
	Slot  *AllocaInstr
	Value Instr
}

func (s *StoreInstr) String() string { return fmt.Sprintf("store %%%s, ...", s.Slot.Name) }

// LoadInstr reads the current contents of a stack slot.
type LoadInstr struct {
	Slot *AllocaInstr
}

func (l *LoadInstr) String() string { return fmt.Sprintf("%%v = load %%%s", l.Slot.Name) }

// BinOpKind distinguishes the built-in arithmetic/comparison operators
// from a call to a user-defined `binary<op>` function.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpLessThan
	OpUserDefined
)

// BinOpInstr computes a built-in binary operation over LHS and RHS. '<'
// lowers to an unordered-compare-then-convert sequence in the original
// (fcmp ULT + uitofp) so that a Kaleidoscope boolean is representable as
// 0.0/1.0 like every other value; BinOpInstr.Kind == OpLessThan captures
// that same semantics in exec.go.
type BinOpInstr struct {
	Kind BinOpKind
	LHS  Instr
	RHS  Instr
}

func (b *BinOpInstr) String() string { return "%v = binop" }

// CallInstr invokes a Function (including a synthesized `binary<op>` or
// `unary<op>` operator function) or a native extern with Args.
type CallInstr struct {
	Callee string
	Args   []Instr
}

func (c *CallInstr) String() string { return fmt.Sprintf("%%v = call @%s", c.Callee) }

// PhiInstr merges a value coming from one of several predecessor blocks,
// the standard SSA answer to "what is the value of an if-expression": the
// merge block's phi picks Then's value or Else's value depending on which
// predecessor branched into it.
type PhiInstr struct {
	Incoming []PhiEdge
}

// PhiEdge is one (predecessor block, value) pair a PhiInstr merges.
type PhiEdge struct {
	Block *BasicBlock
	Value Instr
}

func (p *PhiInstr) String() string { return "%v = phi" }

// Terminator ends a BasicBlock: either an unconditional Jmp, a
// conditional Br, or a Ret.
type Terminator interface {
	String() string
}

// JmpTerm unconditionally transfers control to Target.
type JmpTerm struct{ Target *BasicBlock }

func (j *JmpTerm) String() string { return fmt.Sprintf("br label %%%s", j.Target.Label) }

// BrTerm transfers control to Then when Cond is non-zero, Else
// otherwise — Kaleidoscope has no boolean type, so "non-zero" (!= 0.0)
// is the only truth test.
type BrTerm struct {
	Cond Instr
	Then *BasicBlock
	Else *BasicBlock
}

func (b *BrTerm) String() string {
	return fmt.Sprintf("br ..., label %%%s, label %%%s", b.Then.Label, b.Else.Label)
}

// RetTerm ends the function, yielding Value.
type RetTerm struct{ Value Instr }

func (r *RetTerm) String() string { return "ret double ..." }

// BasicBlock is a label plus a straight-line instruction list ending in
// exactly one Terminator.
type BasicBlock struct {
	Label string
	Instr []Instr
	Term  Terminator
}

// Append adds instr to the block's instruction list and returns it, so
// call sites can write `v := block.Append(&ir.ConstInstr{...})`.
func (b *BasicBlock) Append(instr Instr) Instr {
	b.Instr = append(b.Instr, instr)
	return instr
}

// Function is one Kaleidoscope function: its parameters (each backed by
// an implicit stack slot so a parameter can be reassigned, storing every
// argument into an alloca up front), and its basic blocks. Extern-only
// declarations (IsExtern) carry no blocks; NativeFn is set instead when
// a natives-package lookup resolved the extern (see the natives
// package).
type Function struct {
	Name     string
	Params   []string
	Blocks   []*BasicBlock
	Entry    *BasicBlock
	IsExtern bool
	NativeFn func([]float64) float64
}

// NewBlock creates a BasicBlock owned by fn, appends it to fn.Blocks, and
// returns it. The first call on a fresh Function also sets fn.Entry.
func (fn *Function) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label}
	fn.Blocks = append(fn.Blocks, b)
	if fn.Entry == nil {
		fn.Entry = b
	}
	return b
}

// Arity returns the number of parameters fn declares.
func (fn *Function) Arity() int { return len(fn.Params) }

// Module is the top-level container the emitter fills in one top-level
// form at a time; a jit.Evaluator owns exactly one Module across a
// session's lifetime (until Reset rebuilds it).
type Module struct {
	Functions map[string]*Function
	Order     []string
}

// NewModule returns an empty Module.
func NewModule() *Module {
	return &Module{Functions: make(map[string]*Function)}
}

// Declare registers fn, overwriting any previous function/extern of the
// same name (redeclaration is a modeling decision the emitter validates
// against before calling Declare; see CodegenError kinds Redefinition
// and NameCollision).
func (m *Module) Declare(fn *Function) {
	if _, exists := m.Functions[fn.Name]; !exists {
		m.Order = append(m.Order, fn.Name)
	}
	m.Functions[fn.Name] = fn
}

// Lookup returns the Function named name, if any.
func (m *Module) Lookup(name string) (*Function, bool) {
	fn, ok := m.Functions[name]
	return fn, ok
}

// Dump renders every function the module currently holds as readable,
// LLVM-flavored pseudo-IR text, used for the `llvmdump` option and for
// EvalResult's unoptimized/optimized IR fields.
func (m *Module) Dump() string {
	out := ""
	for _, name := range m.Order {
		fn := m.Functions[name]
		out += dumpFunction(fn)
	}
	return out
}

// DumpFunction renders a single function, used to recover "the IR for
// just this top-level form" without string-splitting a whole-module
// dump.
func DumpFunction(fn *Function) string { return dumpFunction(fn) }

func dumpFunction(fn *Function) string {
	if fn.IsExtern {
		return fmt.Sprintf("declare double @%s(%d args)\n\n", fn.Name, len(fn.Params))
	}
	out := fmt.Sprintf("define double @%s(%d args) {\n", fn.Name, len(fn.Params))
	for _, b := range fn.Blocks {
		out += fmt.Sprintf("%s:\n", b.Label)
		for _, ins := range b.Instr {
			out += "  " + ins.String() + "\n"
		}
		if b.Term != nil {
			out += "  " + b.Term.String() + "\n"
		}
	}
	out += "}\n\n"
	return out
}
