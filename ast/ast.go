/*
File    : kaleidoscope/ast/ast.go
*/
// Package ast defines Kaleidoscope's syntax tree as a closed set of Go
// types implementing a single marker interface, dispatched over with a
// type switch in the emitter — idiomatic Go's answer to a tagged union,
// needing no forwarding boilerplate per new node kind.
package ast

// Node is implemented by every AST node. Pos reports where the node
// started in the source, for error messages.
type Node interface {
	Pos() Position
}

// Position locates a node in the original source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) Pos() Position { return p }

// NumberExpr is a floating-point literal; every Kaleidoscope value is a
// double.
type NumberExpr struct {
	Position
	Value float64
}

// VariableExpr references a named value: a function parameter, a `var`
// binding, or the loop variable of a `for`.
type VariableExpr struct {
	Position
	Name string
}

// UnaryExpr applies a user-defined prefix operator to Operand.
type UnaryExpr struct {
	Position
	Op      byte
	Operand Node
}

// BinaryExpr applies Op to LHS and RHS. When Op is '=', LHS must be a
// VariableExpr naming an existing stack slot (AssignLhsNotVariable);
// every other Op is a built-in or user-defined binary operator resolved
// through the operator table.
type BinaryExpr struct {
	Position
	Op  byte
	LHS Node
	RHS Node
}

// CallExpr invokes a named function with Args, checked for arity against
// its prototype at emission time.
type CallExpr struct {
	Position
	Callee string
	Args   []Node
}

// IfExpr is Kaleidoscope's only conditional form. Cond is "true" when it
// is not exactly 0.0; Then and Else are both required (there is no
// value-less if) and their values merge through a phi node.
type IfExpr struct {
	Position
	Cond Node
	Then Node
	Else Node
}

// ForExpr is a counted loop that always evaluates to 0.0. Step defaults
// to the constant 1.0 when nil.
type ForExpr struct {
	Position
	Var   string
	Start Node
	End   Node
	Step  Node
	Body  Node
}

// VarBinding is one `name = init` pair inside a VarInExpr. Init may be
// nil, in which case the slot is initialized to 0.0.
type VarBinding struct {
	Name string
	Init Node
}

// VarInExpr introduces one or more local stack slots, visible only to
// Body, shadowing any outer binding of the same name for Body's extent.
// Each binding's Init is emitted before that binding's own name becomes
// visible, so `var x = x in ...` reads the outer x.
type VarInExpr struct {
	Position
	Bindings []VarBinding
	Body     Node
}

// Prototype declares a function's name and parameter list, or installs a
// user-defined operator when IsOperator is true. Kind is "binary" or
// "unary" in that case, and for binary operators Precedence carries the
// literal precedence written after the operator character (0 means "use
// the default").
type Prototype struct {
	Position
	Name       string
	Params     []string
	IsOperator bool
	Kind       string
	Precedence int
}

// OperatorName returns the operator character a `binary`/`unary`
// prototype installs, as written in its Name (e.g. "binary|" -> '|').
func (p *Prototype) OperatorName() byte {
	if !p.IsOperator || len(p.Name) == 0 {
		return 0
	}
	return p.Name[len(p.Name)-1]
}

// Function pairs a Prototype with a Body expression. A Function with a
// nil Body is an `extern` declaration.
type Function struct {
	Position
	Proto *Prototype
	Body  Node
}

// IsExtern reports whether this Function is a declaration-only extern.
func (f *Function) IsExtern() bool {
	return f.Body == nil
}
