/*
File    : kaleidoscope/ir/errors.go
*/
package ir

import "fmt"

// CodegenErrorKind enumerates the eight ways emission can fail.
type CodegenErrorKind int

const (
	UnknownVariable CodegenErrorKind = iota
	UnknownBinaryOp
	UnknownUnaryOp
	AssignLhsNotVariable
	UnknownCallee
	ArityMismatch
	NameCollision
	Redefinition
)

func (k CodegenErrorKind) String() string {
	switch k {
	case UnknownVariable:
		return "UnknownVariable"
	case UnknownBinaryOp:
		return "UnknownBinaryOp"
	case UnknownUnaryOp:
		return "UnknownUnaryOp"
	case AssignLhsNotVariable:
		return "AssignLhsNotVariable"
	case UnknownCallee:
		return "UnknownCallee"
	case ArityMismatch:
		return "ArityMismatch"
	case NameCollision:
		return "NameCollision"
	case Redefinition:
		return "Redefinition"
	default:
		return "UnknownCodegenError"
	}
}

// CodegenError is the typed error the emitter returns. Line/Column carry
// the offending node's source position; wrapping an underlying cause is
// optional (most kinds are self-explanatory and carry none).
type CodegenError struct {
	Kind    CodegenErrorKind
	Message string
	Line    int
	Column  int
	Cause   error
}

func (e *CodegenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%d:%d] %s: %s", e.Line, e.Column, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CodegenError) Unwrap() error { return e.Cause }

func newCodegenError(kind CodegenErrorKind, line, column int, format string, args ...any) *CodegenError {
	return &CodegenError{Kind: kind, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
