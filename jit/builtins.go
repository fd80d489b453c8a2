/*
File    : kaleidoscope/jit/builtins.go
*/
package jit

import (
	"fmt"
	"io"

	"github.com/kaleidoscope-lang/kaleidoscope/ir"
)

// installBuiltins wires the two always-present external symbols into a
// freshly created module. putchar is declared only (an extern with a
// native implementation, never a visible Kaleidoscope body); putchard is
// defined, in the sense that a real backend would lower its body to
// fptoui-then-call-then-return-0 — here that three-instruction body is
// fused into one Go closure, since Kaleidoscope has no cast syntax to
// express the truncation at the source level and the IR package has no
// integer type to lower it into (see DESIGN.md).
func installBuiltins(mod *ir.Module, w io.Writer) {
	mod.Declare(&ir.Function{
		Name:     "putchar",
		Params:   []string{"char"},
		IsExtern: true,
		NativeFn: func(args []float64) float64 {
			fmt.Fprintf(w, "%c", byte(int32(args[0])))
			return args[0]
		},
	})

	mod.Declare(&ir.Function{
		Name:     "putchard",
		Params:   []string{"char"},
		IsExtern: false,
		NativeFn: func(args []float64) float64 {
			fmt.Fprintf(w, "%c", byte(int32(args[0])))
			return 0.0
		},
	})
}
