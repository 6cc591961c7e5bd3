package compiler

import (
	"github.com/snek-lang/snekc/asm"
	"github.com/snek-lang/snekc/env"
)

// Context is the compile-time context spec.md §4.3 threads through
// every recursive lowering call: the environment, the next free
// local stack slot, the label to jump to on `break` (empty outside
// any loop), and the function arity table used to validate calls.
//
// Alignment parity is tracked separately, as generator-level mutable
// state rather than a Context field threaded through return values —
// see DESIGN.md's note on this simplification.
type Context struct {
	Env        *env.Env
	StackIndex int
	BreakLabel asm.Label
	Funcs      map[string]int
}

// localDisp returns the `[rbp - 8*si]` displacement of local slot si.
func localDisp(si int) int32 { return int32(-8 * si) }

// argDisp returns the `[rbp + 16 + 8*i]` displacement of the i'th
// (zero-indexed) stack-pushed argument.
func argDisp(i int) int32 { return int32(16 + 8*i) }
