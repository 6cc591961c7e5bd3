package asm

// Instruction is the marker interface implemented by every abstract
// instruction this package models (spec.md §4.4's sum type).
type Instruction interface {
	instrNode()
}

// Mov, Add, Sub, Imul, And, Xor, Sar, Cmp, Test all share the same
// dst/src shape.
type Mov struct{ Dst, Src Operand }
type Add struct{ Dst, Src Operand }
type Sub struct{ Dst, Src Operand }
type Imul struct{ Dst, Src Operand }
type And struct{ Dst, Src Operand }
type Xor struct{ Dst, Src Operand }
type Sar struct{ Dst, Src Operand }
type Cmp struct{ L, R Operand }
type Test struct{ L, R Operand }

// Push and Pop take a single operand.
type Push struct{ Src Operand }
type Pop struct{ Dst Operand }

// Call invokes a label (an internal function, or a `my_error`/extern
// trampoline).
type Call struct{ Target Label }

// Leave and Ret take the native epilogue shape: no operands.
type Leave struct{}
type Ret struct{}

// J is a (conditional or unconditional, when CC is None) jump.
type J struct {
	CC     CC
	Target Label
}

// Cmov is a conditional move, used to materialize boolean results
// without branching (spec.md §4.3.3's isnum/isbool/istuple and
// comparison lowering).
type Cmov struct {
	CC       CC
	Dst, Src Operand
}

// Lea loads an effective address. It is part of the modeled
// instruction set; the code generator does not emit it.
type Lea struct{ Dst, Src Operand }

// LabelDef marks a code position that can be jumped/called to.
type LabelDef struct{ Name Label }

// Comment is a non-semantic annotation the printer renders as an
// assembly comment; spec.md §4.4 doesn't name it explicitly but the
// teacher's generator always interleaves commentary with code, and
// so does ours (useful when reading a failing generated program).
type Comment struct{ Text string }

func (Mov) instrNode()      {}
func (Add) instrNode()      {}
func (Sub) instrNode()      {}
func (Imul) instrNode()     {}
func (And) instrNode()      {}
func (Xor) instrNode()      {}
func (Sar) instrNode()      {}
func (Cmp) instrNode()      {}
func (Test) instrNode()     {}
func (Push) instrNode()     {}
func (Pop) instrNode()      {}
func (Call) instrNode()     {}
func (Leave) instrNode()    {}
func (Ret) instrNode()      {}
func (J) instrNode()        {}
func (Cmov) instrNode()     {}
func (Lea) instrNode()      {}
func (LabelDef) instrNode() {}
func (Comment) instrNode()  {}
