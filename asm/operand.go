// Package asm is the in-memory abstract-assembly representation
// spec.md §4.4 describes: a small sum type of instructions over
// register/immediate/memory operands, plus a printer that renders
// them as NASM-compatible Intel-syntax text.
//
// The shape — a byte/string-tagged type with a constant table, the
// way the teacher's instructions package models RPN operations — is
// reused here one level down the stack: instead of tagging
// high-level math operations, it tags real x86-64 instructions.
package asm

import "fmt"

// Reg names a 64-bit general-purpose register.
type Reg string

// The registers this compiler's fixed convention actually uses
// (spec.md §1 Non-goals: "register allocation beyond a fixed
// convention").
const (
	RAX Reg = "rax"
	RBX Reg = "rbx"
	RCX Reg = "rcx"
	RDX Reg = "rdx"
	RSI Reg = "rsi"
	RDI Reg = "rdi"
	RBP Reg = "rbp"
	RSP Reg = "rsp"
	R15 Reg = "r15"
)

// Operand is anything an instruction can read or write: a register,
// an immediate, or a memory reference.
type Operand interface {
	operand()
	String() string
}

// Imm32 is a 32-bit immediate, sign-extended where the encoding
// requires it.
type Imm32 int32

func (Imm32) operand()          {}
func (i Imm32) String() string  { return fmt.Sprintf("%d", int32(i)) }

// Imm64 is a 64-bit immediate; only `mov reg, imm64` accepts one.
type Imm64 int64

func (Imm64) operand()         {}
func (i Imm64) String() string { return fmt.Sprintf("%d", int64(i)) }

func (Reg) operand()         {}
func (r Reg) String() string { return string(r) }

// Mem is a base+displacement memory operand: `[base + disp]`.
type Mem struct {
	Base Reg
	Disp int32
}

func (Mem) operand() {}
func (m Mem) String() string {
	switch {
	case m.Disp == 0:
		return fmt.Sprintf("[%s]", m.Base)
	case m.Disp > 0:
		return fmt.Sprintf("[%s + %d]", m.Base, m.Disp)
	default:
		return fmt.Sprintf("[%s - %d]", m.Base, -m.Disp)
	}
}

// MemIndex is a base+index*scale+displacement memory operand,
// used for tuple element addressing (spec.md §4.3.3 TupleGet/Set):
// `[base + index*scale + disp]`.
type MemIndex struct {
	Base  Reg
	Index Reg
	Scale int32
	Disp  int32
}

func (MemIndex) operand() {}
func (m MemIndex) String() string {
	switch {
	case m.Disp == 0:
		return fmt.Sprintf("[%s + %s*%d]", m.Base, m.Index, m.Scale)
	case m.Disp > 0:
		return fmt.Sprintf("[%s + %s*%d + %d]", m.Base, m.Index, m.Scale, m.Disp)
	default:
		return fmt.Sprintf("[%s + %s*%d - %d]", m.Base, m.Index, m.Scale, -m.Disp)
	}
}

// Label names a jump/call target or a code position.
type Label string

func (l Label) operand()       {}
func (l Label) String() string { return string(l) }

// CC is a condition code suffix for J and Cmov. The empty CC means
// "unconditional" (only valid for J).
type CC string

const (
	None CC = ""
	E    CC = "e"
	NE   CC = "ne"
	L    CC = "l"
	LE   CC = "le"
	G    CC = "g"
	GE   CC = "ge"
	O    CC = "o"
)
