package compiler

import (
	"strings"

	"github.com/snek-lang/snekc/asm"
)

// Assemble wraps the lowered function/main instructions in the fixed
// NASM preamble (section directive, extern declarations) and the
// shared error trampoline (spec.md §4.3.4, §4.5), then prints the
// whole thing as NASM-compatible Intel-syntax assembly text.
func Assemble(body []asm.Instruction) string {
	var b strings.Builder

	b.WriteString("section .text\n")
	b.WriteString("extern snek_error\n")
	b.WriteString("extern snek_print\n")
	b.WriteString("extern snek_structural_eq_true\n")
	b.WriteString("global our_code_starts_here\n\n")

	b.WriteString(asm.Print(body))

	b.WriteString("\n")
	b.WriteString(asm.Print(errorTrampoline()))

	return b.String()
}

// errorTrampoline is the single `my_error` landing pad every
// typecheck/overflow/bounds failure jumps to. rsi already holds the
// error code by the time control reaches here; the trampoline
// realigns the stack, moves the code into rdi (snek_error's actual
// argument register), and calls into the runtime, which never
// returns.
func errorTrampoline() []asm.Instruction {
	return []asm.Instruction{
		asm.LabelDef{Name: myError},
		asm.And{Dst: asm.RSP, Src: asm.Imm32(-16)},
		asm.Mov{Dst: asm.RDI, Src: asm.RSI},
		asm.Call{Target: "snek_error"},
	}
}
