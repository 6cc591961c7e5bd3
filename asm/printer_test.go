package asm

import (
	"strings"
	"testing"
)

func TestPrintBasicInstructions(t *testing.T) {
	out := Print([]Instruction{
		LabelDef{Name: "func_fact"},
		Mov{Dst: RAX, Src: Imm32(10)},
		Add{Dst: RAX, Src: RBX},
		J{CC: None, Target: "loopend_1"},
		J{CC: E, Target: "ifelse_1"},
		Cmov{CC: L, Dst: RAX, Src: Imm32(7)},
		Ret{},
	})

	wantLines := []string{
		"func_fact:",
		"mov rax, 10",
		"add rax, rbx",
		"jmp loopend_1",
		"je ifelse_1",
		"cmovl rax, 7",
		"ret",
	}
	for _, w := range wantLines {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, out)
		}
	}
}

func TestMemOperandRendering(t *testing.T) {
	m := Mem{Base: RBP, Disp: -16}
	if got := m.String(); got != "[rbp - 16]" {
		t.Errorf("expected [rbp - 16], got %q", got)
	}
	m2 := Mem{Base: RBP, Disp: 16}
	if got := m2.String(); got != "[rbp + 16]" {
		t.Errorf("expected [rbp + 16], got %q", got)
	}
}

func TestMemIndexOperandRendering(t *testing.T) {
	mi := MemIndex{Base: RAX, Index: RBX, Scale: 4, Disp: 8}
	if got := mi.String(); got != "[rax + rbx*4 + 8]" {
		t.Errorf("unexpected index operand: %q", got)
	}
}
