package asm

import (
	"fmt"
	"strings"
)

// Print renders a sequence of instructions as NASM-compatible Intel
// syntax text, one instruction per line, matching spec.md §4.4 and
// §6 (no prefix registers, `[base + disp]` memory syntax).
func Print(instrs []Instruction) string {
	var b strings.Builder
	for _, in := range instrs {
		printOne(&b, in)
	}
	return b.String()
}

func printOne(b *strings.Builder, in Instruction) {
	switch i := in.(type) {
	case LabelDef:
		fmt.Fprintf(b, "%s:\n", i.Name)
	case Comment:
		fmt.Fprintf(b, "  ; %s\n", i.Text)
	case Mov:
		fmt.Fprintf(b, "  mov %s, %s\n", i.Dst, i.Src)
	case Add:
		fmt.Fprintf(b, "  add %s, %s\n", i.Dst, i.Src)
	case Sub:
		fmt.Fprintf(b, "  sub %s, %s\n", i.Dst, i.Src)
	case Imul:
		fmt.Fprintf(b, "  imul %s, %s\n", i.Dst, i.Src)
	case And:
		fmt.Fprintf(b, "  and %s, %s\n", i.Dst, i.Src)
	case Xor:
		fmt.Fprintf(b, "  xor %s, %s\n", i.Dst, i.Src)
	case Sar:
		fmt.Fprintf(b, "  sar %s, %s\n", i.Dst, i.Src)
	case Cmp:
		fmt.Fprintf(b, "  cmp %s, %s\n", i.L, i.R)
	case Test:
		fmt.Fprintf(b, "  test %s, %s\n", i.L, i.R)
	case Push:
		fmt.Fprintf(b, "  push %s\n", i.Src)
	case Pop:
		fmt.Fprintf(b, "  pop %s\n", i.Dst)
	case Call:
		fmt.Fprintf(b, "  call %s\n", i.Target)
	case Leave:
		b.WriteString("  leave\n")
	case Ret:
		b.WriteString("  ret\n")
	case Lea:
		fmt.Fprintf(b, "  lea %s, %s\n", i.Dst, i.Src)
	case J:
		if i.CC == None {
			fmt.Fprintf(b, "  jmp %s\n", i.Target)
		} else {
			fmt.Fprintf(b, "  j%s %s\n", i.CC, i.Target)
		}
	case Cmov:
		fmt.Fprintf(b, "  cmov%s %s, %s\n", i.CC, i.Dst, i.Src)
	default:
		panic(fmt.Sprintf("asm: printer has no case for %T", in))
	}
}
