package compiler

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/snek-lang/snekc/asm"
	"github.com/snek-lang/snekc/ast"
)

func genString(t *testing.T, e ast.Expr) string {
	t.Helper()
	g := &Generator{aligned: true}
	ctx := Context{StackIndex: 1, Funcs: map[string]int{}}
	if err := g.genExpr(ctx, e); err != nil {
		t.Fatalf("genExpr failed: %v", err)
	}
	return asm.Print(g.instrs)
}

func TestGenNumber(t *testing.T) {
	out := genString(t, &ast.Number{Value: 5})
	if !strings.Contains(out, "mov rax, 10") {
		t.Errorf("expected tagged constant 10, got:\n%s", out)
	}
}

func TestGenBooleans(t *testing.T) {
	out := genString(t, &ast.Boolean{Value: true})
	if !strings.Contains(out, "mov rax, 7") {
		t.Errorf("expected true to materialize 7, got:\n%s", out)
	}
	out = genString(t, &ast.Boolean{Value: false})
	if !strings.Contains(out, "mov rax, 3") {
		t.Errorf("expected false to materialize 3, got:\n%s", out)
	}
}

func TestGenAdd1Overflow(t *testing.T) {
	out := genString(t, &ast.UnOp{Op: ast.Add1, E: &ast.Number{Value: 1}})
	if !strings.Contains(out, "jo my_error") {
		t.Errorf("expected add1 to check overflow, got:\n%s", out)
	}
	if !strings.Contains(out, "test rax, 1") {
		t.Errorf("expected add1 to typecheck its operand, got:\n%s", out)
	}
}

func TestGenBinOpSpillsRightOperand(t *testing.T) {
	out := genString(t, &ast.BinOp{Op: ast.Plus, L: &ast.Number{Value: 1}, R: &ast.Number{Value: 2}})
	if !strings.Contains(out, "[rbp - 8]") {
		t.Errorf("expected the right operand to be spilled at slot 1, got:\n%s", out)
	}
	if !strings.Contains(out, "add rax,") {
		t.Errorf("expected a final add instruction, got:\n%s", out)
	}
}

func TestGenIfEmitsBothBranches(t *testing.T) {
	out := genString(t, &ast.If{
		Cond: &ast.Boolean{Value: true},
		Then: &ast.Number{Value: 1},
		Else: &ast.Number{Value: 2},
	})
	if !strings.Contains(out, "ifelse_") || !strings.Contains(out, "ifend_") {
		t.Errorf("expected if/else/end labels, got:\n%s", out)
	}
}

func TestGenLoopAndBreak(t *testing.T) {
	out := genString(t, &ast.Loop{Body: &ast.Break{E: &ast.Number{Value: 1}}})
	if !strings.Contains(out, "loop_") || !strings.Contains(out, "loopend_") {
		t.Errorf("expected loop/loopend labels, got:\n%s", out)
	}
}

func TestGenBreakOutsideLoopErrors(t *testing.T) {
	g := &Generator{aligned: true}
	ctx := Context{StackIndex: 1, Funcs: map[string]int{}}
	if err := g.genExpr(ctx, &ast.Break{E: &ast.Number{Value: 1}}); err == nil {
		t.Errorf("expected an error for break outside a loop")
	}
}

func TestGenTupleEmpty(t *testing.T) {
	out := genString(t, &ast.Tuple{})
	if !strings.Contains(out, "mov rax, 1") {
		t.Errorf("expected the empty tuple to materialize 1, got:\n%s", out)
	}
}

func TestGenTupleAllocatesOnHeap(t *testing.T) {
	out := genString(t, &ast.Tuple{Elems: []ast.Expr{&ast.Number{Value: 1}, &ast.Number{Value: 2}}})
	if !strings.Contains(out, "xor rax, 1") {
		t.Errorf("expected the tuple pointer to be tagged via xor, got:\n%s", out)
	}
	if !strings.Contains(out, "add r15,") {
		t.Errorf("expected the heap pointer to be bumped, got:\n%s", out)
	}
	if strings.Contains(out, "mov [r15], 4") {
		t.Errorf("expected the tuple length header to be written through a register, not a bare memory/immediate mov, got:\n%s", out)
	}
}

func TestGenTupleGetChecksEmptyTuple(t *testing.T) {
	out := genString(t, &ast.TupleGet{E: &ast.Tuple{}, Index: &ast.Number{Value: 0}})
	if !strings.Contains(out, "cmp rbx, 1") {
		t.Errorf("expected an explicit empty-tuple check, got:\n%s", out)
	}
}

func TestGenCallUndefinedFunctionErrors(t *testing.T) {
	g := &Generator{aligned: true}
	ctx := Context{StackIndex: 1, Funcs: map[string]int{}}
	if err := g.genExpr(ctx, &ast.Call{Name: "missing"}); err == nil {
		t.Errorf("expected an error calling an undefined function")
	}
}

func TestGenCallArityMismatchErrors(t *testing.T) {
	g := &Generator{aligned: true}
	ctx := Context{StackIndex: 1, Funcs: map[string]int{"f": 2}}
	if err := g.genExpr(ctx, &ast.Call{Name: "f", Args: []ast.Expr{&ast.Number{Value: 1}}}); err == nil {
		t.Errorf("expected an arity mismatch error")
	}
}

func TestGenPrintPreservesRDI(t *testing.T) {
	out := genString(t, &ast.UnOp{Op: ast.Print, E: &ast.Number{Value: 1}})
	if !strings.Contains(out, "push rdi") || !strings.Contains(out, "pop rdi") {
		t.Errorf("expected print to save/restore rdi around the call, got:\n%s", out)
	}
	if !strings.Contains(out, "call snek_print") {
		t.Errorf("expected a call to snek_print, got:\n%s", out)
	}
}

func TestGenStructuralEqCallsRuntime(t *testing.T) {
	out := genString(t, &ast.BinOp{Op: ast.Eq, L: &ast.Number{Value: 1}, R: &ast.Number{Value: 1}})
	if !strings.Contains(out, "call snek_structural_eq_true") {
		t.Errorf("expected a call to snek_structural_eq_true, got:\n%s", out)
	}
}

// TestGenNumberExactInstructions pins down the exact instruction
// sequence for a bare literal, rather than substring-matching the
// printed form, so a future refactor of the printer can't mask a
// change to what's actually emitted.
func TestGenNumberExactInstructions(t *testing.T) {
	g := &Generator{aligned: true}
	ctx := Context{StackIndex: 1, Funcs: map[string]int{}}
	if err := g.genExpr(ctx, &ast.Number{Value: 21}); err != nil {
		t.Fatalf("genExpr failed: %v", err)
	}

	want := []asm.Instruction{
		asm.Mov{Dst: asm.RAX, Src: asm.Imm64(42)},
	}
	if diff := cmp.Diff(want, g.instrs); diff != "" {
		t.Errorf("unexpected instructions for a number literal (-want +got):\n%s", diff)
	}
}
