package compiler

import (
	"strings"
	"testing"

	"github.com/snek-lang/snekc/asm"
	"github.com/snek-lang/snekc/ast"
)

func TestBogusInput(t *testing.T) {
	tests := []string{
		"",
		"(fun (main) 1",
		"(add1 )",
		"(let ((x 1) (x 2)) x)",
	}

	for _, test := range tests {
		c := New(test)
		if _, err := c.Compile(); err == nil {
			t.Errorf("expected an error compiling %q, got none", test)
		}
	}
}

func TestValidPrograms(t *testing.T) {
	tests := []string{
		"5",
		"(add1 5)",
		"(+ 1 2)",
		"(let ((x 5)) (+ x 1))",
		"(if true 1 2)",
		"(loop (break 1))",
		"(fun (id x) x) (id 5)",
		"(tuple 1 2 3)",
		"(tuple-get (tuple 1 2 3) 0)",
		"(print input)",
		"(= 1 1)",
		"(== true true)",
	}

	for _, test := range tests {
		c := New(test)
		out, err := c.Compile()
		if err != nil {
			t.Errorf("unexpected error compiling %q: %v", test, err)
			continue
		}
		if !strings.Contains(out, "our_code_starts_here") {
			t.Errorf("expected output for %q to define our_code_starts_here", test)
		}
		if !strings.Contains(out, "my_error") {
			t.Errorf("expected output for %q to contain the error trampoline", test)
		}
	}
}

func TestUnboundIdentifierRejected(t *testing.T) {
	c := New("x")
	if _, err := c.Compile(); err == nil {
		t.Errorf("expected unbound identifier to fail compilation")
	}
}

func TestBreakOutsideLoopRejected(t *testing.T) {
	c := New("(break 1)")
	if _, err := c.Compile(); err == nil {
		t.Errorf("expected break outside any loop to fail compilation")
	}
}

func TestUndefinedFunctionCallRejected(t *testing.T) {
	c := New("(foo 1 2)")
	if _, err := c.Compile(); err == nil {
		t.Errorf("expected call to undefined function to fail compilation")
	}
}

func TestFunctionArityMismatchRejected(t *testing.T) {
	c := New("(fun (f x y) (+ x y)) (f 1)")
	if _, err := c.Compile(); err == nil {
		t.Errorf("expected arity mismatch to fail compilation")
	}
}

func TestSetInputRejected(t *testing.T) {
	c := New("(set! input 5)")
	if _, err := c.Compile(); err == nil {
		t.Errorf("expected set! of input to fail compilation")
	}
}

func TestDebugFlagDoesNotBreakCompilation(t *testing.T) {
	c := New("(+ 1 2)")
	c.SetDebug(true)
	if _, err := c.Compile(); err != nil {
		t.Errorf("unexpected error with debug enabled: %v", err)
	}
}

// TestGenFunctionOddDepthPadsBeforeCall pins down the alignment-parity
// fix: a function whose body needs an odd number of local slots
// leaves rsp 8-byte misaligned after the prologue's `sub rsp, 8*depth`
// (push rbp lands on a 16-aligned boundary; an odd depth then steps
// off it), so any `call` inside that body must see the true parity,
// not an assumed "always aligned".
func TestGenFunctionOddDepthPadsBeforeCall(t *testing.T) {
	fn := ast.Function{
		Name: "f",
		Body: &ast.BinOp{
			Op: ast.Plus,
			L:  &ast.Call{Name: "g"},
			R:  &ast.Number{Value: 1},
		},
	}
	funcs := map[string]int{"f": 0, "g": 0}

	g := &Generator{}
	if err := g.genFunction(fn, funcs); err != nil {
		t.Fatalf("genFunction failed: %v", err)
	}

	out := asm.Print(g.instrs)
	if !strings.Contains(out, "sub rsp, 8\n  call func_g") {
		t.Errorf("expected the zero-argument nested call to be padded for alignment in an odd-depth frame, got:\n%s", out)
	}
}
