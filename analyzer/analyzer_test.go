package analyzer

import (
	"testing"

	"github.com/snek-lang/snekc/parser"
)

func depthOf(t *testing.T, src string) int {
	t.Helper()
	prog, err := parser.Parse("(" + src + ")")
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %s", src, err)
	}
	return Depth(prog.Main)
}

func TestAtomsNeedNoSlots(t *testing.T) {
	if d := depthOf(t, "42"); d != 0 {
		t.Errorf("expected 0, got %d", d)
	}
	if d := depthOf(t, "true"); d != 0 {
		t.Errorf("expected 0, got %d", d)
	}
}

func TestBinOpSpillsRight(t *testing.T) {
	// right operand evaluated first and spilled, so depth is
	// max(depth(r), depth(l)+1).
	if d := depthOf(t, "(+ 1 2)"); d != 1 {
		t.Errorf("expected 1, got %d", d)
	}
}

func TestLetAccumulatesPerBinder(t *testing.T) {
	if d := depthOf(t, "(let ((a 1) (b 2) (c 3)) (+ a (+ b c)))"); d != 4 {
		t.Errorf("expected 4, got %d", d)
	}
}

func TestTupleAccumulatesPerElement(t *testing.T) {
	if d := depthOf(t, "(tuple 1 2 3)"); d != 3 {
		t.Errorf("expected 3, got %d", d)
	}
}

func TestTupleGetAndSet(t *testing.T) {
	if d := depthOf(t, "(tuple-get (tuple 1 2) 0)"); d != 3 {
		t.Errorf("expected 3, got %d", d)
	}
	if d := depthOf(t, "(tuple-set! (tuple 1 2) 0 5)"); d != 3 {
		t.Errorf("expected 3, got %d", d)
	}
}

func TestIfTakesMaxOfBranches(t *testing.T) {
	if d := depthOf(t, "(if true (+ 1 2) 3)"); d != 1 {
		t.Errorf("expected 1, got %d", d)
	}
}
