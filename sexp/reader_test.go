package sexp

import "testing"

func TestReadAtom(t *testing.T) {
	n, err := Read("42")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !n.IsAtom() || n.Atom != "42" {
		t.Errorf("expected atom 42, got %+v", n)
	}
}

func TestReadList(t *testing.T) {
	n, err := Read("(+ 1 (add1 2))")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n.IsAtom() {
		t.Fatalf("expected a list")
	}
	if len(n.List) != 3 {
		t.Fatalf("expected 3 children, got %d", len(n.List))
	}
	if n.List[0].Atom != "+" {
		t.Errorf("expected head '+', got %q", n.List[0].Atom)
	}
	nested := n.List[2]
	if nested.IsAtom() || len(nested.List) != 2 || nested.List[0].Atom != "add1" {
		t.Errorf("expected nested (add1 2), got %+v", nested)
	}
}

func TestReadEmptyInput(t *testing.T) {
	if _, err := Read(""); err == nil {
		t.Errorf("expected an error for empty input")
	}
	if _, err := Read("   "); err == nil {
		t.Errorf("expected an error for whitespace-only input")
	}
}

func TestReadUnbalanced(t *testing.T) {
	cases := []string{"(+ 1 2", "+ 1 2)", "()()"}
	for _, c := range cases {
		if _, err := Read(c); err == nil {
			t.Errorf("expected an error for %q", c)
		}
	}
}

func TestReadTrailingGarbage(t *testing.T) {
	if _, err := Read("(+ 1 2) 3"); err == nil {
		t.Errorf("expected trailing input after the first form to be rejected")
	}
}
