package env

import "testing"

func TestExtendAndLookup(t *testing.T) {
	var e *Env
	e = e.Extend("x", -1)
	e2 := e.Extend("y", -2)

	if slot, ok := e2.Lookup("x"); !ok || slot != -1 {
		t.Errorf("expected x to resolve to -1, got %d, %v", slot, ok)
	}
	if slot, ok := e2.Lookup("y"); !ok || slot != -2 {
		t.Errorf("expected y to resolve to -2, got %d, %v", slot, ok)
	}

	// e must be unaffected by e2's extension (persistence / sharing).
	if _, ok := e.Lookup("y"); ok {
		t.Errorf("extending e2 leaked a binding back into e")
	}
}

func TestShadowing(t *testing.T) {
	var e *Env
	e = e.Extend("x", -1)
	e = e.Extend("x", -2)

	slot, ok := e.Lookup("x")
	if !ok || slot != -2 {
		t.Errorf("expected innermost binding -2, got %d, %v", slot, ok)
	}
}

func TestUnbound(t *testing.T) {
	var e *Env
	if e.Bound("anything") {
		t.Errorf("empty environment should bind nothing")
	}
}

func TestInputSentinel(t *testing.T) {
	var e *Env
	e = e.Extend("input", InputSlot)
	slot, ok := e.Lookup("input")
	if !ok || slot != InputSlot {
		t.Errorf("expected input sentinel to round-trip, got %d, %v", slot, ok)
	}
}
