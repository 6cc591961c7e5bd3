// Package env implements the compile-time environment: a mapping
// from identifier to a stack-slot descriptor.
//
// spec.md §1 names the compile-time environment's backing structure
// ("an immutable map library... specified here as an ordered
// associative structure") as an external collaborator deliberately
// out of scope. No immutable/ordered-map library exists anywhere in
// the retrieval pack (see DESIGN.md), so Env is a small hand-rolled
// persistent singly-linked association list: Extend never mutates
// the receiver, so a binding made down one recursive branch can
// never be observed by a sibling branch that shares the same parent.
package env

import "math"

// InputSlot is the sentinel slot value meaning "read the
// caller-provided input from its argument register" — spec.md's MAX.
const InputSlot = math.MaxInt32

// Env is an immutable, persistent association from identifier name to
// stack slot. The zero value is the empty environment.
type Env struct {
	name string
	slot int
	next *Env
}

// Extend returns a new environment that shadows any existing binding
// of name with slot, without modifying e.
func (e *Env) Extend(name string, slot int) *Env {
	return &Env{name: name, slot: slot, next: e}
}

// Lookup finds the innermost binding of name, if any.
func (e *Env) Lookup(name string) (int, bool) {
	for n := e; n != nil; n = n.next {
		if n.name == name {
			return n.slot, true
		}
	}
	return 0, false
}

// Bound reports whether name has any binding at all.
func (e *Env) Bound(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}
