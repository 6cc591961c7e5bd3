package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	s := New()

	if !s.Empty() {
		t.Errorf("new stack is not empty")
	}

	s.Push(0x1000)

	if s.Empty() {
		t.Errorf("despite storing a value the stack is still empty")
	}
}

func TestPushPopContains(t *testing.T) {
	s := New()

	s.Push(0x1000)
	s.Push(0x1008)

	if !s.Contains(0x1000) {
		t.Errorf("expected the stack to contain the first pushed address")
	}
	if !s.Contains(0x1008) {
		t.Errorf("expected the stack to contain the second pushed address")
	}
	if s.Contains(0x2000) {
		t.Errorf("did not expect the stack to contain an address never pushed")
	}

	s.Pop()
	if s.Contains(0x1008) {
		t.Errorf("expected pop to remove the most recently pushed address")
	}
	if !s.Contains(0x1000) {
		t.Errorf("expected the earlier address to still be present")
	}
}

func TestPopOnEmptyIsNoOp(t *testing.T) {
	s := New()
	s.Pop()
	assert.True(t, s.Empty(), "popping an empty stack should remain empty")
}

func TestContainsIsIndependentPerInstance(t *testing.T) {
	a := New()
	b := New()

	a.Push(0x2000)

	assert.True(t, a.Contains(0x2000))
	assert.False(t, b.Contains(0x2000), "a second stack should not see the first one's addresses")
}
