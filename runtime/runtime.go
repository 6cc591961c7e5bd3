// Package runtime links the NASM-assembled program produced by the
// compiler against a small Go/cgo shim: it calls into
// `our_code_starts_here` and, in the other direction, is the landing
// site for the `snek_error`, `snek_print`, and
// `snek_structural_eq_true` symbols the generated assembly calls out
// to (spec.md §4.12). It is grounded on the original Rust runtime
// shim (original_source/runtime/start.rs), translated from Rust FFI
// into the idiomatic Go/cgo equivalent rather than carried over
// verbatim.
package runtime

/*
#cgo LDFLAGS: ${SRCDIR}/our_code.o
#include <stdint.h>

extern int64_t our_code_starts_here(int64_t input, int64_t *heap);
*/
import "C"

import (
	"fmt"
	"os"
	"strconv"
	"unsafe"

	"github.com/snek-lang/snekc/stack"
	"github.com/snek-lang/snekc/value"
)

// heapWords is the fixed bump-pointer heap arena size, in 8-byte
// words (spec.md §4.12, matching the original runtime's allocation).
const heapWords = 0x1000000

// Run links and executes the assembled program: this package's cgo
// directive statically links the object file at
// `runtime/our_code.o`, the path `snekc build --link` (see
// config.Config.RuntimeArchive and cli.runBuild) writes the
// assembled program to before `cmd/snek-run` is built. This mirrors
// the original runtime binary's `#[link(name = "our_code")]` — only
// the link step moves from Cargo's build script to this module's CLI.
func Run(input int64) int64 {
	heap := make([]int64, heapWords)
	return int64(C.our_code_starts_here(C.int64_t(input), (*C.int64_t)(unsafe.Pointer(&heap[0]))))
}

// PrintResult prints val the way the host's main loop always prints
// the program's final result, regardless of whether the program also
// called print explicitly on some intermediate value.
func PrintResult(val int64) {
	fmt.Println(snekStr(val, stack.New()))
}

// ParseInput converts a command-line input string into its tagged
// representation, mirroring the original runtime's parse_input.
func ParseInput(s string) (int64, error) {
	switch s {
	case "", "false":
		return value.False, nil
	case "true":
		return value.True, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid input %q: %w", s, err)
	}
	if n < value.MinInt || n > value.MaxInt {
		return 0, fmt.Errorf("input %d is out of the representable range [%d, %d]", n, value.MinInt, value.MaxInt)
	}
	return value.EncodeInt(n), nil
}

//export snek_error
func snek_error(errcode C.int64_t) {
	msg := errorMessage(int64(errcode))
	fmt.Fprintf(os.Stderr, "an error ocurred %s\n", msg)
	os.Exit(1)
}

func errorMessage(code int64) string {
	switch code {
	case value.ErrInvalidArgument:
		return "invalid argument"
	case value.ErrOverflow:
		return "overflow"
	case value.ErrIndexOutOfRange:
		return "index out of range"
	default:
		return fmt.Sprintf("error code %d", code)
	}
}

//export snek_print
func snek_print(val C.int64_t) C.int64_t {
	seen := stack.New()
	fmt.Println(snekStr(int64(val), seen))
	return val
}

//export snek_structural_eq_true
func snek_structural_eq_true(a, b C.int64_t) C.int64_t {
	if snekEq(int64(a), int64(b), stack.New(), stack.New()) {
		return C.int64_t(value.True)
	}
	return C.int64_t(value.False)
}

// snekStr renders val the way the runtime's print helper does,
// eliding any tuple whose address is already being printed with
// "(...)" instead of recursing forever on a cyclic structure.
func snekStr(val int64, seen *stack.Stack) string {
	switch {
	case val == value.True:
		return "true"
	case val == value.False:
		return "false"
	case value.IsInt(val):
		return strconv.FormatInt(value.DecodeInt(val), 10)
	case val == value.EmptyTuple:
		return "()"
	case value.IsTuplePointer(val):
		addr := int64(val - 1)
		if seen.Contains(addr) {
			return "(...)"
		}
		seen.Push(addr)
		defer seen.Pop()

		n := value.DecodeInt(heapWord(addr, 0))
		parts := make([]string, n)
		for i := int64(0); i < n; i++ {
			parts[i] = snekStr(heapWord(addr, i+1), seen)
		}
		return "(" + joinSpace(parts) + ")"
	default:
		return fmt.Sprintf("unknown value: %d", val)
	}
}

// snekEq implements the structural-equality helper. Each side tracks
// its own visited-address stack; when a cycle is detected on *both*
// sides at once the comparison treats it as equal, the "optimistic on
// cycle" rule spec.md §9 names for this operator.
func snekEq(a, b int64, seenA, seenB *stack.Stack) bool {
	if a == b {
		return true
	}
	if !value.IsTuplePointer(a) || !value.IsTuplePointer(b) {
		return false
	}
	addrA, addrB := a-1, b-1
	if seenA.Contains(addrA) && seenB.Contains(addrB) {
		return true
	}

	lenA := heapWord(addrA, 0)
	lenB := heapWord(addrB, 0)
	if lenA != lenB {
		return false
	}

	seenA.Push(addrA)
	seenB.Push(addrB)
	defer seenA.Pop()
	defer seenB.Pop()

	n := value.DecodeInt(lenA)
	for i := int64(0); i < n; i++ {
		if !snekEq(heapWord(addrA, i+1), heapWord(addrB, i+1), seenA, seenB) {
			return false
		}
	}
	return true
}

// heapWord reads the idx'th 8-byte word starting at addr, a raw heap
// address (already untagged). The memory addr points into is the
// slice Run handed to the assembled program; cgo's pointer-passing
// rules keep it pinned and live for the duration of that call, so
// reconstructing a pointer from the address here is safe.
func heapWord(addr int64, idx int64) int64 {
	p := (*int64)(unsafe.Pointer(uintptr(addr) + uintptr(8*idx)))
	return *p
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
