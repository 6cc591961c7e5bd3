// Package value holds the single fixed tagged-value convention
// spec.md §3 defines — the numeric shifts and tag-bit patterns shared
// by the code generator and the runtime. Nothing in this package is
// specific to either side; it exists so the two halves can never
// drift out of sync about what a bit pattern means.
package value

// Bool and empty-tuple tags (spec.md §3's fixed bit patterns).
const (
	True       int64 = 7
	False      int64 = 3
	EmptyTuple int64 = 1
)

// MinInt and MaxInt bound the representable integer range: the
// low tag bit halves the usable range of a 64-bit word.
const (
	MinInt = -(1 << 62)
	MaxInt = (1 << 62) - 1
)

// Error codes for the shared trampoline (spec.md §4.3.4, §7).
const (
	ErrInvalidArgument int64 = 1
	ErrOverflow        int64 = 2
	ErrIndexOutOfRange int64 = 3
)

// EncodeInt returns the tagged representation of an in-range integer.
func EncodeInt(n int64) int64 { return n << 1 }

// DecodeInt reverses EncodeInt; callers must already know v is tagged
// as an integer (low bit clear).
func DecodeInt(v int64) int64 { return v >> 1 }

// IsInt reports whether the low bit of v is clear, marking it as a
// signed integer rather than a boolean or tuple pointer.
func IsInt(v int64) bool { return v&1 == 0 }

// IsTuplePointer reports whether v's low two bits are `01` and it is
// not the empty-tuple sentinel.
func IsTuplePointer(v int64) bool { return v&0b11 == 1 && v != EmptyTuple }
