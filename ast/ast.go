// Package ast contains the tree of expression variants produced by the
// parser and consumed by the code generator.
//
// Every concrete node implements Expr via an unexported marker method,
// following the same "small sum-type of structs" shape the rest of
// this compiler uses for its instruction and token models.
package ast

// Expr is the marker interface implemented by every expression node.
type Expr interface {
	exprNode()
}

// Op1 names a unary operator.
type Op1 byte

// Unary operator table.
const (
	Add1 Op1 = iota
	Sub1
	IsNum
	IsBool
	IsTuple
	Print
)

// Op2 names a binary operator.
type Op2 byte

// Binary operator table. Eq is the source-level structural operator
// `=`; BitEq is the reference/bit-pattern operator `==`.
const (
	Plus Op2 = iota
	Minus
	Times
	Less
	Greater
	LessEq
	GreaterEq
	Eq
	BitEq
)

// Number is an integer literal, already validated against the
// [-2^62, 2^62-1] range invariant by the parser.
type Number struct {
	Value int64
}

// Boolean is a `true`/`false` literal.
type Boolean struct {
	Value bool
}

// Id is a reference to a bound identifier, including the reserved
// name `input` inside the main expression.
type Id struct {
	Name string
}

// Binding is a single (name expr) pair inside a Let.
type Binding struct {
	Name string
	Rhs  Expr
}

// Let evaluates each binding's right-hand side in order, extending the
// environment as it goes, then evaluates Body under the extended
// environment.
type Let struct {
	Bindings []Binding
	Body     Expr
}

// UnOp applies a unary operator to a single operand.
type UnOp struct {
	Op Op1
	E  Expr
}

// BinOp applies a binary operator to two operands. The right operand
// is evaluated first (see analyzer.Depth and the code generator).
type BinOp struct {
	Op Op2
	L  Expr
	R  Expr
}

// If branches on Cond: any value other than the tagged `false` takes
// Then, per spec.md's Open Question resolution (no typecheck).
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Loop repeats Body until a Break is evaluated within it.
type Loop struct {
	Body Expr
}

// Break evaluates E and exits the nearest enclosing Loop with that
// value as the loop's result.
type Break struct {
	E Expr
}

// Set assigns the result of evaluating Rhs to the existing binding
// Name. Name must already be bound and must not be `input`.
type Set struct {
	Name string
	Rhs  Expr
}

// Block evaluates each sub-expression in order; the block's value is
// the value of the last one.
type Block struct {
	Exprs []Expr
}

// Call invokes the source-level function Name with Args, pushed
// right-to-left per the stack-argument calling convention.
type Call struct {
	Name string
	Args []Expr
}

// Tuple allocates a heap tuple from the evaluated elements.
type Tuple struct {
	Elems []Expr
}

// TupleGet reads element Index of tuple E.
type TupleGet struct {
	E     Expr
	Index Expr
}

// TupleSet writes Value into element Index of tuple E. The expression
// evaluates to the stored value (spec.md's Open Question resolution).
type TupleSet struct {
	E     Expr
	Index Expr
	Value Expr
}

func (*Number) exprNode()   {}
func (*Boolean) exprNode()  {}
func (*Id) exprNode()       {}
func (*Let) exprNode()      {}
func (*UnOp) exprNode()     {}
func (*BinOp) exprNode()    {}
func (*If) exprNode()       {}
func (*Loop) exprNode()     {}
func (*Break) exprNode()    {}
func (*Set) exprNode()      {}
func (*Block) exprNode()    {}
func (*Call) exprNode()     {}
func (*Tuple) exprNode()    {}
func (*TupleGet) exprNode() {}
func (*TupleSet) exprNode() {}

// Function is one source-level function definition: an ordered list
// of distinct, non-keyword parameter names and a body expression.
type Function struct {
	Name string
	Args []string
	Body Expr
}

// Program is an ordered list of function definitions plus one main
// expression. Function names are globally unique.
type Program struct {
	Functions []Function
	Main      Expr
}
