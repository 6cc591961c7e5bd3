// generator.go lowers AST expressions into abstract assembly
// instructions, one construct at a time — the same per-construct
// `gen*` shape the teacher used for its RPN operators, now lowering
// s-expression constructs to x86-64 instead of stack-machine opcodes.

package compiler

import (
	"fmt"

	"github.com/snek-lang/snekc/ast"
	"github.com/snek-lang/snekc/asm"
	"github.com/snek-lang/snekc/env"
	"github.com/snek-lang/snekc/value"
)

// myError names the shared error trampoline every typecheck,
// overflow, and bounds-check failure jumps to (spec.md §4.3.4).
const myError asm.Label = "my_error"

const (
	runtimePrint      asm.Label = "snek_print"
	runtimeStructural asm.Label = "snek_structural_eq_true"
)

// Generator lowers a parsed AST into abstract assembly. The label
// counter and alignment-parity flag are its only mutable fields;
// everything else about a particular lowering (environment, stack
// index, break target) is threaded explicitly through Context.
type Generator struct {
	instrs  []asm.Instruction
	labelN  int
	aligned bool
}

func (g *Generator) emit(i asm.Instruction) { g.instrs = append(g.instrs, i) }

func (g *Generator) newLabel(prefix string) asm.Label {
	g.labelN++
	return asm.Label(fmt.Sprintf("%s_%d", prefix, g.labelN))
}

func (g *Generator) push(op asm.Operand) {
	g.emit(asm.Push{Src: op})
	g.aligned = !g.aligned
}

func (g *Generator) pop(op asm.Operand) {
	g.emit(asm.Pop{Dst: op})
	g.aligned = !g.aligned
}

func (g *Generator) checkInteger(reg asm.Operand) {
	g.emit(asm.Test{L: reg, R: asm.Imm32(1)})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrInvalidArgument))})
	g.emit(asm.J{CC: asm.NE, Target: myError})
}

// callRuntime1 calls a one-argument extern runtime helper with arg in
// rdi, preserving the caller's rdi (e.g. the `input` register) across
// the call and honoring the 16-byte alignment invariant.
func (g *Generator) callRuntime1(target asm.Label, arg asm.Operand) {
	g.push(asm.RDI)
	g.emit(asm.Mov{Dst: asm.RDI, Src: arg})
	pad := !g.aligned
	if pad {
		g.emit(asm.Sub{Dst: asm.RSP, Src: asm.Imm32(8)})
		g.aligned = true
	}
	g.emit(asm.Call{Target: target})
	if pad {
		g.emit(asm.Add{Dst: asm.RSP, Src: asm.Imm32(8)})
		g.aligned = false
	}
	g.pop(asm.RDI)
}

// callRuntime2 is callRuntime1 with a second argument passed in rsi.
func (g *Generator) callRuntime2(target asm.Label, arg1, arg2 asm.Operand) {
	g.push(asm.RDI)
	g.emit(asm.Mov{Dst: asm.RDI, Src: arg1})
	g.emit(asm.Mov{Dst: asm.RSI, Src: arg2})
	pad := !g.aligned
	if pad {
		g.emit(asm.Sub{Dst: asm.RSP, Src: asm.Imm32(8)})
		g.aligned = true
	}
	g.emit(asm.Call{Target: target})
	if pad {
		g.emit(asm.Add{Dst: asm.RSP, Src: asm.Imm32(8)})
		g.aligned = false
	}
	g.pop(asm.RDI)
}

// genExpr lowers e under ctx, leaving its value in rax.
func (g *Generator) genExpr(ctx Context, e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Number:
		g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm64(value.EncodeInt(n.Value))})
		return nil

	case *ast.Boolean:
		v := value.False
		if n.Value {
			v = value.True
		}
		g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm32(int32(v))})
		return nil

	case *ast.Id:
		slot, ok := ctx.Env.Lookup(n.Name)
		if !ok {
			return fmt.Errorf("unbound identifier %q", n.Name)
		}
		if slot == env.InputSlot {
			g.emit(asm.Mov{Dst: asm.RAX, Src: asm.RDI})
		} else {
			g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Mem{Base: asm.RBP, Disp: int32(slot)}})
		}
		return nil

	case *ast.UnOp:
		return g.genUnOp(ctx, n)

	case *ast.BinOp:
		return g.genBinOp(ctx, n)

	case *ast.Let:
		return g.genLet(ctx, n)

	case *ast.If:
		return g.genIf(ctx, n)

	case *ast.Loop:
		return g.genLoop(ctx, n)

	case *ast.Break:
		if ctx.BreakLabel == "" {
			return fmt.Errorf("break outside any loop")
		}
		if err := g.genExpr(ctx, n.E); err != nil {
			return err
		}
		g.emit(asm.J{CC: asm.None, Target: ctx.BreakLabel})
		return nil

	case *ast.Set:
		return g.genSet(ctx, n)

	case *ast.Block:
		for _, c := range n.Exprs {
			if err := g.genExpr(ctx, c); err != nil {
				return err
			}
		}
		return nil

	case *ast.Call:
		return g.genCall(ctx, n)

	case *ast.Tuple:
		return g.genTuple(ctx, n)

	case *ast.TupleGet:
		return g.genTupleGet(ctx, n)

	case *ast.TupleSet:
		return g.genTupleSet(ctx, n)
	}
	return fmt.Errorf("compiler: unhandled expression type %T", e)
}

// genUnOp evaluates n.E, then applies n.Op to the value left in rax.
func (g *Generator) genUnOp(ctx Context, n *ast.UnOp) error {
	if err := g.genExpr(ctx, n.E); err != nil {
		return err
	}
	switch n.Op {
	case ast.Add1:
		g.checkInteger(asm.RAX)
		g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrOverflow))})
		g.emit(asm.Add{Dst: asm.RAX, Src: asm.Imm32(2)})
		g.emit(asm.J{CC: asm.O, Target: myError})
		return nil

	case ast.Sub1:
		g.checkInteger(asm.RAX)
		g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrOverflow))})
		g.emit(asm.Sub{Dst: asm.RAX, Src: asm.Imm32(2)})
		g.emit(asm.J{CC: asm.O, Target: myError})
		return nil

	case ast.IsNum:
		g.genTagCheck(0b1, 0b0)
		return nil

	case ast.IsBool:
		g.genTagCheck(0b11, 0b11)
		return nil

	case ast.IsTuple:
		g.genTagCheck(0b11, 0b1)
		return nil

	case ast.Print:
		g.callRuntime1(runtimePrint, asm.RAX)
		return nil

	default:
		return fmt.Errorf("compiler: unhandled unary operator %v", n.Op)
	}
}

// genTagCheck materializes true/false in rax based on whether rax's
// low bits, masked by mask, equal pattern. rax itself is the value
// under test, so it is saved to rcx before being clobbered.
func (g *Generator) genTagCheck(mask, pattern int32) {
	g.emit(asm.Mov{Dst: asm.RCX, Src: asm.RAX})
	g.emit(asm.And{Dst: asm.RCX, Src: asm.Imm32(mask)})
	g.emit(asm.Cmp{L: asm.RCX, R: asm.Imm32(pattern)})
	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm32(int32(value.False))})
	g.emit(asm.Mov{Dst: asm.RBX, Src: asm.Imm32(int32(value.True))})
	g.emit(asm.Cmov{CC: asm.E, Dst: asm.RAX, Src: asm.RBX})
}

// genBinOp implements spec.md §4.2/§4.3.3's shared shape for all
// binary operators but Eq: evaluate the right operand, spill it,
// evaluate the left operand, then combine.
func (g *Generator) genBinOp(ctx Context, n *ast.BinOp) error {
	if n.Op == ast.Eq {
		return g.genStructuralEq(ctx, n)
	}

	si := ctx.StackIndex
	if err := g.genExpr(ctx, n.R); err != nil {
		return err
	}
	numeric := n.Op != ast.BitEq
	if numeric {
		g.checkInteger(asm.RAX)
	}
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: localDisp(si)}, Src: asm.RAX})

	lctx := ctx
	lctx.StackIndex = si + 1
	if err := g.genExpr(lctx, n.L); err != nil {
		return err
	}
	if numeric {
		g.checkInteger(asm.RAX)
	}

	rhs := asm.Mem{Base: asm.RBP, Disp: localDisp(si)}

	switch n.Op {
	case ast.Plus:
		g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrOverflow))})
		g.emit(asm.Add{Dst: asm.RAX, Src: rhs})
		g.emit(asm.J{CC: asm.O, Target: myError})
	case ast.Minus:
		g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrOverflow))})
		g.emit(asm.Sub{Dst: asm.RAX, Src: rhs})
		g.emit(asm.J{CC: asm.O, Target: myError})
	case ast.Times:
		g.emit(asm.Sar{Dst: asm.RAX, Src: asm.Imm32(1)})
		g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrOverflow))})
		g.emit(asm.Imul{Dst: asm.RAX, Src: rhs})
		g.emit(asm.J{CC: asm.O, Target: myError})
	case ast.Less, ast.Greater, ast.LessEq, ast.GreaterEq, ast.BitEq:
		cc := cmpCC(n.Op)
		g.emit(asm.Cmp{L: asm.RAX, R: rhs})
		g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm32(int32(value.False))})
		g.emit(asm.Mov{Dst: asm.RBX, Src: asm.Imm32(int32(value.True))})
		g.emit(asm.Cmov{CC: cc, Dst: asm.RAX, Src: asm.RBX})
	default:
		return fmt.Errorf("compiler: unhandled binary operator %v", n.Op)
	}
	return nil
}

func cmpCC(op ast.Op2) asm.CC {
	switch op {
	case ast.Less:
		return asm.L
	case ast.Greater:
		return asm.G
	case ast.LessEq:
		return asm.LE
	case ast.GreaterEq:
		return asm.GE
	case ast.BitEq:
		return asm.E
	}
	return asm.E
}

// genStructuralEq lowers the `=` operator, which calls into the
// runtime's cycle-aware equality helper rather than comparing tags
// in generated code (spec.md §9).
func (g *Generator) genStructuralEq(ctx Context, n *ast.BinOp) error {
	si := ctx.StackIndex
	if err := g.genExpr(ctx, n.R); err != nil {
		return err
	}
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: localDisp(si)}, Src: asm.RAX})

	lctx := ctx
	lctx.StackIndex = si + 1
	if err := g.genExpr(lctx, n.L); err != nil {
		return err
	}

	rhs := asm.Mem{Base: asm.RBP, Disp: localDisp(si)}
	g.callRuntime2(runtimeStructural, asm.RAX, rhs)
	return nil
}

func (g *Generator) genLet(ctx Context, n *ast.Let) error {
	curEnv := ctx.Env
	si := ctx.StackIndex
	for i, b := range n.Bindings {
		bctx := ctx
		bctx.Env = curEnv
		bctx.StackIndex = si + i
		if err := g.genExpr(bctx, b.Rhs); err != nil {
			return err
		}
		disp := localDisp(si + i)
		g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: disp}, Src: asm.RAX})
		curEnv = curEnv.Extend(b.Name, int(disp))
	}
	bodyCtx := ctx
	bodyCtx.Env = curEnv
	bodyCtx.StackIndex = si + len(n.Bindings)
	return g.genExpr(bodyCtx, n.Body)
}

func (g *Generator) genIf(ctx Context, n *ast.If) error {
	if err := g.genExpr(ctx, n.Cond); err != nil {
		return err
	}
	elseLabel := g.newLabel("ifelse")
	endLabel := g.newLabel("ifend")
	g.emit(asm.Cmp{L: asm.RAX, R: asm.Imm32(int32(value.False))})
	g.emit(asm.J{CC: asm.E, Target: elseLabel})
	if err := g.genExpr(ctx, n.Then); err != nil {
		return err
	}
	g.emit(asm.J{CC: asm.None, Target: endLabel})
	g.emit(asm.LabelDef{Name: elseLabel})
	if err := g.genExpr(ctx, n.Else); err != nil {
		return err
	}
	g.emit(asm.LabelDef{Name: endLabel})
	return nil
}

func (g *Generator) genLoop(ctx Context, n *ast.Loop) error {
	top := g.newLabel("loop")
	end := g.newLabel("loopend")
	lctx := ctx
	lctx.BreakLabel = end
	g.emit(asm.LabelDef{Name: top})
	if err := g.genExpr(lctx, n.Body); err != nil {
		return err
	}
	g.emit(asm.J{CC: asm.None, Target: top})
	g.emit(asm.LabelDef{Name: end})
	return nil
}

func (g *Generator) genSet(ctx Context, n *ast.Set) error {
	slot, ok := ctx.Env.Lookup(n.Name)
	if !ok {
		return fmt.Errorf("unbound identifier %q", n.Name)
	}
	if slot == env.InputSlot {
		return fmt.Errorf("cannot set! the reserved name input")
	}
	if err := g.genExpr(ctx, n.Rhs); err != nil {
		return err
	}
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: int32(slot)}, Src: asm.RAX})
	return nil
}

func (g *Generator) genCall(ctx Context, n *ast.Call) error {
	arity, ok := ctx.Funcs[n.Name]
	if !ok {
		return fmt.Errorf("call to undefined function %q", n.Name)
	}
	if arity != len(n.Args) {
		return fmt.Errorf("function %q expects %d argument(s), got %d", n.Name, arity, len(n.Args))
	}

	nargs := len(n.Args)
	startParity := g.aligned
	finalParity := g.aligned
	for i := 0; i < nargs; i++ {
		finalParity = !finalParity
	}
	pad := !finalParity
	if pad {
		g.emit(asm.Sub{Dst: asm.RSP, Src: asm.Imm32(8)})
		g.aligned = !g.aligned
	}
	for i := nargs - 1; i >= 0; i-- {
		if err := g.genExpr(ctx, n.Args[i]); err != nil {
			return err
		}
		g.push(asm.RAX)
	}
	g.emit(asm.Call{Target: asm.Label("func_" + n.Name)})
	total := nargs
	if pad {
		total++
	}
	if total > 0 {
		g.emit(asm.Add{Dst: asm.RSP, Src: asm.Imm32(int32(8 * total))})
	}
	g.aligned = startParity
	return nil
}

func (g *Generator) genTuple(ctx Context, n *ast.Tuple) error {
	if len(n.Elems) == 0 {
		g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm32(int32(value.EmptyTuple))})
		return nil
	}
	si := ctx.StackIndex
	for i, el := range n.Elems {
		ectx := ctx
		ectx.StackIndex = si + i
		if err := g.genExpr(ectx, el); err != nil {
			return err
		}
		g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: localDisp(si + i)}, Src: asm.RAX})
	}

	count := len(n.Elems)
	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Imm32(int32(value.EncodeInt(int64(count))))})
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.R15, Disp: 0}, Src: asm.RAX})
	for i := 0; i < count; i++ {
		g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Mem{Base: asm.RBP, Disp: localDisp(si + i)}})
		g.emit(asm.Mov{Dst: asm.Mem{Base: asm.R15, Disp: int32(8 * (i + 1))}, Src: asm.RAX})
	}
	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.R15})
	g.emit(asm.Xor{Dst: asm.RAX, Src: asm.Imm32(1)})
	g.emit(asm.Add{Dst: asm.R15, Src: asm.Imm32(int32(8 * (count + 1)))})
	return nil
}

// genTupleGet follows spec.md §4.2's depth formula for TupleGet
// exactly: the index needs no reserved slot beyond its own depth, the
// tuple expression needs one (it is spilled while the index is held
// in a register isn't enough across evaluation, so the index is
// spilled instead and the tuple value stays live in rax/rbx).
func (g *Generator) genTupleGet(ctx Context, n *ast.TupleGet) error {
	si := ctx.StackIndex
	if err := g.genExpr(ctx, n.Index); err != nil {
		return err
	}
	g.checkInteger(asm.RAX)
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: localDisp(si)}, Src: asm.RAX})

	ectx := ctx
	ectx.StackIndex = si + 1
	if err := g.genExpr(ectx, n.E); err != nil {
		return err
	}

	idx := asm.Mem{Base: asm.RBP, Disp: localDisp(si)}
	g.emit(asm.Mov{Dst: asm.RBX, Src: asm.RAX})
	g.emit(asm.Mov{Dst: asm.RCX, Src: asm.RBX})
	g.emit(asm.And{Dst: asm.RCX, Src: asm.Imm32(0b11)})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrInvalidArgument))})
	g.emit(asm.Cmp{L: asm.RCX, R: asm.Imm32(0b1)})
	g.emit(asm.J{CC: asm.NE, Target: myError})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrIndexOutOfRange))})
	g.emit(asm.Cmp{L: asm.RBX, R: asm.Imm32(int32(value.EmptyTuple))})
	g.emit(asm.J{CC: asm.E, Target: myError})
	g.emit(asm.Sub{Dst: asm.RBX, Src: asm.Imm32(1)})

	g.emit(asm.Mov{Dst: asm.RDX, Src: idx})
	g.emit(asm.Mov{Dst: asm.RCX, Src: asm.Mem{Base: asm.RBX, Disp: 0}})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrIndexOutOfRange))})
	g.emit(asm.Cmp{L: asm.RDX, R: asm.RCX})
	g.emit(asm.J{CC: asm.GE, Target: myError})

	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.MemIndex{Base: asm.RBX, Index: asm.RDX, Scale: 4, Disp: 8}})
	return nil
}

// genTupleSet mirrors genTupleGet's register discipline: the index is
// spilled to a local slot, the tuple pointer is pushed on the machine
// stack while Value is evaluated (Value's own code may use rbx) and
// popped into rbx afterwards, and the new value is held in rcx. Only
// the index occupies a local slot, matching spec.md §4.2's TupleSet
// depth formula (index: +0, e: +1, value: +1).
func (g *Generator) genTupleSet(ctx Context, n *ast.TupleSet) error {
	si := ctx.StackIndex
	if err := g.genExpr(ctx, n.Index); err != nil {
		return err
	}
	g.checkInteger(asm.RAX)
	g.emit(asm.Mov{Dst: asm.Mem{Base: asm.RBP, Disp: localDisp(si)}, Src: asm.RAX})

	ectx := ctx
	ectx.StackIndex = si + 1
	if err := g.genExpr(ectx, n.E); err != nil {
		return err
	}
	g.push(asm.RAX)

	vctx := ctx
	vctx.StackIndex = si + 1
	if err := g.genExpr(vctx, n.Value); err != nil {
		return err
	}
	g.emit(asm.Mov{Dst: asm.RCX, Src: asm.RAX})
	g.pop(asm.RBX)

	idx := asm.Mem{Base: asm.RBP, Disp: localDisp(si)}
	g.emit(asm.Mov{Dst: asm.RDX, Src: asm.RBX})
	g.emit(asm.And{Dst: asm.RDX, Src: asm.Imm32(0b11)})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrInvalidArgument))})
	g.emit(asm.Cmp{L: asm.RDX, R: asm.Imm32(0b1)})
	g.emit(asm.J{CC: asm.NE, Target: myError})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrIndexOutOfRange))})
	g.emit(asm.Cmp{L: asm.RBX, R: asm.Imm32(int32(value.EmptyTuple))})
	g.emit(asm.J{CC: asm.E, Target: myError})
	g.emit(asm.Sub{Dst: asm.RBX, Src: asm.Imm32(1)})

	g.emit(asm.Mov{Dst: asm.RDX, Src: idx})
	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.Mem{Base: asm.RBX, Disp: 0}})
	g.emit(asm.Mov{Dst: asm.RSI, Src: asm.Imm32(int32(value.ErrIndexOutOfRange))})
	g.emit(asm.Cmp{L: asm.RDX, R: asm.RAX})
	g.emit(asm.J{CC: asm.GE, Target: myError})

	g.emit(asm.Mov{Dst: asm.MemIndex{Base: asm.RBX, Index: asm.RDX, Scale: 4, Disp: 8}, Src: asm.RCX})
	g.emit(asm.Mov{Dst: asm.RAX, Src: asm.RCX})
	return nil
}
