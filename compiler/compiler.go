// Package compiler contains the core of the compiler: parsing the
// input into an AST, sizing each function's stack frame, lowering
// every expression to abstract assembly, and assembling the result
// into a complete NASM source file.
//
// The pipeline is the same three-step shape the teacher used for its
// RPN math expressions — tokenize, build an internal form, walk it to
// emit assembly — generalized to the richer s-expression language:
//
//  1. Parse the input into an ast.Program.
//  2. Run the stack-depth analyzer over every function body.
//  3. Walk each function's body, generating abstract assembly, then
//     print the whole program as NASM text.
package compiler

import (
	"fmt"

	"github.com/snek-lang/snekc/analyzer"
	"github.com/snek-lang/snekc/asm"
	"github.com/snek-lang/snekc/ast"
	"github.com/snek-lang/snekc/env"
	"github.com/snek-lang/snekc/parser"
)

// Compiler holds our object-state.
type Compiler struct {
	// debug holds a flag to decide if debugging "stuff" is generated
	// in the output assembly.
	debug bool

	// source holds the program text we're compiling.
	source string
}

// New creates a new compiler, given the program source in the constructor.
func New(input string) *Compiler {
	return &Compiler{source: input}
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Compile converts the input program into a complete NASM assembly
// listing, or returns the first error encountered along the way.
func (c *Compiler) Compile() (string, error) {
	// The source file is a bare sequence of function definitions
	// followed by the main expression, not itself one list — wrap it
	// in an outer pair of parens so parser.Parse sees the single list
	// it requires (spec.md §4.1), matching the original driver's own
	// `parse(&format!("({in_contents})"))`.
	prog, err := parser.Parse("(" + c.source + ")")
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	funcs := make(map[string]int, len(prog.Functions))
	for _, fn := range prog.Functions {
		funcs[fn.Name] = len(fn.Args)
	}

	g := &Generator{}
	if c.debug {
		g.emit(asm.Comment{Text: fmt.Sprintf("compiling %d function(s)", len(prog.Functions))})
	}

	for _, fn := range prog.Functions {
		if err := g.genFunction(fn, funcs); err != nil {
			return "", fmt.Errorf("in function %q: %w", fn.Name, err)
		}
	}
	if err := g.genMain(prog, funcs); err != nil {
		return "", fmt.Errorf("in main expression: %w", err)
	}

	return Assemble(g.instrs), nil
}

// genFunction lowers one user-defined function into its prologue,
// body, and epilogue.
func (g *Generator) genFunction(fn ast.Function, funcs map[string]int) error {
	var curEnv *env.Env
	for i, name := range fn.Args {
		curEnv = curEnv.Extend(name, int(argDisp(i)))
	}

	depth := analyzer.Depth(fn.Body)
	g.emit(asm.LabelDef{Name: asm.Label("func_" + fn.Name)})
	g.emit(asm.Push{Src: asm.RBP})
	g.emit(asm.Mov{Dst: asm.RBP, Src: asm.RSP})
	if depth > 0 {
		g.emit(asm.Sub{Dst: asm.RSP, Src: asm.Imm32(int32(8 * depth))})
	}
	// push rbp leaves rsp 16-aligned; subtracting 8*depth only keeps it
	// aligned when depth is even.
	g.aligned = depth%2 == 0

	ctx := Context{Env: curEnv, StackIndex: 1, Funcs: funcs}
	if err := g.genExpr(ctx, fn.Body); err != nil {
		return err
	}

	g.emit(asm.Leave{})
	g.emit(asm.Ret{})
	return nil
}

// genMain lowers the program's main expression into the
// `our_code_starts_here` entry point the runtime calls into, per
// spec.md §4.12's `(i64 input, i64 *heap) -> i64` contract: input
// arrives in rdi, the heap base in rsi.
func (g *Generator) genMain(prog ast.Program, funcs map[string]int) error {
	curEnv := (*env.Env)(nil).Extend("input", env.InputSlot)

	depth := analyzer.Depth(prog.Main)
	g.emit(asm.LabelDef{Name: "our_code_starts_here"})
	g.emit(asm.Push{Src: asm.RBP})
	g.emit(asm.Mov{Dst: asm.RBP, Src: asm.RSP})
	g.emit(asm.Mov{Dst: asm.R15, Src: asm.RSI})
	if depth > 0 {
		g.emit(asm.Sub{Dst: asm.RSP, Src: asm.Imm32(int32(8 * depth))})
	}
	// push rbp leaves rsp 16-aligned; subtracting 8*depth only keeps it
	// aligned when depth is even.
	g.aligned = depth%2 == 0

	ctx := Context{Env: curEnv, StackIndex: 1, Funcs: funcs}
	if err := g.genExpr(ctx, prog.Main); err != nil {
		return err
	}

	g.emit(asm.Leave{})
	g.emit(asm.Ret{})
	return nil
}
