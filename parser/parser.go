// Package parser turns the generic S-expression tree produced by the
// sexp package into the AST the code generator consumes, performing
// every static check spec.md §4.1 and §3 require: literal-range
// checks, keyword/identifier validation, arity and shape checks on
// every special form.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snek-lang/snekc/ast"
	"github.com/snek-lang/snekc/sexp"
	"github.com/snek-lang/snekc/token"
	"github.com/snek-lang/snekc/value"
)

// MinInt and MaxInt bound the representable integer range (spec.md
// §3's [-2^62, 2^62-1] invariant, imposed by the one-bit tag).
const (
	MinInt = value.MinInt
	MaxInt = value.MaxInt
)

// Parse reads the whole source file, already wrapped as a single
// outer list per spec.md §4.1, and returns the program it describes.
func Parse(source string) (ast.Program, error) {
	top, err := sexp.Read(source)
	if err != nil {
		return ast.Program{}, err
	}
	return ParseProgram(top)
}

// ParseProgram expects n to be a list whose last element is the main
// expression and whose earlier elements are function definitions.
func ParseProgram(n sexp.Node) (ast.Program, error) {
	if n.IsAtom() || len(n.List) == 0 {
		return ast.Program{}, fmt.Errorf("parser: empty program is not allowed")
	}

	var prog ast.Program
	names := make(map[string]bool)

	for i, item := range n.List {
		if i == len(n.List)-1 {
			main, err := parseExpr(item)
			if err != nil {
				return ast.Program{}, err
			}
			prog.Main = main
			continue
		}

		fn, err := parseFunction(item)
		if err != nil {
			return ast.Program{}, err
		}
		if names[fn.Name] {
			return ast.Program{}, fmt.Errorf("parser: duplicate function definition %q", fn.Name)
		}
		names[fn.Name] = true
		prog.Functions = append(prog.Functions, fn)
	}

	return prog, nil
}

// parseFunction parses `(fun (name arg...) body)`.
func parseFunction(n sexp.Node) (ast.Function, error) {
	if n.IsAtom() || len(n.List) != 3 || n.List[0].Atom != string(token.Fun) {
		return ast.Function{}, fmt.Errorf("parser: expected (fun (name args...) body), got %s", describe(n))
	}

	sig := n.List[1]
	if sig.IsAtom() || len(sig.List) == 0 {
		return ast.Function{}, fmt.Errorf("parser: function signature must be (name args...)")
	}

	nameNode := sig.List[0]
	if !nameNode.IsAtom() {
		return ast.Function{}, fmt.Errorf("parser: function name must be an identifier")
	}
	name := nameNode.Atom
	if !token.ValidIdentifier(name) {
		return ast.Function{}, fmt.Errorf("parser: %q is not a valid function name", name)
	}

	seen := make(map[string]bool)
	var args []string
	for _, a := range sig.List[1:] {
		if !a.IsAtom() || !token.ValidIdentifier(a.Atom) {
			return ast.Function{}, fmt.Errorf("parser: %q is not a valid parameter name", a.Atom)
		}
		if seen[a.Atom] {
			return ast.Function{}, fmt.Errorf("parser: duplicate parameter name %q in function %q", a.Atom, name)
		}
		seen[a.Atom] = true
		args = append(args, a.Atom)
	}

	body, err := parseExpr(n.List[2])
	if err != nil {
		return ast.Function{}, err
	}

	return ast.Function{Name: name, Args: args, Body: body}, nil
}

// ParseExpr parses a single expression node, outside of any program.
func ParseExpr(n sexp.Node) (ast.Expr, error) {
	return parseExpr(n)
}

func parseExpr(n sexp.Node) (ast.Expr, error) {
	if n.IsAtom() {
		return parseAtom(n)
	}
	if len(n.List) == 0 {
		return nil, fmt.Errorf("parser: empty list is not a valid expression")
	}

	head := n.List[0]
	if !head.IsAtom() {
		return nil, fmt.Errorf("parser: expected an operator or function name, got %s", describe(head))
	}

	switch token.Type(head.Atom) {
	case token.Block:
		return parseBlock(n)
	case token.Tuple:
		return parseTuple(n)
	case token.TupleGet:
		return parseTupleGet(n)
	case token.TupleSet:
		return parseTupleSet(n)
	case token.Let:
		return parseLet(n)
	case token.Set:
		return parseSet(n)
	case token.If:
		return parseIf(n)
	case token.Loop:
		return parseLoop(n)
	case token.Break:
		return parseBreak(n)
	}

	if op, ok := token.LookupUnary(head.Atom); ok {
		return parseUnOp(op, n)
	}
	if op, ok := token.LookupBinary(head.Atom); ok {
		return parseBinOp(op, n)
	}

	return parseCall(n)
}

func parseAtom(n sexp.Node) (ast.Expr, error) {
	switch n.Atom {
	case string(token.True):
		return &ast.Boolean{Value: true}, nil
	case string(token.False):
		return &ast.Boolean{Value: false}, nil
	}

	if isNumeric(n.Atom) {
		v, err := strconv.ParseInt(n.Atom, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: invalid integer literal %q: %s", n.Atom, err)
		}
		if v < MinInt || v > MaxInt {
			return nil, fmt.Errorf("parser: integer literal %d is out of the representable range [%d, %d]", v, MinInt, MaxInt)
		}
		return &ast.Number{Value: v}, nil
	}

	// `input` is reserved as a binder name but may be referenced; the
	// generator binds it only in the main expression's environment.
	if n.Atom == string(token.Input) {
		return &ast.Id{Name: n.Atom}, nil
	}

	if !token.ValidIdentifier(n.Atom) {
		return nil, fmt.Errorf("parser: %q is not a valid identifier", n.Atom)
	}
	return &ast.Id{Name: n.Atom}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseBlock(n sexp.Node) (ast.Expr, error) {
	body := n.List[1:]
	if len(body) == 0 {
		return nil, fmt.Errorf("parser: (block) requires at least one sub-expression")
	}
	exprs := make([]ast.Expr, 0, len(body))
	for _, e := range body {
		ex, err := parseExpr(e)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, ex)
	}
	return &ast.Block{Exprs: exprs}, nil
}

func parseTuple(n sexp.Node) (ast.Expr, error) {
	elems := make([]ast.Expr, 0, len(n.List)-1)
	for _, e := range n.List[1:] {
		ex, err := parseExpr(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ex)
	}
	return &ast.Tuple{Elems: elems}, nil
}

func parseTupleGet(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 3 {
		return nil, fmt.Errorf("parser: (tuple-get e i) takes exactly 2 arguments")
	}
	e, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	idx, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	return &ast.TupleGet{E: e, Index: idx}, nil
}

func parseTupleSet(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 4 {
		return nil, fmt.Errorf("parser: (tuple-set! e i v) takes exactly 3 arguments")
	}
	e, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	idx, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	v, err := parseExpr(n.List[3])
	if err != nil {
		return nil, err
	}
	return &ast.TupleSet{E: e, Index: idx, Value: v}, nil
}

func parseLet(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 3 {
		return nil, fmt.Errorf("parser: (let (binders...) body) takes exactly 2 arguments")
	}
	binderList := n.List[1]
	if binderList.IsAtom() || len(binderList.List) == 0 {
		return nil, fmt.Errorf("parser: let requires a non-empty binding list")
	}

	seen := make(map[string]bool)
	var bindings []ast.Binding
	for _, b := range binderList.List {
		if b.IsAtom() || len(b.List) != 2 {
			return nil, fmt.Errorf("parser: each let binder must be (name expr)")
		}
		nameNode := b.List[0]
		if !nameNode.IsAtom() || !token.ValidIdentifier(nameNode.Atom) {
			return nil, fmt.Errorf("parser: %q is not a valid let-binder name", nameNode.Atom)
		}
		if seen[nameNode.Atom] {
			return nil, fmt.Errorf("parser: duplicate let binder %q", nameNode.Atom)
		}
		seen[nameNode.Atom] = true

		rhs, err := parseExpr(b.List[1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: nameNode.Atom, Rhs: rhs})
	}

	body, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	return &ast.Let{Bindings: bindings, Body: body}, nil
}

func parseSet(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 3 {
		return nil, fmt.Errorf("parser: (set! name e) takes exactly 2 arguments")
	}
	nameNode := n.List[1]
	if !nameNode.IsAtom() || !token.ValidIdentifier(nameNode.Atom) {
		return nil, fmt.Errorf("parser: %q is not a valid set! target", nameNode.Atom)
	}
	rhs, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	return &ast.Set{Name: nameNode.Atom, Rhs: rhs}, nil
}

func parseIf(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 4 {
		return nil, fmt.Errorf("parser: (if c t e) takes exactly 3 arguments")
	}
	cond, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	then, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	els, err := parseExpr(n.List[3])
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els}, nil
}

func parseLoop(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 2 {
		return nil, fmt.Errorf("parser: (loop e) takes exactly 1 argument")
	}
	body, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Body: body}, nil
}

func parseBreak(n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 2 {
		return nil, fmt.Errorf("parser: (break e) takes exactly 1 argument")
	}
	e, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	return &ast.Break{E: e}, nil
}

func parseUnOp(op token.Type, n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 2 {
		return nil, fmt.Errorf("parser: (%s e) takes exactly 1 argument", op)
	}
	e, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	return &ast.UnOp{Op: unOpOf(op), E: e}, nil
}

func parseBinOp(op token.Type, n sexp.Node) (ast.Expr, error) {
	if len(n.List) != 3 {
		return nil, fmt.Errorf("parser: (%s e1 e2) takes exactly 2 arguments", op)
	}
	l, err := parseExpr(n.List[1])
	if err != nil {
		return nil, err
	}
	r, err := parseExpr(n.List[2])
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Op: binOpOf(op), L: l, R: r}, nil
}

func parseCall(n sexp.Node) (ast.Expr, error) {
	head := n.List[0]
	if !token.ValidIdentifier(head.Atom) {
		return nil, fmt.Errorf("parser: %q is not a valid function name", head.Atom)
	}
	var args []ast.Expr
	for _, a := range n.List[1:] {
		ex, err := parseExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, ex)
	}
	return &ast.Call{Name: head.Atom, Args: args}, nil
}

func unOpOf(t token.Type) ast.Op1 {
	switch t {
	case token.Add1:
		return ast.Add1
	case token.Sub1:
		return ast.Sub1
	case token.IsNum:
		return ast.IsNum
	case token.IsBool:
		return ast.IsBool
	case token.IsTuple:
		return ast.IsTuple
	case token.Print:
		return ast.Print
	}
	panic("parser: unreachable unary operator " + string(t))
}

func binOpOf(t token.Type) ast.Op2 {
	switch t {
	case token.Plus:
		return ast.Plus
	case token.Minus:
		return ast.Minus
	case token.Times:
		return ast.Times
	case token.Less:
		return ast.Less
	case token.Greater:
		return ast.Greater
	case token.LessEq:
		return ast.LessEq
	case token.GreaterEq:
		return ast.GreaterEq
	case token.Eq:
		return ast.Eq
	case token.BitEq:
		return ast.BitEq
	}
	panic("parser: unreachable binary operator " + string(t))
}

func describe(n sexp.Node) string {
	if n.IsAtom() {
		return strconv.Quote(n.Atom)
	}
	parts := make([]string, 0, len(n.List))
	for _, k := range n.List {
		parts = append(parts, describe(k))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
