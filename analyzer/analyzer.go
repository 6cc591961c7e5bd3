// Package analyzer computes, for each function body, the maximum
// number of local stack slots it can require — so the code generator
// can size the prologue's `sub rsp, 8*d` once instead of growing the
// frame dynamically. Rules are spec.md §4.2, verbatim.
package analyzer

import "github.com/snek-lang/snekc/ast"

// Depth returns the upper bound on local slots expression e requires.
func Depth(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.Number, *ast.Boolean, *ast.Id:
		return 0

	case *ast.UnOp:
		return Depth(n.E)

	case *ast.BinOp:
		return max(Depth(n.R), Depth(n.L)+1)

	case *ast.Let:
		best := 0
		for i, b := range n.Bindings {
			best = max(best, Depth(b.Rhs)+i)
		}
		return max(best, Depth(n.Body)+len(n.Bindings))

	case *ast.Block:
		best := 0
		for _, c := range n.Exprs {
			best = max(best, Depth(c))
		}
		return best

	case *ast.If:
		return max(Depth(n.Cond), max(Depth(n.Then), Depth(n.Else)))

	case *ast.Loop:
		return Depth(n.Body)

	case *ast.Break:
		return Depth(n.E)

	case *ast.Set:
		return Depth(n.Rhs)

	case *ast.Call:
		best := 0
		for _, a := range n.Args {
			best = max(best, Depth(a))
		}
		return best

	case *ast.Tuple:
		best := 0
		for i, el := range n.Elems {
			best = max(best, Depth(el)+i)
		}
		return max(best, len(n.Elems))

	case *ast.TupleGet:
		return max(Depth(n.Index), Depth(n.E)+1)

	case *ast.TupleSet:
		return max(Depth(n.Index), max(Depth(n.E)+1, Depth(n.Value)+1))
	}

	panic("analyzer: unreachable expression type")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
