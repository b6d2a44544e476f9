package rules

import (
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// b003 flags open() calls that never appear as a With statement's context
// expression, i.e. the handle they return is never guaranteed to be closed.
// It runs in two passes over the whole module: the first collects every
// Call node used as a with-item's context_expr (including nested `a.b.open()`
// shapes), the second walks every Call and flags the ones not in that set.
func b003(ctx *registry.Context) []finding.Finding {
	guarded := map[pyast.Node]bool{}
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		w, ok := n.(*pyast.With)
		if !ok {
			return true
		}
		for _, item := range w.Items {
			markOpenCalls(item.ContextExpr, guarded)
		}
		return true
	})

	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		call, ok := n.(*pyast.Call)
		if !ok || !isOpenCall(call) || guarded[n] {
			return true
		}
		f, err := finding.New(
			"B003",
			"file handle from open() is not guaranteed to be closed",
			finding.Medium,
			ctx.Filename,
			call.Line(),
			call.Column(),
		)
		if err != nil {
			return true
		}
		f = f.WithSuggestion("use `with open(...) as f:` so the handle is closed even if an exception occurs")
		out = append(out, f)
		return true
	})
	return out
}

// markOpenCalls records every open() call reachable from a with-item's
// context expression (the expression itself, or, for a tuple/parenthesized
// group of multiple context managers, each element).
func markOpenCalls(n pyast.Node, guarded map[pyast.Node]bool) {
	if n == nil {
		return
	}
	pyast.Walk(n, func(c pyast.Node) bool {
		if call, ok := c.(*pyast.Call); ok && isOpenCall(call) {
			guarded[c] = true
		}
		return true
	})
}

func isOpenCall(call *pyast.Call) bool {
	switch fn := call.Func.(type) {
	case *pyast.Name:
		return fn.ID == "open"
	case *pyast.Attribute:
		return fn.Attr == "open"
	default:
		return false
	}
}

func init() {
	Register(registry.Descriptor{
		ID:              "B003",
		Description:     "unclosed file handle",
		DefaultSeverity: finding.Medium,
		LanguageTag:     "python",
		Run:             b003,
	})
}
