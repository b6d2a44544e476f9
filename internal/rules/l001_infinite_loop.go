package rules

import (
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// l001 flags `while True`/`while 1` loops whose body contains no Break,
// Return, Raise, Yield, or YieldFrom anywhere in its subtree — nothing that
// could ever end the loop or hand control back to the caller.
func l001(ctx *registry.Context) []finding.Finding {
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		w, ok := n.(*pyast.While)
		if !ok || !isAlwaysTrue(w.Test) {
			return true
		}
		if hasExit(w.Body) {
			return true
		}
		f, err := finding.New(
			"L001",
			"while loop has no break, return, raise, or yield and will never terminate",
			finding.High,
			ctx.Filename,
			w.Line(),
			w.Column(),
		)
		if err == nil {
			out = append(out, f)
		}
		return true
	})
	return out
}

func isAlwaysTrue(test pyast.Node) bool {
	c, ok := test.(*pyast.Constant)
	if !ok {
		return false
	}
	switch c.Kind {
	case pyast.ConstBool:
		return c.Value == "True"
	case pyast.ConstInt:
		return c.Value == "1"
	default:
		return false
	}
}

func hasExit(body []pyast.Node) bool {
	for _, stmt := range body {
		found := pyast.Contains(stmt, func(n pyast.Node) bool {
			switch n.(type) {
			case *pyast.Break, *pyast.Return, *pyast.Raise, *pyast.Yield, *pyast.YieldFrom:
				return true
			default:
				return false
			}
		})
		if found {
			return true
		}
	}
	return false
}

func init() {
	Register(registry.Descriptor{
		ID:              "L001",
		Description:     "likely-infinite loop",
		DefaultSeverity: finding.High,
		LanguageTag:     "python",
		Run:             l001,
	})
}
