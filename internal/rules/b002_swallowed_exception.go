package rules

import (
	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// b002 flags except handlers that silently discard an exception: a bare or
// Exception-typed handler whose entire body is a single `pass` or a single
// `...` expression statement. A try with a non-empty orelse, or whose try-body is
// a single trivial statement (the try exists only to guard one
// operation, not to recover from it), is exempt: those shapes are common
// and deliberate, not evidence of a swallowed error.
func b002(ctx *registry.Context) []finding.Finding {
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		t, ok := n.(*pyast.Try)
		if !ok {
			return true
		}
		if exemptTry(t) {
			return true
		}
		for _, h := range t.Handlers {
			if !isBroadHandler(h) || !isSwallowingBody(h.Body) {
				continue
			}
			f, err := finding.New(
				"B002",
				"exception is caught and silently discarded",
				finding.Medium,
				ctx.Filename,
				h.Line(),
				h.Column(),
			)
			if err != nil {
				continue
			}
			f = f.WithSuggestion("log the exception or narrow the caught type and re-raise what you don't handle")
			out = append(out, f)
		}
		return true
	})
	return out
}

func exemptTry(t *pyast.Try) bool {
	if len(t.Orelse) > 0 {
		return true
	}
	if len(t.Body) == 1 && isSingleStatementTrivial(t.Body[0]) {
		return true
	}
	return false
}

func isSingleStatementTrivial(n pyast.Node) bool {
	switch n.(type) {
	case *pyast.Return, *pyast.Assign, *pyast.AnnAssign, *pyast.ExprStmt:
		return true
	default:
		return false
	}
}

func isBroadHandler(h *pyast.ExceptHandler) bool {
	if h.Type == nil {
		return true
	}
	if name, ok := h.Type.(*pyast.Name); ok {
		return name.ID == "Exception"
	}
	return false
}

func isSwallowingBody(body []pyast.Node) bool {
	if len(body) != 1 {
		return false
	}
	switch s := body[0].(type) {
	case *pyast.Pass:
		return true
	case *pyast.ExprStmt:
		c, ok := s.Value.(*pyast.Constant)
		return ok && c.Kind == pyast.ConstEllipsis
	default:
		return false
	}
}

func init() {
	Register(registry.Descriptor{
		ID:              "B002",
		Description:     "swallowed exception",
		DefaultSeverity: finding.Medium,
		LanguageTag:     "python",
		Run:             b002,
	})
}
