package rules

import (
	"fmt"
	"strings"

	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// n001 flags get_* functions that are not abstract stubs but never return a
// non-null value anywhere in their body: callers reasonably expect a getter
// to hand back something.
func n001(ctx *registry.Context) []finding.Finding {
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		switch fn := n.(type) {
		case *pyast.FunctionDef:
			if f := checkGetter(ctx.Filename, fn.Name, fn.Body, fn.Pos); f != nil {
				out = append(out, *f)
			}
		case *pyast.AsyncFunctionDef:
			if f := checkGetter(ctx.Filename, fn.Name, fn.Body, fn.Pos); f != nil {
				out = append(out, *f)
			}
		}
		return true
	})
	return out
}

func checkGetter(file, name string, body []pyast.Node, pos pyast.Pos) *finding.Finding {
	if !strings.HasPrefix(strings.ToLower(name), "get_") {
		return nil
	}
	if isAbstractBody(body) {
		return nil
	}
	hasReturn := false
	for _, stmt := range body {
		if pyast.Contains(stmt, func(n pyast.Node) bool {
			ret, ok := n.(*pyast.Return)
			if !ok {
				return false
			}
			return !isNullReturn(ret.Value)
		}) {
			hasReturn = true
			break
		}
	}
	if hasReturn {
		return nil
	}
	f, err := finding.New(
		"N001",
		fmt.Sprintf("function %q is named like a getter but never returns a non-null value", name),
		finding.Low,
		file,
		pos.Line(),
		pos.Column(),
	)
	if err != nil {
		return nil
	}
	return &f
}

// isAbstractBody matches a body consisting solely of `pass` or a single
// docstring expression, the usual shape of an interface/abstract method
// stub that is not meant to be flagged.
func isAbstractBody(body []pyast.Node) bool {
	if len(body) != 1 {
		return false
	}
	switch s := body[0].(type) {
	case *pyast.Pass:
		return true
	case *pyast.ExprStmt:
		c, ok := s.Value.(*pyast.Constant)
		return ok && c.Kind == pyast.ConstStr
	default:
		return false
	}
}

func isNullReturn(v pyast.Node) bool {
	if v == nil {
		return true
	}
	c, ok := v.(*pyast.Constant)
	return ok && c.Kind == pyast.ConstNone
}

func init() {
	Register(registry.Descriptor{
		ID:              "N001",
		Description:     "misleading getter name",
		DefaultSeverity: finding.Low,
		LanguageTag:     "python",
		Run:             n001,
	})
}
