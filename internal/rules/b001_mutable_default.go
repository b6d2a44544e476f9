package rules

import (
	"fmt"

	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// b001 flags parameters whose default value is a literal list, dict, or
// set: Python evaluates defaults once, at def time, so the same object is
// reused and mutated across every call that doesn't override it.
func b001(ctx *registry.Context) []finding.Finding {
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		switch fn := n.(type) {
		case *pyast.FunctionDef:
			out = append(out, mutableDefaults(ctx.Filename, fn.Name, fn.Args)...)
		case *pyast.AsyncFunctionDef:
			out = append(out, mutableDefaults(ctx.Filename, fn.Name, fn.Args)...)
		}
		return true
	})
	return out
}

func mutableDefaults(file, name string, params []pyast.Param) []finding.Finding {
	var out []finding.Finding
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		kind := ""
		switch p.Default.(type) {
		case *pyast.List:
			kind = "list"
		case *pyast.Dict:
			kind = "dict"
		case *pyast.Set:
			kind = "set"
		default:
			continue
		}
		f, err := finding.New(
			"B001",
			fmt.Sprintf("mutable %s default for parameter %q of %s is shared across calls", kind, p.Name, name),
			finding.Medium,
			file,
			p.Default.Line(),
			p.Default.Column(),
		)
		if err != nil {
			continue
		}
		f = f.WithSuggestion(fmt.Sprintf("use a sentinel default (e.g. %s=None) and construct the %s inside the function body", p.Name, kind))
		out = append(out, f)
	}
	return out
}

func init() {
	Register(registry.Descriptor{
		ID:              "B001",
		Description:     "mutable default argument",
		DefaultSeverity: finding.Medium,
		LanguageTag:     "python",
		Run:             b001,
	})
}
