package rules

import (
	"fmt"
	"strings"

	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// l002 flags functions whose name promises an outcome — "sorted" or
// "unique" appearing anywhere in the name, case-insensitively — but whose
// body has no recognizable evidence of delivering it.
func l002(ctx *registry.Context) []finding.Finding {
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		switch fn := n.(type) {
		case *pyast.FunctionDef:
			if f := checkPromise(ctx.Filename, fn.Name, fn.Body, fn.Pos); f != nil {
				out = append(out, *f)
			}
		case *pyast.AsyncFunctionDef:
			if f := checkPromise(ctx.Filename, fn.Name, fn.Body, fn.Pos); f != nil {
				out = append(out, *f)
			}
		}
		return true
	})
	return out
}

func checkPromise(file, name string, body []pyast.Node, pos pyast.Pos) *finding.Finding {
	lower := strings.ToLower(name)
	promisesSorted := strings.Contains(lower, "sorted")
	promisesUnique := strings.Contains(lower, "unique")
	if !promisesSorted && !promisesUnique {
		return nil
	}

	evidence := false
	for _, stmt := range body {
		if pyast.Contains(stmt, func(n pyast.Node) bool {
			if promisesSorted && isSortEvidence(n) {
				return true
			}
			if promisesUnique && isUniqueEvidence(n) {
				return true
			}
			return false
		}) {
			evidence = true
			break
		}
	}
	if evidence {
		return nil
	}

	kind := "sorted"
	if promisesUnique && !promisesSorted {
		kind = "unique"
	}
	f, err := finding.New(
		"L002",
		fmt.Sprintf("function %q promises %s results but its body has no evidence of producing them", name, kind),
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

func isSortEvidence(n pyast.Node) bool {
	switch v := n.(type) {
	case *pyast.Call:
		if isCalledName(v, "sorted") || isCalledName(v, "sort") {
			return true
		}
	case *pyast.Attribute:
		if v.Attr == "sort" {
			return true
		}
	}
	return false
}

func isUniqueEvidence(n pyast.Node) bool {
	switch v := n.(type) {
	case *pyast.Call:
		if isCalledName(v, "set") || isCalledName(v, "unique") || isCalledName(v, "distinct") ||
			isCalledName(v, "uuid4") || isCalledName(v, "sha256") || isCalledName(v, "md5") {
			return true
		}
	case *pyast.Attribute:
		if v.Attr == "unique" || v.Attr == "distinct" {
			return true
		}
	case *pyast.Set:
		return true
	case *pyast.JoinedStr:
		count := 0
		for _, part := range v.Values {
			if _, ok := part.(*pyast.FormattedValue); ok {
				count++
			}
		}
		return count >= 2
	case *pyast.BinOp:
		return v.Op == "+" && countRefs(v) >= 2
	}
	return false
}

func countRefs(n pyast.Node) int {
	count := 0
	pyast.Walk(n, func(c pyast.Node) bool {
		switch c.(type) {
		case *pyast.Name, *pyast.Attribute:
			count++
		}
		return true
	})
	return count
}

func isCalledName(call *pyast.Call, name string) bool {
	switch fn := call.Func.(type) {
	case *pyast.Name:
		return fn.ID == name
	case *pyast.Attribute:
		return fn.Attr == name
	default:
		return false
	}
}

func init() {
	Register(registry.Descriptor{
		ID:              "L002",
		Description:     "unfulfilled sorted/unique promise",
		DefaultSeverity: finding.Low,
		LanguageTag:     "python",
		Run:             l002,
	})
}
