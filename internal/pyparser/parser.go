// Package pyparser implements the §6 AST contract: it turns Python source
// bytes into the pyast tree the rules consume. It is a concrete instance of
// the "replaceable collaborator" the design notes call for — built on
// github.com/smacker/go-tree-sitter and its Python grammar, following the
// CST-walking idioms already used for this language in the teacher's
// graph/parser_python.go (ChildByFieldName-driven extraction, StartPoint
// for 1-based line numbers).
package pyparser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/anchorlint/anchorlint/internal/pyast"
)

// ParseError reports that source could not be parsed into an AST.
type ParseError struct {
	Filename string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pyparser: %s: %s", e.Filename, e.Reason)
}

// Parse converts Python source into a pyast.Module. A syntax error anywhere
// in the tree (tree-sitter's best-effort recovery still marks the
// offending node HasError) is reported as a *ParseError.
func Parse(filename string, source []byte) (*pyast.Module, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Filename: filename, Reason: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &ParseError{Filename: filename, Reason: "empty parse tree"}
	}
	if root.HasError() {
		return nil, &ParseError{Filename: filename, Reason: "syntax error"}
	}

	c := &converter{src: source, filename: filename}
	return &pyast.Module{Body: c.block(root)}, nil
}
