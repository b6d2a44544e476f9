package pyparser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/anchorlint/anchorlint/internal/pyast"
)

type converter struct {
	src      []byte
	filename string
}

func (c *converter) pos(n *sitter.Node) pyast.Pos {
	p := n.StartPoint()
	return pyast.Pos{LineNo: int(p.Row) + 1, Col: int(p.Column)}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

// block converts every named child of a container node (module, block,
// class/function body) into a statement list, in source order.
func (c *converter) block(n *sitter.Node) []pyast.Node {
	var out []pyast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		stmt := c.statement(n.NamedChild(i))
		if stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func isAsync(n *sitter.Node) bool {
	if n.ChildCount() == 0 {
		return false
	}
	first := n.Child(0)
	return !first.IsNamed() && first.Type() == "async"
}

//nolint:gocyclo
func (c *converter) statement(n *sitter.Node) pyast.Node {
	if n == nil {
		return nil
	}
	pos := c.pos(n)

	switch n.Type() {
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		return c.statement(def)

	case "function_definition":
		return c.functionDef(n, pos, isAsync(n))
	case "async_function_definition":
		return c.functionDef(n, pos, true)

	case "class_definition":
		name := c.text(n.ChildByFieldName("name"))
		body := n.ChildByFieldName("body")
		var stmts []pyast.Node
		if body != nil {
			stmts = c.block(body)
		}
		return &pyast.ClassDef{Pos: pos, Name: name, Body: stmts}

	case "if_statement":
		return c.ifStatement(n, pos)
	case "elif_clause":
		return c.ifStatement(n, pos)

	case "while_statement":
		w := &pyast.While{Pos: pos}
		w.Test = c.expr(n.ChildByFieldName("condition"))
		w.Body = c.block(n.ChildByFieldName("body"))
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			w.Orelse = c.elseBody(alt)
		}
		return w

	case "for_statement":
		f := &pyast.For{Pos: pos}
		f.Target = c.expr(n.ChildByFieldName("left"))
		f.Iter = c.expr(n.ChildByFieldName("right"))
		f.Body = c.block(n.ChildByFieldName("body"))
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			f.Orelse = c.elseBody(alt)
		}
		if isAsync(n) {
			return &pyast.AsyncFor{Pos: f.Pos, Target: f.Target, Iter: f.Iter, Body: f.Body, Orelse: f.Orelse}
		}
		return f

	case "try_statement":
		return c.tryStatement(n, pos)

	case "with_statement":
		return c.withStatement(n, pos)

	case "assignment":
		return c.assignment(n, pos)

	case "augmented_assignment":
		// Not one of the spec's tracked variants: it never nulls out or
		// clears a name, so it is represented as a plain expression check
		// over both sides rather than as an Assign (which would wrongly
		// rebind the target in the dataflow rule).
		left := c.expr(n.ChildByFieldName("left"))
		op := c.text(n.ChildByFieldName("operator"))
		right := c.expr(n.ChildByFieldName("right"))
		return &pyast.ExprStmt{Pos: pos, Value: &pyast.BinOp{Pos: pos, Left: left, Op: op, Right: right}}

	case "return_statement":
		r := &pyast.Return{Pos: pos}
		if n.NamedChildCount() > 0 {
			r.Value = c.expr(n.NamedChild(0))
		}
		return r

	case "raise_statement":
		ra := &pyast.Raise{Pos: pos}
		if n.NamedChildCount() > 0 {
			ra.Exc = c.expr(n.NamedChild(0))
		}
		return ra

	case "break_statement":
		return &pyast.Break{Pos: pos}
	case "continue_statement":
		return &pyast.Continue{Pos: pos}
	case "pass_statement":
		return &pyast.Pass{Pos: pos}

	case "assert_statement":
		a := &pyast.Assert{Pos: pos}
		if n.NamedChildCount() > 0 {
			a.Test = c.expr(n.NamedChild(0))
		}
		if n.NamedChildCount() > 1 {
			a.Msg = c.expr(n.NamedChild(1))
		}
		return a

	case "expression_statement":
		if n.NamedChildCount() == 0 {
			return &pyast.Pass{Pos: pos}
		}
		inner := n.NamedChild(0)
		if inner.Type() == "assignment" || inner.Type() == "augmented_assignment" {
			return c.statement(inner)
		}
		return &pyast.ExprStmt{Pos: pos, Value: c.expr(inner)}

	case "comment":
		return nil

	default:
		return &pyast.ExprStmt{Pos: pos, Value: c.expr(n)}
	}
}

func (c *converter) functionDef(n *sitter.Node, pos pyast.Pos, async bool) pyast.Node {
	name := c.text(n.ChildByFieldName("name"))
	args := c.parameters(n.ChildByFieldName("parameters"))
	var returns pyast.Node
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		returns = c.expr(rt)
	}
	body := c.block(n.ChildByFieldName("body"))
	if async {
		return &pyast.AsyncFunctionDef{Pos: pos, Name: name, Args: args, Body: body, Returns: returns}
	}
	return &pyast.FunctionDef{Pos: pos, Name: name, Args: args, Body: body, Returns: returns}
}

func (c *converter) parameters(n *sitter.Node) []pyast.Param {
	if n == nil {
		return nil
	}
	var params []pyast.Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "identifier":
			params = append(params, pyast.Param{Name: c.text(p)})
		case "typed_parameter":
			name := p.NamedChild(0)
			var ann pyast.Node
			if t := p.ChildByFieldName("type"); t != nil {
				ann = c.expr(t)
			}
			params = append(params, pyast.Param{Name: c.text(name), Annotation: ann})
		case "default_parameter":
			name := c.text(p.ChildByFieldName("name"))
			def := c.expr(p.ChildByFieldName("value"))
			params = append(params, pyast.Param{Name: name, Default: def})
		case "typed_default_parameter":
			name := c.text(p.ChildByFieldName("name"))
			def := c.expr(p.ChildByFieldName("value"))
			var ann pyast.Node
			if t := p.ChildByFieldName("type"); t != nil {
				ann = c.expr(t)
			}
			params = append(params, pyast.Param{Name: name, Default: def, Annotation: ann})
		case "list_splat_pattern", "dictionary_splat_pattern":
			if p.NamedChildCount() > 0 {
				params = append(params, pyast.Param{Name: c.text(p.NamedChild(0))})
			}
		}
	}
	return params
}

func (c *converter) ifStatement(n *sitter.Node, pos pyast.Pos) pyast.Node {
	f := &pyast.If{Pos: pos}
	f.Test = c.expr(n.ChildByFieldName("condition"))
	f.Body = c.block(n.ChildByFieldName("consequence"))
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		f.Orelse = c.elseBody(alt)
	}
	return f
}

// elseBody converts the `alternative` slot of if/while/for/try, which is
// either an elif_clause (recursed as a single nested If statement), or an
// else_clause (its body is spliced in directly).
func (c *converter) elseBody(n *sitter.Node) []pyast.Node {
	switch n.Type() {
	case "elif_clause":
		return []pyast.Node{c.ifStatement(n, c.pos(n))}
	case "else_clause":
		if body := n.ChildByFieldName("body"); body != nil {
			return c.block(body)
		}
		return c.block(n)
	default:
		return c.block(n)
	}
}

func (c *converter) tryStatement(n *sitter.Node, pos pyast.Pos) pyast.Node {
	t := &pyast.Try{Pos: pos}
	if body := n.ChildByFieldName("body"); body != nil {
		t.Body = c.block(body)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "except_clause", "except_group_clause":
			t.Handlers = append(t.Handlers, c.exceptHandler(child))
		case "else_clause":
			if b := child.ChildByFieldName("body"); b != nil {
				t.Orelse = c.block(b)
			}
		case "finally_clause":
			if b := child.ChildByFieldName("body"); b != nil {
				t.Finalbody = c.block(b)
			}
		}
	}
	return t
}

func (c *converter) exceptHandler(n *sitter.Node) *pyast.ExceptHandler {
	h := &pyast.ExceptHandler{Pos: c.pos(n)}
	if v := n.ChildByFieldName("value"); v != nil {
		if v.Type() == "as_pattern" {
			h.Type = c.expr(v.NamedChild(0))
		} else {
			h.Type = c.expr(v)
		}
	}
	if b := n.ChildByFieldName("body"); b != nil {
		h.Body = c.block(b)
	}
	return h
}

func (c *converter) withStatement(n *sitter.Node, pos pyast.Pos) pyast.Node {
	w := &pyast.With{Pos: pos}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "with_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				item := child.NamedChild(j)
				if item.Type() != "with_item" {
					continue
				}
				w.Items = append(w.Items, c.withItem(item))
			}
		case "with_item":
			w.Items = append(w.Items, c.withItem(child))
		case "block":
			w.Body = c.block(child)
		}
	}
	return w
}

func (c *converter) withItem(n *sitter.Node) pyast.WithItem {
	value := n.ChildByFieldName("value")
	if value == nil && n.NamedChildCount() > 0 {
		value = n.NamedChild(0)
	}
	item := pyast.WithItem{}
	if value != nil && value.Type() == "as_pattern" {
		item.ContextExpr = c.expr(value.NamedChild(0))
		if value.NamedChildCount() > 1 {
			item.OptionalVars = c.expr(value.NamedChild(1))
		}
		return item
	}
	item.ContextExpr = c.expr(value)
	return item
}

func (c *converter) assignment(n *sitter.Node, pos pyast.Pos) pyast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if typ := n.ChildByFieldName("type"); typ != nil {
		return &pyast.AnnAssign{
			Pos:        pos,
			Target:     c.expr(left),
			Value:      c.expr(right),
			Annotation: c.expr(typ),
		}
	}
	return &pyast.Assign{Pos: pos, Targets: []pyast.Node{c.expr(left)}, Value: c.expr(right)}
}

//nolint:gocyclo
func (c *converter) expr(n *sitter.Node) pyast.Node {
	if n == nil {
		return nil
	}
	pos := c.pos(n)

	switch n.Type() {
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return c.expr(n.NamedChild(0))
		}
		return &pyast.Tuple{Pos: pos}

	case "call":
		call := &pyast.Call{Pos: pos, Func: c.expr(n.ChildByFieldName("function"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				call.Args = append(call.Args, c.expr(args.NamedChild(i)))
			}
		}
		return call

	case "attribute":
		return &pyast.Attribute{Pos: pos, Value: c.expr(n.ChildByFieldName("object")), Attr: c.text(n.ChildByFieldName("attribute"))}

	case "subscript":
		sub := &pyast.Subscript{Pos: pos, Value: c.expr(n.ChildByFieldName("value"))}
		if n.NamedChildCount() > 1 {
			sub.Index = c.expr(n.NamedChild(1))
		}
		return sub

	case "identifier":
		return &pyast.Name{Pos: pos, ID: c.text(n)}

	case "true", "false":
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstBool, Value: c.text(n)}
	case "none":
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstNone, Value: "None"}
	case "integer":
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstInt, Value: c.text(n)}
	case "float":
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstFloat, Value: c.text(n)}
	case "string":
		return c.stringLiteral(n, pos)
	case "ellipsis":
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstEllipsis, Value: "..."}

	case "comparison_operator":
		return c.comparison(n, pos)

	case "not_operator":
		operand := n.ChildByFieldName("argument")
		if operand == nil && n.NamedChildCount() > 0 {
			operand = n.NamedChild(0)
		}
		return &pyast.UnaryOp{Pos: pos, Op: "not", Operand: c.expr(operand)}

	case "unary_operator":
		return &pyast.UnaryOp{Pos: pos, Op: c.text(n.ChildByFieldName("operator")), Operand: c.expr(n.ChildByFieldName("argument"))}

	case "boolean_operator":
		return c.flattenBoolOp(n, pos)

	case "binary_operator":
		return &pyast.BinOp{
			Pos:   pos,
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    c.text(n.ChildByFieldName("operator")),
			Right: c.expr(n.ChildByFieldName("right")),
		}

	case "tuple":
		return &pyast.Tuple{Pos: pos, Elts: c.namedList(n)}
	case "list":
		return &pyast.List{Pos: pos, Elts: c.namedList(n)}
	case "set":
		return &pyast.Set{Pos: pos, Elts: c.namedList(n)}
	case "list_pattern":
		return &pyast.List{Pos: pos, Elts: c.namedList(n)}
	case "tuple_pattern":
		return &pyast.Tuple{Pos: pos, Elts: c.namedList(n)}

	case "dictionary":
		d := &pyast.Dict{Pos: pos}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() == "pair" {
				d.Keys = append(d.Keys, c.expr(pair.ChildByFieldName("key")))
				d.Values = append(d.Values, c.expr(pair.ChildByFieldName("value")))
			} else if pair.Type() == "dictionary_splat" {
				d.Keys = append(d.Keys, nil)
				d.Values = append(d.Values, c.expr(pair.NamedChild(0)))
			}
		}
		return d

	case "list_splat", "dictionary_splat":
		var inner pyast.Node
		if n.NamedChildCount() > 0 {
			inner = c.expr(n.NamedChild(0))
		}
		return &pyast.Starred{Pos: pos, Value: inner}
	case "list_splat_pattern":
		var inner pyast.Node
		if n.NamedChildCount() > 0 {
			inner = c.expr(n.NamedChild(0))
		}
		return &pyast.Starred{Pos: pos, Value: inner}

	case "yield":
		y := n.NamedChild(0)
		if y != nil && y.Type() == "from" {
			if y.NamedChildCount() > 0 {
				return &pyast.YieldFrom{Pos: pos, Value: c.expr(y.NamedChild(0))}
			}
			return &pyast.YieldFrom{Pos: pos}
		}
		if n.NamedChildCount() > 0 {
			return &pyast.Yield{Pos: pos, Value: c.expr(n.NamedChild(0))}
		}
		return &pyast.Yield{Pos: pos}

	case "as_pattern":
		// Appears inside `with`/`except`; by the time expr() sees one
		// directly it is being used as a bare expression, so fall back to
		// its primary value.
		if n.NamedChildCount() > 0 {
			return c.expr(n.NamedChild(0))
		}
		return &pyast.Unknown{Pos: pos, Kind: n.Type()}

	case "keyword_argument":
		return c.expr(n.ChildByFieldName("value"))

	default:
		return &pyast.Unknown{Pos: pos, Kind: n.Type()}
	}
}

func (c *converter) namedList(n *sitter.Node) []pyast.Node {
	var out []pyast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, c.expr(n.NamedChild(i)))
	}
	return out
}

// stringLiteral distinguishes a plain string from an f-string: an f-string
// has one or more `interpolation` children holding a FormattedValue.
func (c *converter) stringLiteral(n *sitter.Node, pos pyast.Pos) pyast.Node {
	var parts []pyast.Node
	hasInterpolation := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "interpolation" {
			hasInterpolation = true
			var val pyast.Node
			if child.NamedChildCount() > 0 {
				val = c.expr(child.NamedChild(0))
			}
			parts = append(parts, &pyast.FormattedValue{Pos: c.pos(child), Value: val})
		} else if child.Type() == "string_content" {
			parts = append(parts, &pyast.Constant{Pos: c.pos(child), Kind: pyast.ConstStr, Value: c.text(child)})
		}
	}
	if !hasInterpolation {
		return &pyast.Constant{Pos: pos, Kind: pyast.ConstStr, Value: c.text(n)}
	}
	return &pyast.JoinedStr{Pos: pos, Values: parts}
}

func (c *converter) comparison(n *sitter.Node, pos pyast.Pos) pyast.Node {
	cmp := &pyast.Compare{Pos: pos}
	var pendingOp []string
	first := true
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			if first {
				cmp.Left = c.expr(child)
				first = false
				continue
			}
			op := strings.Join(pendingOp, " ")
			if op == "" {
				op = "=="
			}
			cmp.Ops = append(cmp.Ops, op)
			cmp.Comparators = append(cmp.Comparators, c.expr(child))
			pendingOp = nil
		} else {
			pendingOp = append(pendingOp, child.Type())
		}
	}
	return cmp
}

// flattenBoolOp collapses a left-associative chain of the same boolean
// operator (tree-sitter nests `a and b and c` as binary pairs) into a
// single BoolOp with an ordered Values list, matching the flat shape the
// spec's short-circuit guard narrowing expects.
func (c *converter) flattenBoolOp(n *sitter.Node, pos pyast.Pos) pyast.Node {
	op := c.text(n.ChildByFieldName("operator"))
	var values []pyast.Node
	var collect func(node *sitter.Node)
	collect = func(node *sitter.Node) {
		if node.Type() == "boolean_operator" && c.text(node.ChildByFieldName("operator")) == op {
			collect(node.ChildByFieldName("left"))
			values = append(values, c.expr(node.ChildByFieldName("right")))
			return
		}
		values = append(values, c.expr(node))
	}
	collect(n.ChildByFieldName("left"))
	values = append(values, c.expr(n.ChildByFieldName("right")))
	return &pyast.BoolOp{Pos: pos, Op: op, Values: values}
}
