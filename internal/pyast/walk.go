package pyast

// Children returns the direct child AST nodes of n, in source order, per
// the structural walk contract: "visits all child AST nodes in source
// order." Nil children (e.g. an omitted `except` type, a bare `return`) are
// skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c == nil || isNilNode(c) {
			return
		}
		out = append(out, c)
	}
	addAll := func(cs []Node) {
		for _, c := range cs {
			add(c)
		}
	}

	switch t := n.(type) {
	case *Module:
		addAll(t.Body)
	case *FunctionDef:
		for _, p := range t.Args {
			add(p.Default)
			add(p.Annotation)
		}
		add(t.Returns)
		addAll(t.Body)
	case *AsyncFunctionDef:
		for _, p := range t.Args {
			add(p.Default)
			add(p.Annotation)
		}
		add(t.Returns)
		addAll(t.Body)
	case *ExceptHandler:
		add(t.Type)
		addAll(t.Body)
	case *Try:
		addAll(t.Body)
		for _, h := range t.Handlers {
			add(h)
		}
		addAll(t.Orelse)
		addAll(t.Finalbody)
	case *If:
		add(t.Test)
		addAll(t.Body)
		addAll(t.Orelse)
	case *While:
		add(t.Test)
		addAll(t.Body)
		addAll(t.Orelse)
	case *For:
		add(t.Target)
		add(t.Iter)
		addAll(t.Body)
		addAll(t.Orelse)
	case *AsyncFor:
		add(t.Target)
		add(t.Iter)
		addAll(t.Body)
		addAll(t.Orelse)
	case *With:
		for _, item := range t.Items {
			add(item.ContextExpr)
			add(item.OptionalVars)
		}
		addAll(t.Body)
	case *Assign:
		addAll(t.Targets)
		add(t.Value)
	case *AnnAssign:
		add(t.Target)
		add(t.Annotation)
		add(t.Value)
	case *Return:
		add(t.Value)
	case *Raise:
		add(t.Exc)
	case *Break, *Continue, *Pass:
		// leaves
	case *Assert:
		add(t.Test)
		add(t.Msg)
	case *ExprStmt:
		add(t.Value)
	case *Yield:
		add(t.Value)
	case *YieldFrom:
		add(t.Value)
	case *Call:
		add(t.Func)
		addAll(t.Args)
	case *Attribute:
		add(t.Value)
	case *Subscript:
		add(t.Value)
		add(t.Index)
	case *Name, *Constant:
		// leaves
	case *Compare:
		add(t.Left)
		addAll(t.Comparators)
	case *UnaryOp:
		add(t.Operand)
	case *BoolOp:
		addAll(t.Values)
	case *Tuple:
		addAll(t.Elts)
	case *List:
		addAll(t.Elts)
	case *Set:
		addAll(t.Elts)
	case *Dict:
		addAll(t.Keys)
		addAll(t.Values)
	case *Starred:
		add(t.Value)
	case *JoinedStr:
		addAll(t.Values)
	case *FormattedValue:
		add(t.Value)
	case *BinOp:
		add(t.Left)
		add(t.Right)
	case *ClassDef:
		addAll(t.Body)
	case *Unknown:
		// leaf
	}
	return out
}

// Walk performs a preorder depth-first traversal of n and its descendants,
// calling visit on every node including n itself. Returning false from visit
// skips descending into that node's children (but sibling traversal
// continues).
func Walk(n Node, visit func(Node) bool) {
	if n == nil || isNilNode(n) {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}

// Contains reports whether any node in n's subtree (n included) satisfies
// pred.
func Contains(n Node, pred func(Node) bool) bool {
	found := false
	Walk(n, func(c Node) bool {
		if found {
			return false
		}
		if pred(c) {
			found = true
			return false
		}
		return true
	})
	return found
}

// isNilNode reports whether a non-nil interface value wraps a nil pointer,
// which happens when an optional field such as ExceptHandler.Type is left
// as a typed nil (*Name)(nil) rather than assigned through the nil literal.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *FunctionDef:
		return v == nil
	case *AsyncFunctionDef:
		return v == nil
	case *ExceptHandler:
		return v == nil
	case *Try:
		return v == nil
	case *If:
		return v == nil
	case *While:
		return v == nil
	case *For:
		return v == nil
	case *AsyncFor:
		return v == nil
	case *With:
		return v == nil
	case *Assign:
		return v == nil
	case *AnnAssign:
		return v == nil
	case *Return:
		return v == nil
	case *Raise:
		return v == nil
	case *Break:
		return v == nil
	case *Continue:
		return v == nil
	case *Pass:
		return v == nil
	case *Assert:
		return v == nil
	case *ExprStmt:
		return v == nil
	case *Yield:
		return v == nil
	case *YieldFrom:
		return v == nil
	case *Call:
		return v == nil
	case *Attribute:
		return v == nil
	case *Subscript:
		return v == nil
	case *Name:
		return v == nil
	case *Constant:
		return v == nil
	case *Compare:
		return v == nil
	case *UnaryOp:
		return v == nil
	case *BoolOp:
		return v == nil
	case *Tuple:
		return v == nil
	case *List:
		return v == nil
	case *Set:
		return v == nil
	case *Dict:
		return v == nil
	case *Starred:
		return v == nil
	case *JoinedStr:
		return v == nil
	case *FormattedValue:
		return v == nil
	case *BinOp:
		return v == nil
	case *Module:
		return v == nil
	case *ClassDef:
		return v == nil
	case *Unknown:
		return v == nil
	default:
		return false
	}
}
