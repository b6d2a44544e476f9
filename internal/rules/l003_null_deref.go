package rules

import (
	"fmt"
	"strings"

	"github.com/anchorlint/anchorlint/internal/finding"
	"github.com/anchorlint/anchorlint/internal/pyast"
	"github.com/anchorlint/anchorlint/internal/registry"
)

// l003 is a flow-sensitive, forward, intraprocedural "may be None" dataflow
// analysis. Each function is analyzed independently, starting from a state
// that tracks which local names might currently hold None; assignments,
// guard conditionals, and a small guard-function pre-pass narrow that state
// as execution proceeds, and every attribute access on a name still in the
// maybe-null state is flagged.
//
// This is deliberately shallow: no type inference, no interprocedural
// reasoning beyond the guard-function table, no alias analysis. It catches
// the common "checked in one branch, dereferenced after the merge" shape
// without pretending to be a real type checker.
func l003(ctx *registry.Context) []finding.Finding {
	guards := collectGuardFunctions(ctx.Tree)
	var out []finding.Finding
	pyast.Walk(ctx.Tree, func(n pyast.Node) bool {
		switch fn := n.(type) {
		case *pyast.FunctionDef:
			analyzeFunctionBody(ctx.Filename, fn.Args, fn.Body, guards, &out)
		case *pyast.AsyncFunctionDef:
			analyzeFunctionBody(ctx.Filename, fn.Args, fn.Body, guards, &out)
		}
		return true
	})
	return out
}

// nullSet is the maybe-null abstract state: presence of a name means it may
// currently be None.
type nullSet map[string]bool

func (s nullSet) clone() nullSet {
	out := make(nullSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func withNullKnowledge(s nullSet, name string, isNull bool) nullSet {
	out := s.clone()
	if isNull {
		out[name] = true
	} else {
		delete(out, name)
	}
	return out
}

// unionStates merges two exit states, per the union semantics adopted for
// if-statement branch merging: a name is maybe-null after the merge if it
// was maybe-null along either path.
func unionStates(a, b nullSet) nullSet {
	out := make(nullSet, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func analyzeFunctionBody(file string, params []pyast.Param, body []pyast.Node, guards map[string]int, out *[]finding.Finding) {
	state := nullSet{}
	for _, p := range params {
		if p.Default != nil && isNoneConst(p.Default) {
			state[p.Name] = true
		}
	}
	processBlock(body, state, file, guards, out)
}

func processBlock(stmts []pyast.Node, state nullSet, file string, guards map[string]int, out *[]finding.Finding) nullSet {
	cur := state
	for _, stmt := range stmts {
		cur = processStmt(stmt, cur, file, guards, out)
	}
	return cur
}

func processStmt(stmt pyast.Node, state nullSet, file string, guards map[string]int, out *[]finding.Finding) nullSet {
	switch s := stmt.(type) {
	case *pyast.Assign:
		checkExpr(s.Value, state, file, out)
		next := state
		for _, tgt := range s.Targets {
			if name, ok := tgt.(*pyast.Name); ok {
				next = withNullKnowledge(next, name.ID, isNoneConst(s.Value))
			}
		}
		return next

	case *pyast.AnnAssign:
		if s.Value != nil {
			checkExpr(s.Value, state, file, out)
		}
		if name, ok := s.Target.(*pyast.Name); ok && s.Value != nil {
			return withNullKnowledge(state, name.ID, isNoneConst(s.Value))
		}
		return state

	case *pyast.ExprStmt:
		checkExpr(s.Value, state, file, out)
		if call, ok := s.Value.(*pyast.Call); ok {
			if callee, ok := call.Func.(*pyast.Name); ok {
				if idx, isGuard := guards[callee.ID]; isGuard && idx < len(call.Args) {
					if argName, ok := call.Args[idx].(*pyast.Name); ok {
						return withNullKnowledge(state, argName.ID, false)
					}
				}
			}
		}
		return state

	case *pyast.Return:
		if s.Value != nil {
			checkExpr(s.Value, state, file, out)
		}
		return state

	case *pyast.Raise:
		if s.Exc != nil {
			checkExpr(s.Exc, state, file, out)
		}
		return state

	case *pyast.Assert:
		checkExpr(s.Test, state, file, out)
		if s.Msg != nil {
			checkExpr(s.Msg, state, file, out)
		}
		return narrow(s.Test, true, state)

	case *pyast.If:
		checkExpr(s.Test, state, file, out)
		thenState := processBlock(s.Body, narrow(s.Test, true, state), file, guards, out)
		thenTerminates := terminates(s.Body)
		var elseState nullSet
		var elseTerminates bool
		if len(s.Orelse) > 0 {
			elseState = processBlock(s.Orelse, narrow(s.Test, false, state), file, guards, out)
			elseTerminates = terminates(s.Orelse)
		} else {
			elseState = narrow(s.Test, false, state)
			elseTerminates = false
		}
		// A branch that terminates (return/raise/break/continue) never
		// reaches the statements after the if, so its exit state is
		// excluded from the post-if union; only a branch that actually
		// falls through should contribute to it.
		switch {
		case thenTerminates && elseTerminates:
			return unionStates(thenState, elseState)
		case thenTerminates:
			return elseState
		case elseTerminates:
			return thenState
		default:
			return unionStates(thenState, elseState)
		}

	case *pyast.While:
		checkExpr(s.Test, state, file, out)
		// Body and orelse are scanned for dereferences only; §4.7 discards
		// the loop's effect on D entirely (post-loop D unchanged), so the
		// incoming state is what flows to the statements after the loop.
		processBlock(s.Body, narrow(s.Test, true, state), file, guards, out)
		if len(s.Orelse) > 0 {
			processBlock(s.Orelse, state, file, guards, out)
		}
		return state

	case *pyast.For:
		checkExpr(s.Iter, state, file, out)
		loopState := state
		if name, ok := s.Target.(*pyast.Name); ok {
			loopState = withNullKnowledge(loopState, name.ID, false)
		}
		processBlock(s.Body, loopState, file, guards, out)
		if len(s.Orelse) > 0 {
			processBlock(s.Orelse, state, file, guards, out)
		}
		return state

	case *pyast.AsyncFor:
		checkExpr(s.Iter, state, file, out)
		loopState := state
		if name, ok := s.Target.(*pyast.Name); ok {
			loopState = withNullKnowledge(loopState, name.ID, false)
		}
		processBlock(s.Body, loopState, file, guards, out)
		if len(s.Orelse) > 0 {
			processBlock(s.Orelse, state, file, guards, out)
		}
		return state

	case *pyast.With:
		cur := state
		for _, item := range s.Items {
			checkExpr(item.ContextExpr, cur, file, out)
			if item.OptionalVars != nil {
				if name, ok := item.OptionalVars.(*pyast.Name); ok {
					cur = withNullKnowledge(cur, name.ID, false)
				}
			}
		}
		return processBlock(s.Body, cur, file, guards, out)

	case *pyast.Try:
		// Every clause is scanned for dereferences against the incoming
		// state, but §4.7 discards the whole construct's effect on D
		// (post-try D unchanged, conservative): a try body can be
		// interrupted at any statement by the exception it's guarding
		// against, so nothing it narrows or nulls can be trusted past it.
		processBlock(s.Body, state, file, guards, out)
		for _, h := range s.Handlers {
			processBlock(h.Body, state, file, guards, out)
		}
		if len(s.Orelse) > 0 {
			processBlock(s.Orelse, state, file, guards, out)
		}
		if len(s.Finalbody) > 0 {
			processBlock(s.Finalbody, state, file, guards, out)
		}
		return state

	case *pyast.FunctionDef, *pyast.AsyncFunctionDef, *pyast.ClassDef:
		// Nested scopes are analyzed on their own by the outer Walk in l003;
		// they neither consume nor contribute to the enclosing function's
		// state.
		return state

	default:
		return state
	}
}

// checkExpr reports every attribute access within e whose base name is
// currently in the maybe-null state, skipping dunder attributes (those
// resolve through the type, not the instance, and are safe even on None).
// It does not descend into nested function or class bodies.
func checkExpr(e pyast.Node, state nullSet, file string, out *[]finding.Finding) {
	if e == nil {
		return
	}
	pyast.Walk(e, func(n pyast.Node) bool {
		switch v := n.(type) {
		case *pyast.FunctionDef, *pyast.AsyncFunctionDef, *pyast.ClassDef:
			return false
		case *pyast.Attribute:
			if name, ok := v.Value.(*pyast.Name); ok {
				if state[name.ID] && !isDunder(v.Attr) {
					f, err := finding.New(
						"L003",
						fmt.Sprintf("%q may be None here; .%s is accessed without a prior None check", name.ID, v.Attr),
						finding.High,
						file,
						v.Line(),
						v.Column(),
					)
					if err == nil {
						*out = append(*out, f)
					}
				}
			}
		case *pyast.Subscript:
			if name, ok := v.Value.(*pyast.Name); ok {
				if state[name.ID] {
					f, err := finding.New(
						"L003",
						fmt.Sprintf("%q may be None here; subscript access is not guarded by a prior None check", name.ID),
						finding.High,
						file,
						v.Line(),
						v.Column(),
					)
					if err == nil {
						*out = append(*out, f)
					}
				}
			}
		}
		return true
	})
}

func isDunder(attr string) bool {
	return len(attr) > 4 && strings.HasPrefix(attr, "__") && strings.HasSuffix(attr, "__")
}

func isNoneConst(n pyast.Node) bool {
	c, ok := n.(*pyast.Constant)
	return ok && c.Kind == pyast.ConstNone
}

// narrow computes the state entering a branch where test evaluated to
// truthy (or, if truthy is false, the branch where it evaluated falsy). It
// recognizes `x is None`, `x is not None`, bare `x`/`not x` truthiness, and
// `isinstance`/`hasattr` guards; anything else leaves the state unchanged.
func narrow(test pyast.Node, truthy bool, state nullSet) nullSet {
	switch t := test.(type) {
	case *pyast.Compare:
		if len(t.Ops) != 1 || len(t.Comparators) != 1 {
			return state.clone()
		}
		op := t.Ops[0]
		if op != "is" && op != "is not" {
			return state.clone()
		}
		var name string
		switch {
		case isNameNode(t.Left) && isNoneConst(t.Comparators[0]):
			name = t.Left.(*pyast.Name).ID
		case isNameNode(t.Comparators[0]) && isNoneConst(t.Left):
			name = t.Comparators[0].(*pyast.Name).ID
		default:
			return state.clone()
		}
		isNoneWhenTrue := op == "is"
		return withNullKnowledge(state, name, isNoneWhenTrue == truthy)

	case *pyast.UnaryOp:
		if t.Op == "not" {
			return narrow(t.Operand, !truthy, state)
		}
		return state.clone()

	case *pyast.BoolOp:
		switch {
		case t.Op == "and" && truthy:
			cur := state
			for _, v := range t.Values {
				cur = narrow(v, true, cur)
			}
			return cur
		case t.Op == "or" && !truthy:
			cur := state
			for _, v := range t.Values {
				cur = narrow(v, false, cur)
			}
			return cur
		default:
			// "and" evaluating false, or "or" evaluating true: which
			// operand decided it is ambiguous, so no narrowing.
			return state.clone()
		}

	case *pyast.Call:
		if truthy && len(t.Args) > 0 && (isCalledName(t, "isinstance") || isCalledName(t, "hasattr")) {
			if name, ok := t.Args[0].(*pyast.Name); ok {
				return withNullKnowledge(state, name.ID, false)
			}
		}
		return state.clone()

	case *pyast.Name:
		if truthy {
			return withNullKnowledge(state, t.ID, false)
		}
		return state.clone()

	default:
		return state.clone()
	}
}

func isNameNode(n pyast.Node) bool {
	_, ok := n.(*pyast.Name)
	return ok
}

// collectGuardFunctions finds functions whose body begins with a
// None-check that terminates (raises or returns) when the guarded
// parameter is None, or an equivalent assert. A call to such a function
// used as an expression statement, anywhere in a block, is treated as proof
// the argument in the guarded position is non-null from that point on.
func collectGuardFunctions(tree *pyast.Module) map[string]int {
	table := map[string]int{}
	pyast.Walk(tree, func(n pyast.Node) bool {
		fn, ok := n.(*pyast.FunctionDef)
		if !ok || len(fn.Body) == 0 {
			return true
		}
		if idx, ok := guardParamIndex(fn); ok {
			table[fn.Name] = idx
		}
		return true
	})
	return table
}

func guardParamIndex(fn *pyast.FunctionDef) (int, bool) {
	switch first := fn.Body[0].(type) {
	case *pyast.If:
		if len(first.Orelse) > 0 || !terminates(first.Body) {
			return 0, false
		}
		name, ok := noneCheckedName(first.Test, true)
		if !ok {
			return 0, false
		}
		return paramIndexOf(fn.Args, name)
	case *pyast.Assert:
		name, ok := noneCheckedName(first.Test, false)
		if !ok {
			return 0, false
		}
		return paramIndexOf(fn.Args, name)
	default:
		return 0, false
	}
}

func terminates(body []pyast.Node) bool {
	if len(body) == 0 {
		return false
	}
	switch body[len(body)-1].(type) {
	case *pyast.Raise, *pyast.Return, *pyast.Break, *pyast.Continue:
		return true
	default:
		return false
	}
}

// noneCheckedName extracts the variable name from a `x is None` (wantIsNone
// true) or `x is not None` (wantIsNone false) comparison.
func noneCheckedName(test pyast.Node, wantIsNone bool) (string, bool) {
	cmp, ok := test.(*pyast.Compare)
	if !ok || len(cmp.Ops) != 1 || len(cmp.Comparators) != 1 {
		return "", false
	}
	name, ok := cmp.Left.(*pyast.Name)
	if !ok || !isNoneConst(cmp.Comparators[0]) {
		return "", false
	}
	op := cmp.Ops[0]
	if wantIsNone && op == "is" {
		return name.ID, true
	}
	if !wantIsNone && op == "is not" {
		return name.ID, true
	}
	return "", false
}

func paramIndexOf(params []pyast.Param, name string) (int, bool) {
	for i, p := range params {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func init() {
	Register(registry.Descriptor{
		ID:              "L003",
		Description:     "possible null dereference",
		DefaultSeverity: finding.High,
		LanguageTag:     "python",
		Run:             l003,
	})
}
