// Package instantiate turns a raw sexpr.Node module tree into a validated
// internal/wasm data model plus internal/ir operator trees for each
// function body. Every static check happens here; internal/interpreter
// assumes a tree that reaches it is well-typed.
package instantiate

import (
	"fmt"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/ir"
	"github.com/watconform/watconform/internal/sexpr"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// Module is an instantiated text-format module: its function, global, and
// table registries plus its linear memory, ready for internal/interpreter
// to execute against.
type Module struct {
	Funcs     *wasm.FunctionRegistry
	Globals   *wasm.GlobalRegistry
	Memory    *wasm.Memory
	HasMemory bool
}

// Instantiate validates root (which must have Head == "module") and
// builds a Module. It returns the first validation error encountered,
// wrapped with a watruntime sentinel.
func Instantiate(root *sexpr.Node) (*Module, error) {
	if root.Head != "module" {
		return nil, fmt.Errorf("%w: expected module, got %q", watruntime.ErrInvalidSyntax, root.Head)
	}
	if len(root.Atoms) > 0 && root.Atoms[0].Text == "quote" {
		return nil, fmt.Errorf("%w: quote-wrapped module text is not parsed", watruntime.ErrUnexpectedToken)
	}

	m := &Module{
		Funcs:   wasm.NewFunctionRegistry(),
		Globals: wasm.NewGlobalRegistry(),
		Memory:  wasm.NewMemory(),
	}

	// Pass 1: types and memory. These never reference functions or
	// globals so order among themselves does not matter.
	for _, c := range root.Children {
		switch c.Head {
		case "type":
			name, sig, err := parseTypeDecl(c)
			if err != nil {
				return nil, err
			}
			m.Funcs.DeclareType(name, sig)
		case "memory":
			pages, err := parseMemoryDecl(c)
			if err != nil {
				return nil, err
			}
			m.Memory.Grow(pages)
			m.HasMemory = true
		}
	}

	// Pass 2: globals, evaluated in declaration order so a later global's
	// initializer may reference an earlier one via global.get (the text
	// format permits this within a single module).
	for _, c := range root.Children {
		if c.Head != "global" {
			continue
		}
		g, err := parseGlobalDecl(c, m)
		if err != nil {
			return nil, err
		}
		m.Globals.Declare(g)
		for _, ch := range c.Children {
			if ch.Head == "export" && len(ch.Atoms) > 0 {
				m.Globals.Export(ch.Atoms[0].Text, g)
			}
		}
	}

	// Pass 3: pre-declare every function's signature and name so bodies
	// compiled in pass 4 can resolve both forward and recursive calls.
	type pending struct {
		node *sexpr.Node
		idx  int
	}
	var fns []pending
	for _, c := range root.Children {
		if c.Head != "func" {
			continue
		}
		name, sig, err := parseFuncSignature(c, m.Funcs)
		if err != nil {
			return nil, err
		}
		idx := m.Funcs.DeclareFunction(&wasm.Function{Name: name, Type: sig})
		for _, ch := range c.Children {
			if ch.Head == "export" && len(ch.Atoms) > 0 {
				m.Funcs.Export(ch.Atoms[0].Text, idx)
			}
		}
		fns = append(fns, pending{node: c, idx: idx})
	}

	// Pass 4: compile each function body now that every signature is
	// known.
	for _, p := range fns {
		fn := m.Funcs.Function(p.idx)
		if err := buildFuncBody(p.node, fn, m); err != nil {
			return nil, err
		}
	}

	// Pass 5: elem segments populate the call_indirect table now that
	// function names resolve. Both the standalone `(elem ...)` form and the
	// inline `(table funcref (elem ...))` form feed the same table.
	for _, c := range root.Children {
		elemNode := c
		if c.Head == "table" {
			elemNode = nil
			for _, ch := range c.Children {
				if ch.Head == "elem" {
					elemNode = ch
				}
			}
			if elemNode == nil {
				continue
			}
		} else if c.Head != "elem" {
			continue
		}
		entries, err := parseElemDecl(elemNode, m.Funcs)
		if err != nil {
			return nil, err
		}
		m.Funcs.SetTable(entries)
	}

	return m, nil
}

// parseTypeDecl parses `(type $name? (func (param ...) (result ...)))`.
func parseTypeDecl(n *sexpr.Node) (string, wasm.FunctionType, error) {
	name := n.Name()
	var funcNode *sexpr.Node
	for _, c := range n.Children {
		if c.Head == "func" {
			funcNode = c
			break
		}
	}
	if funcNode == nil {
		return "", wasm.FunctionType{}, fmt.Errorf("line %d: %w: type declaration missing (func ...)", n.Line, watruntime.ErrInvalidSyntax)
	}
	sig, err := parseSignature(funcNode.Children)
	return name, sig, err
}

// parseMemoryDecl parses `(memory $name? N)`, returning the initial page
// count. A declared maximum is accepted but not enforced.
func parseMemoryDecl(n *sexpr.Node) (uint32, error) {
	for _, a := range n.Atoms {
		if a.Text == "" || a.Text[0] == '$' {
			continue
		}
		v, err := parseIntLiteral(a.Text, 32)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w: invalid memory size %q", n.Line, watruntime.ErrUnexpectedToken, a.Text)
		}
		return uint32(v), nil
	}
	return 0, fmt.Errorf("line %d: %w: memory declaration missing page count", n.Line, watruntime.ErrInvalidSyntax)
}

// parseGlobalDecl parses `(global $name? (mut ty)|ty (initExpr))`.
func parseGlobalDecl(n *sexpr.Node, m *Module) (*wasm.Global, error) {
	name := n.Name()
	var ty api.ValueType
	mutable := false
	found := false
	for _, a := range n.Atoms {
		if a.Text == name {
			continue
		}
		if t, ok := api.ParseValueType(a.Text); ok {
			ty, found = t, true
		}
	}
	for _, c := range n.Children {
		if c.Head == "mut" {
			mutable = true
			if len(c.Atoms) > 0 {
				if t, ok := api.ParseValueType(c.Atoms[0].Text); ok {
					ty, found = t, true
				}
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("line %d: %w: global declaration missing a value type", n.Line, watruntime.ErrInvalidSyntax)
	}
	var initNode *sexpr.Node
	for _, c := range n.Children {
		if c.Head != "mut" {
			initNode = c
		}
	}
	if initNode == nil {
		return nil, fmt.Errorf("line %d: %w: global declaration missing initializer", n.Line, watruntime.ErrInvalidSyntax)
	}
	val, err := evalConstExpr(initNode, ty, m)
	if err != nil {
		return nil, err
	}
	return &wasm.Global{Name: name, Value: val, Mutable: mutable}, nil
}

// evalConstExpr evaluates the limited constant-expression grammar allowed
// in initializers: a single `*.const` or `global.get` node.
func evalConstExpr(n *sexpr.Node, want api.ValueType, m *Module) (wasm.Value, error) {
	switch {
	case n.Head == "global.get":
		if len(n.Atoms) == 0 {
			return wasm.Value{}, fmt.Errorf("line %d: %w: global.get missing operand", n.Line, watruntime.ErrInvalidSyntax)
		}
		ref := n.Atoms[0].Text
		var g *wasm.Global
		if len(ref) > 0 && ref[0] == '$' {
			g = m.Globals.ByName(ref)
		} else {
			idx, err := parseIntLiteral(ref, 32)
			if err == nil {
				g = m.Globals.ByIndex(int(idx))
			}
		}
		if g == nil {
			return wasm.Value{}, fmt.Errorf("line %d: %w: unknown global %q in constant expression", n.Line, watruntime.ErrUnknownVariable, ref)
		}
		return g.Value, nil
	default:
		dot := indexOfDot(n.Head)
		if dot < 0 {
			return wasm.Value{}, fmt.Errorf("line %d: %w: invalid constant expression %q", n.Line, watruntime.ErrUnexpectedToken, n.Head)
		}
		tyStr, op := n.Head[:dot], n.Head[dot+1:]
		t, ok := api.ParseValueType(tyStr)
		if !ok || op != "const" || len(n.Atoms) == 0 {
			return wasm.Value{}, fmt.Errorf("line %d: %w: invalid constant expression %q", n.Line, watruntime.ErrUnexpectedToken, n.Head)
		}
		return parseLiteral(t, n.Atoms[0].Text)
	}
}

// BuildExpr compiles a single standalone instruction node (an assertion
// directive's action that is not an `invoke`/`get`, e.g. a bare
// `(i32.and ...)`) against m's globals and functions, without a
// surrounding function body. The returned list is the instruction plus
// whatever its folded operands compile to, in execution order.
func BuildExpr(n *sexpr.Node, m *Module) ([]*ir.Node, error) {
	b := &builder{module: m}
	return b.buildFolded(n)
}

// ConstLiteral parses a bare `*.const` node outside of any module context,
// used by internal/spectest to read assert_return's expected-value forms
// and invoke's argument literals.
func ConstLiteral(n *sexpr.Node) (wasm.Value, error) {
	dot := indexOfDot(n.Head)
	if dot < 0 {
		return wasm.Value{}, fmt.Errorf("line %d: %w: expected a constant expression, got %q", n.Line, watruntime.ErrUnexpectedToken, n.Head)
	}
	tyStr, op := n.Head[:dot], n.Head[dot+1:]
	t, ok := api.ParseValueType(tyStr)
	if !ok || op != "const" || len(n.Atoms) == 0 {
		return wasm.Value{}, fmt.Errorf("line %d: %w: expected a constant expression, got %q", n.Line, watruntime.ErrUnexpectedToken, n.Head)
	}
	return parseLiteral(t, n.Atoms[0].Text)
}

func indexOfDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// parseElemDecl parses `(elem (offset)? $f1 $f2 ...)` (the table's
// offset expression is accepted but, with a single table, ignored beyond
// ordering — this scope has no imports so there is exactly one table).
func parseElemDecl(n *sexpr.Node, reg *wasm.FunctionRegistry) ([]int, error) {
	var entries []int
	for _, a := range n.Atoms {
		if a.Text == "func" || a.Text == "funcref" {
			continue
		}
		idx, ok := resolveFuncRef(a.Text, reg)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown function %q in elem segment", n.Line, watruntime.ErrUnknownFunction, a.Text)
		}
		entries = append(entries, idx)
	}
	return entries, nil
}

func resolveFuncRef(text string, reg *wasm.FunctionRegistry) (int, bool) {
	if len(text) > 0 && text[0] == '$' {
		return reg.FunctionIndex(text)
	}
	v, err := parseIntLiteral(text, 32)
	if err != nil {
		return 0, false
	}
	idx := int(v)
	if reg.Function(idx) == nil {
		return 0, false
	}
	return idx, true
}
