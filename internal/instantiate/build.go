package instantiate

import (
	"fmt"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/ir"
	"github.com/watconform/watconform/internal/sexpr"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// builder carries the compile-time context for one function body: its
// locals frame (parameters, then every `local` declaration among the
// function's top-level forms, wherever it appears), the stack of
// enclosing block/loop/if labels for br/br_if/br_table resolution, and
// the simulated operand-type stack every instruction is checked against.
type builder struct {
	module     *Module
	localTypes []api.ValueType
	localNames []string
	labelNames []string // innermost last
	stack      []api.ValueType

	// unreachable is set after br/br_table/return/unreachable: the rest of
	// the current sequence can never execute, so its stack shape is
	// polymorphic and residual checks are skipped until the enclosing
	// construct exits.
	unreachable bool
}

// buildFuncBody parses a function's (param)/(result)/(local) declarations
// and compiles its instruction sequence into fn.Body, validating the
// compile-time operand-type stack along the way.
func buildFuncBody(n *sexpr.Node, fn *wasm.Function, m *Module) error {
	params, results, err := parseParamsResults(n.Children)
	if err != nil {
		return err
	}
	// A function declared through `(type $t)` has no inline (param)/(result)
	// children; its signature was resolved when it was pre-declared, so the
	// locals frame and result check come from fn.Type instead.
	if len(params) == 0 && len(fn.Type.Params) > 0 {
		for _, t := range fn.Type.Params {
			params = append(params, paramInfo{typ: t})
		}
	}
	if len(results) == 0 {
		results = fn.Type.Results
	}
	b := &builder{module: m}
	for _, p := range params {
		b.localTypes = append(b.localTypes, p.typ)
		b.localNames = append(b.localNames, p.name)
	}
	for _, c := range n.Children {
		if c.Head != "local" {
			continue
		}
		if len(c.Atoms) == 2 && len(c.Atoms[0].Text) > 0 && c.Atoms[0].Text[0] == '$' {
			t, ok := api.ParseValueType(c.Atoms[1].Text)
			if !ok {
				return fmt.Errorf("line %d: %w: invalid local type %q", c.Line, watruntime.ErrUnexpectedToken, c.Atoms[1].Text)
			}
			b.localTypes = append(b.localTypes, t)
			b.localNames = append(b.localNames, c.Atoms[0].Text)
			continue
		}
		for _, a := range c.Atoms {
			t, ok := api.ParseValueType(a.Text)
			if !ok {
				return fmt.Errorf("line %d: %w: invalid local type %q", c.Line, watruntime.ErrUnexpectedToken, a.Text)
			}
			b.localTypes = append(b.localTypes, t)
			b.localNames = append(b.localNames, "")
		}
	}

	var body []*sexpr.Node
	for _, c := range n.Children {
		switch c.Head {
		case "param", "result", "local", "type", "export":
			continue
		default:
			body = append(body, c)
		}
	}

	nodes, err := b.buildSeq(body)
	if err != nil {
		return err
	}
	if !b.unreachable && !sameTypes(b.stack, results) {
		return fmt.Errorf("line %d: %w: function %q result type mismatch", n.Line, watruntime.ErrInvalidFunctionResult, fn.Name)
	}

	fn.LocalTypes = b.localTypes
	fn.LocalNames = b.localNames
	fn.Body = nodes
	return nil
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildSeq compiles an ordered instruction list, threading b.stack across
// instructions the way a single-pass type checker does.
func (b *builder) buildSeq(seq []*sexpr.Node) ([]*ir.Node, error) {
	var out []*ir.Node
	for _, c := range seq {
		nodes, err := b.buildFolded(c)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// buildFolded builds c and returns it preceded by whatever nodes its
// folded operand children compile to, honoring the text format's
// convention of nesting an instruction's operands as S-expression
// children rather than writing them as a flat preceding sequence (e.g.
// `(i32.add (local.get 0) (local.get 1))`). Block/loop/if and
// call_indirect's declaration children (param/result/type/then/else)
// carry body/condition/signature structure instead of folded operands,
// so those are excluded here and handled by their own builders.
func (b *builder) buildFolded(c *sexpr.Node) ([]*ir.Node, error) {
	if c.Head == "block" || c.Head == "loop" {
		node, err := b.buildOne(c)
		if err != nil {
			return nil, err
		}
		return []*ir.Node{node}, nil
	}

	var skip map[string]bool
	switch c.Head {
	case "if":
		skip = map[string]bool{"param": true, "result": true, "then": true, "else": true}
	case "call_indirect":
		skip = map[string]bool{"type": true, "param": true, "result": true}
	}

	var out []*ir.Node
	for _, ch := range c.Children {
		if skip[ch.Head] {
			continue
		}
		nodes, err := b.buildFolded(ch)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	node, err := b.buildOne(c)
	if err != nil {
		return nil, err
	}
	return append(out, node), nil
}

func (b *builder) push(t api.ValueType) { b.stack = append(b.stack, t) }

func (b *builder) pop(want api.ValueType) error {
	if len(b.stack) == 0 {
		if b.unreachable {
			return nil
		}
		return fmt.Errorf("%w: expected %s", watruntime.ErrEmptyOperand, want)
	}
	top := b.stack[len(b.stack)-1]
	if top != want {
		return fmt.Errorf("%w: expected %s, found %s", watruntime.ErrInvalidNumberType, want, top)
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}

func (b *builder) popAny() (api.ValueType, error) {
	if len(b.stack) == 0 {
		if b.unreachable {
			return api.ValueTypeI32, nil
		}
		return 0, fmt.Errorf("%w: stack empty", watruntime.ErrEmptyOperand)
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top, nil
}

func (b *builder) resolveLocal(ref string) (int, api.ValueType, bool) {
	if len(ref) > 0 && ref[0] == '$' {
		for i, name := range b.localNames {
			if name == ref {
				return i, b.localTypes[i], true
			}
		}
		return 0, 0, false
	}
	idx, err := parseIntLiteral(ref, 32)
	if err != nil || int(idx) < 0 || int(idx) >= len(b.localTypes) {
		return 0, 0, false
	}
	return int(idx), b.localTypes[idx], true
}

func (b *builder) resolveGlobal(ref string) (int, *wasm.Global, bool) {
	if b.module == nil {
		return 0, nil, false
	}
	if len(ref) > 0 && ref[0] == '$' {
		g := b.module.Globals.ByName(ref)
		if g == nil {
			return 0, nil, false
		}
		for i := 0; i < b.module.Globals.Len(); i++ {
			if b.module.Globals.ByIndex(i) == g {
				return i, g, true
			}
		}
	}
	idx, err := parseIntLiteral(ref, 32)
	if err != nil {
		return 0, nil, false
	}
	g := b.module.Globals.ByIndex(int(idx))
	if g == nil {
		return 0, nil, false
	}
	return int(idx), g, true
}

// resolveLabel finds depth levels from the innermost label matching ref,
// either a $name or a numeric relative depth.
func (b *builder) resolveLabel(ref string) (int, bool) {
	if len(ref) > 0 && ref[0] == '$' {
		for depth, i := 0, len(b.labelNames)-1; i >= 0; depth, i = depth+1, i-1 {
			if b.labelNames[i] == ref {
				return depth, true
			}
		}
		return 0, false
	}
	idx, err := parseIntLiteral(ref, 32)
	if err != nil || int(idx) >= len(b.labelNames) {
		return 0, false
	}
	return int(idx), true
}

func (b *builder) buildOne(c *sexpr.Node) (*ir.Node, error) {
	switch c.Head {
	case "unreachable":
		b.unreachable = true
		return &ir.Node{Kind: ir.KindUnreachable, Line: c.Line}, nil
	case "nop":
		return &ir.Node{Kind: ir.KindNop, Line: c.Line}, nil
	case "drop":
		if _, err := b.popAny(); err != nil {
			return nil, fmt.Errorf("line %d: drop: %w", c.Line, err)
		}
		return &ir.Node{Kind: ir.KindDrop, Line: c.Line}, nil
	case "select":
		if err := b.pop(api.ValueTypeI32); err != nil {
			return nil, fmt.Errorf("line %d: select: %w", c.Line, err)
		}
		t2, err := b.popAny()
		if err != nil {
			return nil, fmt.Errorf("line %d: select: %w", c.Line, err)
		}
		if err := b.pop(t2); err != nil {
			return nil, fmt.Errorf("line %d: select: %w", c.Line, err)
		}
		b.push(t2)
		return &ir.Node{Kind: ir.KindSelect, Type: t2, Line: c.Line}, nil
	case "local.get":
		idx, t, ok := b.resolveLocal(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown local %q", c.Line, watruntime.ErrUnknownVariable, atomText(c, 0))
		}
		b.push(t)
		return &ir.Node{Kind: ir.KindLocalGet, Index: idx, Type: t, Line: c.Line}, nil
	case "local.set":
		idx, t, ok := b.resolveLocal(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown local %q", c.Line, watruntime.ErrUnknownVariable, atomText(c, 0))
		}
		if err := b.pop(t); err != nil {
			return nil, fmt.Errorf("line %d: local.set: %w", c.Line, err)
		}
		return &ir.Node{Kind: ir.KindLocalSet, Index: idx, Type: t, Line: c.Line}, nil
	case "local.tee":
		idx, t, ok := b.resolveLocal(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown local %q", c.Line, watruntime.ErrUnknownVariable, atomText(c, 0))
		}
		if err := b.pop(t); err != nil {
			return nil, fmt.Errorf("line %d: local.tee: %w", c.Line, err)
		}
		b.push(t)
		return &ir.Node{Kind: ir.KindLocalTee, Index: idx, Type: t, Line: c.Line}, nil
	case "global.get":
		idx, g, ok := b.resolveGlobal(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown global %q", c.Line, watruntime.ErrUnknownVariable, atomText(c, 0))
		}
		b.push(g.Value.Type)
		return &ir.Node{Kind: ir.KindGlobalGet, Index: idx, Type: g.Value.Type, Line: c.Line}, nil
	case "global.set":
		idx, g, ok := b.resolveGlobal(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown global %q", c.Line, watruntime.ErrUnknownVariable, atomText(c, 0))
		}
		if !g.Mutable {
			return nil, fmt.Errorf("line %d: %w: global.set on immutable global %q", c.Line, watruntime.ErrInvalidFunctionSignature, atomText(c, 0))
		}
		if err := b.pop(g.Value.Type); err != nil {
			return nil, fmt.Errorf("line %d: global.set: %w", c.Line, err)
		}
		return &ir.Node{Kind: ir.KindGlobalSet, Index: idx, Type: g.Value.Type, Line: c.Line}, nil
	case "memory.size":
		b.push(api.ValueTypeI32)
		return &ir.Node{Kind: ir.KindMemorySize, Line: c.Line}, nil
	case "memory.grow":
		if err := b.pop(api.ValueTypeI32); err != nil {
			return nil, fmt.Errorf("line %d: memory.grow: %w", c.Line, err)
		}
		b.push(api.ValueTypeI32)
		return &ir.Node{Kind: ir.KindMemoryGrow, Line: c.Line}, nil
	case "block", "loop":
		return b.buildBlockLike(c)
	case "if":
		return b.buildIf(c)
	case "br":
		depth, ok := b.resolveLabel(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown label %q", c.Line, watruntime.ErrUnknownLabel, atomText(c, 0))
		}
		b.unreachable = true
		return &ir.Node{Kind: ir.KindBr, Target: depth, Line: c.Line}, nil
	case "br_if":
		if err := b.pop(api.ValueTypeI32); err != nil {
			return nil, fmt.Errorf("line %d: br_if: %w", c.Line, err)
		}
		depth, ok := b.resolveLabel(atomText(c, 0))
		if !ok {
			return nil, fmt.Errorf("line %d: %w: unknown label %q", c.Line, watruntime.ErrUnknownLabel, atomText(c, 0))
		}
		return &ir.Node{Kind: ir.KindBrIf, Target: depth, Line: c.Line}, nil
	case "br_table":
		if err := b.pop(api.ValueTypeI32); err != nil {
			return nil, fmt.Errorf("line %d: br_table: %w", c.Line, err)
		}
		var targets []int
		for i := range c.Atoms {
			depth, ok := b.resolveLabel(atomText(c, i))
			if !ok {
				return nil, fmt.Errorf("line %d: %w: unknown label %q", c.Line, watruntime.ErrUnknownLabel, atomText(c, i))
			}
			targets = append(targets, depth)
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("line %d: %w: br_table requires at least a default label", c.Line, watruntime.ErrEmptyOperand)
		}
		def := targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		b.unreachable = true
		return &ir.Node{Kind: ir.KindBrTable, Targets: targets, Default: def, Line: c.Line}, nil
	case "return":
		b.unreachable = true
		return &ir.Node{Kind: ir.KindReturn, Line: c.Line}, nil
	case "call":
		return b.buildCall(c)
	case "call_indirect":
		return b.buildCallIndirect(c)
	default:
		if info, ok := isMemoryOp(c.Head); ok {
			return b.buildMemAccess(c, info)
		}
		if len(c.Atoms) > 0 {
			if dot := indexOfDot(c.Head); dot > 0 && c.Head[dot+1:] == "const" {
				t, ok := api.ParseValueType(c.Head[:dot])
				if ok {
					v, err := parseLiteral(t, c.Atoms[0].Text)
					if err != nil {
						return nil, fmt.Errorf("line %d: %w", c.Line, err)
					}
					b.push(t)
					return &ir.Node{Kind: ir.KindConst, Value: v, Type: t, Line: c.Line}, nil
				}
			}
		}
		if info, ok := classify(c.Head); ok {
			return b.buildNumeric(c, info)
		}
		return nil, fmt.Errorf("line %d: %w: invalid syntax %q", c.Line, watruntime.ErrInvalidSyntax, c.Head)
	}
}

func atomText(c *sexpr.Node, i int) string {
	if i < 0 || i >= len(c.Atoms) {
		return ""
	}
	return c.Atoms[i].Text
}

func (b *builder) buildNumeric(c *sexpr.Node, info opInfo) (*ir.Node, error) {
	switch info.kind {
	case ir.KindUnOp:
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		b.push(info.ty)
		return &ir.Node{Kind: ir.KindUnOp, Op: info.op, Type: info.ty, Line: c.Line}, nil
	case ir.KindTestOp:
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		b.push(api.ValueTypeI32)
		return &ir.Node{Kind: ir.KindTestOp, Op: info.op, Type: info.ty, Line: c.Line}, nil
	case ir.KindRelOp:
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		b.push(api.ValueTypeI32)
		return &ir.Node{Kind: ir.KindRelOp, Op: info.op, Type: info.ty, Line: c.Line}, nil
	case ir.KindBinOp:
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		b.push(info.ty)
		return &ir.Node{Kind: ir.KindBinOp, Op: info.op, Type: info.ty, Line: c.Line}, nil
	case ir.KindConvertOp:
		if err := b.pop(info.srcTy); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		b.push(info.ty)
		return &ir.Node{Kind: ir.KindConvertOp, Op: info.op, Type: info.ty, SrcType: info.srcTy, Line: c.Line}, nil
	default:
		return nil, fmt.Errorf("line %d: %w: unhandled operator %q", c.Line, watruntime.ErrInvalidSyntax, c.Head)
	}
}

func (b *builder) buildMemAccess(c *sexpr.Node, info memOpInfo) (*ir.Node, error) {
	var offset, align uint32
	for _, a := range c.Atoms {
		if n, ok := cutPrefix(a.Text, "offset="); ok {
			v, err := parseIntLiteral(n, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: invalid offset %q", c.Line, watruntime.ErrUnexpectedToken, a.Text)
			}
			offset = uint32(v)
		}
		if n, ok := cutPrefix(a.Text, "align="); ok {
			v, err := parseIntLiteral(n, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: invalid align %q", c.Line, watruntime.ErrUnexpectedToken, a.Text)
			}
			align = uint32(v)
		}
	}
	if info.store {
		if err := b.pop(info.ty); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		if err := b.pop(api.ValueTypeI32); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
		}
		return &ir.Node{Kind: ir.KindMemoryStore, Type: info.ty, Offset: offset, Align: align, MemBytes: info.bytes, Line: c.Line}, nil
	}
	if err := b.pop(api.ValueTypeI32); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", c.Line, c.Head, err)
	}
	b.push(info.ty)
	return &ir.Node{Kind: ir.KindMemoryLoad, Type: info.ty, Offset: offset, Align: align, MemBytes: info.bytes, Signed: info.signed, Line: c.Line}, nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}

func (b *builder) buildCall(c *sexpr.Node) (*ir.Node, error) {
	ref := atomText(c, 0)
	if b.module == nil {
		return nil, fmt.Errorf("line %d: %w: no module in scope for call %q", c.Line, watruntime.ErrUnknownFunction, ref)
	}
	idx, ok := resolveFuncRef(ref, b.module.Funcs)
	if !ok {
		return nil, fmt.Errorf("line %d: %w: unknown function %q", c.Line, watruntime.ErrUnknownFunction, ref)
	}
	fn := b.module.Funcs.Function(idx)
	for i := len(fn.Type.Params) - 1; i >= 0; i-- {
		if err := b.pop(fn.Type.Params[i]); err != nil {
			return nil, fmt.Errorf("line %d: call %s: %w", c.Line, ref, err)
		}
	}
	for _, r := range fn.Type.Results {
		b.push(r)
	}
	return &ir.Node{Kind: ir.KindCall, Index: idx, Line: c.Line}, nil
}

func (b *builder) buildCallIndirect(c *sexpr.Node) (*ir.Node, error) {
	var sig wasm.FunctionType
	found := false
	for _, ch := range c.Children {
		if ch.Head == "type" && len(ch.Atoms) > 0 && b.module != nil {
			ref := ch.Atoms[0].Text
			if len(ref) > 0 && ref[0] == '$' {
				if idx, ok := b.module.Funcs.TypeIndex(ref); ok {
					sig, found = b.module.Funcs.Type(idx)
				}
			} else if v, err := parseIntLiteral(ref, 32); err == nil {
				sig, found = b.module.Funcs.Type(int(v))
			}
		}
	}
	if !found {
		var err error
		sig, err = parseSignature(c.Children)
		if err != nil {
			return nil, err
		}
	}
	if err := b.pop(api.ValueTypeI32); err != nil {
		return nil, fmt.Errorf("line %d: call_indirect: %w", c.Line, err)
	}
	for i := len(sig.Params) - 1; i >= 0; i-- {
		if err := b.pop(sig.Params[i]); err != nil {
			return nil, fmt.Errorf("line %d: call_indirect: %w", c.Line, err)
		}
	}
	for _, r := range sig.Results {
		b.push(r)
	}
	return &ir.Node{Kind: ir.KindCallIndirect, Signature: sig, Line: c.Line}, nil
}

// buildBlockLike compiles `block`/`loop`, each establishing a fresh label
// and an independently type-checked sub-sequence that must leave exactly
// its declared result types (this scope has no block parameters).
func (b *builder) buildBlockLike(c *sexpr.Node) (*ir.Node, error) {
	_, results, err := parseParamsResults(c.Children)
	if err != nil {
		return nil, err
	}
	name := c.Name()
	b.labelNames = append(b.labelNames, name)
	outer := b.stack
	outerUnreachable := b.unreachable
	b.stack = nil
	b.unreachable = false

	var body []*sexpr.Node
	for _, ch := range c.Children {
		if ch.Head == "param" || ch.Head == "result" {
			continue
		}
		body = append(body, ch)
	}
	nodes, err := b.buildSeq(body)
	if err != nil {
		return nil, err
	}
	if !b.unreachable && !sameTypes(b.stack, results) {
		return nil, fmt.Errorf("line %d: %w: %s result type mismatch", c.Line, watruntime.ErrInvalidFunctionResult, c.Head)
	}

	b.labelNames = b.labelNames[:len(b.labelNames)-1]
	b.unreachable = outerUnreachable
	b.stack = append(outer, results...)

	kind := ir.KindBlock
	if c.Head == "loop" {
		kind = ir.KindLoop
	}
	return &ir.Node{Kind: kind, ResultTypes: results, Body: nodes, Line: c.Line}, nil
}

// buildIf compiles `if (result ...)? then-body (else else-body)?`,
// consuming the i32 condition already on the stack.
func (b *builder) buildIf(c *sexpr.Node) (*ir.Node, error) {
	if err := b.pop(api.ValueTypeI32); err != nil {
		return nil, fmt.Errorf("line %d: if: %w", c.Line, err)
	}
	_, results, err := parseParamsResults(c.Children)
	if err != nil {
		return nil, err
	}
	name := c.Name()
	b.labelNames = append(b.labelNames, name)
	outer := b.stack
	outerUnreachable := b.unreachable

	var thenBody, elseBody []*sexpr.Node
	var thenNode, elseNode *sexpr.Node
	for _, ch := range c.Children {
		switch ch.Head {
		case "param", "result":
		case "then":
			thenNode = ch
		case "else":
			elseNode = ch
		default:
			// A folded condition expression: already built and evaluated
			// by buildFolded before this node runs.
		}
	}
	if thenNode != nil {
		thenBody = thenNode.Children
	}
	if elseNode != nil {
		elseBody = elseNode.Children
	}

	// Each arm type-checks against a fresh frame the way a block body does:
	// neither arm can see the outer operands, and both must leave exactly
	// the declared results.
	b.stack = nil
	b.unreachable = false
	thenNodes, err := b.buildSeq(thenBody)
	if err != nil {
		return nil, err
	}
	if !b.unreachable && !sameTypes(b.stack, results) {
		return nil, fmt.Errorf("line %d: %w: if: then-branch result type mismatch", c.Line, watruntime.ErrInvalidFunctionResult)
	}

	b.stack = nil
	b.unreachable = false
	elseNodes, err := b.buildSeq(elseBody)
	if err != nil {
		return nil, err
	}
	if !b.unreachable && !sameTypes(b.stack, results) {
		return nil, fmt.Errorf("line %d: %w: if: else-branch result type mismatch", c.Line, watruntime.ErrInvalidFunctionResult)
	}

	b.labelNames = b.labelNames[:len(b.labelNames)-1]
	b.unreachable = outerUnreachable
	b.stack = append(outer, results...)

	return &ir.Node{Kind: ir.KindIf, ResultTypes: results, Then: thenNodes, Else: elseNodes, Line: c.Line}, nil
}
