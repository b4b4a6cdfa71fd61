// Package interpreter walks the internal/ir operator tree the
// instantiator builds, executing it against an internal/wasm runtime
// state. The instantiator already proved the program's types line up, so
// this package only needs to compute values and raise traps.
//
// Control flow is a recursive tree walk returning an ir.Report: branches
// and returns travel as ordinary values, never as panics.
package interpreter

import (
	"fmt"

	"github.com/watconform/watconform/internal/instantiate"
	"github.com/watconform/watconform/internal/ir"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// frame is one function activation: its locals plus the operand stack it
// works on. Nested calls share the stack (each callee operates above its
// caller's mark), so MaxStackSlots bounds all live frames together; the
// locals are always private to the activation.
type frame struct {
	m      *instantiate.Module
	locals *wasm.Locals
	stack  *wasm.OperandStack
}

// CallFunction invokes the function at idx with args already matching its
// declared parameter types, and returns its declared result values or the
// trap that stopped it.
func CallFunction(m *instantiate.Module, idx int, args []wasm.Value) ([]wasm.Value, error) {
	return callOn(m, idx, args, wasm.NewOperandStack())
}

// callOn runs the function at idx on an existing operand stack, so nested
// calls share one stack and the MaxStackSlots bound holds across all live
// frames at once. The callee's operands live above the caller's mark; on
// return everything above the mark is consumed into the result values.
func callOn(m *instantiate.Module, idx int, args []wasm.Value, stack *wasm.OperandStack) ([]wasm.Value, error) {
	fn := m.Funcs.Function(idx)
	if fn == nil {
		return nil, fmt.Errorf("%w: function index %d", watruntime.ErrUnknownFunction, idx)
	}
	if len(args) != len(fn.Type.Params) {
		return nil, fmt.Errorf("%w: function %q takes %d arguments, got %d",
			watruntime.ErrInvalidFunctionSignature, fn.Name, len(fn.Type.Params), len(args))
	}
	body, _ := fn.Body.([]*ir.Node)

	locals := wasm.NewLocals(fn.LocalTypes, fn.LocalNames)
	for i, a := range args {
		locals.Set(i, a)
	}
	f := &frame{m: m, locals: locals, stack: stack}
	mark := stack.Mark()

	report := evalSeq(body, f)
	if report.Trapped != nil {
		return nil, report.Trapped
	}

	results := make([]wasm.Value, len(fn.Type.Results))
	for i := len(results) - 1; i >= 0; i-- {
		if stack.Len() <= mark {
			return nil, fmt.Errorf("%w: function %q left fewer results than declared", watruntime.ErrStackEmpty, fn.Name)
		}
		v, _ := stack.Pop()
		results[i] = v
	}
	if stack.Len() > mark {
		stack.Unwind(mark, 0)
	}
	return results, nil
}

// EvalExpr evaluates a standalone instruction sequence built by
// internal/instantiate.BuildExpr — an assertion action that is a bare
// expression rather than an invoke/get, e.g. `(i32.and (i32.const 1)
// (i32.const 2))` — against m (which may be nil for an expression that
// references no globals, functions, or memory) and returns whatever it
// left on the stack.
func EvalExpr(m *instantiate.Module, nodes []*ir.Node) ([]wasm.Value, error) {
	f := &frame{m: m, locals: wasm.NewLocals(nil, nil), stack: wasm.NewOperandStack()}
	report := evalSeq(nodes, f)
	if report.Trapped != nil {
		return nil, report.Trapped
	}
	return f.stack.Values(), nil
}

// evalSeq executes nodes in order, stopping as soon as one yields a
// non-Normal Report (a branch, return, or trap propagating outward).
func evalSeq(nodes []*ir.Node, f *frame) ir.Report {
	for _, n := range nodes {
		r := evalNode(n, f)
		if r.IsSignal() {
			return r
		}
	}
	return ir.Normal
}

func evalNode(n *ir.Node, f *frame) ir.Report {
	switch n.Kind {
	case ir.KindConst:
		if !f.stack.Push(n.Value) {
			return trap(watruntime.ErrStackOverflow, "")
		}
		return ir.Normal

	case ir.KindUnOp, ir.KindBinOp, ir.KindTestOp, ir.KindRelOp, ir.KindConvertOp:
		return evalNumeric(n, f)

	case ir.KindDrop:
		if _, ok := f.stack.Pop(); !ok {
			return trap(watruntime.ErrStackEmpty, "drop")
		}
		return ir.Normal

	case ir.KindSelect:
		cond, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "select")
		}
		b, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "select")
		}
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "select")
		}
		if cond.IsZero() {
			f.stack.Push(b)
		} else {
			f.stack.Push(a)
		}
		return ir.Normal

	case ir.KindLocalGet:
		v, ok := f.locals.Get(n.Index)
		if !ok {
			return trap(watruntime.ErrUnknownVariable, "local.get")
		}
		if !f.stack.Push(v) {
			return trap(watruntime.ErrStackOverflow, "")
		}
		return ir.Normal

	case ir.KindLocalSet, ir.KindLocalTee:
		v, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "local.set")
		}
		if !f.locals.Set(n.Index, v) {
			return trap(watruntime.ErrUnknownVariable, "local.set")
		}
		if n.Kind == ir.KindLocalTee && !f.stack.Push(v) {
			return trap(watruntime.ErrStackOverflow, "")
		}
		return ir.Normal

	case ir.KindGlobalGet:
		g := f.m.Globals.ByIndex(n.Index)
		if g == nil {
			return trap(watruntime.ErrUnknownVariable, "global.get")
		}
		if !f.stack.Push(g.Value) {
			return trap(watruntime.ErrStackOverflow, "")
		}
		return ir.Normal

	case ir.KindGlobalSet:
		v, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "global.set")
		}
		g := f.m.Globals.ByIndex(n.Index)
		if g == nil {
			return trap(watruntime.ErrUnknownVariable, "global.set")
		}
		g.Value = v
		return ir.Normal

	case ir.KindMemorySize:
		if f.m == nil || f.m.Memory == nil {
			return trap(watruntime.ErrUndefinedElement, "no memory in scope")
		}
		if !f.stack.Push(wasm.I32(int32(f.m.Memory.PageCount()))) {
			return trap(watruntime.ErrStackOverflow, "")
		}
		return ir.Normal

	case ir.KindMemoryGrow:
		if f.m == nil || f.m.Memory == nil {
			return trap(watruntime.ErrUndefinedElement, "no memory in scope")
		}
		v, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "memory.grow")
		}
		old := f.m.Memory.Grow(v.U32())
		f.stack.Push(wasm.I32(int32(old)))
		return ir.Normal

	case ir.KindMemoryLoad:
		return evalLoad(n, f)
	case ir.KindMemoryStore:
		return evalStore(n, f)

	case ir.KindBlock:
		mark := f.stack.Mark()
		r := exitLabel(evalSeq(n.Body, f))
		if !r.IsSignal() {
			f.unwind(mark, len(n.ResultTypes))
		}
		return r

	case ir.KindLoop:
		mark := f.stack.Mark()
		for {
			r := evalSeq(n.Body, f)
			if r.Break && r.Target == 0 {
				// Loop re-entry: a branch to a loop label restarts its body
				// with the operand stack back at the loop's entry depth.
				f.unwind(mark, 0)
				continue
			}
			r = exitLabel(r)
			if !r.IsSignal() {
				f.unwind(mark, len(n.ResultTypes))
			}
			return r
		}

	case ir.KindIf:
		cond, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "if")
		}
		mark := f.stack.Mark()
		var r ir.Report
		if !cond.IsZero() {
			r = evalSeq(n.Then, f)
		} else {
			r = evalSeq(n.Else, f)
		}
		r = exitLabel(r)
		if !r.IsSignal() {
			f.unwind(mark, len(n.ResultTypes))
		}
		return r

	case ir.KindBr:
		return ir.Report{Break: true, Target: n.Target}

	case ir.KindBrIf:
		cond, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "br_if")
		}
		if cond.IsZero() {
			return ir.Normal
		}
		return ir.Report{Break: true, Target: n.Target}

	case ir.KindBrTable:
		idx, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "br_table")
		}
		i := int(idx.U32())
		target := n.Default
		if i >= 0 && i < len(n.Targets) {
			target = n.Targets[i]
		}
		return ir.Report{Break: true, Target: target}

	case ir.KindReturn:
		return ir.Report{Return: true}

	case ir.KindUnreachable:
		return trap(watruntime.ErrUnreachable, "")

	case ir.KindNop:
		return ir.Normal

	case ir.KindCall:
		return evalCall(n, f)
	case ir.KindCallIndirect:
		return evalCallIndirect(n, f)

	default:
		return trap(watruntime.ErrInvalidSyntax, "unhandled operator")
	}
}

// unwind truncates operands a branch left behind below the construct's
// declared results, restoring the stack to entry depth plus arity. A
// shallower stack means a branch already consumed its way past mark; the
// construct's results are wherever the branch left them, so nothing to do.
func (f *frame) unwind(mark, arity int) {
	if f.stack.Len() >= mark+arity {
		f.stack.Unwind(mark, arity)
	}
}

// exitLabel turns a Break targeting this construct's own label (Target
// == 0) into Normal continuation, since the construct's result values
// are already sitting on the stack where they belong; any other Break
// decrements and keeps propagating outward.
func exitLabel(r ir.Report) ir.Report {
	if r.Break {
		if r.Target == 0 {
			return ir.Normal
		}
		r.Target--
		return r
	}
	return r
}

func trap(base error, detail string) ir.Report {
	var err error
	if detail == "" {
		err = base
	} else {
		err = fmt.Errorf("%w: %s", base, detail)
	}
	return ir.Report{Trapped: err}
}

func evalCall(n *ir.Node, f *frame) ir.Report {
	fn := f.m.Funcs.Function(n.Index)
	if fn == nil {
		return trap(watruntime.ErrUnknownFunction, "call")
	}
	args := make([]wasm.Value, len(fn.Type.Params))
	for i := len(args) - 1; i >= 0; i-- {
		v, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "call")
		}
		args[i] = v
	}
	results, err := callOn(f.m, n.Index, args, f.stack)
	if err != nil {
		return ir.Report{Trapped: err}
	}
	for _, r := range results {
		if !f.stack.Push(r) {
			return trap(watruntime.ErrStackOverflow, "")
		}
	}
	return ir.Normal
}

func evalCallIndirect(n *ir.Node, f *frame) ir.Report {
	slot, ok := f.stack.Pop()
	if !ok {
		return trap(watruntime.ErrStackEmpty, "call_indirect")
	}
	fnIdx, ok := f.m.Funcs.TableEntry(int(slot.U32()))
	if !ok {
		return trap(watruntime.ErrUndefinedElement, "call_indirect")
	}
	fn := f.m.Funcs.Function(fnIdx)
	if fn == nil {
		return trap(watruntime.ErrUndefinedElement, "call_indirect")
	}
	if !fn.Type.Equal(n.Signature) {
		return trap(watruntime.ErrInvalidFunctionSignature, "call_indirect")
	}
	args := make([]wasm.Value, len(fn.Type.Params))
	for i := len(args) - 1; i >= 0; i-- {
		v, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, "call_indirect")
		}
		args[i] = v
	}
	results, err := callOn(f.m, fnIdx, args, f.stack)
	if err != nil {
		return ir.Report{Trapped: err}
	}
	for _, r := range results {
		if !f.stack.Push(r) {
			return trap(watruntime.ErrStackOverflow, "")
		}
	}
	return ir.Normal
}
