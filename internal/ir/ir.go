// Package ir holds the typed operator tree the instantiator builds from a
// raw sexpr.Node tree, and the Report type the interpreter uses to bubble
// non-local control transfers (branches and returns) back up the call
// stack as plain values rather than panics.
package ir

import (
	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/wasm"
)

// Kind discriminates the operator tree's node variants.
type Kind int

const (
	KindConst Kind = iota
	KindUnOp
	KindBinOp
	KindTestOp
	KindRelOp
	KindConvertOp
	KindLocalGet
	KindLocalSet
	KindLocalTee
	KindGlobalGet
	KindGlobalSet
	KindMemoryLoad
	KindMemoryStore
	KindMemorySize
	KindMemoryGrow
	KindBlock
	KindLoop
	KindIf
	KindBr
	KindBrIf
	KindBrTable
	KindReturn
	KindCall
	KindCallIndirect
	KindDrop
	KindSelect
	KindUnreachable
	KindNop
)

// Node is one operator in the validated, typed instruction tree. Fields
// are populated according to Kind; unused fields stay zero.
type Node struct {
	Kind Kind
	Line int

	// Const
	Value wasm.Value

	// UnOp/BinOp/TestOp/RelOp/ConvertOp: the operand/result type and the
	// specific operator name, e.g. Type=I32, Op="add".
	Type api.ValueType
	Op   string

	// ConvertOp: the source type being converted from, e.g.
	// i32.trunc_f64_s has Type=I32 (result), SrcType=F64 (operand).
	SrcType api.ValueType

	// LocalGet/LocalSet/LocalTee, GlobalGet/GlobalSet, Call: the resolved
	// index.
	Index int

	// MemoryLoad/MemoryStore: byte offset and alignment immediates, and
	// the value type being loaded/stored. MemBytes is the access width in
	// bytes (narrower than the value type for load8_s/load16_u/store8 and
	// friends); Signed selects sign- over zero-extension on narrow loads.
	Offset   uint32
	Align    uint32
	MemBytes int
	Signed   bool

	// Block/Loop/If: declared result types and the body node lists.
	ResultTypes []api.ValueType
	Body        []*Node
	Then        []*Node
	Else        []*Node

	// Br/BrIf: relative label depth.
	Target int

	// BrTable: relative label depths plus the trailing default.
	Targets []int
	Default int

	// CallIndirect: the expected signature, resolved from a (type ...) use.
	Signature wasm.FunctionType
}

// Report is the value every body-evaluating function returns: zero value
// means "fell through normally, results on the operand stack." Break
// means a branch is propagating outward looking for its label; Return
// means a `return` or an implicit function-end-with-return is unwinding
// all the way to the caller.
type Report struct {
	Break   bool
	Return  bool
	Target  int // remaining label depth to unwind, valid when Break
	Trapped error
}

// Normal is the zero Report: execution reached the end of the node list
// without branching or returning.
var Normal = Report{}

// IsSignal reports whether r represents any non-local exit (branch,
// return, or trap) that the caller must propagate rather than continue
// past.
func (r Report) IsSignal() bool {
	return r.Break || r.Return || r.Trapped != nil
}
