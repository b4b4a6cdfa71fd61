package interpreter

import (
	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/ir"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

func evalLoad(n *ir.Node, f *frame) ir.Report {
	if f.m == nil || f.m.Memory == nil {
		return trap(watruntime.ErrUndefinedElement, "no memory in scope")
	}
	addr, ok := f.stack.Pop()
	if !ok {
		return trap(watruntime.ErrStackEmpty, "load")
	}
	bits, ok := f.m.Memory.ReadBits(addr.U32(), n.Offset, n.MemBytes)
	if !ok {
		return trap(watruntime.ErrUndefinedElement, "out of bounds memory access")
	}
	if n.Signed {
		bits = signExtend(bits, n.MemBytes)
		if n.Type == api.ValueTypeI32 {
			bits = uint64(uint32(bits))
		}
	}
	f.stack.Push(wasm.Value{Type: n.Type, Bits: bits})
	return ir.Normal
}

// signExtend widens the low width bytes of bits to a full 64-bit
// two's-complement value.
func signExtend(bits uint64, width int) uint64 {
	shift := 64 - 8*uint(width)
	return uint64(int64(bits<<shift) >> shift)
}

func evalStore(n *ir.Node, f *frame) ir.Report {
	if f.m == nil || f.m.Memory == nil {
		return trap(watruntime.ErrUndefinedElement, "no memory in scope")
	}
	val, ok := f.stack.Pop()
	if !ok {
		return trap(watruntime.ErrStackEmpty, "store")
	}
	addr, ok := f.stack.Pop()
	if !ok {
		return trap(watruntime.ErrStackEmpty, "store")
	}
	if !f.m.Memory.WriteBits(addr.U32(), n.Offset, val.Bits, n.MemBytes) {
		return trap(watruntime.ErrUndefinedElement, "out of bounds memory access")
	}
	return ir.Normal
}
