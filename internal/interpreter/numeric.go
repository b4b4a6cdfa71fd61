package interpreter

import (
	"math"
	"math/bits"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/ir"
	"github.com/watconform/watconform/internal/moremath"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// evalNumeric dispatches unary/binary/comparison/conversion operators.
// Integer semantics are bit-exact: two's-complement wrapping, the
// signed/unsigned split, and math/bits for rotate/clz/ctz/popcnt.
func evalNumeric(n *ir.Node, f *frame) ir.Report {
	switch n.Kind {
	case ir.KindUnOp:
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		v, err := unop(n.Type, n.Op, a)
		if err != nil {
			return ir.Report{Trapped: err}
		}
		f.stack.Push(v)
		return ir.Normal

	case ir.KindTestOp:
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		f.stack.Push(wasm.I32(boolI32(a.IsZero())))
		return ir.Normal

	case ir.KindRelOp:
		b, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		res, err := relop(n.Type, n.Op, a, b)
		if err != nil {
			return ir.Report{Trapped: err}
		}
		f.stack.Push(wasm.I32(boolI32(res)))
		return ir.Normal

	case ir.KindBinOp:
		b, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		v, err := binop(n.Type, n.Op, a, b)
		if err != nil {
			return ir.Report{Trapped: err}
		}
		f.stack.Push(v)
		return ir.Normal

	case ir.KindConvertOp:
		a, ok := f.stack.Pop()
		if !ok {
			return trap(watruntime.ErrStackEmpty, n.Op)
		}
		v, err := convertop(n.Type, n.SrcType, n.Op, a)
		if err != nil {
			return ir.Report{Trapped: err}
		}
		f.stack.Push(v)
		return ir.Normal
	}
	return trap(watruntime.ErrInvalidSyntax, "numeric")
}

func boolI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func unop(t api.ValueType, op string, a wasm.Value) (wasm.Value, error) {
	switch t {
	case api.ValueTypeI32:
		v := a.U32()
		switch op {
		case "clz":
			return wasm.I32(int32(bits.LeadingZeros32(v))), nil
		case "ctz":
			return wasm.I32(int32(bits.TrailingZeros32(v))), nil
		case "popcnt":
			return wasm.I32(int32(bits.OnesCount32(v))), nil
		}
	case api.ValueTypeI64:
		v := a.U64()
		switch op {
		case "clz":
			return wasm.I64(int64(bits.LeadingZeros64(v))), nil
		case "ctz":
			return wasm.I64(int64(bits.TrailingZeros64(v))), nil
		case "popcnt":
			return wasm.I64(int64(bits.OnesCount64(v))), nil
		}
	case api.ValueTypeF32:
		v := a.F32()
		switch op {
		case "abs":
			return wasm.F32(float32(math.Abs(float64(v)))), nil
		case "neg":
			return wasm.F32(-v), nil
		case "sqrt":
			return wasm.F32(float32(math.Sqrt(float64(v)))), nil
		case "ceil":
			return wasm.F32(float32(math.Ceil(float64(v)))), nil
		case "floor":
			return wasm.F32(float32(math.Floor(float64(v)))), nil
		case "trunc":
			return wasm.F32(float32(math.Trunc(float64(v)))), nil
		case "nearest":
			return wasm.F32(float32(moremath.WasmCompatNearest(float64(v)))), nil
		}
	case api.ValueTypeF64:
		v := a.F64()
		switch op {
		case "abs":
			return wasm.F64(math.Abs(v)), nil
		case "neg":
			return wasm.F64(-v), nil
		case "sqrt":
			return wasm.F64(math.Sqrt(v)), nil
		case "ceil":
			return wasm.F64(math.Ceil(v)), nil
		case "floor":
			return wasm.F64(math.Floor(v)), nil
		case "trunc":
			return wasm.F64(math.Trunc(v)), nil
		case "nearest":
			return wasm.F64(moremath.WasmCompatNearest(v)), nil
		}
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func binop(t api.ValueType, op string, a, b wasm.Value) (wasm.Value, error) {
	switch t {
	case api.ValueTypeI32:
		return binopI32(op, a.I32(), a.U32(), b.I32(), b.U32())
	case api.ValueTypeI64:
		return binopI64(op, a.I64(), a.U64(), b.I64(), b.U64())
	case api.ValueTypeF32:
		return binopF32(op, a.F32(), b.F32())
	case api.ValueTypeF64:
		return binopF64(op, a.F64(), b.F64())
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func binopI32(op string, as int32, au uint32, bs int32, bu uint32) (wasm.Value, error) {
	switch op {
	case "add":
		return wasm.I32(as + bs), nil
	case "sub":
		return wasm.I32(as - bs), nil
	case "mul":
		return wasm.I32(as * bs), nil
	case "div_s":
		if bs == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		if as == math.MinInt32 && bs == -1 {
			return wasm.Value{}, watruntime.ErrIntegerOverflow
		}
		return wasm.I32(as / bs), nil
	case "div_u":
		if bu == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I32(int32(au / bu)), nil
	case "rem_s":
		if bs == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I32(as % bs), nil
	case "rem_u":
		if bu == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I32(int32(au % bu)), nil
	case "and":
		return wasm.I32(int32(au & bu)), nil
	case "or":
		return wasm.I32(int32(au | bu)), nil
	case "xor":
		return wasm.I32(int32(au ^ bu)), nil
	case "shl":
		return wasm.I32(int32(au << (bu % 32))), nil
	case "shr_s":
		return wasm.I32(as >> (bu % 32)), nil
	case "shr_u":
		return wasm.I32(int32(au >> (bu % 32))), nil
	case "rotl":
		return wasm.I32(int32(bits.RotateLeft32(au, int(bu%32)))), nil
	case "rotr":
		return wasm.I32(int32(bits.RotateLeft32(au, -int(bu%32)))), nil
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func binopI64(op string, as int64, au uint64, bs int64, bu uint64) (wasm.Value, error) {
	switch op {
	case "add":
		return wasm.I64(as + bs), nil
	case "sub":
		return wasm.I64(as - bs), nil
	case "mul":
		return wasm.I64(as * bs), nil
	case "div_s":
		if bs == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		if as == math.MinInt64 && bs == -1 {
			return wasm.Value{}, watruntime.ErrIntegerOverflow
		}
		return wasm.I64(as / bs), nil
	case "div_u":
		if bu == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I64(int64(au / bu)), nil
	case "rem_s":
		if bs == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I64(as % bs), nil
	case "rem_u":
		if bu == 0 {
			return wasm.Value{}, watruntime.ErrDivisionByZero
		}
		return wasm.I64(int64(au % bu)), nil
	case "and":
		return wasm.I64(int64(au & bu)), nil
	case "or":
		return wasm.I64(int64(au | bu)), nil
	case "xor":
		return wasm.I64(int64(au ^ bu)), nil
	case "shl":
		return wasm.I64(int64(au << (bu % 64))), nil
	case "shr_s":
		return wasm.I64(as >> (bu % 64)), nil
	case "shr_u":
		return wasm.I64(int64(au >> (bu % 64))), nil
	case "rotl":
		return wasm.I64(int64(bits.RotateLeft64(au, int(bu%64)))), nil
	case "rotr":
		return wasm.I64(int64(bits.RotateLeft64(au, -int(bu%64)))), nil
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func binopF32(op string, a, b float32) (wasm.Value, error) {
	switch op {
	case "add":
		return wasm.F32(a + b), nil
	case "sub":
		return wasm.F32(a - b), nil
	case "mul":
		return wasm.F32(a * b), nil
	case "div":
		return wasm.F32(a / b), nil
	case "min":
		return wasm.F32(float32(moremath.WasmCompatMin(float64(a), float64(b)))), nil
	case "max":
		return wasm.F32(float32(moremath.WasmCompatMax(float64(a), float64(b)))), nil
	case "copysign":
		return wasm.F32(float32(math.Copysign(float64(a), float64(b)))), nil
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func binopF64(op string, a, b float64) (wasm.Value, error) {
	switch op {
	case "add":
		return wasm.F64(a + b), nil
	case "sub":
		return wasm.F64(a - b), nil
	case "mul":
		return wasm.F64(a * b), nil
	case "div":
		return wasm.F64(a / b), nil
	case "min":
		return wasm.F64(moremath.WasmCompatMin(a, b)), nil
	case "max":
		return wasm.F64(moremath.WasmCompatMax(a, b)), nil
	case "copysign":
		return wasm.F64(math.Copysign(a, b)), nil
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func relop(t api.ValueType, op string, a, b wasm.Value) (bool, error) {
	switch t {
	case api.ValueTypeI32:
		return relopInt(op, int64(a.I32()), uint64(a.U32()), int64(b.I32()), uint64(b.U32()))
	case api.ValueTypeI64:
		return relopInt(op, a.I64(), a.U64(), b.I64(), b.U64())
	case api.ValueTypeF32:
		return relopFloat(op, float64(a.F32()), float64(b.F32()))
	case api.ValueTypeF64:
		return relopFloat(op, a.F64(), b.F64())
	}
	return false, watruntime.ErrInvalidNumberType
}

func relopInt(op string, as int64, au uint64, bs int64, bu uint64) (bool, error) {
	switch op {
	case "eq":
		return as == bs, nil
	case "ne":
		return as != bs, nil
	case "lt_s":
		return as < bs, nil
	case "lt_u":
		return au < bu, nil
	case "gt_s":
		return as > bs, nil
	case "gt_u":
		return au > bu, nil
	case "le_s":
		return as <= bs, nil
	case "le_u":
		return au <= bu, nil
	case "ge_s":
		return as >= bs, nil
	case "ge_u":
		return au >= bu, nil
	}
	return false, watruntime.ErrInvalidNumberType
}

func relopFloat(op string, a, b float64) (bool, error) {
	switch op {
	case "eq":
		return a == b, nil
	case "ne":
		return a != b, nil
	case "lt":
		return a < b, nil
	case "gt":
		return a > b, nil
	case "le":
		return a <= b, nil
	case "ge":
		return a >= b, nil
	}
	return false, watruntime.ErrInvalidNumberType
}

func convertop(dst, src api.ValueType, op string, a wasm.Value) (wasm.Value, error) {
	switch op {
	case "wrap":
		return wasm.I32(int32(a.U64())), nil
	case "extend_s":
		return wasm.I64(int64(a.I32())), nil
	case "extend_u":
		return wasm.I64(int64(a.U32())), nil
	case "extend8_s":
		if dst == api.ValueTypeI32 {
			return wasm.I32(int32(int8(a.U32()))), nil
		}
		return wasm.I64(int64(int8(a.U64()))), nil
	case "extend16_s":
		if dst == api.ValueTypeI32 {
			return wasm.I32(int32(int16(a.U32()))), nil
		}
		return wasm.I64(int64(int16(a.U64()))), nil
	case "extend32_s":
		return wasm.I64(int64(int32(a.U64()))), nil
	case "trunc_s", "trunc_u":
		return truncFloatToInt(dst, src, op == "trunc_u", a)
	case "convert_s":
		return convertIntToFloat(dst, src, true, a)
	case "convert_u":
		return convertIntToFloat(dst, src, false, a)
	case "demote":
		return wasm.F32(float32(a.F64())), nil
	case "promote":
		return wasm.F64(float64(a.F32())), nil
	case "reinterpret":
		return wasm.Value{Type: dst, Bits: a.Bits}, nil
	}
	return wasm.Value{}, watruntime.ErrInvalidNumberType
}

func truncFloatToInt(dst, src api.ValueType, unsigned bool, a wasm.Value) (wasm.Value, error) {
	var f float64
	if src == api.ValueTypeF32 {
		f = float64(a.F32())
	} else {
		f = a.F64()
	}
	if math.IsNaN(f) {
		return wasm.Value{}, watruntime.ErrInvalidNumberType
	}
	t := math.Trunc(f)
	if dst == api.ValueTypeI32 {
		if unsigned {
			if t < 0 || t > math.MaxUint32 {
				return wasm.Value{}, watruntime.ErrIntegerOverflow
			}
			return wasm.I32(int32(uint32(t))), nil
		}
		if t < math.MinInt32 || t > math.MaxInt32 {
			return wasm.Value{}, watruntime.ErrIntegerOverflow
		}
		return wasm.I32(int32(t)), nil
	}
	if unsigned {
		if t < 0 || t >= math.MaxUint64 {
			return wasm.Value{}, watruntime.ErrIntegerOverflow
		}
		return wasm.I64(int64(uint64(t))), nil
	}
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return wasm.Value{}, watruntime.ErrIntegerOverflow
	}
	return wasm.I64(int64(t)), nil
}

func convertIntToFloat(dst, src api.ValueType, signed bool, a wasm.Value) (wasm.Value, error) {
	var f float64
	if src == api.ValueTypeI32 {
		if signed {
			f = float64(a.I32())
		} else {
			f = float64(a.U32())
		}
	} else {
		if signed {
			f = float64(a.I64())
		} else {
			f = float64(a.U64())
		}
	}
	if dst == api.ValueTypeF32 {
		return wasm.F32(float32(f)), nil
	}
	return wasm.F64(f), nil
}
