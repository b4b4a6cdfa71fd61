package instantiate

import (
	"strings"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/ir"
)

// opInfo describes one dotted instruction name (e.g. "i32.add") for the
// purpose of building its ir.Node and validating its operand/result
// arity. The full numeric operator set is expanded into a single lookup
// table at init so the builder dispatches on the head token alone.
type opInfo struct {
	kind     ir.Kind
	op       string
	ty       api.ValueType
	srcTy    api.ValueType
	operands int // number of popped operands, for UnOp/BinOp/TestOp/RelOp/ConvertOp
}

var intTypes = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64}
var floatTypes = []api.ValueType{api.ValueTypeF32, api.ValueTypeF64}
var allTypes = []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64}

var intUnary = []string{"clz", "ctz", "popcnt"}
var floatUnary = []string{"abs", "neg", "sqrt", "ceil", "floor", "trunc", "nearest"}
var commonBinary = []string{"add", "sub", "mul"}
var intBinary = []string{"div_s", "div_u", "rem_s", "rem_u", "and", "or", "xor", "shl", "shr_s", "shr_u", "rotl", "rotr"}
var floatBinary = []string{"div", "min", "max", "copysign"}
var commonRel = []string{"eq", "ne"}
var intRel = []string{"lt_s", "lt_u", "gt_s", "gt_u", "le_s", "le_u", "ge_s", "ge_u"}
var floatRel = []string{"lt", "gt", "le", "ge"}

var opTable map[string]opInfo

func init() {
	opTable = make(map[string]opInfo)
	for _, t := range intTypes {
		for _, name := range intUnary {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindUnOp, op: name, ty: t, operands: 1}
		}
		opTable[t.String()+".eqz"] = opInfo{kind: ir.KindTestOp, op: "eqz", ty: t, operands: 1}
		for _, name := range intRel {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindRelOp, op: name, ty: t, operands: 2}
		}
		for _, name := range intBinary {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindBinOp, op: name, ty: t, operands: 2}
		}
	}
	for _, t := range floatTypes {
		for _, name := range floatUnary {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindUnOp, op: name, ty: t, operands: 1}
		}
		for _, name := range floatRel {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindRelOp, op: name, ty: t, operands: 2}
		}
		for _, name := range floatBinary {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindBinOp, op: name, ty: t, operands: 2}
		}
	}
	for _, t := range allTypes {
		for _, name := range commonBinary {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindBinOp, op: name, ty: t, operands: 2}
		}
		for _, name := range commonRel {
			opTable[t.String()+"."+name] = opInfo{kind: ir.KindRelOp, op: name, ty: t, operands: 2}
		}
	}

	conv := []struct {
		name    string
		dst     api.ValueType
		src     api.ValueType
		op      string
	}{
		{"i32.wrap_i64", api.ValueTypeI32, api.ValueTypeI64, "wrap"},
		{"i64.extend_i32_s", api.ValueTypeI64, api.ValueTypeI32, "extend_s"},
		{"i64.extend_i32_u", api.ValueTypeI64, api.ValueTypeI32, "extend_u"},
		{"i32.extend8_s", api.ValueTypeI32, api.ValueTypeI32, "extend8_s"},
		{"i32.extend16_s", api.ValueTypeI32, api.ValueTypeI32, "extend16_s"},
		{"i64.extend8_s", api.ValueTypeI64, api.ValueTypeI64, "extend8_s"},
		{"i64.extend16_s", api.ValueTypeI64, api.ValueTypeI64, "extend16_s"},
		{"i64.extend32_s", api.ValueTypeI64, api.ValueTypeI64, "extend32_s"},
		{"i32.trunc_f32_s", api.ValueTypeI32, api.ValueTypeF32, "trunc_s"},
		{"i32.trunc_f32_u", api.ValueTypeI32, api.ValueTypeF32, "trunc_u"},
		{"i32.trunc_f64_s", api.ValueTypeI32, api.ValueTypeF64, "trunc_s"},
		{"i32.trunc_f64_u", api.ValueTypeI32, api.ValueTypeF64, "trunc_u"},
		{"i64.trunc_f32_s", api.ValueTypeI64, api.ValueTypeF32, "trunc_s"},
		{"i64.trunc_f32_u", api.ValueTypeI64, api.ValueTypeF32, "trunc_u"},
		{"i64.trunc_f64_s", api.ValueTypeI64, api.ValueTypeF64, "trunc_s"},
		{"i64.trunc_f64_u", api.ValueTypeI64, api.ValueTypeF64, "trunc_u"},
		{"f32.convert_i32_s", api.ValueTypeF32, api.ValueTypeI32, "convert_s"},
		{"f32.convert_i32_u", api.ValueTypeF32, api.ValueTypeI32, "convert_u"},
		{"f32.convert_i64_s", api.ValueTypeF32, api.ValueTypeI64, "convert_s"},
		{"f32.convert_i64_u", api.ValueTypeF32, api.ValueTypeI64, "convert_u"},
		{"f64.convert_i32_s", api.ValueTypeF64, api.ValueTypeI32, "convert_s"},
		{"f64.convert_i32_u", api.ValueTypeF64, api.ValueTypeI32, "convert_u"},
		{"f64.convert_i64_s", api.ValueTypeF64, api.ValueTypeI64, "convert_s"},
		{"f64.convert_i64_u", api.ValueTypeF64, api.ValueTypeI64, "convert_u"},
		{"f32.demote_f64", api.ValueTypeF32, api.ValueTypeF64, "demote"},
		{"f64.promote_f32", api.ValueTypeF64, api.ValueTypeF32, "promote"},
		{"i32.reinterpret_f32", api.ValueTypeI32, api.ValueTypeF32, "reinterpret"},
		{"i64.reinterpret_f64", api.ValueTypeI64, api.ValueTypeF64, "reinterpret"},
		{"f32.reinterpret_i32", api.ValueTypeF32, api.ValueTypeI32, "reinterpret"},
		{"f64.reinterpret_i64", api.ValueTypeF64, api.ValueTypeI64, "reinterpret"},
	}
	for _, c := range conv {
		opTable[c.name] = opInfo{kind: ir.KindConvertOp, op: c.op, ty: c.dst, srcTy: c.src, operands: 1}
	}
}

// classify looks up head in opTable. ok is false for non-numeric
// instructions (locals, memory, control flow), which the builder handles
// directly by head-token switch.
func classify(head string) (opInfo, bool) {
	info, ok := opTable[head]
	return info, ok
}

// memOpInfo describes one *.load*/*.store* instruction: the value type it
// pushes or pops, the access width in bytes, and whether a narrow load
// sign-extends.
type memOpInfo struct {
	load   bool
	store  bool
	ty     api.ValueType
	bytes  int
	signed bool
}

func valueTypeBytes(t api.ValueType) int {
	switch t {
	case api.ValueTypeI32, api.ValueTypeF32:
		return 4
	default:
		return 8
	}
}

// isMemoryOp reports whether head is one of the *.load*/*.store* family,
// including the narrow integer variants (i32.load8_s, i64.store32, ...).
// Float types only permit the full-width forms.
func isMemoryOp(head string) (memOpInfo, bool) {
	dot := strings.IndexByte(head, '.')
	if dot < 0 {
		return memOpInfo{}, false
	}
	tyStr, rest := head[:dot], head[dot+1:]
	t, ok := api.ParseValueType(tyStr)
	if !ok || t == api.ValueTypeV128 {
		return memOpInfo{}, false
	}
	if rest == "load" {
		return memOpInfo{load: true, ty: t, bytes: valueTypeBytes(t)}, true
	}
	if rest == "store" {
		return memOpInfo{store: true, ty: t, bytes: valueTypeBytes(t)}, true
	}
	if t != api.ValueTypeI32 && t != api.ValueTypeI64 {
		return memOpInfo{}, false
	}
	narrowLoads := map[string]memOpInfo{
		"load8_s":  {load: true, bytes: 1, signed: true},
		"load8_u":  {load: true, bytes: 1},
		"load16_s": {load: true, bytes: 2, signed: true},
		"load16_u": {load: true, bytes: 2},
	}
	narrowStores := map[string]memOpInfo{
		"store8":  {store: true, bytes: 1},
		"store16": {store: true, bytes: 2},
	}
	if t == api.ValueTypeI64 {
		narrowLoads["load32_s"] = memOpInfo{load: true, bytes: 4, signed: true}
		narrowLoads["load32_u"] = memOpInfo{load: true, bytes: 4}
		narrowStores["store32"] = memOpInfo{store: true, bytes: 4}
	}
	if info, ok := narrowLoads[rest]; ok {
		info.ty = t
		return info, true
	}
	if info, ok := narrowStores[rest]; ok {
		info.ty = t
		return info, true
	}
	return memOpInfo{}, false
}
