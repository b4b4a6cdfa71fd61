// Package wasm holds the runtime data model shared by the instantiator and
// the interpreter: typed values, linear memory, locals, globals, and the
// function registry.
package wasm

import (
	"math"

	"github.com/watconform/watconform/api"
)

// Value is a tagged bit-pattern, the uniform representation for i32/i64/f32/f64/v128
// operands on the stack. Integers store two's-complement bits; Bits for f32
// holds the 32-bit IEEE-754 pattern zero-extended into the 64-bit word.
type Value struct {
	Type api.ValueType
	Bits uint64
}

func I32(v int32) Value { return Value{Type: api.ValueTypeI32, Bits: uint64(uint32(v))} }
func I64(v int64) Value { return Value{Type: api.ValueTypeI64, Bits: uint64(v)} }
func F32(v float32) Value {
	return Value{Type: api.ValueTypeF32, Bits: uint64(math.Float32bits(v))}
}
func F64(v float64) Value { return Value{Type: api.ValueTypeF64, Bits: math.Float64bits(v)} }

// I32 returns v's low 32 bits as a signed integer.
func (v Value) I32() int32 { return int32(uint32(v.Bits)) }

// U32 returns v's low 32 bits reinterpreted as an unsigned integer.
func (v Value) U32() uint32 { return uint32(v.Bits) }

// I64 returns v's bits as a signed 64-bit integer.
func (v Value) I64() int64 { return int64(v.Bits) }

// U64 is the unsigned_value view of an i64.
func (v Value) U64() uint64 { return v.Bits }

// F32 reinterprets v's low 32 bits as a float32.
func (v Value) F32() float32 { return math.Float32frombits(uint32(v.Bits)) }

// F64 reinterprets v's bits as a float64.
func (v Value) F64() float64 { return math.Float64frombits(v.Bits) }

// IsZero reports whether the operand's numeric value is zero, used by
// control-flow operators that pop a boolean i32 condition.
func (v Value) IsZero() bool { return v.Bits == 0 }

// Equal is bit-identical equality on the underlying representation:
// signs, NaN payloads, and zero signs all distinguish.
func (v Value) Equal(other Value) bool {
	return v.Type == other.Type && v.Bits == other.Bits
}

// ZeroValue returns the additive identity for t, used to initialize declared
// locals.
func ZeroValue(t api.ValueType) Value {
	return Value{Type: t, Bits: 0}
}
