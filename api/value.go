// Package api holds the value-type vocabulary shared between the parser,
// the instantiator, and the interpreter.
package api

import "math"

// ValueType is a numeric type used by the text-format value model. V128
// never carries a runtime value in this interpreter — it is accepted at
// validation time only.
type ValueType byte

const (
	ValueTypeI32 ValueType = iota
	ValueTypeI64
	ValueTypeF32
	ValueTypeF64
	ValueTypeV128
)

// String returns the WebAssembly text format name of t.
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	default:
		return "unknown"
	}
}

// ParseValueType maps a text-format type name to its ValueType, returning
// false if s is not one of i32, i64, f32, f64, v128.
func ParseValueType(s string) (ValueType, bool) {
	switch s {
	case "i32":
		return ValueTypeI32, true
	case "i64":
		return ValueTypeI64, true
	case "f32":
		return ValueTypeF32, true
	case "f64":
		return ValueTypeF64, true
	case "v128":
		return ValueTypeV128, true
	default:
		return 0, false
	}
}

// EncodeI32 encodes a signed 32-bit integer as its two's-complement bit
// pattern, zero-extended into a uint64 operand-stack slot.
func EncodeI32(v int32) uint64 { return uint64(uint32(v)) }

// EncodeI64 encodes a signed 64-bit integer as its two's-complement bit
// pattern.
func EncodeI64(v int64) uint64 { return uint64(v) }

// EncodeF32 encodes a float32 as its IEEE-754 bit pattern, zero-extended.
func EncodeF32(v float32) uint64 { return uint64(math.Float32bits(v)) }

// DecodeF32 reinterprets the low 32 bits of v as a float32.
func DecodeF32(v uint64) float32 { return math.Float32frombits(uint32(v)) }

// EncodeF64 encodes a float64 as its IEEE-754 bit pattern.
func EncodeF64(v float64) uint64 { return math.Float64bits(v) }

// DecodeF64 reinterprets v as a float64.
func DecodeF64(v uint64) float64 { return math.Float64frombits(v) }
