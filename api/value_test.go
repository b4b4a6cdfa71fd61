package api

import (
	"testing"

	"github.com/watconform/watconform/internal/require"
)

func TestValueTypeString(t *testing.T) {
	tests := []struct {
		t    ValueType
		want string
	}{
		{ValueTypeI32, "i32"},
		{ValueTypeI64, "i64"},
		{ValueTypeF32, "f32"},
		{ValueTypeF64, "f64"},
		{ValueTypeV128, "v128"},
		{ValueType(99), "unknown"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.t.String())
	}
}

func TestParseValueType(t *testing.T) {
	for _, name := range []string{"i32", "i64", "f32", "f64", "v128"} {
		_, ok := ParseValueType(name)
		require.True(t, ok, "expected %s to parse", name)
	}
	_, ok := ParseValueType("funcref")
	require.True(t, !ok, "expected funcref to fail parsing")
}

func TestEncodeDecodeFloat32RoundTrip(t *testing.T) {
	bits := EncodeF32(3.5)
	require.Equal(t, float32(3.5), DecodeF32(bits))
}

func TestEncodeDecodeFloat64RoundTrip(t *testing.T) {
	bits := EncodeF64(-2.25)
	require.Equal(t, float64(-2.25), DecodeF64(bits))
}
