package wasm

import (
	"math"
	"testing"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/require"
)

func TestValueSignedUnsignedViews(t *testing.T) {
	v := I32(-1)
	require.Equal(t, int32(-1), v.I32())
	require.Equal(t, uint32(0xFFFFFFFF), v.U32())
}

func TestValueFloatRoundTrip(t *testing.T) {
	v := F64(1.5)
	require.Equal(t, 1.5, v.F64())
	require.Equal(t, api.ValueTypeF64, v.Type)
}

func TestValueEqualIsBitExact(t *testing.T) {
	require.True(t, I32(5).Equal(I32(5)))
	require.True(t, !I32(5).Equal(I64(5)), "different types are never equal")
	negZero := float32(math.Copysign(0, -1))
	require.True(t, !F32(0).Equal(F32(negZero)), "positive and negative zero differ in sign bit")
}

func TestZeroValue(t *testing.T) {
	require.Equal(t, uint64(0), ZeroValue(api.ValueTypeI64).Bits)
}
